package api_router

import (
	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	pkgapp "github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
)

// UserHandler user API router handler
// UserHandler 用户 API 路由处理器
// Uses App Container to inject dependencies, supports unified error handling
// 使用 App Container 注入依赖，支持统一错误处理
type UserHandler struct {
	*Handler
}

// NewUserHandler creates UserHandler instance
// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(a),
	}
}

// Register user registration
// @Summary User registration
// @Description 处理用户注册 HTTP 请求，验证参数并调用 UserService。注册功能可能在服务器设置中被禁用。
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserRegisterRequest true "Register Parameters"
// @Success 201 {object} pkgapp.Res{data=dto.UserRegisterDTO} "Created"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / User Already Exists"
// @Failure 403 {object} pkgapp.Res "Registration Disabled"
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	params := &dto.UserRegisterRequest{}
	if !h.bind(c, "UserHandler.Register", params) {
		return
	}

	userDTO, err := h.App.UserService.Register(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "UserHandler.Register", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Created.WithData(userDTO))
}

// Login user login
// @Summary User login
// @Description 处理用户登录 HTTP 请求，返回 access / refresh 凭证。
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserLoginRequest true "Login Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.TokenPairDTO} "Success"
// @Failure 401 {object} pkgapp.Res "Invalid Credentials"
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	params := &dto.UserLoginRequest{}
	if !h.bind(c, "UserHandler.Login", params) {
		return
	}

	pair, err := h.App.UserService.Login(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "UserHandler.Login", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(pair))
}

// Refresh exchanges a refresh token for a new access token
// @Summary Refresh access token
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserRefreshRequest true "Refresh Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.AccessTokenDTO} "Success"
// @Failure 401 {object} pkgapp.Res "Invalid Refresh Token"
// @Router /auth/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	params := &dto.UserRefreshRequest{}
	if !h.bind(c, "UserHandler.Refresh", params) {
		return
	}

	access, err := h.App.UserService.Refresh(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "UserHandler.Refresh", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(access))
}

// UserChangePassword changes user password
// @Summary Change user password
// @Tags User
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.UserChangePasswordRequest true "Change Password Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Old Password Incorrect"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /user/change_password [post]
func (h *UserHandler) UserChangePassword(c *gin.Context) {
	uid, ok := h.uid(c, "UserHandler.UserChangePassword")
	if !ok {
		return
	}

	params := &dto.UserChangePasswordRequest{}
	if !h.bind(c, "UserHandler.UserChangePassword", params) {
		return
	}

	if err := h.App.UserService.ChangePassword(c.Request.Context(), uid, params); err != nil {
		h.fail(c, "UserHandler.UserChangePassword", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success)
}

// UserInfo retrieves user info
// @Summary Get user info
// @Tags User
// @Produce json
// @Security UserAuthToken
// @Success 200 {object} pkgapp.Res{data=dto.UserDTO} "Success"
// @Failure 401 {object} pkgapp.Res "Unauthorized"
// @Router /user/info [get]
func (h *UserHandler) UserInfo(c *gin.Context) {
	uid, ok := h.uid(c, "UserHandler.UserInfo")
	if !ok {
		return
	}

	userDTO, err := h.App.UserService.GetInfo(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, "UserHandler.UserInfo", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}
