package dto

import "github.com/NguyenHai-LETI/Sync-Note/pkg/timex"

// UserRegisterRequest User registration request parameters
// 用户注册请求参数
type UserRegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// UserLoginRequest User login request parameters
// 用户登录请求参数
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserRefreshRequest Refresh token request parameters
// 刷新凭证请求参数
type UserRefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// UserChangePasswordRequest Request parameters for changing password
// 修改密码请求参数
type UserChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
}

// ---------------- DTO / Response ----------------

// UserRegisterDTO Registration response
// UserRegisterDTO 注册响应
type UserRegisterDTO struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	CreatedAt timex.Time `json:"created_at"`
}

// TokenPairDTO Login response
// TokenPairDTO 登录响应
type TokenPairDTO struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessTokenDTO Refresh response
// AccessTokenDTO 刷新响应
type AccessTokenDTO struct {
	Access string `json:"access"`
}

// UserDTO User data transfer object
// UserDTO 用户数据传输对象
type UserDTO struct {
	UID       int64      `json:"uid"`
	Email     string     `json:"email"`
	CreatedAt timex.Time `json:"created_at"`
	UpdatedAt timex.Time `json:"updated_at"`
}
