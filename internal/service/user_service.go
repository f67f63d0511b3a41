package service

import (
	"context"
	"errors"
	"strings"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
	apperrors "github.com/NguyenHai-LETI/Sync-Note/pkg/errors"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/timex"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/util"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// UserService 定义用户业务服务接口
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, params *dto.UserRegisterRequest) (*dto.UserRegisterDTO, error)

	// Login 用户登录，签发 access / refresh 凭证
	Login(ctx context.Context, params *dto.UserLoginRequest) (*dto.TokenPairDTO, error)

	// Refresh 使用 refresh 凭证换取新的 access 凭证
	Refresh(ctx context.Context, params *dto.UserRefreshRequest) (*dto.AccessTokenDTO, error)

	// ChangePassword 修改密码
	ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error

	// GetInfo 获取用户信息
	GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error)
}

// userService 实现 UserService 接口
type userService struct {
	userRepo     domain.UserRepository
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
	sf           singleflight.Group
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, tokenManager app.TokenManager, logger *zap.Logger, config *ServiceConfig) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		logger:       logger,
		config:       config,
	}
}

// Register 用户注册
func (s *userService) Register(ctx context.Context, params *dto.UserRegisterRequest) (*dto.UserRegisterDTO, error) {
	// 检查注册是否启用
	if s.config == nil || !s.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterIsDisable
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))

	// 同一邮箱的并发注册合并为一次写入，其余请求得到邮箱已存在
	executed := false
	v, err, _ := s.sf.Do("register:"+email, func() (interface{}, error) {
		executed = true
		if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
			return nil, code.ErrorUserEmailExists.WithField("email")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, repoError(err, code.ErrorDBQuery)
		}

		password, err := util.GeneratePasswordHash(params.Password)
		if err != nil {
			return nil, code.ErrorPasswordNotValid.WithField("password")
		}

		user, err := s.userRepo.Create(ctx, &domain.User{Email: email, Password: password})
		if err != nil {
			return nil, repoError(err, code.ErrorDBWrite)
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	if !executed {
		return nil, code.ErrorUserEmailExists.WithField("email")
	}

	user := v.(*domain.User)
	s.logger.Info("user registered", zap.Int64("uid", user.UID))

	return &dto.UserRegisterDTO{
		ID:        user.UID,
		Email:     user.Email,
		CreatedAt: timex.Time(user.CreatedAt),
	}, nil
}

// Login 用户登录
func (s *userService) Login(ctx context.Context, params *dto.UserLoginRequest) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(params.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// 安全考虑：不暴露用户是否存在，统一返回账号或密码错误
			return nil, code.ErrorUserLoginPasswordFailed
		}
		return nil, repoError(err, code.ErrorDBQuery)
	}

	if !user.IsActive() || !util.CheckPasswordHash(user.Password, params.Password) {
		return nil, code.ErrorUserLoginPasswordFailed
	}

	pair, err := s.tokenManager.GeneratePair(user.UID, user.Email)
	if err != nil {
		return nil, apperrors.New(code.ErrorTokenGenerate, err)
	}
	return &dto.TokenPairDTO{Access: pair.Access, Refresh: pair.Refresh}, nil
}

// Refresh 刷新 access 凭证，用户已不存在时 refresh 凭证同样失效
func (s *userService) Refresh(ctx context.Context, params *dto.UserRefreshRequest) (*dto.AccessTokenDTO, error) {
	claims, err := s.tokenManager.ParseRefresh(app.StripBearer(params.Refresh))
	if err != nil {
		return nil, code.ErrorInvalidRefreshToken
	}

	user, err := s.userRepo.GetByUID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorInvalidRefreshToken
		}
		return nil, repoError(err, code.ErrorDBQuery)
	}

	access, err := s.tokenManager.GenerateAccess(user.UID, user.Email)
	if err != nil {
		return nil, apperrors.New(code.ErrorTokenGenerate, err)
	}
	return &dto.AccessTokenDTO{Access: access}, nil
}

// ChangePassword 修改密码
func (s *userService) ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return code.ErrorInvalidUserAuthToken
		}
		return repoError(err, code.ErrorDBQuery)
	}

	// 验证旧密码
	if !util.CheckPasswordHash(user.Password, params.OldPassword) {
		return code.ErrorUserOldPassword.WithField("old_password")
	}

	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return code.ErrorPasswordNotValid.WithField("password")
	}

	return repoError(s.userRepo.UpdatePassword(ctx, password, uid), code.ErrorDBWrite)
}

// GetInfo 获取用户信息
func (s *userService) GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorInvalidUserAuthToken
		}
		return nil, repoError(err, code.ErrorDBQuery)
	}

	out := &dto.UserDTO{}
	if err := copier.Copy(out, user); err != nil {
		return nil, apperrors.New(code.ErrorServerInternal, err)
	}
	out.CreatedAt = timex.Time(user.CreatedAt)
	out.UpdatedAt = timex.Time(user.UpdatedAt)
	return out, nil
}
