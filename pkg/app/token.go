package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "sync-note"

const (
	// TokenTypeAccess marks an access token
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks a refresh token
	TokenTypeRefresh = "refresh"

	// UserTokenKey is the gin.Context key holding the authenticated *UserEntity
	UserTokenKey = "user_token"
)

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey     string        `yaml:"secret-key"`     // JWT 签名密钥
	Expiry        time.Duration `yaml:"expiry"`         // access token 过期时间，默认 1 天
	RefreshExpiry time.Duration `yaml:"refresh-expiry"` // refresh token 过期时间，默认 7 天
	Issuer        string        `yaml:"issuer"`         // Token 签发者
}

// TokenPair access and refresh tokens issued together
// TokenPair 一同签发的 access 与 refresh token
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	GeneratePair(uid int64, email string) (TokenPair, error)
	GenerateAccess(uid int64, email string) (string, error)
	ParseAccess(token string) (*UserEntity, error)
	ParseRefresh(token string) (*UserEntity, error)
}

// tokenManager 实现 TokenManager 接口
type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 24 * time.Hour
	}
	if cfg.RefreshExpiry == 0 {
		cfg.RefreshExpiry = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// UserEntity represents the claims stored in the JWT.
type UserEntity struct {
	UID       int64  `json:"uid"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// GeneratePair 生成 access + refresh token
func (t *tokenManager) GeneratePair(uid int64, email string) (TokenPair, error) {
	access, err := t.generate(uid, email, TokenTypeAccess, t.config.Expiry)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.generate(uid, email, TokenTypeRefresh, t.config.RefreshExpiry)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// GenerateAccess 生成 access token
func (t *tokenManager) GenerateAccess(uid int64, email string) (string, error) {
	return t.generate(uid, email, TokenTypeAccess, t.config.Expiry)
}

func (t *tokenManager) generate(uid int64, email, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &UserEntity{
		UID:       uid,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   strconv.FormatInt(uid, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.config.SecretKey))
}

// ParseAccess 解析 access token，refresh token 会被拒绝
func (t *tokenManager) ParseAccess(token string) (*UserEntity, error) {
	return t.parse(token, TokenTypeAccess)
}

// ParseRefresh 解析 refresh token，access token 会被拒绝
func (t *tokenManager) ParseRefresh(token string) (*UserEntity, error) {
	return t.parse(token, TokenTypeRefresh)
}

func (t *tokenManager) parse(token, tokenType string) (*UserEntity, error) {
	claims := &UserEntity{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.config.SecretKey), nil
	}, jwt.WithIssuer(t.config.Issuer))

	if err != nil {
		return nil, err
	}

	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("token type %q, want %q", claims.TokenType, tokenType)
	}

	if claims.UID <= 0 {
		return nil, fmt.Errorf("token has no user")
	}

	return claims, nil
}

// StripBearer removes an optional "Bearer " prefix
// StripBearer 去除可选的 "Bearer " 前缀
func StripBearer(token string) string {
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}

// GetUID extracts the user ID from the request context.
func GetUID(ctx *gin.Context) (out int64) {
	user, exist := ctx.Get(UserTokenKey)
	if exist {
		if userEntity, ok := user.(*UserEntity); ok {
			out = userEntity.UID
		}
	}
	return
}

// GetUser extracts the authenticated claims from the request context.
func GetUser(ctx *gin.Context) *UserEntity {
	user, exist := ctx.Get(UserTokenKey)
	if !exist {
		return nil
	}
	userEntity, _ := user.(*UserEntity)
	return userEntity
}
