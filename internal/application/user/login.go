package user

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/easyshop/internal/domain/user"
	"github.com/xiebiao/easyshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
	"github.com/xiebiao/easyshop/pkg/jwt"
)

// sessionRefreshID 会话中保存当前Refresh Token的jti
const sessionRefreshID = "refresh_id"

// errSessionRevoked 会话不存在或已被新的登录替换
var errSessionRevoked = apperrors.New(apperrors.ErrCodeTokenExpired, "登录已失效，请重新登录")

// LoginUseCase 用户登录用例
// 1. 校验用户名密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis（失败只记日志，不影响登录）
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
	sessionTTL   time.Duration
	log          *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
	log *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		sessionTTL:   jwtManager.RefreshTokenExpire(),
		log:          log,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, err
	}

	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"username": u.Username,
		"role":     u.Role,
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,

		sessionRefreshID: tokenPair.RefreshTokenID,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.sessionTTL); err != nil {
		uc.log.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return &LoginResponse{
		User: UserInfo{
			ID:       u.ID,
			Username: u.Username,
			Role:     u.Role,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
	now          func() time.Time
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, now: time.Now}
}

// Execute 执行登出
// Access Token加入黑名单，TTL为Token剩余有效期，过期后自动清除
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string, expiresAt time.Time) error {
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, expiresAt.Sub(uc.now()))
}

// RefreshTokenUseCase 用Refresh Token换取新的Access Token
// 1. 只接受Refresh Token（Access Token返回ErrInvalidToken）
// 2. Refresh Token的jti必须与Redis会话一致，登出或重新登录后旧Token失效
// 3. 用户名和角色从数据库重新读取，角色变更在刷新后生效
type RefreshTokenUseCase struct {
	userRepo     user.Repository
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewRefreshTokenUseCase 创建刷新用例
func NewRefreshTokenUseCase(userRepo user.Repository, jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{userRepo: userRepo, jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute 执行刷新
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessionStore.GetSession(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return nil, errSessionRevoked
		}
		return nil, err
	}
	if claims.ID == "" || session[sessionRefreshID] != claims.ID {
		return nil, errSessionRevoked
	}

	u, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := uc.jwtManager.RefreshAccessToken(refreshToken, u.Username, u.Role)
	if err != nil {
		return nil, err
	}

	return &RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenExpire().Seconds()),
	}, nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}

// UserInfo 用户信息
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// RefreshResponse 刷新响应
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
