package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/easyshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
	"github.com/xiebiao/easyshop/pkg/jwt"
	"github.com/xiebiao/easyshop/pkg/response"
)

// Context中的key
const (
	ctxUserID    = "user_id"
	ctxUsername  = "username"
	ctxRole      = "role"
	ctxToken     = "access_token"
	ctxExpiresAt = "token_expires_at"
)

var (
	errMissingToken   = apperrors.New(apperrors.ErrCodeUnauthorized, "请先登录")
	errMalformedToken = apperrors.New(apperrors.ErrCodeInvalidToken, "Token格式错误")
	errRevokedToken   = apperrors.New(apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
)

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Bearer Token
// 2. 检查Token黑名单（登出后立即失效）
// 3. 验证签名、有效期和Token类型（Refresh Token不能当作登录凭证）
// 4. 将用户信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
//
//	authorized := v1.Group("")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.POST("/orders", orderHandler.Checkout)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Error(c, errMissingToken)
			c.Abort()
			return
		}
		if err := m.authenticate(c); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth 没有Authorization头时按匿名请求放行；带了Token就必须有效
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if err := m.authenticate(c); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// authenticate 校验Bearer Token并把用户信息写入Context
func (m *AuthMiddleware) authenticate(c *gin.Context) error {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return errMalformedToken
	}
	tokenString := parts[1]

	revoked, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
	if err != nil {
		return err
	}
	if revoked {
		return errRevokedToken
	}

	claims, err := m.jwtManager.ParseAccessToken(tokenString)
	if err != nil {
		return err
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUsername, claims.Username)
	c.Set(ctxRole, claims.Role)
	c.Set(ctxToken, tokenString)
	if claims.ExpiresAt != nil {
		c.Set(ctxExpiresAt, claims.ExpiresAt.Time)
	}
	return nil
}

// RequireRole 要求指定角色之一，必须放在RequireAuth之后
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Error(c, apperrors.ErrForbidden)
		c.Abort()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetUsername 当前登录用户名
func GetUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

// GetRole 当前登录用户角色
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// GetAccessToken 当前请求的Access Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// GetTokenExpiresAt Access Token过期时间
func GetTokenExpiresAt(c *gin.Context) time.Time {
	return c.GetTime(ctxExpiresAt)
}
