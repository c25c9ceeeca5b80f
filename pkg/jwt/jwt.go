package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

const issuer = "easyshop"

// Token类型，写在typ claim里，两种Token不能互相替代
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Manager JWT管理器
// 1. 双Token机制：Access Token（短期）+ Refresh Token（长期）
// 2. Access Token携带用户名和角色，下单时用用户名解析当前用户
// 3. Refresh Token只带用户ID和jti，jti与Redis会话绑定，登出后失效
type Manager struct {
	secret             string        // JWT签名密钥
	accessTokenExpire  time.Duration // Access Token有效期
	refreshTokenExpire time.Duration // Refresh Token有效期
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             secret,
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
	}
}

// Claims 自定义JWT Claims
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair Token对（Access + Refresh）
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token过期时间（秒）

	RefreshTokenID string `json:"-"` // Refresh Token的jti，保存到会话
}

// AccessTokenExpire Access Token有效期（登出时用作黑名单TTL）
func (m *Manager) AccessTokenExpire() time.Duration {
	return m.accessTokenExpire
}

// RefreshTokenExpire Refresh Token有效期（会话TTL）
func (m *Manager) RefreshTokenExpire() time.Duration {
	return m.refreshTokenExpire
}

// GenerateToken 生成Token对
func (m *Manager) GenerateToken(userID uint, username, role string) (*TokenPair, error) {
	now := time.Now()

	accessToken, err := m.sign(Claims{
		UserID:           userID,
		Username:         username,
		Role:             role,
		Type:             TokenTypeAccess,
		RegisteredClaims: m.registered(userID, now, m.accessTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Access Token失败")
	}

	// Refresh Token只带身份和jti，不带用户名和角色
	refreshClaims := Claims{
		UserID:           userID,
		Type:             TokenTypeRefresh,
		RegisteredClaims: m.registered(userID, now, m.refreshTokenExpire),
	}
	refreshClaims.ID = uuid.NewString()
	refreshToken, err := m.sign(refreshClaims)
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		ExpiresIn:      int64(m.accessTokenExpire.Seconds()),
		RefreshTokenID: refreshClaims.ID,
	}, nil
}

// ParseToken 解析并验证Token（签名、exp、nbf）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}

// ParseAccessToken 解析Access Token，Refresh Token返回ErrInvalidToken
func (m *Manager) ParseAccessToken(tokenString string) (*Claims, error) {
	return m.parseTyped(tokenString, TokenTypeAccess)
}

// ParseRefreshToken 解析Refresh Token，Access Token返回ErrInvalidToken
func (m *Manager) ParseRefreshToken(tokenString string) (*Claims, error) {
	return m.parseTyped(tokenString, TokenTypeRefresh)
}

func (m *Manager) parseTyped(tokenString, tokenType string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != tokenType {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RefreshAccessToken 使用Refresh Token换取新的Access Token
// 用户名和角色不在Refresh Token里，由调用方从数据库读取后传入
func (m *Manager) RefreshAccessToken(refreshToken, username, role string) (string, error) {
	claims, err := m.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	tokenString, err := m.sign(Claims{
		UserID:           claims.UserID,
		Username:         username,
		Role:             role,
		Type:             TokenTypeAccess,
		RegisteredClaims: m.registered(claims.UserID, time.Now(), m.accessTokenExpire),
	})
	if err != nil {
		return "", apperrors.Wrap(err, "刷新Token失败")
	}
	return tokenString, nil
}

func (m *Manager) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
}

func (m *Manager) registered(userID uint, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   fmt.Sprintf("%d", userID),
	}
}
