// Package token 提供 JWT 的签发与校验，token 携带用户标识与邮箱
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linjx/gomall/pkg/apperr"
)

// Identity 已认证的调用方身份
type Identity struct {
	UserID string
	Email  string
}

// Claims JWT 载荷
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager 负责 token 的签发与解析
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager 创建 token 管理器
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: []byte(secret), expiry: expiry}
}

// Sign 为用户签发 token，返回 token 串与过期时间
func (m *Manager) Sign(userID, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.expiry)
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   userID,
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, apperr.Internal("failed to sign token", err)
	}
	return raw, expiresAt, nil
}

// Parse 解析并校验 token，失败一律返回认证错误
func (m *Manager) Parse(raw string) (Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Auth("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, apperr.Auth("invalid or expired token")
	}
	if claims.UserID == "" {
		return Identity{}, apperr.Auth("token missing user identity")
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
