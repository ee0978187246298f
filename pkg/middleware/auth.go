package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/response"
	"github.com/linjx/gomall/pkg/token"
)

// identityKey gin context 中已认证身份的键
const identityKey = "auth_identity"

// GinAuthMiddleware 鉴权中间件：校验 Bearer token 并向 context 注入调用方身份。
// Authorization 头带不带 "Bearer " 前缀均可接受。
func GinAuthMiddleware(tm *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			response.Error(c, apperr.Auth("missing authorization token"))
			c.Abort()
			return
		}
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

		identity, err := tm.Parse(raw)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom 取出鉴权中间件注入的调用方身份
func IdentityFrom(c *gin.Context) (token.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return token.Identity{}, false
	}
	identity, ok := v.(token.Identity)
	return identity, ok
}
