package middleware

import (
	"context"
	"strings"

	"Office_Hub/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey   = "user_id"
	ContextIdentityKey = "identity"
)

// Authenticator 由 service.UserService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (pkg.Identity, error)
}

// bearerToken 读取 "Authorization: Bearer <token>"
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.Error(pkg.Unauthorized("missing or malformed authorization header"))
			c.Abort()
			return
		}

		id, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		// 注入身份
		c.Set(ContextUserIDKey, id.ID)
		c.Set(ContextIdentityKey, id)
		c.Next()
	}
}

// GuestOnly 已携带有效 token 的请求不允许再次登录/注册
func GuestOnly(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if _, err := auth.Authenticate(c.Request.Context(), tokenStr); err == nil {
				c.Error(pkg.Forbidden("already authenticated"))
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// CurrentIdentity 取认证中间件注入的身份
func CurrentIdentity(c *gin.Context) (pkg.Identity, bool) {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return pkg.Identity{}, false
	}
	id, ok := v.(pkg.Identity)
	return id, ok
}
