package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/jwt"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
)

// 上下文键
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxEmail  = "email"
)

// TokenVerifier 校验 Bearer Token，由 AuthService 实现
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*jwt.Claims, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Token
func JWTAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "User is not authorized")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(c, "User is not authorized")
			c.Abort()
			return
		}

		claims, err := verifier.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		// 将身份信息注入上下文
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxEmail, claims.Email)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一；未指定角色时任意已认证用户均可通过
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Unauthorized(c, "User is not authorized")
			c.Abort()
			return
		}
		if len(allowedRoles) == 0 {
			c.Next()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Forbidden resource")
		c.Abort()
	}
}
