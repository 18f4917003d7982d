package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
)

// 上下文键
const (
	ContextKeyAdminID  = "admin_id"
	ContextKeyUsername = "admin_username"
	ContextKeyClaims   = "claims"
	ContextKeyToken    = "token"
)

// RevocationChecker 判断令牌是否已注销
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AdminAuth 管理员认证中间件，checker 为 nil 时不检查注销状态
func AdminAuth(jwtManager *jwt.Manager, checker RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, "登录已过期，请重新登录")
			} else {
				response.Unauthorized(c, "无效的令牌")
			}
			c.Abort()
			return
		}

		if checker != nil {
			revoked, err := checker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				response.InternalError(c, "令牌校验失败")
				c.Abort()
				return
			}
			if revoked {
				response.Unauthorized(c, "令牌已注销，请重新登录")
				c.Abort()
				return
			}
		}

		c.Set(ContextKeyAdminID, claims.AdminID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyToken, token)

		c.Next()
	}
}

// extractToken 从 Authorization 头或 token 查询参数中提取令牌
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 文件下载链接无法携带请求头
	return c.Query("token")
}

// GetAdminID 从上下文获取管理员 ID
func GetAdminID(c *gin.Context) int64 {
	return c.GetInt64(ContextKeyAdminID)
}

// GetUsername 从上下文获取管理员用户名
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

// GetClaims 从上下文获取完整的 Claims
func GetClaims(c *gin.Context) *jwt.Claims {
	claims, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	cl, _ := claims.(*jwt.Claims)
	return cl
}
