package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/jwt"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// ContextKeySubject Token主体在gin.Context中的键
const ContextKeySubject = "subject"

// AuthMiddleware 写操作鉴权中间件
// 1. 从Header提取Bearer Token
// 2. 验证签名、签发者、有效期
// 3. 检查写权限scope
// 4. 将Token主体注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	enabled    bool
}

// NewAuthMiddleware 创建鉴权中间件
// enabled为false时RequireWrite直接放行
func NewAuthMiddleware(jwtManager *jwt.Manager, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		enabled:    enabled,
	}
}

// RequireWrite 要求携带catalog:write权限的Token
// 使用方式：
//
//	write := v1.Group("")
//	write.Use(auth.RequireWrite())
//	write.POST("/books", h.Create)
func (m *AuthMiddleware) RequireWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		// 1. 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Abort(c, apperrors.ErrInvalidToken.WithMessage("Token格式错误"))
			return
		}

		// 2. 验证Token（过期与无效分别返回40102、40101）
		claims, err := m.jwtManager.ParseToken(strings.TrimSpace(token))
		if err != nil {
			response.Abort(c, err)
			return
		}

		// 3. 权限检查
		if !claims.HasScope(jwt.ScopeWrite) {
			response.Abort(c, apperrors.ErrForbidden)
			return
		}

		// 4. 注入Token主体
		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// GetSubject 从Context获取Token主体（未鉴权时为空）
func GetSubject(c *gin.Context) string {
	return c.GetString(ContextKeySubject)
}
