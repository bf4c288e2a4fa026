// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"scribe-ai-api/pkg/logger"
)

// Identity 身份上下文中间件。
// 把 Auth 中间件写入 Gin Context 的 user_id 注入 request context，
// 供日志和仓储层透传使用。必须挂在 Auth 之后。
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetString("user_id"); userID != "" {
			ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, userID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// GetUserID 从 request context 中获取用户 ID
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(logger.UserIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
