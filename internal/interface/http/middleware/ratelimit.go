package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// RateLimit 按客户端IP限流
// 限流后端出错时放行并记录告警，计数故障不影响读写。
func RateLimit(limiter ratelimit.Limiter, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	metrics.InitMetrics()

	backend := "unknown"
	if b, ok := limiter.(ratelimit.Backend); ok {
		backend = b.Name()
	}

	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("限流后端不可用，放行请求",
				"backend", backend,
				"client_ip", c.ClientIP(),
				"request_id", c.GetString(ContextKeyRequestID),
				"error", err,
			)
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimitRejectedTotal.WithLabelValues(backend).Inc()
			response.Abort(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
