package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const (
	// HeaderRequestID 请求ID响应头
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID 请求ID在gin.Context中的键
	ContextKeyRequestID = "request_id"
)

// RequestLogger 请求ID与访问日志
// 客户端传入X-Request-ID时沿用，否则生成UUID；
// 日志级别随状态码变化：5xx为error，4xx为warn，其余为info。
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", requestID,
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			attrs = append(attrs, "trace_id", traceID, "span_id", tracing.ExtractSpanID(c.Request.Context()))
		}
		logger.Log(c.Request.Context(), level, "http请求", attrs...)
	}
}
