// Package router 组装gin引擎：全局中间件、运维路由、/api/v1业务路由
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// Handlers 全部实体处理器
type Handlers struct {
	Countries  *handler.CountryHandler
	Authors    *handler.AuthorHandler
	Categories *handler.CategoryHandler
	Books      *handler.BookHandler
	Reviewers  *handler.ReviewerHandler
	Reviews    *handler.ReviewHandler
}

// registrar 实体处理器的路由注册
type registrar interface {
	Register(read, write gin.IRoutes)
}

func (h *Handlers) all() []registrar {
	return []registrar{h.Countries, h.Authors, h.Categories, h.Books, h.Reviewers, h.Reviews}
}

// NewRouter 创建gin引擎
// limiter为nil时不限流。
//
// 路由：
//
//	GET  /ping
//	GET  /metrics
//	GET  /swagger/*any
//	     /api/v1/...   读路由公开，写路由经过鉴权中间件
func NewRouter(
	cfg *config.Config,
	handlers *Handlers,
	auth *middleware.AuthMiddleware,
	limiter ratelimit.Limiter,
	logger *slog.Logger,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.Tracing(),
		middleware.Metrics(),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus拉取
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档：http://localhost:8080/swagger/index.html
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	if limiter != nil {
		v1.Use(middleware.RateLimit(limiter, logger))
	}

	write := v1.Group("")
	write.Use(auth.RequireWrite())

	for _, h := range handlers.all() {
		h.Register(v1, write)
	}

	return r
}
