package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	"github.com/xiebiao/bookcatalog/pkg/jwt"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
)

// sweepInterval 内存限流器清理空闲桶的周期
const sweepInterval = time.Minute

// provideDB 创建数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			logger.Error("关闭数据库连接失败", "error", err)
		}
	}
	return db, cleanup, nil
}

// provideLimiter 按配置选择限流后端
// 未启用时返回nil（路由不挂载限流中间件）。
func provideLimiter(cfg *config.Config, logger *slog.Logger) (ratelimit.Limiter, func(), error) {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return nil, func() {}, nil
	}

	switch rl.Backend {
	case "redis":
		client, err := redis.NewClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				logger.Error("关闭Redis连接失败", "error", err)
			}
		}
		breaker := circuitbreaker.New("redis-ratelimit", circuitbreaker.Config{
			Failures: rl.BreakerFailures,
			Cooldown: rl.BreakerCooldown,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				logger.Warn("熔断器状态变化", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
		logger.Info("限流已启用", "backend", "redis", "requests", rl.Requests, "window", rl.Window)
		return ratelimit.Guard(redis.NewRateLimiter(client, rl.Requests, rl.Window), breaker), cleanup, nil

	case "memory":
		limiter := ratelimit.NewMemoryLimiter(rl.Requests, rl.Window, rl.Burst)
		ctx, cancel := context.WithCancel(context.Background())
		go limiter.Run(ctx, sweepInterval)
		logger.Info("限流已启用", "backend", "memory", "requests", rl.Requests, "window", rl.Window, "burst", rl.Burst)
		return limiter, cancel, nil

	default:
		return nil, nil, fmt.Errorf("不支持的限流后端: %q", rl.Backend)
	}
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpire)
}

// provideAuthMiddleware 写操作鉴权（jwt.auth_enabled控制开关）
func provideAuthMiddleware(cfg *config.Config, manager *jwt.Manager) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(manager, cfg.JWT.AuthEnabled)
}
