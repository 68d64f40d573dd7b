//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 修改Provider后重新生成：
//
//	wire gen ./cmd/api
//
// 依赖链：
// *gorm.DB → Repository → Service(Facade) → Handler → router.Handlers → *gin.Engine

package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
)

// infrastructureSet 基础设施：存储连接、事务、限流后端
var infrastructureSet = wire.NewSet(
	provideDB,
	mysql.NewTxManager,
	wire.Bind(new(catalog.TxManager), new(*mysql.TxManager)),
	provideLimiter,
)

// repositorySet 仓储
var repositorySet = wire.NewSet(
	mysql.NewCountryRepository,
	mysql.NewAuthorRepository,
	mysql.NewCategoryRepository,
	mysql.NewBookRepository,
	mysql.NewReviewerRepository,
	mysql.NewReviewRepository,
)

// domainSet 目录服务（每个实体族一个Facade）
var domainSet = wire.NewSet(
	catalog.NewCountryService,
	catalog.NewAuthorService,
	catalog.NewCategoryService,
	catalog.NewBookService,
	catalog.NewReviewerService,
	catalog.NewReviewService,
)

// middlewareSet 鉴权
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideAuthMiddleware,
)

// handlerSet HTTP处理器
var handlerSet = wire.NewSet(
	handler.NewCountryHandler,
	handler.NewAuthorHandler,
	handler.NewCategoryHandler,
	handler.NewBookHandler,
	handler.NewReviewerHandler,
	handler.NewReviewHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.NewRouter,
)

// InitializeApp 组装gin引擎
// cleanup按构造的逆序释放限流后端与数据库连接。
func InitializeApp(cfg *config.Config, logger *slog.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		middlewareSet,
		handlerSet,
	)
	return nil, nil, nil
}
