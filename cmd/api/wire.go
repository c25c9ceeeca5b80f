//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 修改Provider后重新生成：
//
//	wire gen ./cmd/api

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/easyshop/internal/application/cart"
	"github.com/xiebiao/easyshop/internal/application/catalog"
	apporder "github.com/xiebiao/easyshop/internal/application/order"
	"github.com/xiebiao/easyshop/internal/application/profile"
	appuser "github.com/xiebiao/easyshop/internal/application/user"
	"github.com/xiebiao/easyshop/internal/infrastructure/config"
	"github.com/xiebiao/easyshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/easyshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/easyshop/internal/interface/http/handler"
	"github.com/xiebiao/easyshop/internal/interface/http/middleware"
	"github.com/xiebiao/easyshop/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、MQ连接
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	providePublisher,
)

// repositorySet 仓储与事务管理器
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewProfileRepository,
	mysql.NewCategoryRepository,
	mysql.NewProductRepository,
	mysql.NewCartRepository,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
	wire.Bind(new(apporder.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appuser.TxManager), new(*mysql.TxManager)),
)

// redisSet 会话、黑名单、结算锁
var redisSet = wire.NewSet(
	redis.NewSessionStore,
	redis.NewCheckoutLocker,
	wire.Bind(new(apporder.CheckoutLocker), new(*redis.CheckoutLocker)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	provideRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	profile.NewUseCase,
	cart.NewUseCase,
	catalog.NewCategoryUseCase,
	catalog.NewProductUseCase,
	apporder.NewCheckoutUseCase,
	apporder.NewQueryUseCase,
)

// interfaceSet JWT、中间件、处理器、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewProfileHandler,
	handler.NewCatalogHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用，cleanup按创建的逆序释放连接
func InitializeApp(cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		redisSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
