package main

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apporder "github.com/xiebiao/easyshop/internal/application/order"
	appuser "github.com/xiebiao/easyshop/internal/application/user"
	"github.com/xiebiao/easyshop/internal/domain/profile"
	"github.com/xiebiao/easyshop/internal/domain/user"
	"github.com/xiebiao/easyshop/internal/infrastructure/config"
	"github.com/xiebiao/easyshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/easyshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/easyshop/pkg/jwt"
	"github.com/xiebiao/easyshop/pkg/mq"
)

// 自定义Provider：构造参数需要从Config中提取，或者需要返回cleanup函数

// provideDB 数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis Redis连接，cleanup关闭客户端
func provideRedis(cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { client.Close() }, nil
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideUserService 用户领域服务（默认bcrypt cost）
func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo)
}

// provideRegisterUseCase 注册用例；配置了admin.username时确保初始管理员存在
func provideRegisterUseCase(
	cfg *config.Config,
	userService user.Service,
	profileRepo profile.Repository,
	txManager appuser.TxManager,
	log *zap.Logger,
) (*appuser.RegisterUseCase, error) {
	uc := appuser.NewRegisterUseCase(userService, profileRepo, txManager)
	if cfg.Admin.Username == "" {
		return uc, nil
	}

	created, err := uc.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info("已创建初始管理员", zap.String("username", cfg.Admin.Username))
	}
	return uc, nil
}

// providePublisher mq.enabled=false时使用NopPublisher，订单事件直接丢弃
// 启用时发布者带熔断保护，Broker不可用期间结算不再等待发布超时
func providePublisher(cfg *config.Config, log *zap.Logger) (apporder.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		log.Info("MQ未启用，订单事件不发布")
		return mq.NopPublisher{}, func() {}, nil
	}

	raw, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	publisher := mq.NewGuardedPublisher(raw, cfg.MQ.BreakerFailures, cfg.MQ.BreakerTimeout, log)
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Warn("关闭MQ发布者失败", zap.Error(err))
		}
	}
	return publisher, cleanup, nil
}
