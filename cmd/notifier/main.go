// notifier 消费order.created事件并发送下单通知
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/easyshop/internal/application/notification"
	"github.com/xiebiao/easyshop/internal/domain/order"
	"github.com/xiebiao/easyshop/internal/infrastructure/config"
	"github.com/xiebiao/easyshop/pkg/logger"
	"github.com/xiebiao/easyshop/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zl, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zl.Sync()

	if !cfg.MQ.Enabled {
		zl.Fatal("mq.enabled=false，notifier无事可做")
	}

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		cfg.MQ.ExchangeType,
		cfg.MQ.Queue,
		[]string{order.RoutingKeyOrderCreated},
		zl,
	)
	if err != nil {
		zl.Fatal("创建消费者失败", zap.Error(err))
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := notification.NewOrderCreatedHandler(notification.NewLogNotifier(zl), zl)
	if err := consumer.Consume(ctx, h.Handle); err != nil {
		zl.Error("消费中断", zap.Error(err))
	}
}
