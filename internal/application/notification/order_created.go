package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/easyshop/internal/domain/order"
)

// Notifier 下单通知渠道（邮件、短信等）
type Notifier interface {
	NotifyOrderCreated(ctx context.Context, event order.CreatedEvent) error
}

// OrderCreatedHandler 消费order.created事件
type OrderCreatedHandler struct {
	notifier Notifier
	log      *zap.Logger
}

// NewOrderCreatedHandler 创建事件处理器
func NewOrderCreatedHandler(notifier Notifier, log *zap.Logger) *OrderCreatedHandler {
	return &OrderCreatedHandler{notifier: notifier, log: log}
}

// Handle 处理一条消息
// 消息格式错误时记录日志并确认（重新入队也无法处理），通知失败返回错误让消息重新入队
func (h *OrderCreatedHandler) Handle(ctx context.Context, routingKey string, body []byte) error {
	if routingKey != order.RoutingKeyOrderCreated {
		h.log.Debug("忽略未知事件", zap.String("routing_key", routingKey))
		return nil
	}

	var event order.CreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.log.Error("订单事件格式错误，丢弃", zap.Error(err), zap.ByteString("body", body))
		return nil
	}
	if event.OrderID == 0 {
		h.log.Error("订单事件缺少order_id，丢弃", zap.ByteString("body", body))
		return nil
	}

	if err := h.notifier.NotifyOrderCreated(ctx, event); err != nil {
		return fmt.Errorf("发送订单%d通知失败: %w", event.OrderID, err)
	}
	return nil
}

// LogNotifier 只写日志的通知渠道
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier 创建日志通知渠道
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// NotifyOrderCreated 记录下单通知
func (n *LogNotifier) NotifyOrderCreated(_ context.Context, event order.CreatedEvent) error {
	n.log.Info("下单通知",
		zap.Uint("order_id", event.OrderID),
		zap.Uint("user_id", event.UserID),
		zap.String("shipping_amount", event.ShippingAmount),
		zap.Int("line_items", event.LineItems),
		zap.Time("date", event.Date))
	return nil
}
