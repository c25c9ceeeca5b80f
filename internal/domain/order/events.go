package order

import (
	"time"
)

// RoutingKeyOrderCreated 订单创建事件的路由键
const RoutingKeyOrderCreated = "order.created"

// CreatedEvent 订单创建事件（结算事务提交后发布）
// 金额用字符串传输，避免消费方按浮点解析
type CreatedEvent struct {
	OrderID        uint      `json:"order_id"`
	UserID         uint      `json:"user_id"`
	ShippingAmount string    `json:"shipping_amount"`
	LineItems      int       `json:"line_items"`
	Date           time.Time `json:"date"`
}

// NewCreatedEvent 由已提交的订单构造事件
func NewCreatedEvent(o *Order) CreatedEvent {
	return CreatedEvent{
		OrderID:        o.ID,
		UserID:         o.UserID,
		ShippingAmount: o.ShippingAmount.StringFixed(2),
		LineItems:      len(o.LineItems),
		Date:           o.Date,
	}
}
