package order

import (
	"context"
)

// Repository 订单仓储接口
// 结算时CreateOrder、CreateLineItem和清空购物车必须在同一事务中执行（事务通过context传递）
type Repository interface {
	// CreateOrder 插入订单，回填o.ID
	CreateOrder(ctx context.Context, o *Order) error

	// CreateLineItem 插入订单明细，回填li.ID
	CreateLineItem(ctx context.Context, li *OrderLineItem) error

	// FindByID 查询订单（包含明细），不存在返回ErrOrderNotFound
	FindByID(ctx context.Context, id uint) (*Order, error)

	// ListByUserID 分页查询用户订单（不含明细），按下单时间倒序
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)
}
