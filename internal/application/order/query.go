package order

import (
	"context"

	"github.com/xiebiao/easyshop/internal/domain/order"
)

// QueryUseCase 订单查询用例（读侧）
type QueryUseCase struct {
	orderRepo order.Repository
}

// NewQueryUseCase 创建订单查询用例
func NewQueryUseCase(orderRepo order.Repository) *QueryUseCase {
	return &QueryUseCase{orderRepo: orderRepo}
}

// ListOrdersResult 订单分页结果（不含明细）
type ListOrdersResult struct {
	Orders   []*order.Order
	Total    int64
	Page     int
	PageSize int
}

// List 分页查询当前用户的订单
func (uc *QueryUseCase) List(ctx context.Context, userID uint, page, pageSize int) (*ListOrdersResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	orders, total, err := uc.orderRepo.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &ListOrdersResult{
		Orders:   orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Get 查询当前用户的一个订单（含明细）
// 他人的订单同样返回ErrOrderNotFound，不暴露订单是否存在
func (uc *QueryUseCase) Get(ctx context.Context, userID, orderID uint) (*order.Order, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}
