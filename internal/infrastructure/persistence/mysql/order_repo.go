package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/easyshop/internal/domain/order"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// orderRepository 订单仓储实现
// 订单与明细分开插入，由调用方通过TxManager保证在同一事务中
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// CreateOrder 插入订单并回填自增ID
func (r *orderRepository) CreateOrder(ctx context.Context, o *order.Order) error {
	model := &OrderModel{
		UserID:         o.UserID,
		Date:           o.Date,
		Address:        o.Address,
		City:           o.City,
		State:          o.State,
		Zip:            o.Zip,
		ShippingAmount: o.ShippingAmount,
	}

	if err := dbFromContext(ctx, r.db).Omit("LineItems").Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}
	if model.ID == 0 {
		return order.ErrOrderIDNotGenerated
	}

	o.ID = model.ID
	return nil
}

// CreateLineItem 插入订单明细并回填自增ID
func (r *orderRepository) CreateLineItem(ctx context.Context, li *order.OrderLineItem) error {
	model := &OrderLineItemModel{
		OrderID:    li.OrderID,
		ProductID:  li.ProductID,
		SalesPrice: li.SalesPrice,
		Quantity:   li.Quantity,
		Discount:   li.Discount,
	}

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单明细失败")
	}
	if model.ID == 0 {
		return order.ErrLineItemIDNotGenerated
	}

	li.ID = model.ID
	return nil
}

// FindByID 查询订单，Preload明细
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := dbFromContext(ctx, r.db).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_line_id ASC")
		}).
		First(&model, "order_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// ListByUserID 分页查询用户订单（不含明细）
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&OrderModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单失败")
	}

	var models []OrderModel
	err := db.Where("user_id = ?", userID).
		Order("date DESC").Order("order_id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单失败")
	}

	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderEntity(&models[i]))
	}
	return orders, total, nil
}

func toOrderEntity(m *OrderModel) *order.Order {
	o := &order.Order{
		ID:             m.ID,
		UserID:         m.UserID,
		Date:           m.Date,
		Address:        m.Address,
		City:           m.City,
		State:          m.State,
		Zip:            m.Zip,
		ShippingAmount: m.ShippingAmount,
	}
	for _, li := range m.LineItems {
		o.LineItems = append(o.LineItems, &order.OrderLineItem{
			ID:         li.ID,
			OrderID:    li.OrderID,
			ProductID:  li.ProductID,
			SalesPrice: li.SalesPrice,
			Quantity:   li.Quantity,
			Discount:   li.Discount,
		})
	}
	return o
}
