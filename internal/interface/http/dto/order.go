package dto

import (
	"time"

	"github.com/xiebiao/easyshop/internal/domain/order"
)

// OrderResponse 订单
type OrderResponse struct {
	OrderID        uint                     `json:"order_id"`
	UserID         uint                     `json:"user_id"`
	Date           time.Time                `json:"date"`
	Address        string                   `json:"address"`
	City           string                   `json:"city"`
	State          string                   `json:"state"`
	Zip            string                   `json:"zip"`
	ShippingAmount string                   `json:"shipping_amount" example:"45.00"`
	LineItems      []*OrderLineItemResponse `json:"line_items"`
}

// OrderLineItemResponse 订单明细
type OrderLineItemResponse struct {
	OrderLineID uint   `json:"order_line_id"`
	ProductID   uint   `json:"product_id"`
	SalesPrice  string `json:"sales_price"`
	Quantity    int    `json:"quantity"`
	Discount    string `json:"discount"`
	LineTotal   string `json:"line_total"`
}

// NewOrderResponse 领域实体 → 响应
func NewOrderResponse(o *order.Order) *OrderResponse {
	items := make([]*OrderLineItemResponse, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		items = append(items, &OrderLineItemResponse{
			OrderLineID: li.ID,
			ProductID:   li.ProductID,
			SalesPrice:  Money(li.SalesPrice),
			Quantity:    li.Quantity,
			Discount:    li.Discount.String(),
			LineTotal:   Money(li.LineTotal()),
		})
	}
	return &OrderResponse{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Date:           o.Date,
		Address:        o.Address,
		City:           o.City,
		State:          o.State,
		Zip:            o.Zip,
		ShippingAmount: Money(o.ShippingAmount),
		LineItems:      items,
	}
}

// NewOrderList 订单列表（列表不含明细）
func NewOrderList(orders []*order.Order) []*OrderResponse {
	list := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		list = append(list, NewOrderResponse(o))
	}
	return list
}

// PageQuery 分页参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}
