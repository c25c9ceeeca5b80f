package dto

import (
	"github.com/xiebiao/easyshop/internal/domain/cart"
)

// UpdateQuantityRequest 修改购物车数量
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartItemResponse 购物车条目
type CartItemResponse struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Discount  string `json:"discount"`
	LineTotal string `json:"line_total"`
}

// CartResponse 购物车
type CartResponse struct {
	UserID uint                `json:"user_id"`
	Items  []*CartItemResponse `json:"items"`
	Total  string              `json:"total"`
}

// NewCartResponse 条目按商品ID排序输出
func NewCartResponse(c *cart.ShoppingCart) *CartResponse {
	items := make([]*CartItemResponse, 0, c.Len())
	for _, item := range c.SortedItems() {
		items = append(items, &CartItemResponse{
			ProductID: item.ProductID(),
			Name:      item.Product.Name,
			Price:     Money(item.Product.Price),
			Quantity:  item.Quantity,
			Discount:  item.DiscountPercent.String(),
			LineTotal: Money(item.LineTotal()),
		})
	}
	return &CartResponse{
		UserID: c.UserID,
		Items:  items,
		Total:  Money(c.Total()),
	}
}
