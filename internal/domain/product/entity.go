package product

import (
	"github.com/shopspring/decimal"
)

// Product 商品实体
// 价格使用decimal（数据库DECIMAL(10,2)），避免浮点误差
type Product struct {
	ID          uint
	Name        string
	Price       decimal.Decimal
	CategoryID  uint
	Description string
	Color       string
	Stock       int
	Featured    bool
	ImageURL    string
}

// Validate 业务规则：名称必填，价格>0，库存>=0
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
