package product

import (
	"context"

	"github.com/shopspring/decimal"
)

// SearchParams 商品搜索条件，nil/空值表示不过滤
type SearchParams struct {
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Color      string
}

// Repository 商品仓储接口
type Repository interface {
	// Search 按分类、价格区间、颜色过滤
	Search(ctx context.Context, params SearchParams) ([]*Product, error)

	// ListByCategoryID 分类下的全部商品
	ListByCategoryID(ctx context.Context, categoryID uint) ([]*Product, error)

	// FindByID 不存在返回ErrProductNotFound
	FindByID(ctx context.Context, id uint) (*Product, error)

	Create(ctx context.Context, p *Product) error

	// Update 不存在返回ErrProductNotFound
	Update(ctx context.Context, p *Product) error

	// Delete 不存在返回ErrProductNotFound
	Delete(ctx context.Context, id uint) error
}
