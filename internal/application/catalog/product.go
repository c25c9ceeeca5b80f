package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/easyshop/internal/domain/category"
	"github.com/xiebiao/easyshop/internal/domain/product"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// ErrInvalidPriceRange 最低价大于最高价
var ErrInvalidPriceRange = apperrors.New(apperrors.ErrCodeInvalidParams, "价格区间不正确")

// ProductUseCase 商品用例
type ProductUseCase struct {
	productRepo  product.Repository
	categoryRepo category.Repository
}

// NewProductUseCase 创建商品用例
func NewProductUseCase(productRepo product.Repository, categoryRepo category.Repository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, categoryRepo: categoryRepo}
}

// Search 按分类、价格区间、颜色搜索，条件都为空时返回全部商品
func (uc *ProductUseCase) Search(ctx context.Context, params product.SearchParams) ([]*product.Product, error) {
	if params.MinPrice != nil && params.MaxPrice != nil && params.MinPrice.GreaterThan(*params.MaxPrice) {
		return nil, ErrInvalidPriceRange
	}
	return uc.productRepo.Search(ctx, params)
}

// Get 查询商品
func (uc *ProductUseCase) Get(ctx context.Context, id uint) (*product.Product, error) {
	return uc.productRepo.FindByID(ctx, id)
}

// Create 创建商品，分类必须存在
func (uc *ProductUseCase) Create(ctx context.Context, req ProductRequest) (*product.Product, error) {
	p := req.toEntity()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := uc.categoryRepo.FindByID(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update 整体覆盖商品字段
func (uc *ProductUseCase) Update(ctx context.Context, id uint, req ProductRequest) (*product.Product, error) {
	if _, err := uc.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	p := req.toEntity()
	p.ID = id
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := uc.categoryRepo.FindByID(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete 删除商品
// 购物车中引用该商品的行在读取时被跳过，历史订单明细保留product_id
func (uc *ProductUseCase) Delete(ctx context.Context, id uint) error {
	return uc.productRepo.Delete(ctx, id)
}

// ProductRequest 创建/修改商品请求
type ProductRequest struct {
	Name        string
	Price       decimal.Decimal
	CategoryID  uint
	Description string
	Color       string
	Stock       int
	Featured    bool
	ImageURL    string
}

func (r ProductRequest) toEntity() *product.Product {
	return &product.Product{
		Name:        r.Name,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		Description: r.Description,
		Color:       r.Color,
		Stock:       r.Stock,
		Featured:    r.Featured,
		ImageURL:    r.ImageURL,
	}
}
