package catalog

import (
	"context"
	"strings"

	"github.com/xiebiao/easyshop/internal/domain/category"
	"github.com/xiebiao/easyshop/internal/domain/product"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// ErrCategoryNameRequired 分类名称为空
var ErrCategoryNameRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称不能为空")

// CategoryUseCase 分类用例
// 读操作公开，写操作由路由层限制为管理员
type CategoryUseCase struct {
	categoryRepo category.Repository
	productRepo  product.Repository
}

// NewCategoryUseCase 创建分类用例
func NewCategoryUseCase(categoryRepo category.Repository, productRepo product.Repository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo, productRepo: productRepo}
}

// List 全部分类
func (uc *CategoryUseCase) List(ctx context.Context) ([]*category.Category, error) {
	return uc.categoryRepo.List(ctx)
}

// Get 查询分类
func (uc *CategoryUseCase) Get(ctx context.Context, id uint) (*category.Category, error) {
	return uc.categoryRepo.FindByID(ctx, id)
}

// Products 分类下的商品，分类不存在返回404
func (uc *CategoryUseCase) Products(ctx context.Context, id uint) ([]*product.Product, error) {
	if _, err := uc.categoryRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return uc.productRepo.ListByCategoryID(ctx, id)
}

// Create 创建分类
func (uc *CategoryUseCase) Create(ctx context.Context, req CategoryRequest) (*category.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	c := &category.Category{Name: name, Description: req.Description}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update 修改分类
func (uc *CategoryUseCase) Update(ctx context.Context, id uint, req CategoryRequest) (*category.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	c, err := uc.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Update(name, req.Description)
	if err := uc.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete 删除分类
func (uc *CategoryUseCase) Delete(ctx context.Context, id uint) error {
	return uc.categoryRepo.Delete(ctx, id)
}

// CategoryRequest 创建/修改分类请求
type CategoryRequest struct {
	Name        string
	Description string
}
