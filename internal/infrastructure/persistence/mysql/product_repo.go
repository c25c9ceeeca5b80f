package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/easyshop/internal/domain/product"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Search 按条件过滤商品
// 价格区间两端都是闭区间；条件为空时不过滤
func (r *productRepository) Search(ctx context.Context, params product.SearchParams) ([]*product.Product, error) {
	query := dbFromContext(ctx, r.db).Model(&ProductModel{})

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.MinPrice != nil {
		query = query.Where("price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("price <= ?", *params.MaxPrice)
	}
	if params.Color != "" {
		query = query.Where("color = ?", params.Color)
	}

	var models []ProductModel
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntities(models), nil
}

func (r *productRepository) ListByCategoryID(ctx context.Context, categoryID uint) ([]*product.Product, error) {
	var models []ProductModel
	err := dbFromContext(ctx, r.db).Where("category_id = ?", categoryID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntities(models), nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建商品失败")
	}
	p.ID = model.ID
	return nil
}

// Update 覆盖全部可编辑字段
func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	db := dbFromContext(ctx, r.db)

	var count int64
	if err := db.Model(&ProductModel{}).Where("id = ?", p.ID).Count(&count).Error; err != nil {
		return apperrors.Wrap(err, "查询商品失败")
	}
	if count == 0 {
		return product.ErrProductNotFound
	}

	err := db.Model(&ProductModel{ID: p.ID}).Select(
		"name", "price", "category_id", "description", "color", "stock", "featured", "image_url",
	).Updates(toProductModel(p)).Error
	if err != nil {
		return apperrors.Wrap(err, "更新商品失败")
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := dbFromContext(ctx, r.db).Delete(&ProductModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除商品失败")
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

func toProductModel(p *product.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Color:       p.Color,
		Stock:       p.Stock,
		Featured:    p.Featured,
		ImageURL:    p.ImageURL,
	}
}

func toProductEntity(m *ProductModel) *product.Product {
	return &product.Product{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		CategoryID:  m.CategoryID,
		Description: m.Description,
		Color:       m.Color,
		Stock:       m.Stock,
		Featured:    m.Featured,
		ImageURL:    m.ImageURL,
	}
}

func toProductEntities(models []ProductModel) []*product.Product {
	products := make([]*product.Product, 0, len(models))
	for i := range models {
		products = append(products, toProductEntity(&models[i]))
	}
	return products
}
