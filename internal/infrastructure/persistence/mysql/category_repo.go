package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/easyshop/internal/domain/category"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := dbFromContext(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	categories := make([]*category.Category, 0, len(models))
	for i := range models {
		categories = append(categories, toCategoryEntity(&models[i]))
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{Name: c.Name, Description: c.Description}
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrCategoryDuplicate
		}
		return apperrors.Wrap(err, "创建分类失败")
	}
	c.ID = model.ID
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	result := dbFromContext(ctx, r.db).Model(&CategoryModel{ID: c.ID}).
		Updates(map[string]interface{}{"name": c.Name, "description": c.Description})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return category.ErrCategoryDuplicate
		}
		return apperrors.Wrap(result.Error, "更新分类失败")
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	result := dbFromContext(ctx, r.db).Delete(&CategoryModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除分类失败")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

func toCategoryEntity(m *CategoryModel) *category.Category {
	return &category.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
	}
}
