package category

import (
	"context"
)

// Repository 分类仓储接口
type Repository interface {
	List(ctx context.Context) ([]*Category, error)

	// FindByID 不存在返回ErrCategoryNotFound
	FindByID(ctx context.Context, id uint) (*Category, error)

	// Create 名称重复返回ErrCategoryDuplicate
	Create(ctx context.Context, c *Category) error

	Update(ctx context.Context, c *Category) error

	Delete(ctx context.Context, id uint) error
}
