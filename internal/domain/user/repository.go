package user

import (
	"context"
)

// Repository 用户仓储接口
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
type Repository interface {
	// Create 创建用户
	// 如果用户名已存在，返回errors.ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// ExistsByUsername 用户名是否已被占用
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
