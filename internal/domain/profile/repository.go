package profile

import (
	"context"
)

// Repository 收货资料仓储接口
type Repository interface {
	// Create 创建资料（注册时调用）
	Create(ctx context.Context, p *Profile) error

	// FindByUserID 查询用户资料，不存在返回ErrProfileNotFound
	FindByUserID(ctx context.Context, userID uint) (*Profile, error)

	// Update 更新资料，不存在返回ErrProfileNotFound
	Update(ctx context.Context, p *Profile) error
}
