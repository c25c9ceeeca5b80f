package profile

import (
	"context"

	"github.com/xiebiao/easyshop/internal/domain/profile"
)

// UseCase 收货资料用例
type UseCase struct {
	repo profile.Repository
}

// NewUseCase 创建资料用例
func NewUseCase(repo profile.Repository) *UseCase {
	return &UseCase{repo: repo}
}

// Get 查询当前用户资料
func (uc *UseCase) Get(ctx context.Context, userID uint) (*profile.Profile, error) {
	return uc.repo.FindByUserID(ctx, userID)
}

// Update 整体覆盖资料字段
// 已生成的订单保存的是地址快照，不受影响
func (uc *UseCase) Update(ctx context.Context, userID uint, req UpdateRequest) (*profile.Profile, error) {
	p := &profile.Profile{
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateRequest 更新资料请求
type UpdateRequest struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	City      string
	State     string
	Zip       string
}
