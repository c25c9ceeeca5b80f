package user

import (
	"context"
	"errors"

	"github.com/xiebiao/easyshop/internal/domain/profile"
	"github.com/xiebiao/easyshop/internal/domain/user"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// TxManager 事务管理（由infrastructure/persistence/mysql实现）
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrPasswordMismatch 两次输入的密码不一致
var ErrPasswordMismatch = apperrors.New(apperrors.ErrCodeInvalidParams, "两次输入的密码不一致")

// ErrAdminRoleRequired 只有管理员可以创建管理员账号
var ErrAdminRoleRequired = apperrors.New(apperrors.ErrCodeForbidden, "只有管理员可以创建管理员账号")

// RegisterUseCase 用户注册用例
// 用户和空的收货资料在同一个事务里创建，任何一步失败都不会留下孤立的用户
// 公开注册只能得到ROLE_USER；ROLE_ADMIN需要调用方本身是管理员，第一个管理员由EnsureAdmin在启动时创建
type RegisterUseCase struct {
	userService user.Service
	profileRepo profile.Repository
	txManager   TxManager
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, profileRepo profile.Repository, txManager TxManager) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		profileRepo: profileRepo,
		txManager:   txManager,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if req.Role == user.RoleAdmin && req.CallerRole != user.RoleAdmin {
		return nil, ErrAdminRoleRequired
	}

	return uc.create(ctx, req.Username, req.Password, req.Role)
}

// EnsureAdmin 用户名不存在时创建管理员，已存在时不做任何修改
func (uc *RegisterUseCase) EnsureAdmin(ctx context.Context, username, password string) (created bool, err error) {
	_, err = uc.create(ctx, username, password, user.RoleAdmin)
	if errors.Is(err, apperrors.ErrUsernameDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (uc *RegisterUseCase) create(ctx context.Context, username, password, role string) (*RegisterResponse, error) {
	var created *user.User
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		u, err := uc.userService.Register(ctx, username, password, role)
		if err != nil {
			return err
		}
		if err := uc.profileRepo.Create(ctx, profile.NewEmptyProfile(u.ID)); err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{
		ID:       created.ID,
		Username: created.Username,
		Role:     created.Role,
	}, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username        string
	Password        string
	ConfirmPassword string
	Role            string
	CallerRole      string // 已登录调用方的角色，匿名注册为空
}

// RegisterResponse 注册响应（不返回密码）
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
