package user

import (
	"context"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// Service 用户领域服务
// 1. 密码加密、校验等不属于单个实体的逻辑
// 2. 依赖Repository接口，不依赖具体实现
type Service interface {
	// Register 用户注册（只创建用户，不负责收货资料）
	Register(ctx context.Context, username, password, role string) (*User, error)

	// Login 用户登录
	Login(ctx context.Context, username, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: 12}
}

// NewServiceWithCost 指定bcrypt cost（测试中用MinCost加速）
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)

// Register 用户注册
// 业务规则：
// 1. 用户名3-50位，字母数字及_.-
// 2. 密码强度校验（8-20位，包含字母和数字）
// 3. 用户名唯一性由数据库UNIQUE索引保证，这里预检查给出友好提示
func (s *service) Register(ctx context.Context, username, password, role string) (*User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "用户名格式不正确（3-50位字母、数字或_.-）")
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	if role != "" && !IsValidRole(role) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "无效的角色")
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrUsernameDuplicate
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(username, string(hashedPassword), role)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Login 用户登录
// 用户不存在和密码错误返回同一个错误，避免探测用户名
func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}

	return u, nil
}

// ValidatePassword 验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit  = regexp.MustCompile(`[0-9]`)
)

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}

	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}

	return nil
}
