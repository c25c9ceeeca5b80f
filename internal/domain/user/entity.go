package user

import (
	"time"
)

// 角色
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User 用户实体（聚合根）
// 1. 用户名是登录凭证，也是结算时解析当前用户的依据
// 2. Password保存bcrypt哈希值
type User struct {
	ID        uint
	Username  string
	Password  string // bcrypt哈希值
	Role      string // ROLE_USER | ROLE_ADMIN
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码，role为空时默认普通用户
func NewUser(username, hashedPassword, role string) *User {
	if role == "" {
		role = RoleUser
	}
	now := time.Now()
	return &User{
		Username:  username,
		Password:  hashedPassword,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsValidRole 校验角色取值
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
