package dto

import (
	"github.com/xiebiao/easyshop/internal/domain/profile"
)

// ProfileRequest 修改资料请求（整体覆盖）
type ProfileRequest struct {
	FirstName string `json:"first_name" binding:"max=50"`
	LastName  string `json:"last_name" binding:"max=50"`
	Phone     string `json:"phone" binding:"max=20"`
	Email     string `json:"email" binding:"omitempty,email,max=100"`
	Address   string `json:"address" binding:"max=255"`
	City      string `json:"city" binding:"max=100"`
	State     string `json:"state" binding:"max=50"`
	Zip       string `json:"zip" binding:"max=20"`
}

// ProfileResponse 资料响应
type ProfileResponse struct {
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

// NewProfileResponse 领域实体 → 响应
func NewProfileResponse(p *profile.Profile) *ProfileResponse {
	return &ProfileResponse{
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		City:      p.City,
		State:     p.State,
		Zip:       p.Zip,
	}
}
