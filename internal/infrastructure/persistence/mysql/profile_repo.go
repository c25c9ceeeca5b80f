package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/easyshop/internal/domain/profile"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建收货资料仓储
func NewProfileRepository(db *gorm.DB) profile.Repository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *profile.Profile) error {
	model := toProfileModel(p)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "收货资料已存在")
		}
		return apperrors.Wrap(err, "创建收货资料失败")
	}
	return nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*profile.Profile, error) {
	var model ProfileModel
	err := dbFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(err, "查询收货资料失败")
	}
	return toProfileEntity(&model), nil
}

// Update 覆盖全部资料字段（空字符串也会写入）
func (r *profileRepository) Update(ctx context.Context, p *profile.Profile) error {
	db := dbFromContext(ctx, r.db)

	var existing ProfileModel
	if err := db.Where("user_id = ?", p.UserID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return profile.ErrProfileNotFound
		}
		return apperrors.Wrap(err, "查询收货资料失败")
	}

	if err := db.Save(toProfileModel(p)).Error; err != nil {
		return apperrors.Wrap(err, "更新收货资料失败")
	}
	return nil
}

func toProfileModel(p *profile.Profile) *ProfileModel {
	return &ProfileModel{
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

func toProfileEntity(m *ProfileModel) *profile.Profile {
	return &profile.Profile{
		UserID:    m.UserID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Email:     m.Email,
		Address:   m.Address,
		City:      m.City,
		State:     m.State,
		Zip:       m.Zip,
	}
}
