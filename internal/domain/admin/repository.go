package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"adterminal/internal/database"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *AdminUser) error
	GetByID(ctx context.Context, id int64) (*AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*AdminUser, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context) ([]AdminUser, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create maps a unique violation on username to ErrUsernameTaken.
func (r *adminRepository) Create(ctx context.Context, admin *AdminUser) error {
	err := r.db.WithContext(ctx).Create(admin).Error
	if database.IsUniqueViolation(err) {
		return ErrUsernameTaken
	}
	return err
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*AdminUser, error) {
	var admin AdminUser
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*AdminUser, error) {
	var admin AdminUser
	if err := r.db.WithContext(ctx).First(&admin, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Model(&AdminUser{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// List returns admins newest first.
func (r *adminRepository) List(ctx context.Context) ([]AdminUser, error) {
	var admins []AdminUser
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&admins).Error
	return admins, err
}

func (r *adminRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&AdminUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&AdminUser{}).Count(&n).Error
	return n, err
}
