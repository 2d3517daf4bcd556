package ad

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]Ad, error)
	GetByID(ctx context.Context, id int64) (*Ad, error)
	Create(ctx context.Context, a *Ad) error
	Update(ctx context.Context, a *Ad) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, now: time.Now}
}

// List returns every ad, newest first.
func (r *repository) List(ctx context.Context) ([]Ad, error) {
	var ads []Ad
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&ads).Error
	return ads, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Ad, error) {
	var a Ad
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, a *Ad) error {
	now := r.now().UTC()
	if !a.CreatedAt.Valid {
		a.CreatedAt = NewTimestamp(now)
	}
	a.UpdatedAt = now
	return r.db.WithContext(ctx).Create(a).Error
}

// Update writes the mutable columns. id and created_at are never touched.
func (r *repository) Update(ctx context.Context, a *Ad) error {
	a.UpdatedAt = r.now().UTC()
	res := r.db.WithContext(ctx).Model(&Ad{}).Where("id = ?", a.ID).Updates(map[string]any{
		"title":          a.Title,
		"description":    a.Description,
		"image_url":      a.ImageURL,
		"cta_url":        a.CTAURL,
		"category":       a.Category,
		"timeframe_days": a.TimeframeDays,
		"is_active":      a.IsActive,
		"updated_at":     a.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Ad{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdNotFound
	}
	return nil
}
