package ad

import (
	"context"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"adterminal/internal/domain/upload"
	"adterminal/internal/logging"
	"adterminal/internal/metrics"
	"adterminal/internal/pkg/apperrors"
	"adterminal/internal/pkg/utils"
	"adterminal/internal/pkg/validator"
)

const (
	DefaultTimeframeDays = 30
	assetDeleteTimeout   = 30 * time.Second
)

// Fields are the editable attributes of an ad.
type Fields struct {
	Title         string  `json:"title" validate:"notblank"`
	Description   string  `json:"description" validate:"notblank"`
	CTAURL        string  `json:"cta_url" validate:"notblank"`
	Category      string  `json:"category" validate:"notblank"`
	TimeframeDays int     `json:"timeframe_days" validate:"gte=0"`
	IsActive      bool    `json:"is_active"`
	ImageURL      *string `json:"image_url"`
}

// Patch is a partial update. Nil fields keep their stored value.
type Patch struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	CTAURL        *string `json:"cta_url"`
	Category      *string `json:"category"`
	TimeframeDays *int    `json:"timeframe_days"`
	IsActive      *bool   `json:"is_active"`
	ImageURL      *string `json:"image_url"`
	RemoveImage   bool    `json:"remove_image"`
}

type Service struct {
	repo   Repository
	assets upload.Store
	now    func() time.Time
	log    zerolog.Logger

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

func NewService(repo Repository, assets upload.Store) *Service {
	return &Service{
		repo:   repo,
		assets: assets,
		now:    time.Now,
		log:    logging.Component("ad"),
	}
}

func (s *Service) List(ctx context.Context) ([]Ad, error) {
	ads, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Upstream("failed to list ads", err)
	}
	if ads == nil {
		ads = []Ad{}
	}
	return ads, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Ad, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, apperrors.Upstream("failed to load ad", err)
	}
	return a, nil
}

// Create validates f, stores the optional image and inserts the ad.
func (s *Service) Create(ctx context.Context, f Fields, image *multipart.FileHeader) (*Ad, error) {
	if err := normalize(&f, false); err != nil {
		return nil, err
	}

	var uploaded string
	if image != nil {
		url, err := s.saveImage(ctx, image)
		if err != nil {
			return nil, err
		}
		uploaded = url
		f.ImageURL = &url
	}

	a := &Ad{
		Title:         f.Title,
		Description:   f.Description,
		ImageURL:      f.ImageURL,
		CTAURL:        f.CTAURL,
		Category:      f.Category,
		TimeframeDays: f.TimeframeDays,
		IsActive:      NewActiveFlag(f.IsActive),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if uploaded != "" {
			s.deleteAssetAsync(uploaded)
		}
		return nil, apperrors.Upstream("failed to create ad", err)
	}

	s.log.Info().Int64("ad_id", a.ID).Str("category", a.Category).Msg("ad created")
	return a, nil
}

// Update applies p to the stored ad. A new image replaces the old one, which
// is then removed from the asset store. A negative timeframe already stored
// on a legacy row is kept as is unless p sets a new one.
func (s *Service) Update(ctx context.Context, id int64, p Patch, image *multipart.FileHeader) (*Ad, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	f := Fields{
		Title:         existing.Title,
		Description:   existing.Description,
		CTAURL:        existing.CTAURL,
		Category:      existing.Category,
		TimeframeDays: existing.TimeframeDays,
		IsActive:      existing.Active(),
		ImageURL:      existing.ImageURL,
	}
	p.apply(&f)
	if err := normalize(&f, p.TimeframeDays == nil); err != nil {
		return nil, err
	}

	var uploaded string
	if image != nil {
		url, err := s.saveImage(ctx, image)
		if err != nil {
			return nil, err
		}
		uploaded = url
		f.ImageURL = &url
	}

	updated := *existing
	updated.Title = f.Title
	updated.Description = f.Description
	updated.CTAURL = f.CTAURL
	updated.Category = f.Category
	updated.TimeframeDays = f.TimeframeDays
	updated.IsActive = NewActiveFlag(f.IsActive)
	updated.ImageURL = f.ImageURL

	if err := s.repo.Update(ctx, &updated); err != nil {
		if uploaded != "" {
			s.deleteAssetAsync(uploaded)
		}
		if isNotFound(err) {
			return nil, err
		}
		return nil, apperrors.Upstream("failed to update ad", err)
	}

	if old := deref(existing.ImageURL); old != "" && old != deref(updated.ImageURL) {
		s.deleteAssetAsync(old)
	}
	return &updated, nil
}

// Delete removes the ad row, then its image in the background.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return err
		}
		return apperrors.Upstream("failed to delete ad", err)
	}

	s.log.Info().Int64("ad_id", id).Msg("ad deleted")
	if img := deref(existing.ImageURL); img != "" {
		s.deleteAssetAsync(img)
	}
	return nil
}

// PublicFeed returns the ads an integration consumer may see right now,
// newest first, optionally restricted to one category.
func (s *Service) PublicFeed(ctx context.Context, category string, now time.Time) ([]Ad, error) {
	ads, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Upstream("failed to list ads", err)
	}
	if category != "" {
		ads = FilterByCategory(ads, category)
	}
	return FilterVisible(ads, now), nil
}

// Wait blocks until every background asset deletion scheduled so far has
// finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// Close drains background asset deletions. Deletions requested afterwards
// run synchronously in the calling request.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.pending.Wait()
}

func (s *Service) saveImage(ctx context.Context, image *multipart.FileHeader) (string, error) {
	url, err := s.assets.Save(ctx, image)
	metrics.RecordAssetOperation(s.assets.Name(), "save", err)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindValidation) {
			return "", err
		}
		return "", apperrors.Upstream("failed to store image", err)
	}
	return url, nil
}

func (s *Service) deleteAssetAsync(url string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.deleteAsset(url)
		return
	}
	s.pending.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pending.Done()
		s.deleteAsset(url)
	}()
}

func (s *Service) deleteAsset(url string) {
	ctx, cancel := context.WithTimeout(context.Background(), assetDeleteTimeout)
	defer cancel()

	err := s.assets.Delete(ctx, url)
	metrics.RecordAssetOperation(s.assets.Name(), "delete", err)
	if err != nil {
		s.log.Warn().Err(err).Str("image_url", url).Msg("failed to delete ad image")
		return
	}
	s.log.Debug().Str("image_url", url).Msg("ad image deleted")
}

func (p Patch) apply(f *Fields) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.CTAURL != nil {
		f.CTAURL = *p.CTAURL
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.TimeframeDays != nil {
		f.TimeframeDays = *p.TimeframeDays
	}
	if p.IsActive != nil {
		f.IsActive = *p.IsActive
	}
	if p.ImageURL != nil {
		f.ImageURL = p.ImageURL
	}
	if p.RemoveImage {
		f.ImageURL = nil
	}
}

// normalize trims text fields and validates the result. With keepTimeframe
// the stored timeframe is not re-validated.
func normalize(f *Fields, keepTimeframe bool) error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	f.CTAURL = strings.TrimSpace(f.CTAURL)

	check := *f
	if keepTimeframe && check.TimeframeDays < 0 {
		check.TimeframeDays = 0
	}
	if err := validator.Check(&check); err != nil {
		return err
	}
	if _, ok := utils.ValidateURL(f.CTAURL); !ok {
		return apperrors.Validation("cta_url must be an http(s) URL or a path starting with /")
	}

	if f.ImageURL != nil {
		img := strings.TrimSpace(*f.ImageURL)
		switch {
		case img == "":
			f.ImageURL = nil
		default:
			if _, ok := utils.ValidateURL(img); !ok {
				return apperrors.Validation("image_url must be an http(s) URL or a path starting with /")
			}
			f.ImageURL = &img
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
