package ad

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adterminal/internal/pkg/apperrors"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context) ([]Ad, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Ad), args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ad), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, a *Ad) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockRepo) Update(ctx context.Context, a *Ad) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type fakeStore struct {
	mu      sync.Mutex
	saveURL string
	saveErr error
	deleted []string
}

func (f *fakeStore) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	return f.saveURL, f.saveErr
}

func (f *fakeStore) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func validFields() Fields {
	return Fields{
		Title:         "  Spring sale ",
		Description:   "Everything 20% off",
		CTAURL:        "https://shop.example.com/spring",
		Category:      "retail",
		TimeframeDays: 30,
		IsActive:      true,
	}
}

func TestService_Create_Success(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, &fakeStore{})

	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *Ad) bool {
		return a.Title == "Spring sale" && a.Active() && a.ImageURL == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*Ad).ID = 7
	}).Return(nil)

	a, err := svc.Create(context.Background(), validFields(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), a.ID)
	repo.AssertExpectations(t)
}

func TestService_Create_ValidationRunsBeforeRepository(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Fields)
		msg    string
	}{
		{"blank title", func(f *Fields) { f.Title = "   " }, "title is required"},
		{"missing category", func(f *Fields) { f.Category = "" }, "category is required"},
		{"negative timeframe", func(f *Fields) { f.TimeframeDays = -1 }, "timeframe_days must be greater than or equal to 0"},
		{"script cta", func(f *Fields) { f.CTAURL = "javascript:alert(1)" }, "cta_url must be an http(s) URL or a path starting with /"},
		{"protocol relative cta", func(f *Fields) { f.CTAURL = "//evil.example.com" }, "cta_url must be an http(s) URL or a path starting with /"},
		{"data image", func(f *Fields) { s := "data:image/png;base64,AAAA"; f.ImageURL = &s }, "image_url must be an http(s) URL or a path starting with /"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			svc := NewService(repo, &fakeStore{})

			f := validFields()
			tt.mutate(&f)
			_, err := svc.Create(context.Background(), f, nil)

			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
			assert.Equal(t, tt.msg, apperrors.From(err).Message)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Create_RemovesImageWhenInsertFails(t *testing.T) {
	repo := new(mockRepo)
	store := &fakeStore{saveURL: "/uploads/new.png"}
	svc := NewService(repo, store)

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.Create(context.Background(), validFields(), &multipart.FileHeader{Filename: "x.png", Size: 10})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUpstream))

	svc.Wait()
	assert.Equal(t, []string{"/uploads/new.png"}, store.Deleted())
}

func TestService_Create_ImageRejected(t *testing.T) {
	repo := new(mockRepo)
	store := &fakeStore{saveErr: apperrors.Validation("Only JPEG, PNG, GIF and WebP images are allowed")}
	svc := NewService(repo, store)

	_, err := svc.Create(context.Background(), validFields(), &multipart.FileHeader{Filename: "x.txt", Size: 10})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Get(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, &fakeStore{})

	_, err := svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidID)

	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, ErrAdNotFound)
	_, err = svc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, ErrAdNotFound)
	assert.Equal(t, 404, apperrors.From(err).HTTPStatus())
}

func TestService_Update_PartialKeepsOtherFields(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, &fakeStore{})
	img := "/uploads/keep.png"
	existing := &Ad{
		ID: 3, Title: "Old", Description: "Desc", CTAURL: "/promo", Category: "food",
		TimeframeDays: 10, IsActive: NewActiveFlag(true), ImageURL: &img,
		CreatedAt: NewTimestamp(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	repo.On("GetByID", mock.Anything, int64(3)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	inactive := false
	title := "New"
	a, err := svc.Update(context.Background(), 3, Patch{Title: &title, IsActive: &inactive}, nil)
	require.NoError(t, err)

	assert.Equal(t, "New", a.Title)
	assert.Equal(t, "Desc", a.Description)
	assert.Equal(t, "food", a.Category)
	assert.Equal(t, 10, a.TimeframeDays)
	assert.False(t, a.Active())
	assert.Equal(t, existing.CreatedAt, a.CreatedAt)
	require.NotNil(t, a.ImageURL)
	assert.Equal(t, img, *a.ImageURL)
}

func TestService_Update_ReplacesImage(t *testing.T) {
	repo := new(mockRepo)
	store := &fakeStore{saveURL: "/uploads/new.png"}
	svc := NewService(repo, store)
	old := "/uploads/old.png"
	repo.On("GetByID", mock.Anything, int64(3)).Return(&Ad{
		ID: 3, Title: "t", Description: "d", CTAURL: "/x", Category: "c", IsActive: NewActiveFlag(true), ImageURL: &old,
	}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	a, err := svc.Update(context.Background(), 3, Patch{}, &multipart.FileHeader{Filename: "n.png", Size: 10})
	require.NoError(t, err)
	require.NotNil(t, a.ImageURL)
	assert.Equal(t, "/uploads/new.png", *a.ImageURL)

	svc.Wait()
	assert.Equal(t, []string{old}, store.Deleted())
}

func TestService_Update_NotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, &fakeStore{})
	repo.On("GetByID", mock.Anything, int64(5)).Return(nil, ErrAdNotFound)

	_, err := svc.Update(context.Background(), 5, Patch{}, nil)
	assert.ErrorIs(t, err, ErrAdNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Delete_SchedulesImageRemoval(t *testing.T) {
	repo := new(mockRepo)
	store := &fakeStore{}
	svc := NewService(repo, store)
	img := "https://res.cloudinary.com/demo/image/upload/infoland-ads/a.png"
	repo.On("GetByID", mock.Anything, int64(2)).Return(&Ad{ID: 2, ImageURL: &img}, nil)
	repo.On("Delete", mock.Anything, int64(2)).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 2))
	svc.Wait()
	assert.Equal(t, []string{img}, store.Deleted())
}

func TestService_Delete_NoImage(t *testing.T) {
	repo := new(mockRepo)
	store := &fakeStore{}
	svc := NewService(repo, store)
	repo.On("GetByID", mock.Anything, int64(2)).Return(&Ad{ID: 2}, nil)
	repo.On("Delete", mock.Anything, int64(2)).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 2))
	svc.Wait()
	assert.Empty(t, store.Deleted())
}

func TestService_PublicFeed(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, &fakeStore{})
	feedNow := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	created := NewTimestamp(feedNow.Add(-48 * time.Hour))

	repo.On("List", mock.Anything).Return([]Ad{
		{ID: 4, Category: "Food", IsActive: NewActiveFlag(true), TimeframeDays: 30, CreatedAt: created},
		{ID: 3, Category: "food", IsActive: NewActiveFlag(true), TimeframeDays: 30, CreatedAt: created},
		{ID: 2, Category: "food", IsActive: NewActiveFlag(false), TimeframeDays: 30, CreatedAt: created},
		{ID: 1, Category: "food", IsActive: NewActiveFlag(true), TimeframeDays: 1, CreatedAt: created},
	}, nil)

	all, err := svc.PublicFeed(context.Background(), "", feedNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3}, ids(all))

	food, err := svc.PublicFeed(context.Background(), "food", feedNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(food))
}

func TestService_PublicFeed_RepositoryError(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, &fakeStore{})
	repo.On("List", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := svc.PublicFeed(context.Background(), "", time.Now())
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.From(err).HTTPStatus())
}

func TestService_Update_LegacyNegativeTimeframe(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, &fakeStore{})
	repo.On("GetByID", mock.Anything, int64(8)).Return(&Ad{
		ID: 8, Title: "t", Description: "d", CTAURL: "/x", Category: "c", TimeframeDays: -3, IsActive: NewActiveFlag(true),
	}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	inactive := false
	a, err := svc.Update(context.Background(), 8, Patch{IsActive: &inactive}, nil)
	require.NoError(t, err)
	assert.False(t, a.Active())
	assert.Equal(t, -3, a.TimeframeDays)

	negative := -1
	_, err = svc.Update(context.Background(), 8, Patch{TimeframeDays: &negative}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestService_Close_DeletesSynchronouslyAfterward(t *testing.T) {
	repo := new(mockRepo)
	store := &fakeStore{}
	svc := NewService(repo, store)
	img := "/uploads/late.png"
	repo.On("GetByID", mock.Anything, int64(2)).Return(&Ad{ID: 2, ImageURL: &img}, nil)
	repo.On("Delete", mock.Anything, int64(2)).Return(nil)

	svc.Close()
	require.NoError(t, svc.Delete(context.Background(), 2))
	assert.Equal(t, []string{img}, store.Deleted())
}

func TestService_Close_ConcurrentWithDeletes(t *testing.T) {
	repo := new(mockRepo)
	store := &fakeStore{}
	svc := NewService(repo, store)
	img := "/uploads/x.png"
	repo.On("GetByID", mock.Anything, mock.Anything).Return(&Ad{ID: 1, ImageURL: &img}, nil)
	repo.On("Delete", mock.Anything, mock.Anything).Return(nil)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, svc.Delete(context.Background(), id))
		}(int64(i + 1))
	}
	svc.Close()
	wg.Wait()
	svc.Wait()

	assert.Len(t, store.Deleted(), n)
}
