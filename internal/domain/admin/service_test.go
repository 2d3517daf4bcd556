package admin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"adterminal/internal/database"
	"adterminal/internal/pkg/apperrors"
	"adterminal/internal/pkg/jwt"
)

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) GenerateToken(adminID int64, username string) (string, error) {
	args := m.Called(adminID, username)
	return args.String(0), args.Error(1)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&AdminUser{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestService(t *testing.T, tokens TokenIssuer) (*Service, AdminRepository) {
	t.Helper()
	repo := NewAdminRepository(newTestDB(t))
	if tokens == nil {
		tokens = jwt.New("test-secret", time.Hour)
	}
	svc := NewService(repo, tokens)
	svc.cost = bcrypt.MinCost
	return svc, repo
}

func TestService_Login(t *testing.T) {
	tokens := new(mockTokenIssuer)
	svc, _ := newTestService(t, tokens)
	ctx := context.Background()

	created, err := svc.Create(ctx, "editor", "s3cret!")
	require.NoError(t, err)
	tokens.On("GenerateToken", created.ID, "editor").Return("signed-token", nil)

	token, admin, err := svc.Login(ctx, " editor ", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.Equal(t, created.ID, admin.ID)

	_, _, err = svc.Login(ctx, "editor", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "ghost", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "", "x")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	tokens.AssertNumberOfCalls(t, "GenerateToken", 1)
}

func TestService_Login_SignFailure(t *testing.T) {
	tokens := new(mockTokenIssuer)
	svc, _ := newTestService(t, tokens)
	ctx := context.Background()

	_, err := svc.Create(ctx, "editor", "s3cret!")
	require.NoError(t, err)
	tokens.On("GenerateToken", mock.Anything, mock.Anything).Return("", errors.New("no key"))

	_, _, err = svc.Login(ctx, "editor", "s3cret!")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUpstream))
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		username, password, msg string
	}{
		{"", "secret1", "Username and password are required"},
		{"bob", "", "Username and password are required"},
		{"bob", "12345", "Password must be at least 6 characters long"},
		{"ab", "123456", "Username must be at least 3 characters long"},
		{"bob", strings.Repeat("x", 80), "Password must be at most 72 bytes long"},
	}
	for _, tt := range tests {
		_, err := svc.Create(ctx, tt.username, tt.password)
		require.Error(t, err)
		assert.Equal(t, tt.msg, apperrors.From(err).Message)
		assert.Equal(t, 400, apperrors.From(err).HTTPStatus())
	}
}

func TestService_Create_Duplicate(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "editor", "secret1")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "editor", "secret2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, 400, apperrors.From(err).HTTPStatus())
}

func TestService_ChangePassword(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	admin, err := svc.Create(ctx, "editor", "secret1")
	require.NoError(t, err)

	_, err = svc.ChangePassword(ctx, admin.ID, "nope", "newsecret")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.ChangePassword(ctx, admin.ID, "secret1", "short")
	assert.Equal(t, "New password must be at least 6 characters long", apperrors.From(err).Message)

	_, err = svc.ChangePassword(ctx, admin.ID, "", "newsecret")
	assert.Equal(t, "Current password and new password are required", apperrors.From(err).Message)

	_, err = svc.ChangePassword(ctx, 9999, "secret1", "newsecret")
	assert.ErrorIs(t, err, ErrAdminNotFound)

	_, err = svc.ChangePassword(ctx, admin.ID, "secret1", "newsecret")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "editor", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "editor", "newsecret")
	assert.NoError(t, err)
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	me, err := svc.Create(ctx, "me-admin", "secret1")
	require.NoError(t, err)
	other, err := svc.Create(ctx, "other", "secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, me.ID, me.ID), ErrDeleteSelf)
	assert.ErrorIs(t, svc.Delete(ctx, me.ID, 424242), ErrAdminNotFound)
	require.NoError(t, svc.Delete(ctx, me.ID, other.ID))

	admins, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "me-admin", admins[0].Username)
}

func TestService_EnsureBootstrapAdmin(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.EnsureBootstrapAdmin(ctx, "admin123", true)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureBootstrapAdmin(ctx, "other-password", false)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, _, err = svc.Login(ctx, BootstrapUsername, "admin123")
	assert.NoError(t, err)
}

func TestService_EnsureBootstrapAdmin_SkipsWhenAdminsExist(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner", "secret1")
	require.NoError(t, err)

	created, err := svc.EnsureBootstrapAdmin(ctx, "admin123", true)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = repo.GetByUsername(ctx, BootstrapUsername)
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

// Another instance inserting "admin" between Count and Create.
type racingRepo struct {
	AdminRepository
}

func (r racingRepo) Count(context.Context) (int64, error) { return 0, nil }

func (r racingRepo) Create(context.Context, *AdminUser) error { return ErrUsernameTaken }

func TestService_EnsureBootstrapAdmin_LostRace(t *testing.T) {
	svc := NewService(racingRepo{}, jwt.New("s", time.Hour))
	svc.cost = bcrypt.MinCost

	created, err := svc.EnsureBootstrapAdmin(context.Background(), "admin123", false)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestService_SetPassword(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.SetPassword(ctx, "ops", "first-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.SetPassword(ctx, "ops", "second-pass")
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = svc.Login(ctx, "ops", "second-pass")
	assert.NoError(t, err)

	_, err = svc.SetPassword(ctx, "ops", "123")
	assert.Error(t, err)
}
