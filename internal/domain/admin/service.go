package admin

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"adterminal/internal/logging"
	"adterminal/internal/metrics"
	"adterminal/internal/pkg/apperrors"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

type TokenIssuer interface {
	GenerateToken(adminID int64, username string) (string, error)
}

type Service struct {
	repo   AdminRepository
	tokens TokenIssuer
	cost   int
	log    zerolog.Logger
}

func NewService(repo AdminRepository, tokens TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		log:    logging.Component("admin"),
	}
}

// Login checks the credentials and issues a token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, *AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, ErrMissingCredentials
	}

	admin, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			metrics.RecordLogin(false)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, apperrors.Upstream("failed to load admin", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		metrics.RecordLogin(false)
		s.log.Warn().Str("username", username).Msg("login failed")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		return "", nil, apperrors.Upstream("failed to sign token", err)
	}

	metrics.RecordLogin(true)
	return token, admin, nil
}

func (s *Service) List(ctx context.Context) ([]AdminUser, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Upstream("failed to list admins", err)
	}
	if admins == nil {
		admins = []AdminUser{}
	}
	return admins, nil
}

func (s *Service) Create(ctx context.Context, username, password string) (*AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, apperrors.Validation("Password must be at least 6 characters long")
	}
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return nil, apperrors.Validation("Username must be at least 3 characters long")
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &AdminUser{Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, apperrors.Upstream("failed to create admin", err)
	}

	s.log.Info().Int64("admin_id", admin.ID).Str("username", admin.Username).Msg("admin created")
	return admin, nil
}

func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) (*AdminUser, error) {
	if current == "" || next == "" {
		return nil, apperrors.Validation("Current password and new password are required")
	}
	if utf8.RuneCountInString(next) < MinPasswordLength {
		return nil, apperrors.Validation("New password must be at least 6 characters long")
	}

	admin, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)); err != nil {
		return nil, ErrWrongPassword
	}

	if err := s.setPassword(ctx, admin, next); err != nil {
		return nil, err
	}
	return admin, nil
}

// Delete removes an admin. Admins cannot remove themselves.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if id == actorID {
		return ErrDeleteSelf
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return err
		}
		return apperrors.Upstream("failed to delete admin", err)
	}
	s.log.Info().Int64("admin_id", id).Int64("deleted_by", actorID).Msg("admin deleted")
	return nil
}

// EnsureBootstrapAdmin creates the "admin" account when no admin exists yet.
// A concurrent instance winning the insert counts as success.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, password string, usedDefault bool) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, apperrors.Upstream("failed to count admins", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return false, err
	}
	err = s.repo.Create(ctx, &AdminUser{Username: BootstrapUsername, PasswordHash: hash})
	if errors.Is(err, ErrUsernameTaken) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Upstream("failed to create bootstrap admin", err)
	}

	event := s.log.Warn().Str("username", BootstrapUsername)
	if usedDefault {
		event.Msg("bootstrap admin created with the default password; change it with admin_passwd")
	} else {
		event.Msg("bootstrap admin created from ADMIN_PASSWORD")
	}
	return true, nil
}

// SetPassword sets an admin's password without the current one, creating the
// account when it does not exist. Used by operator tooling only.
func (s *Service) SetPassword(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, ErrMissingCredentials
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false, apperrors.Validation("Password must be at least 6 characters long")
	}

	admin, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrAdminNotFound) {
		if _, err := s.Create(ctx, username, password); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, apperrors.Upstream("failed to load admin", err)
	}
	return false, s.setPassword(ctx, admin, password)
}

func (s *Service) get(ctx context.Context, id int64) (*AdminUser, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, err
		}
		return nil, apperrors.Upstream("failed to load admin", err)
	}
	return admin, nil
}

func (s *Service) setPassword(ctx context.Context, admin *AdminUser, password string) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, admin.ID, hash); err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return err
		}
		return apperrors.Upstream("failed to update password", err)
	}
	admin.PasswordHash = hash
	s.log.Info().Int64("admin_id", admin.ID).Msg("admin password changed")
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.Validation("Password must be at most 72 bytes long")
	}
	if err != nil {
		return "", apperrors.Upstream("failed to hash password", err)
	}
	return string(hash), nil
}
