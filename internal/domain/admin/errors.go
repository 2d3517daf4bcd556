package admin

import "adterminal/internal/pkg/apperrors"

var (
	ErrInvalidCredentials = apperrors.Unauthorized("INVALID_CREDENTIALS", "Invalid credentials")
	ErrMissingCredentials = apperrors.Validation("Username and password are required")
	ErrAdminNotFound      = apperrors.NotFound("Admin not found")
	ErrUsernameTaken      = apperrors.Conflict("Username already exists")
	ErrWrongPassword      = apperrors.Unauthorized("INVALID_CURRENT_PASSWORD", "Current password is incorrect")
	ErrDeleteSelf         = apperrors.Validation("You cannot delete your own account")
	ErrInvalidID          = apperrors.Validation("Invalid admin ID")
)
