package upload

import "adterminal/internal/pkg/apperrors"

var (
	ErrFileTooLarge    = apperrors.Validation("Image exceeds maximum allowed size of 5 MB")
	ErrInvalidMimeType = apperrors.Validation("Only JPEG, PNG, GIF and WebP images are allowed")
	ErrEmptyFile       = apperrors.Validation("Image file is empty")
)
