package ad

import (
	"errors"

	"adterminal/internal/pkg/apperrors"
)

var (
	ErrAdNotFound = apperrors.NotFound("Ad not found")
	ErrInvalidID  = apperrors.Validation("Invalid ad ID")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrAdNotFound)
}
