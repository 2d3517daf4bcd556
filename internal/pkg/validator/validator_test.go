package validator

import (
	"testing"

	"adterminal/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required,min=3"`
	Title    string `json:"title" validate:"notblank"`
	Days     int    `json:"timeframe_days" validate:"gte=0"`
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(sample{Username: "admin", Title: "x", Days: 0}))
	assert.NoError(t, Check(sample{Username: "admin", Title: "x"}))
}

func TestValidate_UsesJSONNames(t *testing.T) {
	errs := Validate(sample{Username: "ab", Title: "   ", Days: -1})

	assert.Equal(t, "username must be at least 3 characters long", errs["username"])
	assert.Equal(t, "title is required", errs["title"])
	assert.Equal(t, "timeframe_days must be greater than or equal to 0", errs["timeframe_days"])
}

func TestCheck_ReturnsValidationError(t *testing.T) {
	err := Check(sample{Username: "admin", Title: ""})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Equal(t, "title is required", err.Error())
}
