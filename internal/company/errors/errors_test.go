package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorsWrapsInvalidInput(t *testing.T) {
	verrs := &ValidationErrors{}
	verrs.Add("Company name is required.")
	verrs.Add("VAT number is required.")

	assert.True(t, verrs.HasErrors())
	assert.ErrorIs(t, verrs, ErrInvalidInput)
	assert.Contains(t, verrs.Error(), "Company name is required.")
	assert.Contains(t, verrs.Error(), "VAT number is required.")
}

func TestValidationErrorsEmpty(t *testing.T) {
	verrs := &ValidationErrors{}
	assert.False(t, verrs.HasErrors())
}

func TestSentinelsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput),
		"not-found and validation map to different external statuses")
}
