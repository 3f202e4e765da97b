package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesAnyTarget(t *testing.T) {
	err := fmt.Errorf("loading profile: %w", ErrUserNotFound)

	assert.True(t, Is(err, ErrUserNotFound))
	assert.True(t, Is(err, ErrResourceNotFound, ErrConflict, ErrUserNotFound))
	assert.False(t, Is(err, ErrResourceNotFound, ErrConflict))
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := fmt.Errorf("update profile: %w", NewValidationError("email", "Enter a valid email address."))

	assert.True(t, errors.Is(err, ErrValidationFailed))

	ce, ok := AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, "email", ce.Field)
	assert.Equal(t, "Enter a valid email address.", ce.Error())
}

func TestCustomErrorFallsBackToWrappedMessage(t *testing.T) {
	ce := &CustomError{Err: ErrBadRequest}
	assert.Equal(t, "bad request", ce.Error())

	ce = &CustomError{}
	assert.Equal(t, "unknown error", ce.Error())
}
