package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("terp@umd.edu"))
	assert.True(t, IsValidEmail("First.Last+reviews@Example.COM"))
	assert.True(t, IsValidEmail("  padded@example.org "))

	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("two@@example.com"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("").Validate())
	assert.False(t, NewStringValidation("ab").WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("abcd").WithMaxLength(3).Validate())
	assert.True(t, NewStringValidation("abc").WithMinLength(3).WithMaxLength(3).Validate())
}
