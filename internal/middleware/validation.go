package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/coursescope/internal/app/models/dto"
)

// BindQuery binds and validates query parameters into obj.
// On failure it writes a 400 response and returns false.
func BindQuery(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, c.ShouldBindQuery)
}

// BindJSON binds and validates a JSON body into obj.
// On failure it writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, c.ShouldBindJSON)
}

func bindWith(c *gin.Context, obj interface{}, bind func(interface{}) error) bool {
	err := bind(obj)
	if err == nil {
		return true
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		validationErrors := dto.NewValidationErrors()
		for _, fe := range fieldErrors {
			validationErrors.AddError(fieldName(fe), formatValidationError(fe))
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(validationErrors.Errors)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format").WithDetails(err.Error())
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
	return false
}

// fieldName lowercases the first letter of the Go field name, e.g. SendReviewEmail => sendReviewEmail
func fieldName(e validator.FieldError) string {
	name := e.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := fieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "len":
		return field + " must be exactly " + e.Param() + " characters"
	case "numeric":
		return field + " must contain only digits"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
