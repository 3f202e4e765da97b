package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/pkg/apperrors"
	"github.com/yigit/coursescope/internal/pkg/validation"
)

// Profile field names as exposed to clients
const (
	ProfileFieldEmail           = "email"
	ProfileFieldSendReviewEmail = "sendReviewEmail"
)

// ProfileUpdate holds requested profile changes; nil fields are left alone
type ProfileUpdate struct {
	Email           *string
	SendReviewEmail *bool
}

// ProfileService reads and edits the authenticated user's profile
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, error)
	EditableFields(user *models.User) []string
}

type profileServiceImpl struct {
	users  UserStore
	logger zerolog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(users UserStore, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		users:  users,
		logger: logger.With().Str("component", "profile_service").Logger(),
	}
}

func emailTakenError() error {
	return &apperrors.CustomError{
		Err:     apperrors.ErrEmailAlreadyExists,
		Field:   ProfileFieldEmail,
		Message: "An account with that email already exists.",
	}
}

// GetProfile returns the user's profile
func (s *profileServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", apperrors.ErrValidationFailed)
	}
	return s.users.GetUserByID(ctx, userID)
}

// EditableFields lists what the user may change. Once an email is on file it
// is locked and the review email preference becomes available instead.
func (s *profileServiceImpl) EditableFields(user *models.User) []string {
	if user.HasEmail() {
		return []string{ProfileFieldSendReviewEmail}
	}
	return []string{ProfileFieldEmail}
}

// UpdateProfile applies the editable parts of update. Changes to locked fields are ignored.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if user.HasEmail() {
		if update.SendReviewEmail != nil && *update.SendReviewEmail != user.SendReviewEmail {
			user.SendReviewEmail = *update.SendReviewEmail
			changed = true
		}
	} else if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if email != "" {
			if !validation.IsValidEmail(email) {
				return nil, apperrors.NewValidationError(ProfileFieldEmail, "Enter a valid email address.")
			}

			exists, err := s.users.EmailExists(ctx, email, user.ID)
			if err != nil {
				return nil, fmt.Errorf("error checking email availability: %w", err)
			}
			if exists {
				return nil, emailTakenError()
			}

			user.Email = &email
			changed = true
		}
	}

	if !changed {
		return user, nil
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		// Lost a race with another account claiming the same address
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, emailTakenError()
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Profile updated")
	return user, nil
}
