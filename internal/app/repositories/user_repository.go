package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/pkg/apperrors"
	"github.com/yigit/coursescope/internal/pkg/dberrors"
	"github.com/yigit/coursescope/internal/pkg/helpers"
)

// usersEmailConstraint is the unique index on LOWER(email)
const usersEmailConstraint = "users_email_lower_key"

// UserRepository handles database operations for users. It implements services.UserStore.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, email, date_joined, send_review_email
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.DateJoined,
		&user.SendReviewEmail,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// EmailExists checks, case-insensitively, whether another user already has email
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeUserID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2)`,
		email, excludeUserID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile persists the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET email = $1, send_review_email = $2 WHERE id = $3`,
		helpers.GetNullString(user.Email), user.SendReviewEmail, user.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, usersEmailConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating user profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// Create inserts a user unless the username is taken, setting user.ID either way
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, date_joined, send_review_email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		user.Username, helpers.GetNullString(user.Email), user.DateJoined, user.SendReviewEmail,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("error creating user %s: %w", user.Username, err)
	}

	return nil
}
