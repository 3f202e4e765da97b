package models

import "time"

// User is a site account
type User struct {
	ID              int64     `json:"id" db:"id"`
	Username        string    `json:"username" db:"username"`
	Email           *string   `json:"email,omitempty" db:"email"` // Nullable until the user adds one
	DateJoined      time.Time `json:"dateJoined" db:"date_joined"`
	SendReviewEmail bool      `json:"sendReviewEmail" db:"send_review_email"`
}

// HasEmail reports whether an email address is on file
func (u *User) HasEmail() bool {
	return u.Email != nil && *u.Email != ""
}
