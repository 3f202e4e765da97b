package dto

import "time"

// ProfileResponse describes the authenticated user's profile and which fields can be edited
type ProfileResponse struct {
	Username        string    `json:"username" example:"testudo"`
	Email           *string   `json:"email,omitempty" example:"testudo@umd.edu"`
	DateJoined      time.Time `json:"dateJoined" example:"2021-08-30T12:00:00Z"`
	SendReviewEmail *bool     `json:"sendReviewEmail,omitempty" example:"true"`
	EditableFields  []string  `json:"editableFields" example:"sendReviewEmail"`
}

// UpdateProfileRequest carries profile changes. Read-only fields are not accepted.
type UpdateProfileRequest struct {
	Email           *string `json:"email" binding:"omitempty,max=254" example:"testudo@umd.edu"`
	SendReviewEmail *bool   `json:"sendReviewEmail" example:"true"`
}
