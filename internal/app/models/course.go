package models

import "net/url"

// Course represents a catalog course such as CMSC131.
type Course struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"` // Department code plus number, e.g. "CMSC131"
	Department   string  `json:"department" db:"department"`
	CourseNumber string  `json:"courseNumber" db:"course_number"`
	Title        string  `json:"title" db:"title"`
	Description  *string `json:"description,omitempty" db:"description"` // Nullable
	Credits      *int    `json:"credits,omitempty" db:"credits"`         // Nullable
}

// Kind implements SearchResult
func (c *Course) Kind() ResultKind { return ResultKindCourse }

// DisplayName implements SearchResult
func (c *Course) DisplayName() string { return c.Name }

// Subtitle implements SearchResult
func (c *Course) Subtitle() string { return c.Title }

// RedirectTarget implements SearchResult
func (c *Course) RedirectTarget() string {
	return "/course/" + url.PathEscape(c.Name)
}
