package models

import "net/url"

// ProfessorType distinguishes professors from teaching assistants
type ProfessorType string

const (
	ProfessorTypeProfessor ProfessorType = "professor"
	ProfessorTypeTA        ProfessorType = "ta"
)

// Professor represents an instructor that can be reviewed.
// Names are not unique; Slug is.
type Professor struct {
	ID   int64         `json:"id" db:"id"`
	Name string        `json:"name" db:"name"`
	Slug string        `json:"slug" db:"slug"`
	Type ProfessorType `json:"type" db:"type"`
}

// Kind implements SearchResult
func (p *Professor) Kind() ResultKind { return ResultKindProfessor }

// DisplayName implements SearchResult
func (p *Professor) DisplayName() string { return p.Name }

// Subtitle implements SearchResult
func (p *Professor) Subtitle() string {
	if p.Type == ProfessorTypeTA {
		return "Teaching Assistant"
	}
	return "Professor"
}

// RedirectTarget implements SearchResult
func (p *Professor) RedirectTarget() string {
	return "/professor/" + url.PathEscape(p.Slug)
}
