package models

// ResultKind discriminates the entity types a search can return
type ResultKind string

const (
	ResultKindCourse    ResultKind = "course"
	ResultKindProfessor ResultKind = "professor"
)

// SearchResult is a ranked reference to a searchable entity.
// Resolution logic works only through this interface.
type SearchResult interface {
	Kind() ResultKind
	DisplayName() string
	Subtitle() string
	RedirectTarget() string
}
