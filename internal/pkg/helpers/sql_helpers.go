package helpers

import (
	"database/sql"
	"strings"
)

// GetNullString converts a string pointer to sql.NullString.
// If the pointer is nil, returns an empty NullString.
// Otherwise, returns a valid NullString with the pointer's value.
func GetNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE/ILIKE metacharacters so the value matches literally.
// The default escape character in PostgreSQL is a backslash.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
