package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/pkg/helpers"
)

// SearchRepository is the PostgreSQL-backed query index. It implements services.QueryIndex.
type SearchRepository struct {
	db DBTX
}

// NewSearchRepository creates a new search repository
func NewSearchRepository(db DBTX) *SearchRepository {
	return &SearchRepository{
		db: db,
	}
}

// Candidates rank by exact name match, then name prefix, then any substring
// match, with courses ahead of professors inside each rank.
const searchQuery = `
	SELECT kind, id, name, slug, title, type FROM (
		SELECT 'course' AS kind, c.id, c.name, '' AS slug, c.title, '' AS type,
			CASE WHEN UPPER(c.name) = UPPER($1) THEN 0
				WHEN c.name ILIKE $2 THEN 1
				ELSE 2 END AS rank
		FROM courses c
		WHERE $4::boolean AND (c.name ILIKE $3 OR c.title ILIKE $3)
		UNION ALL
		SELECT 'professor' AS kind, p.id, p.name, p.slug, '' AS title, p.type,
			CASE WHEN UPPER(p.name) = UPPER($1) THEN 0
				WHEN p.name ILIKE $2 THEN 1
				ELSE 2 END AS rank
		FROM professors p
		WHERE $5::boolean AND p.name ILIKE $3
	) AS candidates
	ORDER BY rank, kind, name
	LIMIT $6
`

// searchArgs builds the positional arguments for searchQuery
func searchArgs(query string, limit int, includeCourses, includeProfessors bool) []any {
	escaped := helpers.EscapeLike(query)
	return []any{query, escaped + "%", "%" + escaped + "%", includeCourses, includeProfessors, limit}
}

// Search returns up to limit courses and professors matching query, best match first
func (r *SearchRepository) Search(ctx context.Context, query string, limit int, includeCourses, includeProfessors bool) ([]models.SearchResult, error) {
	results := []models.SearchResult{}
	if limit <= 0 || (!includeCourses && !includeProfessors) {
		return results, nil
	}

	rows, err := r.db.Query(ctx, searchQuery, searchArgs(query, limit, includeCourses, includeProfessors)...)
	if err != nil {
		return nil, fmt.Errorf("error searching courses and professors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, name, slug, title, profType string
		var id int64
		if err := rows.Scan(&kind, &id, &name, &slug, &title, &profType); err != nil {
			return nil, fmt.Errorf("error scanning search result: %w", err)
		}

		switch models.ResultKind(kind) {
		case models.ResultKindCourse:
			results = append(results, &models.Course{ID: id, Name: name, Title: title})
		case models.ResultKindProfessor:
			results = append(results, &models.Professor{ID: id, Name: name, Slug: slug, Type: models.ProfessorType(profType)})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
