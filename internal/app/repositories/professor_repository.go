package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/coursescope/internal/app/models"
)

// ProfessorRepository handles database operations for professors
type ProfessorRepository struct {
	db DBTX
}

// NewProfessorRepository creates a new professor repository
func NewProfessorRepository(db DBTX) *ProfessorRepository {
	return &ProfessorRepository{
		db: db,
	}
}

// GetAll retrieves all professors ordered by name
func (r *ProfessorRepository) GetAll(ctx context.Context) ([]*models.Professor, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, type FROM professors ORDER BY name, slug`)
	if err != nil {
		return nil, fmt.Errorf("error listing professors: %w", err)
	}
	defer rows.Close()

	var professors []*models.Professor
	for rows.Next() {
		var p models.Professor
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Type); err != nil {
			return nil, fmt.Errorf("error scanning professor: %w", err)
		}
		professors = append(professors, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return professors, nil
}

// Upsert inserts a professor keyed by slug, setting professor.ID
func (r *ProfessorRepository) Upsert(ctx context.Context, professor *models.Professor) error {
	query := `
		INSERT INTO professors (name, slug, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, professor.Name, professor.Slug, professor.Type).Scan(&professor.ID)
	if err != nil {
		return fmt.Errorf("error upserting professor %s: %w", professor.Slug, err)
	}

	return nil
}
