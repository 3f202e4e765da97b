package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository    *CourseRepository
	ProfessorRepository *ProfessorRepository
	GradeRepository     *GradeRepository
	SearchRepository    *SearchRepository
	UserRepository      *UserRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	courses := NewCourseRepository(db)
	return &Repositories{
		CourseRepository:    courses,
		ProfessorRepository: NewProfessorRepository(db),
		GradeRepository:     NewGradeRepository(db, courses),
		SearchRepository:    NewSearchRepository(db),
		UserRepository:      NewUserRepository(db),
	}
}
