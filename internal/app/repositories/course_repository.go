package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

const courseColumns = `id, name, department, course_number, title, description, credits`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Department,
		&course.CourseNumber,
		&course.Title,
		&course.Description,
		&course.Credits,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByName returns the course with the exact name, or nil if there is none
func (r *CourseRepository) FindByName(ctx context.Context, name string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE name = $1`

	course, err := scanCourse(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// GetAll retrieves all courses ordered by name
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Upsert inserts a course or refreshes its catalog fields, setting course.ID
func (r *CourseRepository) Upsert(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (name, department, course_number, title, description, credits)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description, credits = EXCLUDED.credits
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		course.Name, course.Department, course.CourseNumber, course.Title, course.Description, course.Credits,
	).Scan(&course.ID)
	if err != nil {
		return fmt.Errorf("error upserting course %s: %w", course.Name, err)
	}

	return nil
}
