package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/pkg/dberrors"
)

// GradeRepository reads grade distributions. It implements services.GradeStore.
type GradeRepository struct {
	db      DBTX
	courses *CourseRepository
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db DBTX, courses *CourseRepository) *GradeRepository {
	return &GradeRepository{
		db:      db,
		courses: courses,
	}
}

var gradeColumns = []string{
	"g.id", "g.course_id", "g.professor_id", "g.semester", "g.section",
	"g.a_plus", "g.a", "g.a_minus", "g.b_plus", "g.b", "g.b_minus",
	"g.c_plus", "g.c", "g.c_minus", "g.d_plus", "g.d", "g.d_minus",
	"g.f", "g.w", "g.other",
}

func scanGrade(row rowScanner) (*models.Grade, error) {
	var g models.Grade
	err := row.Scan(
		&g.ID, &g.CourseID, &g.ProfessorID, &g.Semester, &g.Section,
		&g.APlus, &g.A, &g.AMinus, &g.BPlus, &g.B, &g.BMinus,
		&g.CPlus, &g.C, &g.CMinus, &g.DPlus, &g.D, &g.DMinus,
		&g.F, &g.W, &g.Other,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// gradeFilterCondition turns a GradeFilter into a WHERE condition on alias g
func gradeFilterCondition(filter models.GradeFilter) squirrel.And {
	cond := squirrel.And{}
	if filter.CourseID != nil {
		cond = append(cond, squirrel.Eq{"g.course_id": *filter.CourseID})
	}
	if filter.Semester != nil {
		cond = append(cond, squirrel.Eq{"g.semester": *filter.Semester})
	}
	if filter.Section != nil {
		cond = append(cond, squirrel.Eq{"g.section": *filter.Section})
	}
	return cond
}

// distinctSemestersQuery selects semester codes with grade data, oldest first
func distinctSemestersQuery(courseName *string) squirrel.SelectBuilder {
	q := psql.Select("DISTINCT g.semester").From("grades g")
	if courseName != nil {
		q = q.Join("courses c ON c.id = g.course_id").Where(squirrel.Eq{"c.name": *courseName})
	}
	return q.OrderBy("g.semester")
}

// DistinctSemesters lists semesters with grade data, for one course when courseName is set
func (r *GradeRepository) DistinctSemesters(ctx context.Context, courseName *string) ([]string, error) {
	query, args, err := distinctSemestersQuery(courseName).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build semesters query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing semesters: %w", err)
	}
	defer rows.Close()

	semesters := []string{}
	for rows.Next() {
		var semester string
		if err := rows.Scan(&semester); err != nil {
			return nil, fmt.Errorf("error scanning semester: %w", err)
		}
		semesters = append(semesters, semester)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return semesters, nil
}

// FindCourse returns the course with the given name, or nil
func (r *GradeRepository) FindCourse(ctx context.Context, name string) (*models.Course, error) {
	return r.courses.FindByName(ctx, name)
}

// FindGradeRecord returns any one grade record matching filter, or nil
func (r *GradeRepository) FindGradeRecord(ctx context.Context, filter models.GradeFilter) (*models.Grade, error) {
	query, args, err := psql.Select(gradeColumns...).
		From("grades g").
		Where(gradeFilterCondition(filter)).
		OrderBy("g.id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build grade query: %w", err)
	}

	grade, err := scanGrade(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving grade record: %w", err)
	}

	return grade, nil
}

// ListGradeRecords returns every grade record matching filter by semester and section
func (r *GradeRepository) ListGradeRecords(ctx context.Context, filter models.GradeFilter) ([]*models.Grade, error) {
	query, args, err := psql.Select(gradeColumns...).
		From("grades g").
		Where(gradeFilterCondition(filter)).
		OrderBy("g.semester", "g.section").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build grades query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing grade records: %w", err)
	}
	defer rows.Close()

	grades := []*models.Grade{}
	for rows.Next() {
		grade, err := scanGrade(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning grade record: %w", err)
		}
		grades = append(grades, grade)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return grades, nil
}

// Create inserts a grade record, setting grade.ID
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	query := `
		INSERT INTO grades (course_id, professor_id, semester, section,
			a_plus, a, a_minus, b_plus, b, b_minus, c_plus, c, c_minus,
			d_plus, d, d_minus, f, w, other)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (course_id, semester, section) DO NOTHING
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		grade.CourseID, grade.ProfessorID, grade.Semester, grade.Section,
		grade.APlus, grade.A, grade.AMinus, grade.BPlus, grade.B, grade.BMinus,
		grade.CPlus, grade.C, grade.CMinus, grade.DPlus, grade.D, grade.DMinus,
		grade.F, grade.W, grade.Other,
	).Scan(&grade.ID)
	if err != nil && !dberrors.IsNoRows(err) {
		return fmt.Errorf("error creating grade record: %w", err)
	}

	return nil
}
