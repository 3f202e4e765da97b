package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/coursescope/internal/app/models"
	appRepos "github.com/yigit/coursescope/internal/app/repositories"
	"github.com/yigit/coursescope/internal/db"
)

// GradeRow is a grade record keyed by course name and professor slug
type GradeRow struct {
	Course        string
	ProfessorSlug string
	Semester      string
	Section       string
	Grades        appModels.GradeDistribution
}

// Dataset is the demo catalog loaded by CreateDefaultData
type Dataset struct {
	Courses    []*appModels.Course
	Professors []*appModels.Professor
	Grades     []GradeRow
	Users      []*appModels.User
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// DemoData returns a small catalog of courses, instructors and grade distributions
func DemoData() Dataset {
	return Dataset{
		Courses: []*appModels.Course{
			{Name: "CMSC131", Department: "CMSC", CourseNumber: "131", Title: "Object-Oriented Programming I", Credits: intPtr(4)},
			{Name: "CMSC132", Department: "CMSC", CourseNumber: "132", Title: "Object-Oriented Programming II", Credits: intPtr(4)},
			{Name: "CMSC216", Department: "CMSC", CourseNumber: "216", Title: "Introduction to Computer Systems", Credits: intPtr(4)},
			{Name: "CMSC330", Department: "CMSC", CourseNumber: "330", Title: "Organization of Programming Languages", Credits: intPtr(3)},
			{Name: "MATH140", Department: "MATH", CourseNumber: "140", Title: "Calculus I", Credits: intPtr(4)},
			{Name: "MATH141", Department: "MATH", CourseNumber: "141", Title: "Calculus II", Credits: intPtr(4),
				Description: strPtr("Continuation of MATH140, including techniques of integration.")},
			{Name: "ENGL101", Department: "ENGL", CourseNumber: "101", Title: "Academic Writing", Credits: intPtr(3)},
		},
		Professors: []*appModels.Professor{
			{Name: "Nelson Padua-Perez", Slug: "padua-perez", Type: appModels.ProfessorTypeProfessor},
			{Name: "Fawzi Emad", Slug: "emad", Type: appModels.ProfessorTypeProfessor},
			{Name: "Larry Herman", Slug: "herman", Type: appModels.ProfessorTypeProfessor},
			{Name: "Anwar Mamat", Slug: "mamat", Type: appModels.ProfessorTypeProfessor},
			{Name: "Justin Wyss-Gallifent", Slug: "wyss-gallifent", Type: appModels.ProfessorTypeProfessor},
			{Name: "Jane Emad", Slug: "emad-jane", Type: appModels.ProfessorTypeTA},
		},
		Grades: []GradeRow{
			{Course: "CMSC131", ProfessorSlug: "padua-perez", Semester: "202008", Section: "0101",
				Grades: appModels.GradeDistribution{APlus: 12, A: 30, AMinus: 10, BPlus: 8, B: 15, BMinus: 5, C: 6, F: 2, W: 3}},
			{Course: "CMSC131", ProfessorSlug: "emad", Semester: "202008", Section: "0201",
				Grades: appModels.GradeDistribution{A: 25, AMinus: 9, B: 20, C: 10, D: 2, F: 4, W: 5}},
			{Course: "CMSC131", ProfessorSlug: "padua-perez", Semester: "202101", Section: "0101",
				Grades: appModels.GradeDistribution{APlus: 8, A: 28, AMinus: 12, BPlus: 9, B: 12, CPlus: 4, C: 5, F: 3, W: 2}},
			{Course: "CMSC132", ProfessorSlug: "emad", Semester: "201905", Section: "0301",
				Grades: appModels.GradeDistribution{A: 14, B: 10, C: 4, W: 1}},
			{Course: "CMSC216", ProfessorSlug: "herman", Semester: "202012", Section: "0101",
				Grades: appModels.GradeDistribution{A: 18, AMinus: 6, B: 22, BMinus: 7, C: 9, D: 3, F: 5, W: 6}},
			{Course: "CMSC330", ProfessorSlug: "mamat", Semester: "202101", Section: "0101",
				Grades: appModels.GradeDistribution{A: 31, B: 27, C: 12, F: 4, W: 7, Other: 1}},
			{Course: "MATH140", ProfessorSlug: "wyss-gallifent", Semester: "202008", Section: "0111",
				Grades: appModels.GradeDistribution{A: 20, B: 25, C: 15, D: 5, F: 6, W: 9}},
		},
		Users: []*appModels.User{
			{Username: "demo", DateJoined: time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC)},
			{Username: "reviewer", Email: strPtr("reviewer@example.com"), SendReviewEmail: true,
				DateJoined: time.Date(2019, 1, 15, 0, 0, 0, 0, time.UTC)},
		},
	}
}

// CreateDefaultData loads the demo dataset. Existing rows are updated or kept,
// so running it twice is harmless.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	data := DemoData()
	lgr.Info().
		Int("courses", len(data.Courses)).
		Int("professors", len(data.Professors)).
		Int("grades", len(data.Grades)).
		Msg("Checking/Creating demo data...")

	return database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repos := appRepos.NewRepositories(tx)

		courseIDs := make(map[string]int64, len(data.Courses))
		for _, course := range data.Courses {
			if err := repos.CourseRepository.Upsert(ctx, course); err != nil {
				return err
			}
			courseIDs[course.Name] = course.ID
		}

		professorIDs := make(map[string]int64, len(data.Professors))
		for _, professor := range data.Professors {
			if err := repos.ProfessorRepository.Upsert(ctx, professor); err != nil {
				return err
			}
			professorIDs[professor.Slug] = professor.ID
		}

		var finalErr error
		for _, row := range data.Grades {
			grade, err := row.toGrade(courseIDs, professorIDs)
			if err != nil {
				lgr.Error().Err(err).Str("course", row.Course).Msg("Skipping grade row")
				finalErr = errors.Join(finalErr, err)
				continue
			}
			if err := repos.GradeRepository.Create(ctx, grade); err != nil {
				return err
			}
		}
		if finalErr != nil {
			return finalErr
		}

		for _, user := range data.Users {
			if err := repos.UserRepository.Create(ctx, user); err != nil {
				return err
			}
		}

		lgr.Info().Msg("Demo data ready")
		return nil
	})
}

func (row GradeRow) toGrade(courseIDs, professorIDs map[string]int64) (*appModels.Grade, error) {
	courseID, ok := courseIDs[row.Course]
	if !ok {
		return nil, fmt.Errorf("unknown course %q", row.Course)
	}

	grade := &appModels.Grade{
		CourseID:          courseID,
		Semester:          row.Semester,
		Section:           row.Section,
		GradeDistribution: row.Grades,
	}
	if row.ProfessorSlug != "" {
		professorID, ok := professorIDs[row.ProfessorSlug]
		if !ok {
			return nil, fmt.Errorf("unknown professor %q", row.ProfessorSlug)
		}
		grade.ProfessorID = &professorID
	}

	return grade, nil
}
