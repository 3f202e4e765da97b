package services

import (
	"context"

	"github.com/yigit/coursescope/internal/app/models"
)

// QueryIndex is the ranked search capability over courses and professors.
// Results come back best match first and never exceed limit.
type QueryIndex interface {
	Search(ctx context.Context, query string, limit int, includeCourses, includeProfessors bool) ([]models.SearchResult, error)
}

// GradeStore is the read side of course and grade records.
// Finders return (nil, nil) when nothing matches.
type GradeStore interface {
	// DistinctSemesters lists semester codes with grade data, optionally for one course name only.
	DistinctSemesters(ctx context.Context, courseName *string) ([]string, error)
	FindCourse(ctx context.Context, name string) (*models.Course, error)
	FindGradeRecord(ctx context.Context, filter models.GradeFilter) (*models.Grade, error)
	ListGradeRecords(ctx context.Context, filter models.GradeFilter) ([]*models.Grade, error)
}

// UserStore is the persistence used by profile editing
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string, excludeUserID int64) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
}

// Services groups the application services built at startup
type Services struct {
	Search      SearchService
	GradeLookup GradeLookupService
	Profile     ProfileService
}
