package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/pkg/helpers"
)

// SemesterPlaceholder is the "no selection" choice that heads every semester list
var SemesterPlaceholder = SemesterChoice{Code: "", Name: "Select a semester..."}

// LookupCriteria identifies the grade data a user asked for
type LookupCriteria struct {
	Course   string
	Semester *string
	Section  *string
}

// LookupErrorCode identifies why a lookup was rejected
type LookupErrorCode string

const (
	LookupErrorInvalidCourse  LookupErrorCode = "INVALID_COURSE"
	LookupErrorNoData         LookupErrorCode = "NO_DATA"
	LookupErrorInvalidSection LookupErrorCode = "INVALID_SECTION"
)

// LookupError is a field-level problem with LookupCriteria
type LookupError struct {
	Code    LookupErrorCode
	Field   string
	Message string
}

func (e LookupError) Error() string {
	return e.Message
}

// SemesterChoice pairs a semester code with its display name
type SemesterChoice struct {
	Code string
	Name string
}

// GradeLookupResult is the grade data matching valid criteria
type GradeLookupResult struct {
	Course       *models.Course
	Semester     string
	Section      string
	Records      []*models.Grade
	Distribution models.GradeDistribution
}

// SemesterFormatter renders a semester code for display
type SemesterFormatter func(code string) string

// GradeLookupService narrows semester choices and validates course/semester/section lookups
type GradeLookupService interface {
	BuildSemesterChoices(ctx context.Context, course *string) ([]SemesterChoice, error)
	Validate(ctx context.Context, criteria LookupCriteria) ([]LookupError, error)
	Lookup(ctx context.Context, criteria LookupCriteria) (*GradeLookupResult, []LookupError, error)
}

type gradeLookupServiceImpl struct {
	store        GradeStore
	semesterName SemesterFormatter
	logger       zerolog.Logger
}

// NewGradeLookupService creates a grade lookup service. A nil formatter uses helpers.SemesterName.
func NewGradeLookupService(store GradeStore, formatter SemesterFormatter, logger zerolog.Logger) GradeLookupService {
	if formatter == nil {
		formatter = helpers.SemesterName
	}
	return &gradeLookupServiceImpl{
		store:        store,
		semesterName: formatter,
		logger:       logger.With().Str("component", "grade_lookup_service").Logger(),
	}
}

// normalizeCourseName applies search normalization and upper-cases the course code
func normalizeCourseName(name string) string {
	return strings.ToUpper(helpers.NormalizeQuery(name))
}

// optionalValue trims an optional value, treating blank as absent
func optionalValue(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// BuildSemesterChoices lists the semesters worth offering: those the course was
// taught in, or every semester with grade data when no course is given.
// The placeholder choice always comes first.
func (s *gradeLookupServiceImpl) BuildSemesterChoices(ctx context.Context, course *string) ([]SemesterChoice, error) {
	var courseFilter *string
	if c := optionalValue(course); c != nil {
		name := normalizeCourseName(*c)
		courseFilter = &name
	}

	codes, err := s.store.DistinctSemesters(ctx, courseFilter)
	if err != nil {
		return nil, err
	}

	choices := make([]SemesterChoice, 0, len(codes)+1)
	choices = append(choices, SemesterPlaceholder)
	for _, code := range codes {
		choices = append(choices, SemesterChoice{Code: code, Name: s.semesterName(code)})
	}

	return choices, nil
}

// Validate checks the criteria as a whole and reports every problem found,
// not just the first. Store failures are returned as the error.
func (s *gradeLookupServiceImpl) Validate(ctx context.Context, criteria LookupCriteria) ([]LookupError, error) {
	_, lookupErrs, err := s.validate(ctx, criteria)
	return lookupErrs, err
}

func (s *gradeLookupServiceImpl) validate(ctx context.Context, criteria LookupCriteria) (*models.Course, []LookupError, error) {
	lookupErrs := make([]LookupError, 0, 3)

	course, err := s.store.FindCourse(ctx, normalizeCourseName(criteria.Course))
	if err != nil {
		return nil, nil, err
	}

	var courseData *models.Grade
	if course != nil {
		courseData, err = s.store.FindGradeRecord(ctx, models.GradeFilter{CourseID: &course.ID})
		if err != nil {
			return nil, nil, err
		}
	}

	// Any grade record with this section counts, whichever course it belongs to.
	section := optionalValue(criteria.Section)
	var sectionData *models.Grade
	if section != nil {
		sectionData, err = s.store.FindGradeRecord(ctx, models.GradeFilter{Section: section})
		if err != nil {
			return nil, nil, err
		}
	}

	if course == nil {
		lookupErrs = append(lookupErrs, LookupError{
			Code:    LookupErrorInvalidCourse,
			Field:   "course",
			Message: "We don't have record of that course",
		})
	}
	if courseData == nil {
		lookupErrs = append(lookupErrs, LookupError{
			Code:    LookupErrorNoData,
			Field:   "course",
			Message: "No grade data available for that course",
		})
	}
	if section != nil && sectionData == nil {
		lookupErrs = append(lookupErrs, LookupError{
			Code:    LookupErrorInvalidSection,
			Field:   "section",
			Message: "We don't have record of that section for this course",
		})
	}

	return course, lookupErrs, nil
}

// Lookup validates the criteria and, when they hold, returns the matching
// grade records with their combined distribution.
func (s *gradeLookupServiceImpl) Lookup(ctx context.Context, criteria LookupCriteria) (*GradeLookupResult, []LookupError, error) {
	course, lookupErrs, err := s.validate(ctx, criteria)
	if err != nil {
		return nil, nil, err
	}
	if len(lookupErrs) > 0 {
		s.logger.Debug().
			Str("course", criteria.Course).
			Int("errors", len(lookupErrs)).
			Msg("Grade lookup rejected")
		return nil, lookupErrs, nil
	}

	filter := models.GradeFilter{
		CourseID: &course.ID,
		Semester: optionalValue(criteria.Semester),
		Section:  optionalValue(criteria.Section),
	}
	records, err := s.store.ListGradeRecords(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	result := &GradeLookupResult{
		Course:  course,
		Records: records,
	}
	if filter.Semester != nil {
		result.Semester = *filter.Semester
	}
	if filter.Section != nil {
		result.Section = *filter.Section
	}
	for _, r := range records {
		result.Distribution.Add(r.GradeDistribution)
	}

	return result, nil, nil
}
