package services

import (
	"context"
	"strings"

	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/pkg/apperrors"
)

type searchCall struct {
	query             string
	limit             int
	includeCourses    bool
	includeProfessors bool
}

// fakeIndex returns a scripted result list and records every call
type fakeIndex struct {
	results []models.SearchResult
	err     error
	calls   []searchCall
}

func (f *fakeIndex) Search(_ context.Context, query string, limit int, includeCourses, includeProfessors bool) ([]models.SearchResult, error) {
	f.calls = append(f.calls, searchCall{query, limit, includeCourses, includeProfessors})
	return f.results, f.err
}

// fakeGradeStore is an in-memory GradeStore
type fakeGradeStore struct {
	courses []*models.Course
	grades  []*models.Grade
	err     error

	semesterFilters []*string
}

func (f *fakeGradeStore) DistinctSemesters(_ context.Context, courseName *string) ([]string, error) {
	f.semesterFilters = append(f.semesterFilters, courseName)
	if f.err != nil {
		return nil, f.err
	}

	var courseID *int64
	if courseName != nil {
		course := f.courseByName(*courseName)
		if course == nil {
			return []string{}, nil
		}
		courseID = &course.ID
	}

	seen := map[string]bool{}
	out := []string{}
	for _, g := range f.grades {
		if courseID != nil && g.CourseID != *courseID {
			continue
		}
		if !seen[g.Semester] {
			seen[g.Semester] = true
			out = append(out, g.Semester)
		}
	}
	return out, nil
}

func (f *fakeGradeStore) courseByName(name string) *models.Course {
	for _, c := range f.courses {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (f *fakeGradeStore) FindCourse(_ context.Context, name string) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.courseByName(name), nil
}

func (f *fakeGradeStore) matches(g *models.Grade, filter models.GradeFilter) bool {
	if filter.CourseID != nil && g.CourseID != *filter.CourseID {
		return false
	}
	if filter.Semester != nil && g.Semester != *filter.Semester {
		return false
	}
	if filter.Section != nil && g.Section != *filter.Section {
		return false
	}
	return true
}

func (f *fakeGradeStore) FindGradeRecord(_ context.Context, filter models.GradeFilter) (*models.Grade, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, g := range f.grades {
		if f.matches(g, filter) {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeGradeStore) ListGradeRecords(_ context.Context, filter models.GradeFilter) ([]*models.Grade, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.Grade{}
	for _, g := range f.grades {
		if f.matches(g, filter) {
			out = append(out, g)
		}
	}
	return out, nil
}

// fakeUserStore is an in-memory UserStore
type fakeUserStore struct {
	users     map[int64]*models.User
	updateErr error
	updates   int
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string, excludeUserID int64) (bool, error) {
	for id, u := range f.users {
		if id != excludeUserID && u.Email != nil && strings.EqualFold(*u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, user *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
