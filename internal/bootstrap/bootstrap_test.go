package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursescope/internal/app/models"
	appRepos "github.com/yigit/coursescope/internal/app/repositories"
	"github.com/yigit/coursescope/internal/pkg/cache"
)

type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) Invalidate(context.Context) error {
	f.calls++
	return f.err
}

type fakeIndexer struct {
	courses    []*models.Course
	professors []*models.Professor
	calls      int
	err        error
}

func (f *fakeIndexer) Reindex(_ context.Context, courses []*models.Course, professors []*models.Professor) (int, error) {
	f.calls++
	f.courses = courses
	f.professors = professors
	return len(courses) + len(professors), f.err
}

type fakeCourses struct {
	courses []*models.Course
	err     error
}

func (f fakeCourses) GetAll(context.Context) ([]*models.Course, error) { return f.courses, f.err }

type fakeProfessors struct {
	professors []*models.Professor
}

func (f fakeProfessors) GetAll(context.Context) ([]*models.Professor, error) { return f.professors, nil }

func catalog() (fakeCourses, fakeProfessors) {
	return fakeCourses{courses: []*models.Course{{ID: 1, Name: "CMSC131"}}},
		fakeProfessors{professors: []*models.Professor{{ID: 2, Name: "Jane Doe", Slug: "doe-jane"}}}
}

func TestRefreshDerivedDataInvalidatesAndReindexes(t *testing.T) {
	semesters := &fakeInvalidator{}
	indexer := &fakeIndexer{}
	courses, professors := catalog()

	err := refreshDerivedData(context.Background(), semesters, indexer, courses, professors, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, 1, semesters.calls)
	assert.Equal(t, 1, indexer.calls)
	assert.Equal(t, courses.courses, indexer.courses)
	assert.Equal(t, professors.professors, indexer.professors)
}

func TestRefreshDerivedDataSkipsDisabledStores(t *testing.T) {
	courses := fakeCourses{err: errors.New("catalog must not be read")}

	err := refreshDerivedData(context.Background(), nil, nil, courses, fakeProfessors{}, zerolog.Nop())

	assert.NoError(t, err)
}

func TestRefreshDerivedDataStopsOnInvalidateError(t *testing.T) {
	semesters := &fakeInvalidator{err: errors.New("redis down")}
	indexer := &fakeIndexer{}
	courses, professors := catalog()

	err := refreshDerivedData(context.Background(), semesters, indexer, courses, professors, zerolog.Nop())

	assert.ErrorIs(t, err, semesters.err)
	assert.Zero(t, indexer.calls)
}

func TestRefreshDerivedDataPropagatesIndexErrors(t *testing.T) {
	courses, professors := catalog()

	indexer := &fakeIndexer{err: errors.New("bulk failed")}
	err := refreshDerivedData(context.Background(), nil, indexer, courses, professors, zerolog.Nop())
	assert.ErrorIs(t, err, indexer.err)

	courses.err = errors.New("db down")
	indexer = &fakeIndexer{}
	err = refreshDerivedData(context.Background(), nil, indexer, courses, professors, zerolog.Nop())
	assert.ErrorIs(t, err, courses.err)
	assert.Zero(t, indexer.calls)
}

func TestDependenciesRefreshDropsCachedSemesters(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, mr.Set("semesters:all", `["202008"]`))
	require.NoError(t, mr.Set("semesters:course:CMSC131", `["202008"]`))

	deps := &Dependencies{
		Repos:         appRepos.NewRepositories(nil),
		SemesterCache: cache.NewSemesterCache(nil, client, time.Minute, zerolog.Nop()),
		Logger:        zerolog.Nop(),
	}

	require.NoError(t, deps.RefreshDerivedData(context.Background()))
	assert.False(t, mr.Exists("semesters:all"))
	assert.False(t, mr.Exists("semesters:course:CMSC131"))
}

func TestDependenciesRefreshWithoutCacheOrIndex(t *testing.T) {
	deps := &Dependencies{Repos: appRepos.NewRepositories(nil), Logger: zerolog.Nop()}

	assert.NoError(t, deps.RefreshDerivedData(context.Background()))
}
