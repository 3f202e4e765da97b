package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/app/services"
	"github.com/yigit/coursescope/internal/pkg/apperrors"
	"github.com/yigit/coursescope/internal/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSearchService struct {
	outcome services.SearchOutcome
	err     error
	queries []string
}

func (f *fakeSearchService) Resolve(_ context.Context, query string) (services.SearchOutcome, error) {
	f.queries = append(f.queries, query)
	return f.outcome, f.err
}

type fakeGradeService struct {
	choices    []services.SemesterChoice
	result     *services.GradeLookupResult
	lookupErrs []services.LookupError
	err        error

	choiceCourse *string
	criteria     services.LookupCriteria
}

func (f *fakeGradeService) BuildSemesterChoices(_ context.Context, course *string) ([]services.SemesterChoice, error) {
	f.choiceCourse = course
	return f.choices, f.err
}

func (f *fakeGradeService) Validate(_ context.Context, criteria services.LookupCriteria) ([]services.LookupError, error) {
	f.criteria = criteria
	return f.lookupErrs, f.err
}

func (f *fakeGradeService) Lookup(_ context.Context, criteria services.LookupCriteria) (*services.GradeLookupResult, []services.LookupError, error) {
	f.criteria = criteria
	return f.result, f.lookupErrs, f.err
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Field   string          `json:"field"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func serve(router *gin.Engine, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func searchRouter(svc services.SearchService) *gin.Engine {
	router := gin.New()
	router.GET("/search", NewSearchController(svc, metrics.New()).Search)
	return router
}

func TestSearchMissingParameter(t *testing.T) {
	svc := &fakeSearchService{}

	rec := serve(searchRouter(svc), http.MethodGet, "/search", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, InvalidSearchQueryMessage, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Empty(t, svc.queries)
}

func TestSearchRedirect(t *testing.T) {
	course := &models.Course{Name: "CMSC131"}
	svc := &fakeSearchService{outcome: services.SearchOutcome{
		Kind:    services.OutcomeRedirect,
		Query:   "CMSC131",
		Target:  course,
		Results: []models.SearchResult{course},
	}}

	rec := serve(searchRouter(svc), http.MethodGet, "/search?query=cmsc+131", "", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/course/CMSC131", rec.Header().Get("Location"))
	assert.Equal(t, []string{"cmsc 131"}, svc.queries)
}

func TestSearchDisambiguate(t *testing.T) {
	svc := &fakeSearchService{outcome: services.SearchOutcome{
		Kind:  services.OutcomeDisambiguate,
		Query: "emad",
		Results: []models.SearchResult{
			&models.Professor{Name: "Fawzi Emad", Slug: "emad", Type: models.ProfessorTypeProfessor},
			&models.Professor{Name: "Jane Emad", Slug: "emad-jane", Type: models.ProfessorTypeTA},
		},
	}}

	rec := serve(searchRouter(svc), http.MethodGet, "/search?query=emad", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{
		"query": "emad",
		"results": [
			{"type": "professor", "name": "Fawzi Emad", "title": "Professor", "url": "/professor/emad"},
			{"type": "professor", "name": "Jane Emad", "title": "Teaching Assistant", "url": "/professor/emad-jane"}
		]
	}`, string(env.Data))
}

func TestSearchEmptyAndNoResults(t *testing.T) {
	tests := []struct {
		name    string
		outcome services.SearchOutcome
	}{
		{"empty query", services.SearchOutcome{Kind: services.OutcomeEmpty}},
		{"nothing found", services.SearchOutcome{Kind: services.OutcomeDisambiguate, Query: "zzz", Results: []models.SearchResult{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeSearchService{outcome: tt.outcome}

			rec := serve(searchRouter(svc), http.MethodGet, "/search?query=", "", nil)

			require.Equal(t, http.StatusOK, rec.Code)
			var data struct {
				Results []json.RawMessage `json:"results"`
			}
			require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
			assert.NotNil(t, data.Results)
			assert.Empty(t, data.Results)
		})
	}
}

func TestSearchIndexFailure(t *testing.T) {
	svc := &fakeSearchService{err: apperrors.ErrSearchIndexUnavailable}

	rec := serve(searchRouter(svc), http.MethodGet, "/search?query=cmsc", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func gradeRouter(svc services.GradeLookupService) *gin.Engine {
	router := gin.New()
	ctrl := NewGradeController(svc, metrics.New())
	router.GET("/grades/semesters", ctrl.GetSemesterChoices)
	router.GET("/grades/lookup", ctrl.LookupGrades)
	return router
}

func TestGetSemesterChoices(t *testing.T) {
	svc := &fakeGradeService{choices: []services.SemesterChoice{
		{Code: "", Name: "Select a semester..."},
		{Code: "202008", Name: "Fall 2020"},
	}}

	rec := serve(gradeRouter(svc), http.MethodGet, "/grades/semesters?course=CMSC131", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.choiceCourse)
	assert.Equal(t, "CMSC131", *svc.choiceCourse)
	assert.JSONEq(t, `[{"code":"","name":"Select a semester..."},{"code":"202008","name":"Fall 2020"}]`, string(decode(t, rec).Data))
}

func TestGetSemesterChoicesWithoutCourse(t *testing.T) {
	svc := &fakeGradeService{choices: []services.SemesterChoice{{Code: "", Name: "Select a semester..."}}}

	rec := serve(gradeRouter(svc), http.MethodGet, "/grades/semesters?course=+", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.choiceCourse)
}

func TestLookupGradesAccumulatesErrors(t *testing.T) {
	svc := &fakeGradeService{lookupErrs: []services.LookupError{
		{Code: services.LookupErrorInvalidCourse, Field: "course", Message: "We don't have record of that course"},
		{Code: services.LookupErrorNoData, Field: "course", Message: "No grade data available for that course"},
		{Code: services.LookupErrorInvalidSection, Field: "section", Message: "We don't have record of that section for this course"},
	}}

	rec := serve(gradeRouter(svc), http.MethodGet, "/grades/lookup?course=XYZ999&section=9999", "", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	var details []struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	require.Len(t, details, 3)
	assert.Equal(t, "INVALID_COURSE", details[0].Code)
	assert.Equal(t, "NO_DATA", details[1].Code)
	assert.Equal(t, "INVALID_SECTION", details[2].Code)
	assert.Equal(t, "section", details[2].Field)

	assert.Equal(t, "XYZ999", svc.criteria.Course)
	assert.Nil(t, svc.criteria.Semester)
	require.NotNil(t, svc.criteria.Section)
	assert.Equal(t, "9999", *svc.criteria.Section)
}

func TestLookupGradesSuccess(t *testing.T) {
	records := []*models.Grade{
		{Semester: "202008", Section: "0101", GradeDistribution: models.GradeDistribution{A: 10, B: 5}},
		{Semester: "202008", Section: "0201", GradeDistribution: models.GradeDistribution{A: 2, F: 1}},
	}
	result := &services.GradeLookupResult{
		Course:   &models.Course{ID: 1, Name: "CMSC131"},
		Semester: "202008",
		Records:  records,
	}
	for _, r := range records {
		result.Distribution.Add(r.GradeDistribution)
	}
	svc := &fakeGradeService{result: result}

	rec := serve(gradeRouter(svc), http.MethodGet, "/grades/lookup?course=CMSC131&semester=202008", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Course  string `json:"course"`
		Total   int    `json:"total"`
		Records []struct {
			SemesterName string `json:"semesterName"`
			Total        int    `json:"total"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Equal(t, "CMSC131", data.Course)
	assert.Equal(t, 18, data.Total)
	require.Len(t, data.Records, 2)
	assert.Equal(t, "Fall 2020", data.Records[0].SemesterName)
	assert.Equal(t, 15, data.Records[0].Total)
}

func TestLookupGradesRejectsMalformedInput(t *testing.T) {
	svc := &fakeGradeService{}

	tests := []string{
		"/grades/lookup",
		"/grades/lookup?course=CMSC131&semester=fall",
		"/grades/lookup?course=CMSC131&semester=20208",
	}
	for _, target := range tests {
		rec := serve(gradeRouter(svc), http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Empty(t, svc.criteria.Course)
}

func TestLookupGradesStoreFailure(t *testing.T) {
	svc := &fakeGradeService{err: errors.New("connection reset")}

	rec := serve(gradeRouter(svc), http.MethodGet, "/grades/lookup?course=CMSC131", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}
