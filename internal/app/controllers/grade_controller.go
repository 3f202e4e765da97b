package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursescope/internal/app/models/dto"
	"github.com/yigit/coursescope/internal/app/services"
	"github.com/yigit/coursescope/internal/middleware"
	"github.com/yigit/coursescope/internal/pkg/helpers"
	"github.com/yigit/coursescope/internal/pkg/metrics"
)

// GradeController handles historic course grade lookups
type GradeController struct {
	gradeService services.GradeLookupService
	metrics      *metrics.Metrics
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService services.GradeLookupService, m *metrics.Metrics) *GradeController {
	return &GradeController{
		gradeService: gradeService,
		metrics:      m,
	}
}

func optionalParam(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// GetSemesterChoices lists the semesters a lookup can be narrowed to
// @Summary Semester choices
// @Description Lists semesters with grade data, for one course when given, after a placeholder entry
// @Tags grades
// @Produce json
// @Param course query string false "Course name, e.g. CMSC131"
// @Success 200 {object} dto.APIResponse{data=[]dto.SemesterChoice} "Semester choices"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades/semesters [get]
func (c *GradeController) GetSemesterChoices(ctx *gin.Context) {
	var req dto.SemesterChoicesRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	choices, err := c.gradeService.BuildSemesterChoices(ctx.Request.Context(), optionalParam(req.Course))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := make([]dto.SemesterChoice, 0, len(choices))
	for _, choice := range choices {
		response = append(response, dto.SemesterChoice{Code: choice.Code, Name: choice.Name})
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response, ""))
}

// LookupGrades returns grade distributions for a course, optionally narrowed by semester and section
// @Summary Course grade lookup
// @Description Validates the course, semester and section together and returns the matching grade records
// @Tags grades
// @Produce json
// @Param course query string true "Course name, e.g. CMSC131"
// @Param semester query string false "Semester code, e.g. 202008"
// @Param section query string false "Section, e.g. 0101"
// @Success 200 {object} dto.APIResponse{data=dto.GradeLookupResponse} "Grade data"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 422 {object} dto.ErrorResponse "Unknown course, no data or unknown section"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades/lookup [get]
func (c *GradeController) LookupGrades(ctx *gin.Context) {
	var req dto.GradeLookupRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	criteria := services.LookupCriteria{
		Course:   req.Course,
		Semester: optionalParam(req.Semester),
		Section:  optionalParam(req.Section),
	}

	result, lookupErrs, err := c.gradeService.Lookup(ctx.Request.Context(), criteria)
	if err != nil {
		c.metrics.RecordGradeLookup(metrics.LookupResultError)
		middleware.HandleAPIError(ctx, err)
		return
	}

	if len(lookupErrs) > 0 {
		c.metrics.RecordGradeLookup(metrics.LookupResultInvalid)
		validationErrors := dto.NewValidationErrors()
		for _, le := range lookupErrs {
			validationErrors.AddCodedError(dto.ErrorCode(le.Code), le.Field, le.Message)
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid grade lookup").
			WithDetails(validationErrors.Errors)
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(errorDetail))
		return
	}

	c.metrics.RecordGradeLookup(metrics.LookupResultOK)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toGradeLookupResponse(result), ""))
}

func toGradeLookupResponse(result *services.GradeLookupResult) dto.GradeLookupResponse {
	response := dto.GradeLookupResponse{
		Course:       result.Course.Name,
		Semester:     result.Semester,
		Section:      result.Section,
		Records:      make([]dto.GradeRecord, 0, len(result.Records)),
		Distribution: result.Distribution,
		Total:        result.Distribution.Total(),
	}
	for _, r := range result.Records {
		response.Records = append(response.Records, dto.GradeRecord{
			Semester:     r.Semester,
			SemesterName: helpers.SemesterName(r.Semester),
			Section:      r.Section,
			Grades:       r.GradeDistribution,
			Total:        r.Total(),
		})
	}
	return response
}
