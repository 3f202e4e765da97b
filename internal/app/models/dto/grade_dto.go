package dto

import "github.com/yigit/coursescope/internal/app/models"

// SemesterChoicesRequest is the query string of the semester choices endpoint
type SemesterChoicesRequest struct {
	Course string `form:"course" binding:"omitempty,max=16" example:"CMSC131"`
}

// GradeLookupRequest is the query string of the grade lookup endpoint
type GradeLookupRequest struct {
	Course   string `form:"course" binding:"required,max=16" example:"CMSC131"`
	Semester string `form:"semester" binding:"omitempty,len=6,numeric" example:"202008"`
	Section  string `form:"section" binding:"omitempty,max=8" example:"0101"`
}

// SemesterChoice is a selectable semester option
type SemesterChoice struct {
	Code string `json:"code" example:"202008"`
	Name string `json:"name" example:"Fall 2020"`
}

// GradeRecord is a single section's grades in a lookup response
type GradeRecord struct {
	Semester     string                   `json:"semester" example:"202008"`
	SemesterName string                   `json:"semesterName" example:"Fall 2020"`
	Section      string                   `json:"section" example:"0101"`
	Grades       models.GradeDistribution `json:"grades"`
	Total        int                      `json:"total" example:"143"`
}

// GradeLookupResponse is the aggregated result of a successful lookup
type GradeLookupResponse struct {
	Course       string                   `json:"course" example:"CMSC131"`
	Semester     string                   `json:"semester,omitempty" example:"202008"`
	Section      string                   `json:"section,omitempty" example:"0101"`
	Records      []GradeRecord            `json:"records"`
	Distribution models.GradeDistribution `json:"distribution"`
	Total        int                      `json:"total" example:"612"`
}
