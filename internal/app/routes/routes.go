package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursescope/internal/app/controllers"
	"github.com/yigit/coursescope/internal/middleware"
	"github.com/yigit/coursescope/internal/pkg/metrics"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Search  *controllers.SearchController
	Grade   *controllers.GradeController
	Profile *controllers.ProfileController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// The search box submits here directly
	router.GET("/search", ctrl.Search.Search)

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/search", ctrl.Search.Search)

	grades := v1.Group("/grades")
	{
		grades.GET("/semesters", ctrl.Grade.GetSemesterChoices)
		grades.GET("/lookup", ctrl.Grade.LookupGrades)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/profile", ctrl.Profile.GetProfile)
		authenticated.PUT("/profile", ctrl.Profile.UpdateProfile)
	}
}
