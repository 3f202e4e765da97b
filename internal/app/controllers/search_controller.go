package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursescope/internal/app/models/dto"
	"github.com/yigit/coursescope/internal/app/services"
	"github.com/yigit/coursescope/internal/middleware"
	"github.com/yigit/coursescope/internal/pkg/metrics"
)

// InvalidSearchQueryMessage is the plain-text reply when the query parameter is missing
const InvalidSearchQueryMessage = "Invalid search query."

// SearchController handles the global search box
type SearchController struct {
	searchService services.SearchService
	metrics       *metrics.Metrics
}

// NewSearchController creates a new SearchController
func NewSearchController(searchService services.SearchService, m *metrics.Metrics) *SearchController {
	return &SearchController{
		searchService: searchService,
		metrics:       m,
	}
}

// Search resolves a free-text query
// @Summary Global search
// @Description Redirects to a course or professor page when the query resolves to one entity, otherwise lists candidates
// @Tags search
// @Produce json
// @Param query query string true "Search text"
// @Success 200 {object} dto.APIResponse{data=dto.SearchResponse} "Candidates, possibly empty"
// @Success 302 "Redirect to the matching course or professor"
// @Failure 503 {object} dto.ErrorResponse "Search index unavailable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /search [get]
func (c *SearchController) Search(ctx *gin.Context) {
	query, ok := ctx.GetQuery("query")
	if !ok {
		ctx.String(http.StatusOK, InvalidSearchQueryMessage)
		return
	}

	start := time.Now()
	outcome, err := c.searchService.Resolve(ctx.Request.Context(), query)
	if err != nil {
		c.metrics.ObserveSearch("error", time.Since(start))
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.metrics.ObserveSearch(string(outcome.Kind), time.Since(start))

	if outcome.Kind == services.OutcomeRedirect {
		ctx.Redirect(http.StatusFound, outcome.RedirectTarget())
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SearchResponse{
		Query:   outcome.Query,
		Results: dto.FromSearchResults(outcome.Results),
	}, ""))
}
