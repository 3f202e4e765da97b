package dto

import "github.com/yigit/coursescope/internal/app/models"

// SearchResultItem is one entry of a disambiguation list
type SearchResultItem struct {
	Type  models.ResultKind `json:"type" example:"course" enums:"course,professor"`
	Name  string            `json:"name" example:"CMSC131"`
	Title string            `json:"title,omitempty" example:"Object-Oriented Programming I"`
	URL   string            `json:"url" example:"/course/CMSC131"`
}

// SearchResponse is returned when a search does not resolve to a single entity
type SearchResponse struct {
	Query   string             `json:"query" example:"cmsc13"`
	Results []SearchResultItem `json:"results"`
}

// FromSearchResults converts ranked results, keeping their order
func FromSearchResults(results []models.SearchResult) []SearchResultItem {
	items := make([]SearchResultItem, 0, len(results))
	for _, r := range results {
		items = append(items, SearchResultItem{
			Type:  r.Kind(),
			Name:  r.DisplayName(),
			Title: r.Subtitle(),
			URL:   r.RedirectTarget(),
		})
	}
	return items
}
