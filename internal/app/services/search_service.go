package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/pkg/helpers"
)

// SearchResultLimit caps how many candidates are requested from the index
const SearchResultLimit = 30

// OutcomeKind tells the caller what to do with a resolved search
type OutcomeKind string

const (
	// OutcomeEmpty means there was nothing to search for
	OutcomeEmpty OutcomeKind = "empty"
	// OutcomeRedirect means the search resolved to a single entity
	OutcomeRedirect OutcomeKind = "redirect"
	// OutcomeDisambiguate means the user has to pick from Results (which may be empty)
	OutcomeDisambiguate OutcomeKind = "disambiguate"
)

// SearchOutcome is the result of resolving one query
type SearchOutcome struct {
	Kind    OutcomeKind
	Query   string // normalized query
	Target  models.SearchResult
	Results []models.SearchResult
}

// RedirectTarget returns the destination of a redirect outcome, or "" otherwise
func (o SearchOutcome) RedirectTarget() string {
	if o.Kind != OutcomeRedirect || o.Target == nil {
		return ""
	}
	return o.Target.RedirectTarget()
}

// SearchService resolves free-text queries against courses and professors
type SearchService interface {
	Resolve(ctx context.Context, query string) (SearchOutcome, error)
}

type searchServiceImpl struct {
	index  QueryIndex
	logger zerolog.Logger
}

// NewSearchService creates a new search service backed by the given index
func NewSearchService(index QueryIndex, logger zerolog.Logger) SearchService {
	return &searchServiceImpl{
		index:  index,
		logger: logger.With().Str("component", "search_service").Logger(),
	}
}

// Resolve normalizes the query, asks the index for ranked candidates and
// decides between redirecting and asking the user to disambiguate.
// Index errors are returned as-is.
func (s *searchServiceImpl) Resolve(ctx context.Context, query string) (SearchOutcome, error) {
	normalized := helpers.NormalizeQuery(query)
	if normalized == "" {
		return SearchOutcome{Kind: OutcomeEmpty}, nil
	}

	results, err := s.index.Search(ctx, normalized, SearchResultLimit, true, true)
	if err != nil {
		return SearchOutcome{}, err
	}

	outcome := decideOutcome(normalized, results)
	s.logger.Debug().
		Str("query", normalized).
		Int("candidates", len(results)).
		Str("outcome", string(outcome.Kind)).
		Msg("Search resolved")

	return outcome, nil
}

// decideOutcome applies the redirect rules to an index-ordered result list.
func decideOutcome(normalized string, results []models.SearchResult) SearchOutcome {
	if len(results) == 1 {
		return SearchOutcome{Kind: OutcomeRedirect, Query: normalized, Target: results[0], Results: results}
	}

	// An exact course code match wins even when other candidates ranked nearby.
	// Professor names are not unique, so they never skip disambiguation.
	if len(results) > 0 {
		top := results[0]
		if top.Kind() == models.ResultKindCourse && strings.EqualFold(top.DisplayName(), normalized) {
			return SearchOutcome{Kind: OutcomeRedirect, Query: normalized, Target: top, Results: results}
		}
	}

	if results == nil {
		results = []models.SearchResult{}
	}
	return SearchOutcome{Kind: OutcomeDisambiguate, Query: normalized, Results: results}
}
