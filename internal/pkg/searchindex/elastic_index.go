package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog"
	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/config"
	"github.com/yigit/coursescope/internal/pkg/apperrors"
)

// indexMapping keeps a lowercase keyword copy of name for exact matches
const indexMapping = `{
  "settings": {
    "analysis": {
      "normalizer": {
        "lowercase": {"type": "custom", "filter": ["lowercase"]}
      }
    }
  },
  "mappings": {
    "properties": {
      "kind":  {"type": "keyword"},
      "id":    {"type": "long"},
      "name":  {"type": "text", "fields": {"raw": {"type": "keyword", "normalizer": "lowercase"}}},
      "slug":  {"type": "keyword"},
      "title": {"type": "text"},
      "type":  {"type": "keyword"}
    }
  }
}`

// document is the indexed form of a course or professor
type document struct {
	Kind  models.ResultKind `json:"kind"`
	ID    int64             `json:"id"`
	Name  string            `json:"name"`
	Slug  string            `json:"slug,omitempty"`
	Title string            `json:"title,omitempty"`
	Type  string            `json:"type,omitempty"`
}

func (d document) docID() string {
	return string(d.Kind) + "-" + strconv.FormatInt(d.ID, 10)
}

func (d document) toResult() models.SearchResult {
	if d.Kind == models.ResultKindProfessor {
		return &models.Professor{ID: d.ID, Name: d.Name, Slug: d.Slug, Type: models.ProfessorType(d.Type)}
	}
	return &models.Course{ID: d.ID, Name: d.Name, Title: d.Title}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// ElasticIndex is the Elasticsearch-backed query index. It implements services.QueryIndex.
type ElasticIndex struct {
	client *elasticsearch.Client
	index  string
	logger zerolog.Logger
}

// NewElasticClient creates an Elasticsearch client from configuration
func NewElasticClient(cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	}

	if cfg.Elasticsearch.Username != "" {
		esCfg.Username = cfg.Elasticsearch.Username
		esCfg.Password = cfg.Elasticsearch.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return es, nil
}

// NewElasticIndex creates a query index over the named Elasticsearch index
func NewElasticIndex(client *elasticsearch.Client, index string, logger zerolog.Logger) *ElasticIndex {
	return &ElasticIndex{
		client: client,
		index:  index,
		logger: logger,
	}
}

// buildSearchQuery returns the request body for Search
func buildSearchQuery(query string, limit int, includeCourses, includeProfessors bool) map[string]any {
	kinds := []string{}
	if includeCourses {
		kinds = append(kinds, string(models.ResultKindCourse))
	}
	if includeProfessors {
		kinds = append(kinds, string(models.ResultKindProfessor))
	}

	return map[string]any{
		"size": limit,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"type":   "phrase_prefix",
						"fields": []string{"name^3", "title"},
					},
				},
				"should": []any{
					map[string]any{
						"term": map[string]any{
							"name.raw": map[string]any{"value": strings.ToLower(query), "boost": 10},
						},
					},
				},
				"filter": []any{
					map[string]any{"terms": map[string]any{"kind": kinds}},
				},
			},
		},
		"sort": []any{"_score", map[string]any{"kind": "asc"}, map[string]any{"name.raw": "asc"}},
	}
}

// Search returns up to limit courses and professors in relevance order
func (e *ElasticIndex) Search(ctx context.Context, query string, limit int, includeCourses, includeProfessors bool) ([]models.SearchResult, error) {
	results := []models.SearchResult{}
	if limit <= 0 || (!includeCourses && !includeProfessors) {
		return results, nil
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(buildSearchQuery(query, limit, includeCourses, includeProfessors)); err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSearchIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSearchIndexUnavailable, responseError(res))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	for _, hit := range parsed.Hits.Hits {
		results = append(results, hit.Source.toResult())
	}

	return results, nil
}

// EnsureIndex creates the index with its mapping if it does not exist
func (e *ElasticIndex) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists([]string{e.index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSearchIndexUnavailable, err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = e.client.Indices.Create(e.index,
		e.client.Indices.Create.WithContext(ctx),
		e.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSearchIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to create index %s: %s", e.index, responseError(res))
	}

	e.logger.Info().Str("index", e.index).Msg("Created search index")
	return nil
}

// bulkBody renders documents as a bulk index request
func bulkBody(docs []document) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		meta := map[string]any{"index": map[string]any{"_id": doc.docID()}}
		if err := enc.Encode(meta); err != nil {
			return nil, err
		}
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
	}
	return &buf, nil
}

// Reindex writes every course and professor into the index
func (e *ElasticIndex) Reindex(ctx context.Context, courses []*models.Course, professors []*models.Professor) (int, error) {
	if err := e.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	docs := make([]document, 0, len(courses)+len(professors))
	for _, c := range courses {
		docs = append(docs, document{Kind: models.ResultKindCourse, ID: c.ID, Name: c.Name, Title: c.Title})
	}
	for _, p := range professors {
		docs = append(docs, document{Kind: models.ResultKindProfessor, ID: p.ID, Name: p.Name, Slug: p.Slug, Type: string(p.Type)})
	}
	if len(docs) == 0 {
		return 0, nil
	}

	body, err := bulkBody(docs)
	if err != nil {
		return 0, fmt.Errorf("failed to encode bulk request: %w", err)
	}

	res, err := e.client.Bulk(body,
		e.client.Bulk.WithContext(ctx),
		e.client.Bulk.WithIndex(e.index),
		e.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrSearchIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk index failed: %s", responseError(res))
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("failed to decode bulk response: %w", err)
	}

	indexed := len(docs)
	if parsed.Errors {
		for _, item := range parsed.Items {
			for _, op := range item {
				if op.Error != nil {
					indexed--
					e.logger.Error().Str("id", op.ID).Str("type", op.Error.Type).Msg(op.Error.Reason)
				}
			}
		}
		return indexed, fmt.Errorf("bulk index reported %d failures", len(docs)-indexed)
	}

	e.logger.Info().Int("documents", indexed).Str("index", e.index).Msg("Search index rebuilt")
	return indexed, nil
}

func responseError(res *esapi.Response) string {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Sprintf("%s %s", res.Status(), strings.TrimSpace(string(body)))
}
