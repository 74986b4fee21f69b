// internal/catalog/search.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

var (
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
	ErrIndexNotFound     = errors.New("INDEX_NOT_FOUND")
)

// Search provides free-text visa search over the catalog index.
type Search struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearch(client *elasticsearch.Client, index string, log logger.Logger) *Search {
	return &Search{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-search"}),
	}
}

// SearchVisas matches visas by name, description and eligibility text.
// Optional stage narrows results to one lifecycle stage.
func (s *Search) SearchVisas(ctx context.Context, text string, stage models.Stage, size int) ([]models.Visa, error) {
	if size <= 0 {
		size = 10
	}

	boolQuery := map[string]interface{}{}
	if text != "" {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  text,
					"fields": []string{"name^3", "short_description^2", "eligibility_criteria"},
					"type":   "best_fields",
				},
			},
		}
	}
	if stage != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"term": map[string]interface{}{"stage": string(stage)},
			},
		}
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, s.index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Visa `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchQueryFailed, err)
	}

	visas := make([]models.Visa, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		visas = append(visas, hit.Source)
	}

	s.logger.Debug("visa search completed", map[string]interface{}{
		"text":  text,
		"stage": string(stage),
		"hits":  len(visas),
	})
	return visas, nil
}

// IndexVisa writes one visa document, used by the catalog seeder.
func (s *Search) IndexVisa(ctx context.Context, visa models.Visa) error {
	body, err := json.Marshal(visa)
	if err != nil {
		return fmt.Errorf("marshal visa %s: %w", visa.Slug, err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: visa.Slug,
		Body:       strings.NewReader(string(body)),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index visa %s: %w", visa.Slug, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index visa %s: %s", visa.Slug, res.Status())
	}
	return nil
}
