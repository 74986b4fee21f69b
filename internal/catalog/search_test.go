package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

const testIndex = "visas-test"

// Search tests run against a local Elasticsearch container and skip when
// one is not available.
func createRealElasticsearchClient(t *testing.T) *elasticsearch.Client {
	cfg := elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
	}

	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		t.Skipf("Skipping test: Failed to create Elasticsearch client: %v", err)
		return nil
	}

	res, err := esClient.Info()
	if err != nil {
		t.Skipf("Skipping test: Elasticsearch container not responding: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		t.Skipf("Skipping test: Elasticsearch error: %s", res.String())
		return nil
	}

	return esClient
}

func newTestSearch(t *testing.T) *Search {
	esClient := createRealElasticsearchClient(t)
	search := NewSearch(esClient, testIndex, logger.NewZapAdapter(zaptest.NewLogger(t)))

	esClient.Indices.Delete([]string{testIndex}, esClient.Indices.Delete.WithIgnoreUnavailable(true))

	visas := []models.Visa{
		{
			Slug:             "skilled-migrant",
			Name:             "Skilled Migrant Category Resident Visa",
			Stage:            models.StageFirstResidence,
			ShortDescription: "Residence through skilled employment and qualifications",
		},
		{
			Slug:             "student-visa",
			Name:             "Student Visa",
			Stage:            models.StageStudent,
			ShortDescription: "Study full time at an approved provider",
		},
	}
	ctx := context.Background()
	for _, v := range visas {
		require.NoError(t, search.IndexVisa(ctx, v))
	}
	time.Sleep(time.Second)

	return search
}

func TestSearchVisas(t *testing.T) {
	search := newTestSearch(t)
	ctx := context.Background()

	results, err := search.SearchVisas(ctx, "skilled employment", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "skilled-migrant", results[0].Slug)
}

func TestSearchVisas_StageFilter(t *testing.T) {
	search := newTestSearch(t)
	ctx := context.Background()

	results, err := search.SearchVisas(ctx, "visa", models.StageStudent, 10)
	require.NoError(t, err)
	for _, v := range results {
		assert.Equal(t, models.StageStudent, v.Stage)
	}
}

func TestSearchVisas_MissingIndex(t *testing.T) {
	esClient := createRealElasticsearchClient(t)
	search := NewSearch(esClient, "no-such-index", logger.NewZapAdapter(zaptest.NewLogger(t)))

	_, err := search.SearchVisas(context.Background(), "anything", "", 10)
	assert.ErrorIs(t, err, ErrIndexNotFound)
}
