package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/seosync/internal/catalogapi"
	"github.com/ternarybob/seosync/internal/common"
	"github.com/ternarybob/seosync/internal/contentapi"
	"github.com/ternarybob/seosync/internal/interfaces"
	"github.com/ternarybob/seosync/internal/storage/badger"
)

// newTestOrigin serves a small fixed site: one authored page, one product
// description without authored metadata, and a catalog with a matching
// product entry.
func newTestOrigin(t *testing.T) *httptest.Server {
	t.Helper()

	pageItems := []map[string]interface{}{
		{
			"link":    "https://example.com/about-us/",
			"slug":    "about-us",
			"title":   map[string]string{"rendered": "About Us"},
			"excerpt": map[string]string{"rendered": "<p>Who we are.</p>"},
			"metadata": map[string]interface{}{
				"title":       "About the Crew",
				"description": "Meet the crew behind the tours.",
				"canonical":   "https://example.com/about-us",
				"robots":      "index, follow",
			},
		},
	}

	productItems := []map[string]interface{}{
		{
			"link":  "https://example.com/product/reef-tour/",
			"slug":  "reef-tour",
			"title": map[string]string{"rendered": "Reef Tour"},
		},
	}

	catalogEntries := []map[string]interface{}{
		{
			"id":                9,
			"slug":              "reef-tour",
			"permalink":         "https://example.com/product/reef-tour/",
			"name":              "Reef Tour",
			"price":             "75.00",
			"stock_status":      "instock",
			"short_description": "<p>Half-day reef trip.</p>",
		},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			json.NewEncoder(w).Encode([]interface{}{})
			return
		}

		switch r.URL.Path {
		case "/content/page":
			json.NewEncoder(w).Encode(pageItems)
		case "/content/product":
			json.NewEncoder(w).Encode(productItems)
		case "/catalog/products":
			json.NewEncoder(w).Encode(catalogEntries)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestService(t *testing.T, origin string, opts ...ServiceOption) (*Service, interfaces.SeoStorage) {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Content.Origin = origin
	config.Content.Categories = []string{"page", "product"}

	logger := common.GetLogger()

	manager, err := badger.NewManager(logger, &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "seo"),
	}, config.Sync.ChunkSize)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	content := contentapi.NewClient(&config.Content, contentapi.WithOrigins([]string{origin}), contentapi.WithLogger(logger))
	catalog := catalogapi.NewClient(&config.Content, &config.Catalog, catalogapi.WithOrigins([]string{origin}), catalogapi.WithLogger(logger))

	storage := manager.SeoStorage()
	return NewService(config, content, catalog, storage, logger, opts...), storage
}

func TestRunEndToEnd(t *testing.T) {
	origin := newTestOrigin(t)
	defer origin.Close()

	service, storage := newTestService(t, origin.URL)
	ctx := context.Background()

	result, err := service.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Fetched["page"])
	assert.Equal(t, 1, result.Fetched["product"])
	assert.Equal(t, 1, result.CatalogEntries)
	assert.Equal(t, 2, result.Prepared)
	assert.Equal(t, 0, result.Dropped)
	assert.Equal(t, 0, result.Discarded)
	assert.Equal(t, 2, result.Upserted)
	assert.Empty(t, result.Failed)

	loaded, err := storage.GetRecordsByPaths(ctx, []string{"/about-us", "/product/reef-tour"})
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	about := loaded["/about-us"]
	assert.Equal(t, "About the Crew", about.Title)
	assert.Equal(t, "Meet the crew behind the tours.", about.Description)
	assert.Equal(t, "index, follow", about.Robots)
	assert.Equal(t, "page", about.ContentType)

	product := loaded["/product/reef-tour"]
	assert.Equal(t, "Reef Tour", product.Title)
	assert.Equal(t, "Half-day reef trip.", product.Description, "catalog short description backstops the unauthored page")
	assert.Equal(t, "75.00", product.Extras["product_price"])
	assert.Equal(t, int64(9), product.Extras["product_id"])
	assert.Equal(t, "instock", product.Extras["product_stock_status"])
}

func TestRunIsIdempotent(t *testing.T) {
	origin := newTestOrigin(t)
	defer origin.Close()

	service, storage := newTestService(t, origin.URL)
	ctx := context.Background()

	first, err := service.Run(ctx)
	require.NoError(t, err)

	loaded, err := storage.GetRecordsByPaths(ctx, []string{"/about-us"})
	require.NoError(t, err)
	created := loaded["/about-us"].CreatedAt

	second, err := service.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Upserted, second.Upserted)

	count, err := storage.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "re-running writes the same two records")

	loaded, err = storage.GetRecordsByPaths(ctx, []string{"/about-us"})
	require.NoError(t, err)
	assert.Equal(t, created.Unix(), loaded["/about-us"].CreatedAt.Unix())
}

func TestRunDryRunWritesNothing(t *testing.T) {
	origin := newTestOrigin(t)
	defer origin.Close()

	service, storage := newTestService(t, origin.URL, WithDryRun(true))
	ctx := context.Background()

	result, err := service.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Upserted, "dry run still reports would-be writes")

	count, err := storage.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRunFailsWhenCategoryFetchFails(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer origin.Close()

	service, _ := newTestService(t, origin.URL)

	_, err := service.Run(context.Background())
	assert.Error(t, err, "a partial fetch must fail the run")
}

func TestRunCatalogDisabled(t *testing.T) {
	origin := newTestOrigin(t)
	defer origin.Close()

	service, storage := newTestService(t, origin.URL)
	service.config.Catalog.Enabled = false
	ctx := context.Background()

	result, err := service.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CatalogEntries)

	loaded, err := storage.GetRecordsByPaths(ctx, []string{"/product/reef-tour"})
	require.NoError(t, err)
	require.Contains(t, loaded, "/product/reef-tour")
	_, hasPrice := loaded["/product/reef-tour"].Extras["product_price"]
	assert.False(t, hasPrice, "no catalog enrichment without the catalog fetch")
}
