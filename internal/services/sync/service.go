package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/seosync/internal/catalogapi"
	"github.com/ternarybob/seosync/internal/common"
	"github.com/ternarybob/seosync/internal/contentapi"
	"github.com/ternarybob/seosync/internal/interfaces"
	"github.com/ternarybob/seosync/internal/models"
)

// Service orchestrates one metadata synchronization run.
type Service struct {
	config  *common.Config
	content *contentapi.Client
	catalog *catalogapi.Client
	storage interfaces.SeoStorage
	logger  arbor.ILogger
	dryRun  bool
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithDryRun makes the run report would-be writes without touching the store.
func WithDryRun(dryRun bool) ServiceOption {
	return func(s *Service) {
		s.dryRun = dryRun
	}
}

// NewService creates a sync service.
func NewService(config *common.Config, content *contentapi.Client, catalog *catalogapi.Client, storage interfaces.SeoStorage, logger arbor.ILogger, opts ...ServiceOption) *Service {
	s := &Service{
		config:  config,
		content: content,
		catalog: catalog,
		storage: storage,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// itemWithPath pairs a content item with its derived store key.
type itemWithPath struct {
	item models.ContentItem
	path string
}

// Run executes the pipeline: concurrent fetch fan-out, correlation index,
// per-category mapping against existing records, conflict resolution, and
// the bulk upsert. Returns a non-nil error when the run must fail the
// process, alongside whatever summary was produced.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	runID := uuid.New().String()[:8]

	result := &RunResult{
		RunID:   runID,
		Fetched: make(map[string]int),
	}

	s.logger.Info().
		Str("run_id", runID).
		Strs("categories", s.config.Content.Categories).
		Bool("catalog", s.config.Catalog.Enabled).
		Bool("dry_run", s.dryRun).
		Msg("Starting metadata sync")

	itemsByCategory, entries, err := s.fetchAll(ctx)
	if err != nil {
		return result, err
	}
	for category, items := range itemsByCategory {
		result.Fetched[category] = len(items)
	}
	result.CatalogEntries = len(entries)

	index := newCatalogIndex(entries, s.logger)

	// Map each category sequentially after the fetch fan-in. Categories have
	// disjoint path sets by construction, so the order does not affect the
	// merge, only store load.
	var candidates []*models.SeoMetaRecord
	for _, category := range s.config.Content.Categories {
		mapped, dropped, err := s.mapCategory(ctx, category, itemsByCategory[category], index)
		if err != nil {
			return result, err
		}
		candidates = append(candidates, mapped...)
		result.Dropped += dropped
	}
	result.Prepared = len(candidates)

	resolved := dedupe(candidates, s.config.Sync.Weights, s.logger)
	result.Discarded = len(candidates) - len(resolved)

	s.logger.Info().
		Str("run_id", runID).
		Int("prepared", result.Prepared).
		Int("dropped", result.Dropped).
		Int("discarded", result.Discarded).
		Msg("Prepared metadata records")

	s.upsertAll(ctx, resolved, result)
	result.Elapsed = time.Since(started)

	s.logger.Info().
		Str("run_id", runID).
		Int("upserted", result.Upserted).
		Int("failed", len(result.Failed)).
		Str("elapsed", result.Elapsed.Round(time.Millisecond).String()).
		Msg("Metadata sync finished")

	if len(result.Failed) > 0 {
		return result, &UpsertError{Failed: result.Failed}
	}
	return result, nil
}

// fetchAll runs the content category fetches and the catalog fetch
// concurrently and waits for all of them. Any fetch failure fails the run: a
// partial category fetch would silently under-write metadata, which is worse
// than no sync.
func (s *Service) fetchAll(ctx context.Context) (map[string][]models.ContentItem, []models.CatalogEntry, error) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		fetchErrs []error
	)

	itemsByCategory := make(map[string][]models.ContentItem, len(s.config.Content.Categories))
	var entries []models.CatalogEntry

	for _, category := range s.config.Content.Categories {
		wg.Add(1)
		go func(category string) {
			defer wg.Done()

			items, err := s.content.FetchCategory(ctx, category)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fetchErrs = append(fetchErrs, fmt.Errorf("category %s: %w", category, err))
				return
			}
			itemsByCategory[category] = items
		}(category)
	}

	if s.config.Catalog.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()

			fetched, err := s.catalog.FetchProducts(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fetchErrs = append(fetchErrs, fmt.Errorf("catalog: %w", err))
				return
			}
			entries = fetched
		}()
	}

	wg.Wait()

	if len(fetchErrs) > 0 {
		return nil, nil, fmt.Errorf("fetch failed: %w", errors.Join(fetchErrs...))
	}

	return itemsByCategory, entries, nil
}

// mapCategory derives paths, loads the existing records for them in one
// chunked batch, and maps every item of a category to a candidate record.
// Items without a derivable path are dropped with a warning; a failed
// existing-record load aborts the run.
func (s *Service) mapCategory(ctx context.Context, category string, items []models.ContentItem, index *catalogIndex) ([]*models.SeoMetaRecord, int, error) {
	dropped := 0
	kept := make([]itemWithPath, 0, len(items))
	paths := make([]string, 0, len(items))

	for _, item := range items {
		path, err := derivePath(item)
		if err != nil {
			dropped++
			s.logger.Warn().
				Str("category", category).
				Str("slug", item.Slug).
				Err(err).
				Msg("Dropping item without derivable path")
			continue
		}
		kept = append(kept, itemWithPath{item: item, path: path})
		paths = append(paths, path)
	}

	existing, err := s.storage.GetRecordsByPaths(ctx, paths)
	if err != nil {
		// Merging against unknown prior state is unsafe; abort.
		return nil, dropped, fmt.Errorf("existing-record load failed for category %s: %w", category, err)
	}

	records := make([]*models.SeoMetaRecord, 0, len(kept))
	for _, entry := range kept {
		extras := buildItemExtras(entry.item, category)
		if catalogExtras := index.lookup(entry.item); catalogExtras != nil {
			extras = models.MergeExtras(extras, catalogExtras)
		}

		rec := mapRow(entry.item, entry.path, category, extras, existing[entry.path], s.config.Sync.DescriptionLimit)
		records = append(records, rec)
	}

	return records, dropped, nil
}

// upsertAll persists every resolved record sequentially, collecting per-row
// failures instead of stopping. One bad row never blocks good rows.
func (s *Service) upsertAll(ctx context.Context, records []*models.SeoMetaRecord, result *RunResult) {
	for _, rec := range records {
		if s.dryRun {
			s.logger.Info().
				Str("path", rec.Path).
				Str("title", rec.Title).
				Str("content_type", rec.ContentType).
				Msg("Dry run: would upsert record")
			result.Upserted++
			continue
		}

		if err := s.storage.UpsertRecord(ctx, rec); err != nil {
			s.logger.Error().
				Str("path", rec.Path).
				Err(err).
				Msg("Failed to upsert record")
			result.Failed = append(result.Failed, RowError{Path: rec.Path, Message: err.Error()})
			continue
		}
		result.Upserted++
	}
}
