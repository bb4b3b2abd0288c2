package sync

import (
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/seosync/internal/common"
	"github.com/ternarybob/seosync/internal/models"
)

// catalogIndex correlates content items with catalog entries. The two systems
// share no foreign key, so correlation is by lowercased slug or normalized
// permalink path only - a deliberate, fallible heuristic. Treat hits as
// best-effort enrichment, never as a join the pipeline depends on.
type catalogIndex struct {
	bySlug map[string]models.Extras
	byPath map[string]models.Extras
}

// newCatalogIndex builds the slug and path lookup tables once per run.
func newCatalogIndex(entries []models.CatalogEntry, logger arbor.ILogger) *catalogIndex {
	index := &catalogIndex{
		bySlug: make(map[string]models.Extras, len(entries)),
		byPath: make(map[string]models.Extras, len(entries)),
	}

	for _, entry := range entries {
		extras := buildCatalogExtras(entry)
		if extras == nil {
			continue
		}

		if entry.Slug != "" {
			index.bySlug[strings.ToLower(entry.Slug)] = extras
		}
		if entry.Permalink != "" {
			path, err := common.NormalizePath(entry.Permalink)
			if err != nil {
				logger.Warn().
					Str("permalink", entry.Permalink).
					Err(err).
					Msg("Skipping catalog permalink with unparseable path")
				continue
			}
			index.byPath[path] = extras
		}
	}

	logger.Debug().
		Int("by_slug", len(index.bySlug)).
		Int("by_path", len(index.byPath)).
		Msg("Built catalog correlation index")

	return index
}

// lookup returns the catalog extras for a content item, trying the item's
// slug, its canonical path and its own link path in that order. First hit
// wins; nil when nothing matches.
func (idx *catalogIndex) lookup(item models.ContentItem) models.Extras {
	if item.Slug != "" {
		if extras, ok := idx.bySlug[strings.ToLower(item.Slug)]; ok {
			return extras
		}
	}

	if item.Meta != nil && item.Meta.Canonical != "" {
		if path, err := common.NormalizePath(item.Meta.Canonical); err == nil {
			if extras, ok := idx.byPath[path]; ok {
				return extras
			}
		}
	}

	if item.Link != "" {
		if path, err := common.NormalizePath(item.Link); err == nil {
			if extras, ok := idx.byPath[path]; ok {
				return extras
			}
		}
	}

	return nil
}
