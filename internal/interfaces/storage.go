package interfaces

import (
	"context"

	"github.com/ternarybob/seosync/internal/models"
)

// SeoStorage persists path-keyed metadata records.
type SeoStorage interface {
	// UpsertRecord writes a record with insert-or-replace semantics, keyed by
	// path. Safe to repeat.
	UpsertRecord(ctx context.Context, rec *models.SeoMetaRecord) error

	// GetRecordsByPaths batch-fetches the currently persisted records for a
	// set of paths, chunking queries to respect store limits. A chunk failure
	// propagates; partial results are never returned.
	GetRecordsByPaths(ctx context.Context, paths []string) (map[string]*models.SeoMetaRecord, error)

	// CountRecords returns the total number of persisted records.
	CountRecords(ctx context.Context) (int, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	SeoStorage() SeoStorage
	Close() error
}
