package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/seosync/internal/interfaces"
	"github.com/ternarybob/seosync/internal/models"
)

// DefaultChunkSize bounds the number of paths in one store query.
const DefaultChunkSize = 100

// SeoStorage implements the SeoStorage interface for Badger
type SeoStorage struct {
	db        *BadgerDB
	logger    arbor.ILogger
	chunkSize int
}

// NewSeoStorage creates a new SeoStorage instance
func NewSeoStorage(db *BadgerDB, logger arbor.ILogger, chunkSize int) interfaces.SeoStorage {
	if chunkSize <= 0 || chunkSize > DefaultChunkSize {
		chunkSize = DefaultChunkSize
	}
	return &SeoStorage{
		db:        db,
		logger:    logger,
		chunkSize: chunkSize,
	}
}

// UpsertRecord writes a record keyed by path with insert-or-replace
// semantics. CreatedAt is preserved across upserts; UpdatedAt is always set.
func (s *SeoStorage) UpsertRecord(ctx context.Context, rec *models.SeoMetaRecord) error {
	if rec.Path == "" {
		return fmt.Errorf("record path is required")
	}

	now := time.Now()
	if rec.CreatedAt.IsZero() {
		var existing models.SeoMetaRecord
		if err := s.db.Store().Get(rec.Path, &existing); err == nil {
			rec.CreatedAt = existing.CreatedAt
		} else {
			rec.CreatedAt = now
		}
	}
	rec.UpdatedAt = now

	if err := s.db.Store().Upsert(rec.Path, rec); err != nil {
		return fmt.Errorf("failed to upsert record for %s: %w", rec.Path, err)
	}
	return nil
}

// GetRecordsByPaths batch-fetches persisted records for a set of paths. The
// input is de-duplicated and split into chunks; one query is issued per
// chunk. A chunk failure aborts the whole load - existing data is
// load-bearing for merging, so a partial load must not proceed.
func (s *SeoStorage) GetRecordsByPaths(ctx context.Context, paths []string) (map[string]*models.SeoMetaRecord, error) {
	result := make(map[string]*models.SeoMetaRecord)
	if len(paths) == 0 {
		return result, nil
	}

	seen := make(map[string]bool, len(paths))
	unique := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		unique = append(unique, p)
	}

	for start := 0; start < len(unique); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(unique) {
			end = len(unique)
		}
		chunk := unique[start:end]

		keys := make([]interface{}, len(chunk))
		for i, p := range chunk {
			keys[i] = p
		}

		var records []models.SeoMetaRecord
		if err := s.db.Store().Find(&records, badgerhold.Where("Path").In(keys...)); err != nil {
			return nil, fmt.Errorf("failed to load existing records (chunk %d-%d): %w", start, end, err)
		}

		for i := range records {
			result[records[i].Path] = &records[i]
		}
	}

	s.logger.Debug().
		Int("requested", len(unique)).
		Int("found", len(result)).
		Msg("Loaded existing records")

	return result, nil
}

// CountRecords returns the total number of persisted records.
func (s *SeoStorage) CountRecords(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.SeoMetaRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return int(count), nil
}
