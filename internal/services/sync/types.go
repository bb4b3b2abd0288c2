// Package sync implements the metadata reconciliation pipeline: it pulls
// canonical on-page metadata from the content system and the commerce
// catalog, reconciles it against previously persisted records, and performs
// an idempotent bulk upsert into the path-keyed metadata store.
package sync

import (
	"fmt"
	"strings"
	"time"
)

// RowError describes one failed upsert row.
type RowError struct {
	Path    string
	Message string
}

// UpsertError aggregates every row that failed to persist. It is raised only
// after the whole batch has been attempted, so successful rows are already
// durably written when the run fails.
type UpsertError struct {
	Failed []RowError
}

func (e *UpsertError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d record(s) failed to upsert:", len(e.Failed))
	for _, row := range e.Failed {
		fmt.Fprintf(&b, "\n  %s: %s", row.Path, row.Message)
	}
	return b.String()
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	RunID          string
	Fetched        map[string]int // Items fetched per content category
	CatalogEntries int
	Prepared       int // Candidate records after mapping
	Dropped        int // Items without a derivable path
	Discarded      int // Candidates removed by conflict resolution
	Upserted       int
	Failed         []RowError
	Elapsed        time.Duration
}
