package sync

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/seosync/internal/common"
	"github.com/ternarybob/seosync/internal/models"
)

// score rates the completeness of a candidate record. The weights are tuning
// values carried in configuration, not a contract.
func score(rec *models.SeoMetaRecord, weights common.ScoreWeights) int {
	total := 0
	if rec.Title != "" {
		total += weights.Title
	}
	if rec.Description != "" {
		total += weights.Description
	}
	if rec.OG != nil {
		if rec.OG.Title != "" {
			total += weights.OGTitle
		}
		if rec.OG.Description != "" {
			total += weights.OGDescription
		}
		if rec.OG.Image != "" {
			total += weights.OGImage
		}
	}
	if rec.Canonical != "" {
		total += weights.Canonical
	}
	if rec.Robots != "" {
		total += weights.Robots
	}
	return total
}

// dedupe resolves path collisions across the whole batch (a page and a
// product can canonicalize to the same URL). The candidate with the highest
// completeness score survives; on a tie the later-processed candidate wins.
// First-seen path order is preserved.
func dedupe(records []*models.SeoMetaRecord, weights common.ScoreWeights, logger arbor.ILogger) []*models.SeoMetaRecord {
	resolved := make([]*models.SeoMetaRecord, 0, len(records))
	position := make(map[string]int, len(records))

	for _, rec := range records {
		pos, seen := position[rec.Path]
		if !seen {
			position[rec.Path] = len(resolved)
			resolved = append(resolved, rec)
			continue
		}

		held := resolved[pos]
		if score(rec, weights) >= score(held, weights) {
			logger.Debug().
				Str("path", rec.Path).
				Str("kept", rec.ContentType).
				Str("discarded", held.ContentType).
				Msg("Resolved path collision")
			resolved[pos] = rec
		} else {
			logger.Debug().
				Str("path", rec.Path).
				Str("kept", held.ContentType).
				Str("discarded", rec.ContentType).
				Msg("Resolved path collision")
		}
	}

	return resolved
}
