package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/seosync/internal/common"
	"github.com/ternarybob/seosync/internal/models"
)

func defaultWeights() common.ScoreWeights {
	return common.NewDefaultConfig().Sync.Weights
}

func TestScore(t *testing.T) {
	weights := defaultWeights()

	full := &models.SeoMetaRecord{
		Title:       "t",
		Description: "d",
		Canonical:   "c",
		Robots:      "r",
		OG:          &models.OpenGraph{Title: "t", Description: "d", Image: "i"},
	}
	assert.Equal(t, 17, score(full, weights))

	sparse := &models.SeoMetaRecord{Title: "t", Canonical: "c"}
	assert.Equal(t, 6, score(sparse, weights))

	assert.Equal(t, 0, score(&models.SeoMetaRecord{}, weights))
}

func TestDedupeKeepsMoreCompleteCandidate(t *testing.T) {
	weights := defaultWeights()
	logger := common.GetLogger()

	richer := &models.SeoMetaRecord{
		Path:        "/tours/reef-tour",
		Title:       "Reef Tour",
		Description: "Half-day trip.",
		ContentType: "page",
	}
	poorer := &models.SeoMetaRecord{
		Path:        "/tours/reef-tour",
		Title:       "Reef Tour",
		ContentType: "product",
	}

	// Richer first: the later, poorer candidate must not displace it.
	resolved := dedupe([]*models.SeoMetaRecord{richer, poorer}, weights, logger)
	require.Len(t, resolved, 1)
	assert.Equal(t, "page", resolved[0].ContentType)

	// Poorer first: the later, richer candidate wins.
	resolved = dedupe([]*models.SeoMetaRecord{poorer, richer}, weights, logger)
	require.Len(t, resolved, 1)
	assert.Equal(t, "page", resolved[0].ContentType)
}

func TestDedupeTieGoesToLaterCandidate(t *testing.T) {
	weights := defaultWeights()
	logger := common.GetLogger()

	first := &models.SeoMetaRecord{Path: "/p", Title: "A", ContentType: "page"}
	second := &models.SeoMetaRecord{Path: "/p", Title: "B", ContentType: "product"}

	resolved := dedupe([]*models.SeoMetaRecord{first, second}, weights, logger)
	require.Len(t, resolved, 1)
	assert.Equal(t, "B", resolved[0].Title)
}

func TestDedupePreservesFirstSeenOrder(t *testing.T) {
	weights := defaultWeights()
	logger := common.GetLogger()

	records := []*models.SeoMetaRecord{
		{Path: "/a", Title: "a"},
		{Path: "/b", Title: "b"},
		{Path: "/a", Title: "a-richer", Description: "d"},
		{Path: "/c", Title: "c"},
	}

	resolved := dedupe(records, weights, logger)
	require.Len(t, resolved, 3)
	assert.Equal(t, "/a", resolved[0].Path)
	assert.Equal(t, "a-richer", resolved[0].Title, "winner replaces in place")
	assert.Equal(t, "/b", resolved[1].Path)
	assert.Equal(t, "/c", resolved[2].Path)
}
