package sync

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/seosync/internal/common"
	"github.com/ternarybob/seosync/internal/models"
	"github.com/ternarybob/seosync/internal/normalize"
)

// derivePath resolves the normalized store key for a content item: the
// metadata block's canonical URL first, the item's own link second. An item
// with neither is dropped from the batch.
func derivePath(item models.ContentItem) (string, error) {
	if item.Meta != nil && item.Meta.Canonical != "" {
		if path, err := common.NormalizePath(item.Meta.Canonical); err == nil {
			return path, nil
		}
	}
	if item.Link != "" {
		if path, err := common.NormalizePath(item.Link); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no derivable path (canonical=%q link=%q)", canonicalOf(item), item.Link)
}

func canonicalOf(item models.ContentItem) string {
	if item.Meta == nil {
		return ""
	}
	return item.Meta.Canonical
}

// mapRow computes the final metadata record for one content item by applying
// ordered fallback chains across the freshly fetched metadata block, the
// merged sidecar extras, and the previously persisted record. The existing
// record may be nil; missing optional fields never fail the row.
func mapRow(item models.ContentItem, path, category string, extras models.Extras, existing *models.SeoMetaRecord, descriptionLimit int) *models.SeoMetaRecord {
	meta := item.Meta
	if meta == nil {
		meta = &models.MetaBlock{}
	}

	var prior models.SeoMetaRecord
	if existing != nil {
		prior = *existing
	}

	merged := models.MergeExtras(prior.Extras, extras)

	title := normalize.FirstNonEmpty(
		normalize.Sanitize(meta.Title),
		extrasString(merged, "fallback_title"),
		normalize.Sanitize(item.Title.Rendered),
		extrasString(merged, "product_name"),
		prior.Title,
	)

	description := normalize.FirstNonEmpty(
		normalize.Sanitize(meta.Description),
		extrasString(merged, "fallback_description"),
		normalize.Sanitize(item.Excerpt.Rendered),
		extrasString(merged, "product_short_description"),
		extrasString(merged, "product_description"),
		prior.Description,
	)
	description = normalize.Truncate(description, descriptionLimit)

	canonical := normalize.FirstNonEmpty(meta.Canonical, prior.Canonical, item.Link)

	robots := normalize.FirstNonEmpty(flattenRobots(meta.Robots), prior.Robots)

	og := &models.OpenGraph{
		Title:       normalize.FirstNonEmpty(normalize.Sanitize(meta.OGTitle), title),
		Description: normalize.FirstNonEmpty(normalize.Sanitize(meta.OGDescription), description),
		Image:       normalize.FirstNonEmpty(meta.OGImage, priorOGImage(existing)),
	}
	if og.Empty() {
		og = nil
	}

	ld := parseStructuredData(meta.Schema)
	if ld == nil {
		ld = prior.LD
	}

	contentType := category
	if contentType == "" {
		contentType = prior.ContentType
	}

	return &models.SeoMetaRecord{
		Path:        path,
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Robots:      robots,
		OG:          og,
		LD:          ld,
		ContentType: contentType,
		Extras:      merged,
		RouteID:     prior.RouteID,
		CreatedAt:   prior.CreatedAt,
	}
}

func priorOGImage(existing *models.SeoMetaRecord) string {
	if existing == nil || existing.OG == nil {
		return ""
	}
	return existing.OG.Image
}

func extrasString(extras models.Extras, key string) string {
	if extras == nil {
		return ""
	}
	if s, ok := extras[key].(string); ok {
		return s
	}
	return ""
}

// flattenRobots normalizes the robots directive out of its string, array or
// object JSON forms into a single comma-joined string. Object values are
// joined in key order for deterministic output.
func flattenRobots(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		return joinNonEmpty(asList)
	}

	var asObject map[string]string
	if err := json.Unmarshal(raw, &asObject); err == nil {
		keys := make([]string, 0, len(asObject))
		for k := range asObject {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		values := make([]string, 0, len(keys))
		for _, k := range keys {
			values = append(values, asObject[k])
		}
		return joinNonEmpty(values)
	}

	return ""
}

func joinNonEmpty(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, ",")
}

// parseStructuredData passes a structured-data payload through, re-parsing
// the string-encoded form the content system sometimes emits. Invalid
// payloads are treated as absent.
func parseStructuredData(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		trimmed := strings.TrimSpace(asString)
		if trimmed == "" || !json.Valid([]byte(trimmed)) {
			return nil
		}
		return json.RawMessage(trimmed)
	}

	if !json.Valid(raw) {
		return nil
	}
	return raw
}
