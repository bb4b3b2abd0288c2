package models

import (
	"encoding/json"
	"time"
)

// Extras is the free-form, additive sidecar key/value data carried alongside
// a metadata record. Values are scalars (string, int64, float64, bool).
// Extras never contain nil or empty-string values; callers prune after every
// merge.
type Extras map[string]interface{}

// Prune removes nil and empty-string values. Returns nil when nothing
// survives so the record serializes the field as absent.
func (e Extras) Prune() Extras {
	if len(e) == 0 {
		return nil
	}

	pruned := make(Extras, len(e))
	for k, v := range e {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		pruned[k] = v
	}

	if len(pruned) == 0 {
		return nil
	}
	return pruned
}

// MergeExtras overlays incoming extras onto existing ones key by key. A key
// already captured in a prior run is never deleted; a new non-nil value
// overwrites. The result is pruned.
func MergeExtras(existing, incoming Extras) Extras {
	if len(existing) == 0 && len(incoming) == 0 {
		return nil
	}

	merged := make(Extras, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		if v == nil {
			continue
		}
		merged[k] = v
	}

	return merged.Prune()
}

// OpenGraph holds the social-card fields of a metadata record.
type OpenGraph struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Empty reports whether all three fields are absent.
func (og *OpenGraph) Empty() bool {
	return og == nil || (og.Title == "" && og.Description == "" && og.Image == "")
}

// SeoMetaRecord is the entity persisted to the metadata store, keyed by the
// normalized URL path. At most one record exists per path at any time.
type SeoMetaRecord struct {
	Path        string          `json:"path"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Canonical   string          `json:"canonical,omitempty"`
	Robots      string          `json:"robots,omitempty"`
	OG          *OpenGraph      `json:"og,omitempty"`
	LD          json.RawMessage `json:"ld,omitempty"`
	ContentType string          `json:"contentType,omitempty"`
	Extras      Extras          `json:"extras,omitempty"`

	// RouteID is assigned by the page renderer, never by this pipeline. It is
	// carried through unchanged from any prior record.
	RouteID *string `json:"routeId,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
