package models

import (
	"bytes"
	"encoding/json"
)

// ContentItem represents one unit fetched from the content system (a page,
// post or product description). Items are transient: they exist for a single
// sync run and are discarded after mapping.
type ContentItem struct {
	Link    string        `json:"link"`
	Slug    string        `json:"slug"`
	Title   RenderedField `json:"title"`
	Excerpt RenderedField `json:"excerpt"`
	Meta    *MetaBlock    `json:"metadata"`
}

// MetaBlock is the authoritative per-item SEO head snapshot attached to a
// content item. Robots and Schema are kept raw because the content system
// emits them in several shapes (string, array, object).
type MetaBlock struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Canonical     string          `json:"canonical"`
	Robots        json.RawMessage `json:"robots"`
	OGTitle       string          `json:"og_title"`
	OGDescription string          `json:"og_description"`
	OGImage       string          `json:"og_image"`
	Schema        json.RawMessage `json:"schema"`
}

// RenderedField is a free-text field that the content system serves either as
// a plain string or wrapped in a {"rendered": "..."} envelope.
type RenderedField struct {
	Rendered string `json:"rendered"`
}

// UnmarshalJSON accepts both the plain string and the envelope form.
func (f *RenderedField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.Rendered = ""
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &f.Rendered)
	}

	var envelope struct {
		Rendered string `json:"rendered"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	f.Rendered = envelope.Rendered
	return nil
}

// MarshalJSON writes the envelope form used by the content system.
func (f RenderedField) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Rendered string `json:"rendered"`
	}{Rendered: f.Rendered})
}

// String returns the rendered text.
func (f RenderedField) String() string {
	return f.Rendered
}
