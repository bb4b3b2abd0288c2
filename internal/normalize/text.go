// Package normalize cleans free-text fields coming out of the content and
// catalog systems before they are written to metadata records.
package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultDescriptionLimit is the maximum description length before
// word-boundary truncation.
const DefaultDescriptionLimit = 300

// truncateBacktrackFloor is the earliest position a truncation cut is allowed
// to backtrack to when searching for a word boundary.
const truncateBacktrackFloor = 60

var (
	allTags    = regexp.MustCompile(`<[^>]+>`)
	whitespace = regexp.MustCompile(`[\s\x{00A0}]+`)
	hardEntity = strings.NewReplacer(
		"&amp;", "&",
		"&#038;", "&",
		"&#39;", "'",
		"&#039;", "'",
		"&#8216;", "‘",
		"&#8217;", "’",
		"&#8220;", "“",
		"&#8221;", "”",
		"&#8211;", "–",
		"&#8212;", "—",
		"&#8230;", "…",
		"&hellip;", "…",
		"&ndash;", "–",
		"&mdash;", "—",
		"&quot;", "\"",
		"&nbsp;", " ",
		"&lt;", "<",
		"&gt;", ">",
	)
)

// Sanitize strips HTML markup and decodes entities from a free-text field,
// collapsing whitespace and trimming the result. Returns "" when nothing
// readable survives.
func Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := raw
	if strings.ContainsAny(raw, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err == nil {
			text = doc.Text()
		} else {
			// Parser rejected the fragment; fall back to regex stripping and
			// the fixed entity set.
			text = allTags.ReplaceAllString(raw, " ")
			text = hardEntity.Replace(text)
		}
	}

	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Truncate cuts text to at most max characters at a word boundary, appending
// an ellipsis. The cut backtracks to the last space when one exists past
// position 60; the result is never longer than max+1 runes. Zero or negative
// max uses the default description limit.
func Truncate(text string, max int) string {
	if max <= 0 {
		max = DefaultDescriptionLimit
	}

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := runes[:max]
	if idx := lastSpace(cut); idx > truncateBacktrackFloor {
		cut = cut[:idx]
	}

	return strings.TrimRight(string(cut), " ") + "…"
}

// FirstNonEmpty returns the first candidate that is a non-empty string after
// trimming, or "" when none qualifies. This is the fallback-chain primitive
// used throughout row mapping.
func FirstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
