package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain text unchanged", "Reef tour", "Reef tour"},
		{"tags stripped", "<p>Reef <strong>tour</strong></p>", "Reef tour"},
		{"named entities decoded", "Snorkel &amp; dive", "Snorkel & dive"},
		{"numeric entities decoded", "Bob&#39;s boat", "Bob's boat"},
		{"smart quote entity", "The crew&#8217;s favourite", "The crew’s favourite"},
		{"non-breaking space collapsed", "day&nbsp;&nbsp;trip", "day trip"},
		{"whitespace collapsed", "  day \n\t trip  ", "day trip"},
		{"markup only becomes empty", "<div><br/></div>", ""},
		{"empty input", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.raw))
		})
	}
}

func TestTruncateWithinLimit(t *testing.T) {
	assert.Equal(t, "short text", Truncate("short text", 300))
}

func TestTruncateCutsAtWordBoundary(t *testing.T) {
	text := strings.Repeat("reef tour snorkel dive boat crew ", 20)
	out := Truncate(text, 300)

	assert.LessOrEqual(t, len([]rune(out)), 301)
	assert.True(t, strings.HasSuffix(out, "…"))

	// The cut must not land mid-word: the rune before the ellipsis ends a word
	// that also ends at that offset in the source.
	trimmed := strings.TrimSuffix(out, "…")
	assert.False(t, strings.HasSuffix(trimmed, " "))
	assert.True(t, strings.HasPrefix(text, trimmed+" "))
}

func TestTruncateNoSpaceBeforeFloor(t *testing.T) {
	// A single unbroken word cannot backtrack; the cut lands at max.
	text := strings.Repeat("a", 400)
	out := Truncate(text, 300)
	assert.Equal(t, 301, len([]rune(out)))
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestTruncateInvariantHolds(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 100),
		strings.Repeat("x", 350),
		"short",
		strings.Repeat("ab cd ", 70),
	}
	for _, input := range inputs {
		out := Truncate(input, 300)
		assert.LessOrEqual(t, len([]rune(out)), 301, "input length %d", len(input))
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "a", FirstNonEmpty("a"))
	assert.Equal(t, "", FirstNonEmpty("", "   "))
}
