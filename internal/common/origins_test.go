package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOrigins(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		expected []string
	}{
		{
			name:     "derives cms alias",
			origin:   "https://example.com",
			expected: []string{"https://example.com", "https://cms.example.com"},
		},
		{
			name:     "configured origin always first",
			origin:   "https://tours.example.com",
			expected: []string{"https://tours.example.com", "https://cms.tours.example.com"},
		},
		{
			name:     "no duplicate when origin already aliased",
			origin:   "https://cms.example.com",
			expected: []string{"https://cms.example.com"},
		},
		{
			name:     "malformed origin passed through alone",
			origin:   "://not a url",
			expected: []string{"://not a url"},
		},
		{
			name:     "host with port",
			origin:   "http://localhost:8080",
			expected: []string{"http://localhost:8080", "http://cms.localhost:8080"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveOrigins(tt.origin))
		})
	}
}
