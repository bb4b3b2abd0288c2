package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, []string{"page", "post", "product"}, config.Content.Categories)
	assert.Equal(t, 100, config.Content.PerPage)
	assert.True(t, config.Catalog.Enabled)
	assert.Equal(t, 100, config.Sync.ChunkSize)
	assert.Equal(t, 300, config.Sync.DescriptionLimit)
	assert.Equal(t, 5, config.Sync.Weights.Title)
	assert.Equal(t, 1, config.Sync.Weights.Robots)
}

func TestLoadFromFilesMergesInOrder(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	require.NoError(t, os.WriteFile(base, []byte(`
environment = "development"

[content]
origin = "https://example.com"
categories = ["page"]

[sync]
description_limit = 200
`), 0644))

	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(override, []byte(`
environment = "production"

[sync]
description_limit = 250
`), 0644))

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment, "later files win")
	assert.Equal(t, "https://example.com", config.Content.Origin, "earlier values survive when not overridden")
	assert.Equal(t, []string{"page"}, config.Content.Categories)
	assert.Equal(t, 250, config.Sync.DescriptionLimit)
	assert.Equal(t, 100, config.Content.PerPage, "defaults fill the gaps")
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SEOSYNC_CONTENT_ORIGIN", "https://env.example.com")
	t.Setenv("SEOSYNC_CONTENT_CATEGORIES", "page, post")
	t.Setenv("SEOSYNC_CATALOG_ENABLED", "false")
	t.Setenv("SEOSYNC_LOG_LEVEL", "debug")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", config.Content.Origin)
	assert.Equal(t, []string{"page", "post"}, config.Content.Categories)
	assert.False(t, config.Catalog.Enabled)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestValidateRequiresOrigin(t *testing.T) {
	config := NewDefaultConfig()
	assert.Error(t, config.Validate(), "an origin is mandatory")

	config.Content.Origin = "https://example.com"
	assert.NoError(t, config.Validate())

	config.Content.Origin = "not-a-url"
	assert.Error(t, config.Validate())
}

func TestValidateSyncSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"every 15 minutes", "*/15 * * * *", false},
		{"hourly", "0 * * * *", false},
		{"daily at 2am", "0 2 * * *", false},
		{"every minute rejected", "* * * * *", true},
		{"two minutes rejected", "*/2 * * * *", true},
		{"five minutes allowed", "*/5 * * * *", false},
		{"garbage rejected", "not a cron", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSyncSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	config := &Config{Environment: "production"}
	assert.True(t, config.IsProduction())

	config.Environment = " PROD "
	assert.True(t, config.IsProduction())

	config.Environment = "development"
	assert.False(t, config.IsProduction())
}
