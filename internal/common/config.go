package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Content     ContentConfig `toml:"content"`
	Catalog     CatalogConfig `toml:"catalog"`
	Storage     StorageConfig `toml:"storage"`
	Sync        SyncConfig    `toml:"sync"`
	Logging     LoggingConfig `toml:"logging"`
}

// ContentConfig describes the content-authoring system endpoints.
type ContentConfig struct {
	Origin         string        `toml:"origin" validate:"required,url"` // Base origin, e.g. https://example.com
	Username       string        `toml:"username"`                       // Optional basic-auth username
	Password       string        `toml:"password"`                       // Optional basic-auth password
	Categories     []string      `toml:"categories" validate:"min=1"`    // Content categories to sync
	PerPage        int           `toml:"per_page" validate:"min=1,max=100"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	RateLimit      int           `toml:"rate_limit"` // Requests per second per client
}

// CatalogConfig describes the commerce catalog listing.
type CatalogConfig struct {
	Enabled bool `toml:"enabled"` // Disable to sync content metadata without catalog enrichment
	PerPage int  `toml:"per_page" validate:"min=1,max=100"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

// SyncConfig tunes the reconciliation pipeline.
type SyncConfig struct {
	ChunkSize        int          `toml:"chunk_size" validate:"min=1,max=100"` // Store query chunk size
	DescriptionLimit int          `toml:"description_limit" validate:"min=60"` // Max description length before truncation
	Schedule         string       `toml:"schedule"`                            // Optional cron schedule for daemon mode
	Weights          ScoreWeights `toml:"weights"`
}

// ScoreWeights are the completeness-score weights used when two candidate
// records target the same path. Tuning values, not a contract.
type ScoreWeights struct {
	Title         int `toml:"title"`
	Description   int `toml:"description"`
	OGTitle       int `toml:"og_title"`
	OGDescription int `toml:"og_description"`
	OGImage       int `toml:"og_image"`
	Canonical     int `toml:"canonical"`
	Robots        int `toml:"robots"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Content: ContentConfig{
			Categories:     []string{"page", "post", "product"},
			PerPage:        100,
			RequestTimeout: 30 * time.Second,
			RateLimit:      10,
		},
		Catalog: CatalogConfig{
			Enabled: true,
			PerPage: 100,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Sync: SyncConfig{
			ChunkSize:        100,
			DescriptionLimit: 300,
			Weights: ScoreWeights{
				Title:         5,
				Description:   5,
				OGTitle:       2,
				OGDescription: 2,
				OGImage:       1,
				Canonical:     1,
				Robots:        1,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SEOSYNC_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Content system configuration
	if origin := os.Getenv("SEOSYNC_CONTENT_ORIGIN"); origin != "" {
		config.Content.Origin = origin
	}
	if username := os.Getenv("SEOSYNC_CONTENT_USERNAME"); username != "" {
		config.Content.Username = username
	}
	if password := os.Getenv("SEOSYNC_CONTENT_PASSWORD"); password != "" {
		config.Content.Password = password
	}
	if categories := os.Getenv("SEOSYNC_CONTENT_CATEGORIES"); categories != "" {
		parsed := []string{}
		for _, c := range strings.Split(categories, ",") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		if len(parsed) > 0 {
			config.Content.Categories = parsed
		}
	}
	if perPage := os.Getenv("SEOSYNC_CONTENT_PER_PAGE"); perPage != "" {
		if pp, err := strconv.Atoi(perPage); err == nil {
			config.Content.PerPage = pp
		}
	}
	if timeout := os.Getenv("SEOSYNC_CONTENT_REQUEST_TIMEOUT"); timeout != "" {
		if t, err := time.ParseDuration(timeout); err == nil {
			config.Content.RequestTimeout = t
		}
	}

	// Catalog configuration
	if enabled := os.Getenv("SEOSYNC_CATALOG_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Catalog.Enabled = e
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("SEOSYNC_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Sync configuration
	if chunkSize := os.Getenv("SEOSYNC_SYNC_CHUNK_SIZE"); chunkSize != "" {
		if cs, err := strconv.Atoi(chunkSize); err == nil {
			config.Sync.ChunkSize = cs
		}
	}
	if schedule := os.Getenv("SEOSYNC_SYNC_SCHEDULE"); schedule != "" {
		config.Sync.Schedule = schedule
	}

	// Logging configuration
	if level := os.Getenv("SEOSYNC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SEOSYNC_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// Validate checks the configuration against struct-level constraints and the
// optional cron schedule.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Sync.Schedule != "" {
		if err := ValidateSyncSchedule(c.Sync.Schedule); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSyncSchedule validates a cron schedule expression and ensures a
// minimum 5-minute interval between runs.
func ValidateSyncSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	parts := strings.Fields(schedule)
	if len(parts) < 5 {
		return fmt.Errorf("invalid cron format: expected 5 fields")
	}

	minuteField := parts[0]
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}
	if strings.HasPrefix(minuteField, "*/") {
		interval, err := strconv.Atoi(strings.TrimPrefix(minuteField, "*/"))
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
