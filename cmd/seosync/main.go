package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/seosync/internal/catalogapi"
	"github.com/ternarybob/seosync/internal/common"
	"github.com/ternarybob/seosync/internal/contentapi"
	"github.com/ternarybob/seosync/internal/interfaces"
	syncservice "github.com/ternarybob/seosync/internal/services/sync"
	"github.com/ternarybob/seosync/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	dryRun       = flag.Bool("dry-run", false, "Report would-be writes without touching the store")
	schedule     = flag.String("schedule", "", "Cron schedule for daemon mode (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Seosync version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> files -> env)
	// 2. Apply CLI overrides
	// 3. Initialize logger
	// 4. Print banner

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("seosync.toml"); err == nil {
			configFiles = append(configFiles, "seosync.toml")
		} else if _, err := os.Stat("deployments/local/seosync.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/seosync.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	if *schedule != "" {
		config.Sync.Schedule = *schedule
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	if err := config.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Configuration validation failed")
		os.Exit(1)
	}

	logger.Info().
		Strs("config_files", configFiles).
		Str("origin", config.Content.Origin).
		Strs("categories", config.Content.Categories).
		Msg("Application configuration loaded")

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger, config.Sync.ChunkSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
		os.Exit(1)
	}
	defer storageManager.Close()

	contentClient := contentapi.NewClient(&config.Content, contentapi.WithLogger(logger))
	catalogClient := catalogapi.NewClient(&config.Content, &config.Catalog, catalogapi.WithLogger(logger))

	service := syncservice.NewService(
		config,
		contentClient,
		catalogClient,
		storageManager.SeoStorage(),
		logger,
		syncservice.WithDryRun(*dryRun),
	)

	if config.Sync.Schedule != "" {
		runScheduled(config.Sync.Schedule, service, storageManager, logger)
		return
	}

	if err := runOnce(context.Background(), service, storageManager, logger); err != nil {
		os.Exit(1)
	}
}

// runOnce executes a single sync run and logs the store total afterwards.
// Successful rows are durably written even when the run fails.
func runOnce(ctx context.Context, service *syncservice.Service, storage interfaces.StorageManager, logger arbor.ILogger) error {
	result, err := service.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Sync run failed")
		return err
	}

	if count, countErr := storage.SeoStorage().CountRecords(ctx); countErr == nil {
		logger.Info().
			Str("run_id", result.RunID).
			Int("store_total", count).
			Msg("Metadata store updated")
	}

	return nil
}

// runScheduled re-runs the sync on a cron schedule until the process is
// interrupted. A failed scheduled run is logged and the schedule continues;
// upserts are idempotent, so the next run repairs any partial batch.
func runScheduled(schedule string, service *syncservice.Service, storage interfaces.StorageManager, logger arbor.ILogger) {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(schedule, func() {
		if err := runOnce(context.Background(), service, storage, logger); err != nil {
			logger.Error().Str("schedule", schedule).Err(err).Msg("Scheduled sync run failed")
		}
	})
	if err != nil {
		logger.Fatal().Str("schedule", schedule).Err(err).Msg("Failed to register sync schedule")
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info().Str("schedule", schedule).Msg("Scheduler started - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Interrupt signal received, stopping scheduler")
	<-scheduler.Stop().Done()
}
