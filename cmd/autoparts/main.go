package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fernandoperilla54-svg/autoparts-database/internal/config"
	"github.com/fernandoperilla54-svg/autoparts-database/internal/etl"
	"github.com/fernandoperilla54-svg/autoparts-database/internal/logging"
	"github.com/fernandoperilla54-svg/autoparts-database/internal/source"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagSource    string
	flagFile      string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "autoparts",
	Short: "Single-shot ETL for automotive parts inventory",
	Long: `Extracts automotive parts inventory records from a source, normalizes
and enriches them, upserts them into the products and inventory tables,
and finishes with a low-stock report.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagSource, "source", "", `record source: "fixture" or "file" (overrides SOURCE_TYPE)`)
	rootCmd.Flags().StringVar(&flagFile, "file", "", "CSV file path for the file source (overrides SOURCE_FILE)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "minimum log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.Flags().StringVar(&flagLogFormat, "log-format", "", "log format: text or json (overrides LOG_FORMAT)")
}

func run(cmd *cobra.Command, _ []string) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	// Flags take precedence over env configuration.
	if flagSource != "" {
		cfg.Source.Type = flagSource
	}
	if flagFile != "" {
		cfg.Source.Path = flagFile
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	logger := logging.WithRun(uuid.New().String())
	logger.Info("configuration loaded",
		"source", cfg.Source.Type,
		"db_max_conns", cfg.Database.MaxConns,
		"log_level", cfg.Logging.Level,
	)

	result := etl.NewPipeline(cfg, selectSource(cfg, logger), logger).Run(cmd.Context())
	if !result.OK {
		return errors.New("pipeline failed, see log for details")
	}
	return nil
}

// selectSource picks the record source from configuration, falling back to
// the fixture when a file source is requested but the file is unavailable.
func selectSource(cfg *config.Config, logger *slog.Logger) source.Source {
	if strings.ToLower(cfg.Source.Type) != "file" {
		return source.NewFixture()
	}
	if _, err := os.Stat(cfg.Source.Path); err != nil {
		logger.Warn("source file unavailable, falling back to sample data",
			"path", cfg.Source.Path, "error", err)
		return source.NewFixture()
	}
	return source.NewFile(cfg.Source.Path)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
