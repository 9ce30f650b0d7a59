package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/municipales2026/importer/internal/config"
	"github.com/municipales2026/importer/internal/db"
	"github.com/municipales2026/importer/internal/logging"
	"github.com/municipales2026/importer/internal/metrics"
	"github.com/municipales2026/importer/internal/services"
	"github.com/municipales2026/importer/internal/store"
	"github.com/municipales2026/importer/pkg/importer"
	"github.com/spf13/cobra"
)

var importFlags struct {
	configFile     string
	dataDir        string
	pattern        string
	batchSize      int
	connectRetries int
	timeout        time.Duration
	metricsFile    string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Drop, recreate and reload the three tables from the source CSV",
	Long: `Locates the newest data/municipales-2026*.csv, detects its encoding, extracts
districts, lists and candidates, then replaces the database tables with them.

Settings are taken from flags, then municipales.yaml, then built-in defaults.
DATABASE_URL is read from the environment after loading .env.local and .env.`,
	Example: `  municipales-import import
  municipales-import import --data-dir ./exports --batch-size 5000
  municipales-import import --metrics-file /var/lib/node_exporter/municipales.prom`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	addImportFlags(importCmd)
	rootCmd.AddCommand(importCmd)
}

func addImportFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&importFlags.configFile, "config", config.ConfigFileName, "Path to the optional YAML configuration file")
	f.StringVar(&importFlags.dataDir, "data-dir", importer.DefaultDataDir, "Directory searched for the source file")
	f.StringVar(&importFlags.pattern, "pattern", importer.DefaultSourcePattern, "Glob selecting the source file")
	f.IntVar(&importFlags.batchSize, "batch-size", importer.DefaultCandidateBatchSize, "Candidate rows committed per transaction")
	f.IntVar(&importFlags.connectRetries, "connect-retries", 0, "Connection retries on transient failures")
	f.DurationVar(&importFlags.timeout, "timeout", 0, "Abort the run after this duration (0 = no timeout)")
	f.StringVar(&importFlags.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics here after a successful run")
}

// buildImportConfig merges defaults, municipales.yaml and the flags that were
// explicitly set, in that order. The returned string is the metrics file path.
func buildImportConfig(cmd *cobra.Command, connString string) (*importer.ImportConfig, string, error) {
	cfg := &importer.ImportConfig{
		ConnectionString:   connString,
		DataDir:            importer.DefaultDataDir,
		SourcePattern:      importer.DefaultSourcePattern,
		CandidateBatchSize: importer.DefaultCandidateBatchSize,
		RunID:              newRunID(),
		Verbose:            getVerboseFlag(cmd),
	}
	metricsFile := ""

	projectCfg, err := config.LoadFile(importFlags.configFile)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		if cmd.Flags().Changed("config") {
			return nil, "", fmt.Errorf("%w: %s does not exist", importer.ErrInvalidConfig, importFlags.configFile)
		}
	case err != nil:
		return nil, "", err
	default:
		if err := projectCfg.ApplyTo(cfg); err != nil {
			return nil, "", err
		}
		metricsFile = projectCfg.MetricsFile
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = importFlags.dataDir
	}
	if flags.Changed("pattern") {
		cfg.SourcePattern = importFlags.pattern
	}
	if flags.Changed("batch-size") {
		cfg.CandidateBatchSize = importFlags.batchSize
	}
	if flags.Changed("connect-retries") {
		cfg.ConnectRetries = importFlags.connectRetries
	}
	if flags.Changed("timeout") {
		cfg.Timeout = importFlags.timeout
	}
	if flags.Changed("metrics-file") {
		metricsFile = importFlags.metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, metricsFile, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	connString, err := resolveDatabaseURL()
	if err != nil {
		return err
	}

	cfg, metricsFile, err := buildImportConfig(cmd, connString)
	if err != nil {
		return err
	}
	logger.Verbose("Run %s: data dir %s, pattern %s, batch size %d", cfg.RunID, cfg.DataDir, cfg.SourcePattern, cfg.CandidateBatchSize)

	recorder := metrics.NewRecorder()
	svc := services.NewImportService(
		db.NewConnectorFactory(logger),
		store.NewSchemaManager(logger),
		store.NewBulkLoader(logger),
		store.NewRepairer(logger),
		store.NewIndexBuilder(logger),
		recorder,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := svc.Run(ctx, *cfg)
	if err != nil {
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
			logger.Warn("Interrupted; tables may be partially loaded, rerun the import")
		}
		return fmt.Errorf("import failed: %w", err)
	}

	services.WriteSummary(cmd.OutOrStdout(), summary)

	if metricsFile != "" {
		if err := recorder.WriteFile(metricsFile); err != nil {
			logger.Warn("Failed to write metrics to %s: %v", metricsFile, err)
		} else {
			logger.Verbose("Metrics written to %s", metricsFile)
		}
	}
	return nil
}
