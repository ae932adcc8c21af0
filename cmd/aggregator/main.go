// Command aggregator merges manually downloaded OPCOM price exports into
// unified CSV series.
//
// The pzu subcommand produces the hourly day-ahead series, the imbalance
// subcommand the quarter-hour balancing-market series. Both scan input
// directories recursively, tolerate arbitrary export formats, and write
// one canonical deduplicated output plus optional trailing-year slices.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"opcomcli/internal/config"
	"opcomcli/internal/dataprocessing"
	"opcomcli/internal/exporter"
	"opcomcli/internal/infrastructure"
	"opcomcli/pkg/contracts"
	"opcomcli/pkg/contracts/domain"
)

type runMode int

const (
	modePZU runMode = iota
	modeImbalance
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aggregator",
		Short:         "Aggregate OPCOM price exports into unified CSV series",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPZUCmd(), newImbalanceCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(contracts.GetFullVersionString())
		},
	}
}

func newPZUCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pzu",
		Short: "Aggregate day-ahead (PZU) hourly price exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, modePZU)
		},
	}
	bindFlags(cmd, "data/pzu_history.csv")
	return cmd
}

func newImbalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imbalance",
		Short: "Aggregate balancing-market quarter-hour price exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, modeImbalance)
		},
	}
	bindFlags(cmd, "data/imbalance_history.csv")
	return cmd
}

// bindFlags declares the shared configuration surface on a subcommand.
func bindFlags(cmd *cobra.Command, defaultOutput string) {
	flags := cmd.Flags()
	flags.String("config", "", "optional YAML config file")
	flags.StringSlice("inputs", nil, "directories containing CSV/XLSX exports (repeatable)")
	flags.Int("years", 0, "restrict to the last N years (1, 2 or 3)")
	flags.String("since", "", "restrict to dates >= YYYY-MM-DD")
	flags.String("output", defaultOutput, "output CSV path")
	flags.String("currency-in", "RON", "input currency code")
	flags.String("target-currency", "EUR", "output currency code")
	flags.Float64("fx-rate", 0, "RON per 1 EUR (required for RON->EUR conversion)")
	flags.Bool("split-years", false, "also write *_1y, *_2y, *_3y files")
	flags.Int("workers", 4, "concurrent file parsers")
	flags.Duration("file-timeout", 30*time.Second, "per-file parse timeout")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig resolves the effective configuration: flag > env > file >
// default.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	configFile, _ := flags.GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if flags.Changed("inputs") {
		cfg.Inputs.Dirs, _ = flags.GetStringSlice("inputs")
	}
	if flags.Changed("years") {
		cfg.Inputs.Years, _ = flags.GetInt("years")
	}
	if flags.Changed("since") {
		cfg.Inputs.Since, _ = flags.GetString("since")
	}
	if flags.Changed("output") || cfg.Output.Path == "" {
		cfg.Output.Path, _ = flags.GetString("output")
	}
	if flags.Changed("currency-in") {
		cfg.Currency.Source, _ = flags.GetString("currency-in")
	}
	if flags.Changed("target-currency") {
		cfg.Currency.Target, _ = flags.GetString("target-currency")
	}
	if flags.Changed("fx-rate") {
		cfg.Currency.FxRate, _ = flags.GetFloat64("fx-rate")
	}
	if flags.Changed("split-years") {
		cfg.Output.SplitYears, _ = flags.GetBool("split-years")
	}
	if flags.Changed("workers") {
		cfg.Pipeline.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("file-timeout") {
		cfg.Pipeline.FileTimeout, _ = flags.GetDuration("file-timeout")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run executes one aggregation end to end. Configuration errors abort
// before any file is read; per-file failures never abort the run.
func run(cmd *cobra.Command, mode runMode) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize logger: %v\n", err)
		return err
	}
	defer infrastructure.CloseLogFile()

	runID := infrastructure.GenerateRunID()
	logger = logger.With(slog.String("run_id", runID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = infrastructure.WithRunID(ctx, runID)

	processor := dataprocessing.NewProcessor(cfg, logger)
	now := time.Now()

	var summary *domain.RunSummary
	switch mode {
	case modePZU:
		series, s, err := processor.RunHourly(ctx)
		if err != nil {
			logger.Error("aggregation failed", slog.String("error", err.Error()))
			return err
		}
		summary = s
		if err := exporter.WriteHourlySeries(cfg.Output.Path, series); err != nil {
			logger.Error("failed to write output", slog.String("error", err.Error()))
			return err
		}
		if cfg.Output.SplitYears {
			if err := exporter.WriteHourlyWindows(cfg.Output.Path, series, now); err != nil {
				logger.Error("failed to write rolling windows", slog.String("error", err.Error()))
				return err
			}
		}
		logStatistics(logger, domain.PriceStatistics(series))
	case modeImbalance:
		series, s, err := processor.RunQuarterHourly(ctx)
		if err != nil {
			logger.Error("aggregation failed", slog.String("error", err.Error()))
			return err
		}
		summary = s
		if err := exporter.WriteSlotSeries(cfg.Output.Path, series); err != nil {
			logger.Error("failed to write output", slog.String("error", err.Error()))
			return err
		}
		if cfg.Output.SplitYears {
			if err := exporter.WriteSlotWindows(cfg.Output.Path, series, now); err != nil {
				logger.Error("failed to write rolling windows", slog.String("error", err.Error()))
				return err
			}
		}
	}

	logger.Info("aggregation complete",
		slog.String("output", cfg.Output.Path),
		slog.Int("files_discovered", summary.FilesDiscovered),
		slog.Int("files_parsed", summary.FilesParsed),
		slog.Int("files_skipped", summary.FilesSkipped),
		slog.Int("rows_kept", summary.RowsKept),
		slog.Int("rows_dropped", summary.RowsDropped),
		slog.Int("collisions", summary.Collisions))
	return nil
}

// logStatistics surfaces the basic series metrics report generators
// consume.
func logStatistics(logger *slog.Logger, metrics domain.MetricsReport) {
	attrs := make([]any, 0, len(metrics)*2)
	for k, v := range metrics {
		attrs = append(attrs, slog.Float64(k, v))
	}
	logger.Info("series statistics", attrs...)
}
