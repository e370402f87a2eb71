package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"breachstudy/internal/config"
	"breachstudy/internal/dataset"
	"breachstudy/internal/eventstudy"
	"breachstudy/internal/exporter"
	"breachstudy/internal/infrastructure"
)

func main() {
	flags := parseFlags()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	flags.apply(cfg)

	// Flags can inject values the file and environment never saw.
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := checkDataFiles(cfg); err != nil {
		slog.Error("Missing input files", "error", err,
			"hint", "name the input files as flags or in the config file")
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	// One trace ID for the whole run so every log line correlates.
	ctx := infrastructure.WithTraceID(context.Background(), infrastructure.NewTraceID())

	providers, err := infrastructure.InitializeTracing(ctx, cfg.Tracing, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	firms, err := dataset.LoadReturnSeries(ctx, cfg.Data.ReturnsFile, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load return series", "error", err)
		os.Exit(1)
	}

	events, err := dataset.LoadEvents(ctx, cfg.Data.EventsFile, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load events", "error", err)
		os.Exit(1)
	}

	benchmark, err := buildBenchmark(ctx, cfg, firms, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build benchmark", "error", err)
		os.Exit(1)
	}

	engine, err := eventstudy.NewEngine(cfg.EngineConfig(), firms, benchmark, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create engine", "error", err)
		os.Exit(1)
	}

	results, err := engine.Run(ctx, events)
	if err != nil {
		logger.ErrorContext(ctx, "Event study run failed", "error", err)
		os.Exit(1)
	}

	if err := writeResults(ctx, cfg.Output, results, logger); err != nil {
		logger.ErrorContext(ctx, "Failed to write results", "error", err)
		os.Exit(1)
	}

	summary := exporter.Summarize(results)
	logger.InfoContext(ctx, "event study complete",
		"events", summary.Events,
		"computed", summary.Computed,
		"coverage_pct", summary.CoveragePct,
		"volatility_computed", summary.VolatilityComputed,
		"output", cfg.Output.Path)

	printSummary(summary)
}

// cliFlags holds the command-line overrides. Empty strings leave the
// corresponding config values untouched; -trace can only enable tracing,
// never disable what the config file turned on.
type cliFlags struct {
	configPath  string
	returns     string
	market      string
	indexColumn string
	events      string
	industries  string
	benchmark   string
	out         string
	format      string
	trace       bool
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "path to YAML config file (defaults to breachstudy.yaml when present)")
	flag.StringVar(&f.returns, "returns", "", "CSV file with per-entity daily returns (entity_id,date,ret)")
	flag.StringVar(&f.market, "market", "", "CSV file with market index returns (date,vwretd,ewretd)")
	flag.StringVar(&f.indexColumn, "index-column", "", "market index column to use as the benchmark")
	flag.StringVar(&f.events, "events", "", "breach events file (.csv or .xlsx)")
	flag.StringVar(&f.industries, "industries", "", "CSV file with industry assignments (entity_id,date,siccd)")
	flag.StringVar(&f.benchmark, "benchmark", "", "benchmark type: market or industry")
	flag.StringVar(&f.out, "out", "", "output path for results")
	flag.StringVar(&f.format, "format", "", "output format: csv, xlsx, or both")
	flag.BoolVar(&f.trace, "trace", false, "export OpenTelemetry spans to stdout")
	flag.Parse()
	return f
}

func (f cliFlags) apply(cfg *config.Config) {
	if f.returns != "" {
		cfg.Data.ReturnsFile = f.returns
	}
	if f.market != "" {
		cfg.Data.MarketFile = f.market
	}
	if f.indexColumn != "" {
		cfg.Data.IndexColumn = f.indexColumn
	}
	if f.events != "" {
		cfg.Data.EventsFile = f.events
	}
	if f.industries != "" {
		cfg.Data.IndustriesFile = f.industries
	}
	if f.benchmark != "" {
		cfg.Data.Benchmark = f.benchmark
	}
	if f.out != "" {
		cfg.Output.Path = f.out
	}
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	if f.trace {
		cfg.Tracing.Enabled = true
	}
}

// checkDataFiles verifies that every input the selected benchmark needs was
// named somewhere, before any loading starts.
func checkDataFiles(cfg *config.Config) error {
	if cfg.Data.ReturnsFile == "" {
		return errors.New("no returns file: set -returns or data.returns_file")
	}
	if cfg.Data.EventsFile == "" {
		return errors.New("no events file: set -events or data.events_file")
	}
	if cfg.Data.Benchmark == "market" && cfg.Data.MarketFile == "" {
		return errors.New("market benchmark needs -market or data.market_file")
	}
	if cfg.Data.Benchmark == "industry" && cfg.Data.IndustriesFile == "" {
		return errors.New("industry benchmark needs -industries or data.industries_file")
	}
	return nil
}

func buildBenchmark(ctx context.Context, cfg *config.Config, firms map[string]*eventstudy.ReturnSeries, logger *slog.Logger) (eventstudy.BenchmarkProvider, error) {
	switch cfg.Data.Benchmark {
	case "industry":
		assignments, err := dataset.LoadIndustryAssignments(ctx, cfg.Data.IndustriesFile, logger)
		if err != nil {
			return nil, fmt.Errorf("load industry assignments: %w", err)
		}
		return eventstudy.NewIndustryBenchmark(firms, assignments), nil
	default:
		index, err := dataset.LoadMarketIndex(ctx, cfg.Data.MarketFile, cfg.Data.IndexColumn, logger)
		if err != nil {
			return nil, fmt.Errorf("load market index: %w", err)
		}
		return eventstudy.NewMarketBenchmark(cfg.Data.IndexColumn, index), nil
	}
}

// writeResults emits the configured output formats. For "both" the path's
// extension is replaced per format, so results/study.csv also produces
// results/study.xlsx.
func writeResults(ctx context.Context, out config.OutputConfig, results []eventstudy.EventResult, logger *slog.Logger) error {
	switch out.Format {
	case "csv":
		return exporter.WriteResultsCSV(ctx, out.Path, results, logger)
	case "xlsx":
		return exporter.WriteResultsWorkbook(ctx, out.Path, results, logger)
	case "both":
		base := strings.TrimSuffix(out.Path, filepath.Ext(out.Path))
		if err := exporter.WriteResultsCSV(ctx, base+".csv", results, logger); err != nil {
			return err
		}
		return exporter.WriteResultsWorkbook(ctx, base+".xlsx", results, logger)
	default:
		return fmt.Errorf("unsupported output format %q", out.Format)
	}
}

func printSummary(summary exporter.Summary) {
	fmt.Println("\n=== EVENT STUDY SUMMARY ===")
	fmt.Printf("Events processed:    %d\n", summary.Events)
	fmt.Printf("Metrics computed:    %d (%.1f%%)\n", summary.Computed, summary.CoveragePct)
	fmt.Printf("Volatility changes:  %d\n", summary.VolatilityComputed)

	printMetricStats("CAR 5d", summary.CAR5d)
	printMetricStats("CAR 30d", summary.CAR30d)
	printMetricStats("BHAR 5d", summary.BHAR5d)
	printMetricStats("BHAR 30d", summary.BHAR30d)
	printMetricStats("Volatility change", summary.VolatilityChange)

	if len(summary.Failures) == 0 {
		return
	}
	fmt.Println("\nEvents without metrics:")
	reasons := make([]string, 0, len(summary.Failures))
	for reason := range summary.Failures {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Printf("  %-26s %d\n", reason, summary.Failures[eventstudy.FailureReason(reason)])
	}
}

func printMetricStats(label string, stats exporter.MetricStats) {
	if stats.Count == 0 {
		return
	}
	fmt.Printf("\n%s (n=%d):\n", label, stats.Count)
	fmt.Printf("  Mean:   %.2f%%\n", stats.Mean)
	fmt.Printf("  Median: %.2f%%\n", stats.Median)
	fmt.Printf("  Min:    %.2f%%\n", stats.Min)
	fmt.Printf("  Max:    %.2f%%\n", stats.Max)
	fmt.Printf("  Negative: %.1f%%\n", stats.NegativeShare)
}
