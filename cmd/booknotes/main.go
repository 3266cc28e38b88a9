package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-book-notes/config"
	"github.com/aluiziolira/go-book-notes/models"
	"github.com/aluiziolira/go-book-notes/note"
	"github.com/aluiziolira/go-book-notes/pipeline"
	"github.com/aluiziolira/go-book-notes/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", os.Getenv("BOOKNOTES_CONFIG"), "Optional YAML config file")
	baseURL := flag.String("base-url", "", "Bookstore base URL")
	inputDir := flag.String("input", "", "Directory holding 1.txt..N.txt batch files")
	outputDir := flag.String("output", "", "Directory for generated notes")
	reportDir := flag.String("reports", "", "Directory for the Not Found / Not Matchs / Titles reports")
	maxBatches := flag.Int("batches", 0, "Highest batch index to read")
	timeout := flag.Duration("timeout", 0, "Per-request timeout")
	offset := flag.Duration("offset", -1, "Offset added to timestamps written into notes")
	catalogFile := flag.String("catalog", "", "Optional catalog export file")
	catalogFormat := flag.String("format", "", "Catalog format: csv, json, or dual")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	applyFlags(cfg, *baseURL, *inputDir, *outputDir, *reportDir, *maxBatches, *timeout, *offset, *catalogFile, *catalogFormat, *verbose, *metricsAddr)
	if cfg.Verbose {
		level.Set(slog.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting run",
		slog.String("base_url", cfg.BaseURL),
		slog.String("input", cfg.InputDir),
		slog.String("output", cfg.OutputDir),
		slog.Int("batches", cfg.MaxBatches),
	)

	client, err := scraper.NewClient(cfg)
	if err != nil {
		slog.Error("initialising client", slog.Any("error", err))
		os.Exit(1)
	}

	writer, err := createWriter(cfg)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(client.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	renderer := note.NewRenderer(cfg.TimestampOffset)
	p := pipeline.NewPipeline(cfg, client, renderer, writer)

	result, err := p.Run(ctx)
	if err != nil {
		slog.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
	if result.Interrupted {
		slog.Info("shutdown signal received, writing reports for finished keywords")
	}

	if err := pipeline.WriteReports(cfg.ReportDir, result.Report); err != nil {
		slog.Error("writing reports failed", slog.Any("error", err))
		os.Exit(1)
	}

	if result.Report.Produced > 0 {
		if err := writer.Validate(); err != nil {
			slog.Error("output validation failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, client.Stats(), cfg)
}

// loadConfig layers defaults, the optional YAML file, and BOOKNOTES_* env.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if value, ok := config.EnvString("BOOKNOTES_BASE_URL"); ok {
		cfg.BaseURL = value
	}
	if value, ok := config.EnvString("BOOKNOTES_INPUT"); ok {
		cfg.InputDir = value
	}
	if value, ok := config.EnvString("BOOKNOTES_OUTPUT"); ok {
		cfg.OutputDir = value
	}
	if value, ok := config.EnvString("BOOKNOTES_METRICS_ADDR"); ok {
		cfg.MetricsAddr = value
	}
	if value, ok, err := config.EnvInt("BOOKNOTES_BATCHES"); err != nil {
		return nil, err
	} else if ok {
		cfg.MaxBatches = value
	}
	if value, ok, err := config.EnvDuration("BOOKNOTES_OFFSET"); err != nil {
		return nil, err
	} else if ok {
		cfg.TimestampOffset = value
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, baseURL, inputDir, outputDir, reportDir string, maxBatches int, timeout, offset time.Duration, catalogFile, catalogFormat string, verbose bool, metricsAddr string) {
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if inputDir != "" {
		cfg.InputDir = inputDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if reportDir != "" {
		cfg.ReportDir = reportDir
	}
	if maxBatches != 0 {
		cfg.MaxBatches = maxBatches
	}
	if timeout != 0 {
		cfg.Timeout = timeout
	}
	if offset >= 0 {
		cfg.TimestampOffset = offset
	}
	if catalogFile != "" {
		cfg.CatalogFile = catalogFile
	}
	if catalogFormat != "" {
		cfg.CatalogFormat = strings.ToLower(catalogFormat)
	}
	if verbose {
		cfg.Verbose = true
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
}

func createWriter(cfg *config.Config) (pipeline.OutputWriter, error) {
	notes, err := pipeline.NewMarkdownWriter(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	if cfg.CatalogFile == "" {
		return notes, nil
	}

	filename := cfg.CatalogFile
	switch cfg.CatalogFormat {
	case "json":
		catalog, err := pipeline.NewJSONWriter(filename)
		if err != nil {
			return nil, err
		}
		return pipeline.NewMultiWriter(notes, catalog), nil
	case "csv":
		catalog, err := pipeline.NewCSVWriter(filename)
		if err != nil {
			return nil, err
		}
		return pipeline.NewMultiWriter(notes, catalog), nil
	case "dual":
		csvWriter, err := pipeline.NewCSVWriter(filename)
		if err != nil {
			return nil, err
		}
		jsonFilename := strings.TrimSuffix(filename, ".csv") + ".json"
		jsonWriter, err := pipeline.NewJSONWriter(jsonFilename)
		if err != nil {
			csvWriter.Close()
			return nil, err
		}
		return pipeline.NewMultiWriter(notes, csvWriter, jsonWriter), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", cfg.CatalogFormat)
	}
}

func printSummary(result *models.RunResult, stats scraper.Stats, cfg *config.Config) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	if result.Interrupted {
		fmt.Println("Run interrupted")
	} else {
		fmt.Println("Run complete")
	}

	report := result.Report
	fmt.Printf("  Batches read:  %d\n", result.BatchesRead)
	fmt.Printf("  Keywords:      %d\n", result.KeywordCount)
	fmt.Printf("  Notes:         %d\n", report.Produced)
	fmt.Printf("  Not found:     %d\n", report.Missed)
	fmt.Printf("  Mismatched:    %d\n", report.Mismatched)
	fmt.Printf("  Failures:      %d\n", result.ErrorCount)
	fmt.Printf("  Requests:      %d\n", stats.RequestCount)
	if len(stats.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", stats.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Printf("  Notes dir:     %s\n", cfg.OutputDir)
	if cfg.CatalogFile != "" {
		fmt.Printf("  Catalog file:  %s\n", cfg.CatalogFile)
	}
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
