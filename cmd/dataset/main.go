// Package main provides the dataset preparation entry point.
// Joins posts with the stock index, scores them and writes one
// {SYMBOL}_avg_ratio.csv per symbol over its price history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"reddit-sentiment-lab/internal/config"
	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/ingestion"
	"reddit-sentiment-lab/internal/logger"
	"reddit-sentiment-lab/internal/observability"
	"reddit-sentiment-lab/internal/orchestrator"
	"reddit-sentiment-lab/internal/reporting"
	"reddit-sentiment-lab/internal/sentiment"
	chstore "reddit-sentiment-lab/internal/storage/clickhouse"
	"reddit-sentiment-lab/internal/storage/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	dataDir := flag.String("data-dir", cfg.Dataset.DataDir, "Directory holding post_data/ and price_data/")
	outputDir := flag.String("output-dir", cfg.Dataset.OutputDir, "Output directory for per-symbol tables")
	workers := flag.Int("workers", cfg.Dataset.Workers, "Scoring workers (0 = CPU count)")
	symbols := flag.String("symbols", strings.Join(cfg.Dataset.Symbols, ","), "Comma-separated symbols")
	reportPath := flag.String("report", "", "Write a markdown run summary to this path")
	metricsAddr := flag.String("metrics-addr", cfg.App.MetricsAddr, "Prometheus metrics HTTP address (empty = disabled)")
	flag.Parse()

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	window, err := cfg.Dataset.Window()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling dataset run...\n", sig)
		cancel()
	}()

	observability.Serve(ctx, *metricsAddr, log)

	pool, err := sentiment.NewPool(sentiment.PoolOptions{
		Workers:       *workers,
		Policy:        domain.PolicyComponents,
		ProgressEvery: 1000,
		Logger:        log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scorer error: %v\n", err)
		os.Exit(1)
	}

	dataset := ingestion.NewFileDataset(*dataDir)
	opts := orchestrator.Options{
		Posts:     dataset,
		Index:     dataset,
		Prices:    dataset,
		Scorer:    pool,
		Symbols:   splitSymbols(*symbols),
		Window:    window,
		OutputDir: *outputDir,
		Logger:    log,
	}

	if cfg.Storage.ClickHouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickHouseDSN, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ClickHouse error: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()

		opts.DailyStore = chstore.NewDailySummaryStore(conn)
		opts.RowStore = chstore.NewDatasetRowStore(conn)
	}

	orch, err := orchestrator.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Orchestrator error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Dataset Preparation ===")
	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Dataset error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Dataset completed:\n")
	fmt.Printf("  Symbols processed: %d\n", result.SymbolsProcessed)
	fmt.Printf("  Rows written: %d\n", result.RowsWritten)
	for _, path := range result.Artifacts {
		fmt.Printf("  Wrote: %s\n", path)
	}
	for _, sym := range result.Skipped {
		fmt.Printf("  Skipped: %s\n", sym)
	}

	if *reportPath != "" {
		md := reporting.RenderDatasetMarkdown(result.Report)
		if err := os.WriteFile(*reportPath, []byte(md), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  Report: %s\n", *reportPath)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "Errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}
