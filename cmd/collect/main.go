// Package main provides the Reddit collection entry point.
// Crawls subreddits for tracked company names, scores post titles and
// optionally persists the scored posts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"reddit-sentiment-lab/internal/collection"
	"reddit-sentiment-lab/internal/config"
	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/logger"
	"reddit-sentiment-lab/internal/observability"
	"reddit-sentiment-lab/internal/reddit"
	"reddit-sentiment-lab/internal/reporting"
	"reddit-sentiment-lab/internal/sentiment"
	"reddit-sentiment-lab/internal/storage/migrations"
	"reddit-sentiment-lab/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	mode := flag.String("mode", cfg.Collection.Mode, "Crawl mode: listing or search")
	policy := flag.String("policy", cfg.Collection.Policy, "Sentiment policy: label, compound or components")
	quota := flag.Int("quota", cfg.Collection.Quota, "Posts per tracked name in listing mode (0 = unlimited)")
	outPath := flag.String("out", "", "Write scored posts as CSV to this path")
	reportPath := flag.String("report", "", "Write a markdown run summary to this path")
	seed := flag.Bool("seed-stocks", false, "Insert tracked names into the stocks table before the run")
	metricsAddr := flag.String("metrics-addr", cfg.App.MetricsAddr, "Prometheus metrics HTTP address (empty = disabled)")
	flag.Parse()

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling collection...\n", sig)
		cancel()
	}()

	observability.Serve(ctx, *metricsAddr, log)

	client := reddit.NewClient(cfg.Reddit.BaseURL,
		reddit.WithUserAgent(cfg.Reddit.UserAgent),
		reddit.WithPageLimit(cfg.Reddit.PageLimit),
		reddit.WithTimeout(cfg.Reddit.Timeout),
		reddit.WithRateLimit(cfg.Reddit.RPS, cfg.Reddit.Burst),
	)
	crawler := reddit.NewCollector(reddit.CollectorOptions{Fetcher: client, Logger: log})

	pool, err := sentiment.NewPool(sentiment.PoolOptions{
		Policy: domain.Policy(*policy),
		Logger: log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scorer error: %v\n", err)
		os.Exit(1)
	}

	opts := collection.RunnerOptions{
		Crawler: crawler,
		Scorer:  pool,
		Mode:    *mode,
		Quota:   *quota,
		Logger:  log,
	}

	if cfg.Storage.PostgresDSN != "" {
		pg, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN,
			postgres.WithMaxConns(cfg.Storage.PostgresMaxConns),
			postgres.WithApplicationName(cfg.App.Name),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Postgres error: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()

		if err := migrations.RunPostgresMigrations(ctx, pg, log); err != nil {
			fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
			os.Exit(1)
		}

		stocks := postgres.NewStockStore(pg)
		if *seed {
			n, err := collection.SeedStocks(ctx, stocks, cfg.Collection.Stocks)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Seeded %d stocks\n", n)
		}

		opts.Stocks = stocks
		opts.Records = postgres.NewSentimentRecordStore(pg)
	}

	runner, err := collection.NewRunner(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Runner error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Reddit Collection ===")
	result, err := runner.Run(ctx, cfg.Collection.Subreddits, cfg.Collection.Stocks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Collection error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Collection completed:\n")
	fmt.Printf("  Run ID: %s\n", result.RunID)
	fmt.Printf("  Posts scored: %d\n", len(result.Posts))
	fmt.Printf("  Records stored: %d\n", result.Stored)
	if len(result.Skipped) > 0 {
		fmt.Printf("  Stocks not in table: %s\n", strings.Join(result.Skipped, ", "))
	}

	if *outPath != "" {
		if err := writeScoredPosts(*outPath, result.Posts); err != nil {
			fmt.Fprintf(os.Stderr, "Export error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  Exported: %s\n", *outPath)
	}

	if *reportPath != "" {
		gen := reporting.NewGenerator(nil)
		report := gen.NewCollectionReport(result.RunID, runner.Mode(), pool.Policy(),
			cfg.Collection.Subreddits, result.Names, result.Posts)
		report.Stored = result.Stored
		report.Skipped = result.Skipped
		if err := os.WriteFile(*reportPath, []byte(reporting.RenderCollectionMarkdown(report)), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  Report: %s\n", *reportPath)
	}
}

func writeScoredPosts(path string, posts []domain.ScoredPost) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := reporting.WriteScoredPosts(f, posts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
