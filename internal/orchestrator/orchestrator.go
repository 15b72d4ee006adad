// Package orchestrator runs dataset preparation end to end.
// It coordinates: load posts → join stock index → per symbol score → aggregate → write → persist
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"reddit-sentiment-lab/internal/aggregation"
	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/ingestion"
	"reddit-sentiment-lab/internal/logger"
	"reddit-sentiment-lab/internal/lookup"
	"reddit-sentiment-lab/internal/observability"
	"reddit-sentiment-lab/internal/reporting"
	"reddit-sentiment-lab/internal/sentiment"
	"reddit-sentiment-lab/internal/storage"
	"reddit-sentiment-lab/internal/storage/memory"
)

// ErrWrongPolicy is returned when the scorer does not produce component triplets.
var ErrWrongPolicy = errors.New("dataset scoring requires the components policy")

// Scorer scores texts in bulk, aligned with input order. *sentiment.Pool implements it.
type Scorer interface {
	Policy() domain.Policy
	Workers() int
	ScoreAll(ctx context.Context, texts []string) ([]domain.Sentiment, error)
}

var _ Scorer = (*sentiment.Pool)(nil)

// Orchestrator coordinates dataset preparation for a list of symbols.
type Orchestrator struct {
	posts  ingestion.PostSource
	index  ingestion.StockIndexSource
	prices ingestion.PriceSource
	scorer Scorer

	symbols   []string
	window    domain.DateWindow
	outputDir string

	dailyStore storage.DailySummaryStore
	rowStore   storage.DatasetRowStore
	reports    *reporting.Generator

	log *logger.Logger
}

// Options for creating Orchestrator.
type Options struct {
	// Required inputs
	Posts  ingestion.PostSource
	Index  ingestion.StockIndexSource
	Prices ingestion.PriceSource
	Scorer Scorer

	Symbols []string
	Window  domain.DateWindow

	// OutputDir receives {SYMBOL}_avg_ratio.csv files. Empty disables file output.
	OutputDir string

	// Optional stores. RowStore defaults to an in-memory store; the run report
	// is read back from it.
	DailyStore storage.DailySummaryStore
	RowStore   storage.DatasetRowStore

	Reports *reporting.Generator // nil = generator over RowStore
	Logger  *logger.Logger
}

// New creates a new Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Scorer == nil || opts.Scorer.Policy() != domain.PolicyComponents {
		return nil, ErrWrongPolicy
	}
	if !opts.Window.Valid() {
		return nil, aggregation.ErrInvalidWindow
	}

	rowStore := opts.RowStore
	if rowStore == nil {
		rowStore = memory.NewDatasetRowStore()
	}
	reports := opts.Reports
	if reports == nil {
		reports = reporting.NewGenerator(rowStore)
	}

	return &Orchestrator{
		posts:      opts.Posts,
		index:      opts.Index,
		prices:     opts.Prices,
		scorer:     opts.Scorer,
		symbols:    opts.Symbols,
		window:     opts.Window,
		outputDir:  opts.OutputDir,
		dailyStore: opts.DailyStore,
		rowStore:   rowStore,
		reports:    reports,
		log:        logger.OrDefault(opts.Logger),
	}, nil
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	SymbolsProcessed int
	RowsWritten      int
	Artifacts        []string
	Skipped          []string
	Errors           []string
	Report           *reporting.DatasetReport
}

// Run executes dataset preparation.
// Phases:
//  1. Load posts and stock index, inner join on id
//  2. Per symbol: load prices, score posts, aggregate, write, persist
//
// A symbol without price data is skipped; a failure inside one symbol is
// recorded and the run continues. Only loading failures and cancellation
// abort the run.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		Report: o.reports.NewDatasetReport(o.window, o.scorer.Policy(), o.scorer.Workers()),
	}

	o.log.Infow("phase 1: loading posts")
	joined, loaded, err := o.loadPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (load posts) failed: %w", err)
	}
	result.Report.PostsLoaded = loaded
	result.Report.PostsJoined = len(joined.Posts)
	result.Report.Unindexed = joined.Unindexed
	o.log.Infow("posts joined", "loaded", loaded, "joined", len(joined.Posts), "unindexed", joined.Unindexed)

	o.log.Infow("phase 2: processing symbols", "symbols", len(o.symbols))
	for _, symbol := range o.symbols {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		summary, err := o.processSymbol(ctx, symbol, joined.Posts)
		switch {
		case errors.Is(err, ingestion.ErrPriceDataMissing):
			msg := fmt.Sprintf("%s: %v", summary.Symbol, err)
			result.Skipped = append(result.Skipped, msg)
			summary.Status = reporting.StatusSkipped
			observability.RecordLookupMiss("price")
			observability.RecordSymbol(reporting.StatusSkipped, 0, 0)
			o.log.Warnw("symbol skipped", "symbol", summary.Symbol, "error", err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return result, err
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", summary.Symbol, err))
			if summary.Artifact != "" {
				result.Artifacts = append(result.Artifacts, summary.Artifact)
			}
			summary.Status = reporting.StatusFailed
			observability.RecordSymbol(reporting.StatusFailed, 0, 0)
			o.log.Errorw("symbol failed", "symbol", summary.Symbol, "error", err)
		default:
			result.SymbolsProcessed++
			result.RowsWritten += summary.TradingDays
			if summary.Artifact != "" {
				result.Artifacts = append(result.Artifacts, summary.Artifact)
			}
			observability.RecordSymbol(reporting.StatusWritten, summary.TradingDays, summary.DaysWithPosts)
			o.log.Infow("symbol written", "symbol", summary.Symbol,
				"rows", summary.TradingDays, "days_with_posts", summary.DaysWithPosts, "artifact", summary.Artifact)
		}
		result.Report.Symbols = append(result.Report.Symbols, summary)
	}

	sort.Strings(result.Errors)
	result.Report.Skipped = result.Skipped
	result.Report.Errors = result.Errors
	return result, nil
}

// loadPosts reads both tables and joins them. Returns the join and the number of post rows.
func (o *Orchestrator) loadPosts(ctx context.Context) (aggregation.JoinResult, int, error) {
	posts, err := o.posts.Posts(ctx)
	if err != nil {
		return aggregation.JoinResult{}, 0, err
	}
	entries, err := o.index.StockIndex(ctx)
	if err != nil {
		return aggregation.JoinResult{}, 0, err
	}
	return aggregation.JoinPosts(posts, lookup.NewSymbolIndex(entries)), len(posts), nil
}

// processSymbol runs one symbol through score → aggregate → write → persist.
// The returned summary always carries the normalised symbol.
func (o *Orchestrator) processSymbol(ctx context.Context, symbol string, joined []domain.IndexedPost) (reporting.SymbolSummary, error) {
	symbol = lookup.NormalizeSymbol(symbol)
	summary := reporting.SymbolSummary{Symbol: symbol}

	prices, err := o.prices.Prices(ctx, symbol)
	if err != nil {
		return summary, err
	}

	posts := aggregation.ForSymbol(joined, symbol)
	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = sentiment.ComposeText(p.Title, p.Selftext)
	}

	o.log.Infow("scoring posts", "symbol", symbol, "posts", len(posts), "workers", o.scorer.Workers())
	scores, err := o.scorer.ScoreAll(ctx, texts)
	if err != nil {
		return summary, fmt.Errorf("score: %w", err)
	}
	summary.PostsScored = len(posts)

	scored := make([]domain.ScoredIndexedPost, len(posts))
	for i, p := range posts {
		scored[i] = domain.ScoredIndexedPost{IndexedPost: p, Components: scores[i].Components}
	}

	table, err := aggregation.Aggregate(symbol, scored, prices, o.window)
	if err != nil {
		return summary, fmt.Errorf("aggregate: %w", err)
	}

	if o.outputDir != "" {
		path, err := reporting.WriteOutputFile(o.outputDir, symbol, table.Rows)
		if err != nil {
			return summary, err
		}
		summary.Artifact = path
	}

	if err := o.persist(ctx, table); err != nil {
		return summary, fmt.Errorf("persist: %w", err)
	}

	stored, err := o.reports.SummarizeSymbol(ctx, symbol)
	if err != nil {
		return summary, err
	}
	stored.PostsScored = summary.PostsScored
	stored.DroppedDays = table.DroppedDays
	stored.Artifact = summary.Artifact
	return stored, nil
}

func (o *Orchestrator) persist(ctx context.Context, table *aggregation.Table) error {
	if o.dailyStore != nil {
		if err := o.dailyStore.InsertBulk(ctx, table.Summaries); err != nil {
			return fmt.Errorf("daily summaries: %w", err)
		}
		observability.RecordStored("daily_sentiment", len(table.Summaries))
	}

	rows := make([]*domain.OutputRow, len(table.Rows))
	for i := range table.Rows {
		rows[i] = &table.Rows[i]
	}
	if err := o.rowStore.InsertBulk(ctx, rows); err != nil {
		return fmt.Errorf("dataset rows: %w", err)
	}
	observability.RecordStored("dataset_rows", len(rows))
	return nil
}
