package collection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/idhash"
	"reddit-sentiment-lab/internal/logger"
	"reddit-sentiment-lab/internal/observability"
	"reddit-sentiment-lab/internal/reddit"
	"reddit-sentiment-lab/internal/storage"
)

// Crawl modes.
const (
	ModeListing = "listing" // quota-bounded scan of the subreddit listing
	ModeSearch  = "search"  // per-name search crawl without quota
)

// ErrUnknownMode is returned for a crawl mode other than listing or search.
var ErrUnknownMode = errors.New("unknown crawl mode")

// Crawler produces per-name buckets for one subreddit. *reddit.Collector implements it.
type Crawler interface {
	Collect(ctx context.Context, subreddit string, names []string, quota int) *reddit.Buckets
	Search(ctx context.Context, subreddit string, names []string) *reddit.Buckets
}

var _ Crawler = (*reddit.Collector)(nil)

// Scorer scores texts in bulk, aligned with input order. *sentiment.Pool implements it.
type Scorer interface {
	Policy() domain.Policy
	ScoreAll(ctx context.Context, texts []string) ([]domain.Sentiment, error)
}

// Runner crawls subreddits for tracked names, scores post titles and
// optionally persists the scored posts.
type Runner struct {
	crawler Crawler
	scorer  Scorer
	mode    string
	quota   int
	stocks  storage.StockStore
	records storage.SentimentRecordStore
	now     func() time.Time
	log     *logger.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Crawler Crawler
	Scorer  Scorer
	Mode    string // default ModeListing
	Quota   int    // per-name cap in listing mode, 0 = unlimited

	// Persistence is enabled when both stores are set.
	Stocks  storage.StockStore
	Records storage.SentimentRecordStore

	Now    func() time.Time
	Logger *logger.Logger
}

// NewRunner creates a new collection runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeListing
	}
	if mode != ModeListing && mode != ModeSearch {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Runner{
		crawler: opts.Crawler,
		scorer:  opts.Scorer,
		mode:    mode,
		quota:   opts.Quota,
		stocks:  opts.Stocks,
		records: opts.Records,
		now:     now,
		log:     logger.OrDefault(opts.Logger),
	}, nil
}

// Mode returns the crawl mode.
func (r *Runner) Mode() string {
	return r.mode
}

// RunResult contains the outcome of a collection run.
type RunResult struct {
	RunID string
	Names []string // tracked names after normalisation, in first-seen order

	// Posts in subreddit order, then tracked-name order, then collection order.
	Posts []domain.ScoredPost

	Stored  int
	Skipped []string // tracked names missing from the stocks table
}

// Run crawls every subreddit for names and scores each collected title.
// Crawl failures only shorten a subreddit's result. Store failures other than
// a missing stock abort the run.
func (r *Runner) Run(ctx context.Context, subreddits, names []string) (*RunResult, error) {
	result := &RunResult{RunID: uuid.NewString(), Names: namesInOrder(names)}
	log := r.log.With("run_id", result.RunID, "mode", r.mode)

	persist := r.stocks != nil && r.records != nil
	stockIDs := make(map[string]int64)
	missing := make(map[string]bool)
	if persist {
		ids, err := r.loadStockIDs(ctx)
		if err != nil {
			return result, err
		}
		stockIDs = ids
	}

	for _, sub := range subreddits {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var buckets *reddit.Buckets
		if r.mode == ModeSearch {
			buckets = r.crawler.Search(ctx, sub, names)
		} else {
			buckets = r.crawler.Collect(ctx, sub, names, r.quota)
		}

		scored, err := r.score(ctx, buckets)
		if err != nil {
			return result, fmt.Errorf("score r/%s: %w", sub, err)
		}
		result.Posts = append(result.Posts, scored...)
		log.Infow("subreddit collected", "subreddit", sub, "posts", len(scored))

		if !persist {
			continue
		}
		stored, err := r.store(ctx, result.RunID, sub, scored, stockIDs, missing)
		if err != nil {
			return result, fmt.Errorf("store r/%s: %w", sub, err)
		}
		result.Stored += stored
	}

	for _, name := range result.Names {
		if missing[name] {
			result.Skipped = append(result.Skipped, name)
		}
	}

	observability.RecordRunSuccess(r.now().Unix())
	log.Infow("collection finished", "posts", len(result.Posts), "stored", result.Stored, "skipped", len(result.Skipped))
	return result, nil
}

// score flattens buckets in name order and scores the titles.
func (r *Runner) score(ctx context.Context, buckets *reddit.Buckets) ([]domain.ScoredPost, error) {
	var posts []domain.Post
	for _, name := range buckets.Names() {
		posts = append(posts, buckets.Posts(name)...)
	}

	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.Title
	}

	sentiments, err := r.scorer.ScoreAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ScoredPost, len(posts))
	for i, p := range posts {
		out[i] = domain.ScoredPost{Post: p, Sentiment: sentiments[i]}
	}
	return out, nil
}

// store persists one subreddit's scored posts. Names without a stocks row are
// skipped with a diagnostic, once per run.
func (r *Runner) store(ctx context.Context, runID, subreddit string, posts []domain.ScoredPost, ids map[string]int64, missing map[string]bool) (int, error) {
	createdAt := r.now().UnixMilli()
	positions := make(map[string]int)

	var records []*domain.SentimentRecord
	for _, p := range posts {
		name := p.StockSymbol
		pos := positions[name]
		positions[name]++

		if missing[name] {
			continue
		}
		id, ok := ids[name]
		if !ok {
			stock, err := r.stocks.GetByName(ctx, name)
			if errors.Is(err, storage.ErrNotFound) {
				missing[name] = true
				observability.RecordLookupMiss("stock")
				r.log.Warnw("stock not in stocks table, skipping its posts", "stock", name, "subreddit", subreddit)
				continue
			}
			if err != nil {
				return 0, fmt.Errorf("lookup stock %s: %w", name, err)
			}
			id = stock.ID
			ids[name] = id
		}

		records = append(records, &domain.SentimentRecord{
			RecordID:  idhash.ComputeRecordID(runID, subreddit, name, pos, p.Title),
			RunID:     runID,
			StockID:   id,
			Subreddit: subreddit,
			Author:    p.Author,
			PostedAt:  p.CreatedAt,
			Sentiment: p.Sentiment.String(),
			Text:      p.Title,
			CreatedAt: createdAt,
		})
	}

	if err := r.records.InsertBulk(ctx, records); err != nil {
		return 0, err
	}
	observability.RecordStored("sentiment_records", len(records))
	return len(records), nil
}

// namesInOrder normalises names the way reddit.Buckets does.
func namesInOrder(names []string) []string {
	return reddit.NormalizeNames(names)
}

// loadStockIDs reads the stocks table once, keyed by lowercased name.
func (r *Runner) loadStockIDs(ctx context.Context) (map[string]int64, error) {
	stocks, err := r.stocks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	ids := make(map[string]int64, len(stocks))
	for _, st := range stocks {
		ids[strings.ToLower(st.Name)] = st.ID
	}
	return ids, nil
}
