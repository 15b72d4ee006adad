package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/logger"
	"reddit-sentiment-lab/internal/reddit"
	"reddit-sentiment-lab/internal/sentiment"
	"reddit-sentiment-lab/internal/storage"
	"reddit-sentiment-lab/internal/storage/memory"
)

// fakeCrawler returns canned titles per subreddit and records calls.
type fakeCrawler struct {
	titles map[string][]string // subreddit -> titles
	calls  []string
}

func (f *fakeCrawler) fill(subreddit string, names []string, quota int) *reddit.Buckets {
	b := reddit.NewBuckets(names, quota)
	for _, title := range f.titles[subreddit] {
		for _, name := range b.Names() {
			if !b.Full(name) && strings.Contains(title, name) {
				b.Add(name, domain.Post{Title: title, Author: "u", StockSymbol: name, Subreddit: subreddit})
			}
		}
	}
	return b
}

func (f *fakeCrawler) Collect(_ context.Context, subreddit string, names []string, quota int) *reddit.Buckets {
	f.calls = append(f.calls, "collect:"+subreddit)
	return f.fill(subreddit, names, quota)
}

func (f *fakeCrawler) Search(_ context.Context, subreddit string, names []string) *reddit.Buckets {
	f.calls = append(f.calls, "search:"+subreddit)
	return f.fill(subreddit, names, 0)
}

// moonAnalyzer is positive for "moon", negative for "crash", else neutral.
type moonAnalyzer struct{}

func (moonAnalyzer) PolarityScores(text string) sentiment.Scores {
	switch {
	case strings.Contains(text, "moon"):
		return sentiment.Scores{Pos: 0.6, Neu: 0.4, Compound: 0.5}
	case strings.Contains(text, "crash"):
		return sentiment.Scores{Neg: 0.6, Neu: 0.4, Compound: -0.5}
	default:
		return sentiment.Scores{Neu: 1}
	}
}

func newPool(t *testing.T, policy domain.Policy) *sentiment.Pool {
	t.Helper()
	pool, err := sentiment.NewPool(sentiment.PoolOptions{
		Workers:  2,
		Policy:   policy,
		Analyzer: func() sentiment.Analyzer { return moonAnalyzer{} },
		Logger:   logger.Nop(),
	})
	require.NoError(t, err)
	return pool
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
}

func TestRunner_OrdersBySubredditThenNameThenPost(t *testing.T) {
	crawler := &fakeCrawler{titles: map[string][]string{
		"stocks":    {"apple to the moon", "tesla crash", "apple and tesla"},
		"investing": {"tesla moon"},
	}}

	runner, err := NewRunner(RunnerOptions{
		Crawler: crawler,
		Scorer:  newPool(t, domain.PolicyLabel),
		Quota:   15,
		Logger:  logger.Nop(),
		Now:     fixedClock,
	})
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), []string{"stocks", "investing"}, []string{"Tesla", "apple"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []string{"collect:stocks", "collect:investing"}, crawler.calls)

	var got []string
	for _, p := range res.Posts {
		got = append(got, fmt.Sprintf("%s/%s/%s/%s", p.Subreddit, p.StockSymbol, p.Title, p.Sentiment))
	}
	assert.Equal(t, []string{
		"stocks/tesla/tesla crash/negative",
		"stocks/tesla/apple and tesla/neutral",
		"stocks/apple/apple to the moon/positive",
		"stocks/apple/apple and tesla/neutral",
		"investing/tesla/tesla moon/positive",
	}, got)
	assert.Zero(t, res.Stored)
}

func TestRunner_SearchModeUsesSearch(t *testing.T) {
	crawler := &fakeCrawler{titles: map[string][]string{"stocks": {"nvidia moon"}}}
	runner, err := NewRunner(RunnerOptions{
		Crawler: crawler,
		Scorer:  newPool(t, domain.PolicyCompound),
		Mode:    ModeSearch,
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), []string{"stocks"}, []string{"nvidia"})
	require.NoError(t, err)
	assert.Equal(t, []string{"search:stocks"}, crawler.calls)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, 0.5, res.Posts[0].Sentiment.Compound)
}

func TestNewRunner_UnknownMode(t *testing.T) {
	_, err := NewRunner(RunnerOptions{Mode: "firehose"})
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestRunner_PersistsKnownStocksSkipsMissing(t *testing.T) {
	ctx := context.Background()
	stocks := memory.NewStockStore()
	records := memory.NewSentimentRecordStore()
	require.NoError(t, stocks.Insert(ctx, &domain.Stock{Name: "tesla"}))

	crawler := &fakeCrawler{titles: map[string][]string{
		"stocks":    {"tesla moon", "apple crash", "tesla again"},
		"investing": {"apple moon", "tesla crash"},
	}}
	runner, err := NewRunner(RunnerOptions{
		Crawler: crawler,
		Scorer:  newPool(t, domain.PolicyLabel),
		Stocks:  stocks,
		Records: records,
		Logger:  logger.Nop(),
		Now:     fixedClock,
	})
	require.NoError(t, err)

	res, err := runner.Run(ctx, []string{"stocks", "investing"}, []string{"tesla", "apple"})
	require.NoError(t, err)

	assert.Len(t, res.Posts, 5)
	assert.Equal(t, 3, res.Stored)
	assert.Equal(t, []string{"apple"}, res.Skipped)

	stored, err := records.GetByRun(ctx, res.RunID)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	tesla, err := stocks.GetByName(ctx, "tesla")
	require.NoError(t, err)
	for _, rec := range stored {
		assert.Equal(t, tesla.ID, rec.StockID)
		assert.Equal(t, fixedClock().UnixMilli(), rec.CreatedAt)
		assert.Contains(t, []string{"positive", "negative", "neutral"}, rec.Sentiment)
	}
}

func TestRunner_RerunDoesNotCollide(t *testing.T) {
	ctx := context.Background()
	stocks := memory.NewStockStore()
	records := memory.NewSentimentRecordStore()
	_, err := SeedStocks(ctx, stocks, []string{"tesla"})
	require.NoError(t, err)

	crawler := &fakeCrawler{titles: map[string][]string{"stocks": {"tesla moon", "tesla moon"}}}
	runner, err := NewRunner(RunnerOptions{
		Crawler: crawler,
		Scorer:  newPool(t, domain.PolicyLabel),
		Stocks:  stocks,
		Records: records,
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)

	first, err := runner.Run(ctx, []string{"stocks"}, []string{"tesla"})
	require.NoError(t, err)
	second, err := runner.Run(ctx, []string{"stocks"}, []string{"tesla"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 2, first.Stored, "identical titles at different positions are distinct records")
	assert.Equal(t, 2, second.Stored)
}

func TestSeedStocks(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStockStore()
	require.NoError(t, store.Insert(ctx, &domain.Stock{Name: "apple"}))

	added, err := SeedStocks(ctx, store, []string{"Apple", "tesla", "TESLA", "nvidia"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	list, _ := store.List(ctx)
	assert.Len(t, list, 3)
}

func TestRunner_WithListingServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		created := 1706900000.0
		body := map[string]any{
			"data": map[string]any{
				"after": nil,
				"children": []map[string]any{
					{"data": map[string]any{"title": "Tesla MOON", "author": "alice", "created_utc": created}},
					{"data": map[string]any{"title": "apple news"}},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	client := reddit.NewClient(server.URL)
	crawler := reddit.NewCollector(reddit.CollectorOptions{Fetcher: client, Logger: logger.Nop()})
	runner, err := NewRunner(RunnerOptions{
		Crawler: crawler,
		Scorer:  newPool(t, domain.PolicyLabel),
		Quota:   5,
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), []string{"stocks"}, []string{"tesla", "apple"})
	require.NoError(t, err)
	require.Len(t, res.Posts, 2)

	assert.Equal(t, "tesla moon", res.Posts[0].Title)
	assert.Equal(t, domain.LabelPositive, res.Posts[0].Sentiment.Label)
	assert.Equal(t, "2024-02-02 18:53:20", res.Posts[0].CreatedTime())
	assert.Equal(t, domain.NotAvailable, res.Posts[1].Author)
	assert.Equal(t, domain.NotAvailable, res.Posts[1].CreatedTime())
}

// listFailingStocks fails the up-front stocks table read.
type listFailingStocks struct {
	*memory.StockStore
}

func (listFailingStocks) List(context.Context) ([]*domain.Stock, error) {
	return nil, errors.New("connection reset")
}

var _ storage.StockStore = listFailingStocks{}

func TestRunner_NormalisesTrackedNames(t *testing.T) {
	ctx := context.Background()
	stocks := memory.NewStockStore()
	records := memory.NewSentimentRecordStore()
	require.NoError(t, stocks.Insert(ctx, &domain.Stock{Name: "Tesla"}))

	crawler := &fakeCrawler{titles: map[string][]string{"stocks": {"tesla moon"}}}
	runner, err := NewRunner(RunnerOptions{
		Crawler: crawler,
		Scorer:  newPool(t, domain.PolicyLabel),
		Stocks:  stocks,
		Records: records,
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)

	res, err := runner.Run(ctx, []string{"stocks"}, []string{"Tesla", "tesla "})
	require.NoError(t, err)

	assert.Equal(t, []string{"tesla"}, res.Names)
	assert.Equal(t, 1, res.Stored)
	assert.Empty(t, res.Skipped)
}

func TestRunner_StocksListFailureAborts(t *testing.T) {
	runner, err := NewRunner(RunnerOptions{
		Crawler: &fakeCrawler{titles: map[string][]string{"stocks": {"tesla moon"}}},
		Scorer:  newPool(t, domain.PolicyLabel),
		Stocks:  listFailingStocks{memory.NewStockStore()},
		Records: memory.NewSentimentRecordStore(),
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), []string{"stocks"}, []string{"tesla"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list stocks")
}
