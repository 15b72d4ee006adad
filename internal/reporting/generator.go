package reporting

import (
	"context"
	"fmt"
	"time"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/reddit"
	"reddit-sentiment-lab/internal/storage"
)

// Generator produces report sections from stored dataset rows.
type Generator struct {
	rowStore storage.DatasetRowStore
	now      func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(rowStore storage.DatasetRowStore) *Generator {
	return &Generator{
		rowStore: rowStore,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// NewDatasetReport starts an empty dataset report stamped with the generator clock.
func (g *Generator) NewDatasetReport(window domain.DateWindow, policy domain.Policy, workers int) *DatasetReport {
	return &DatasetReport{
		GeneratedAt: g.now(),
		Window:      window,
		Policy:      policy,
		Workers:     workers,
	}
}

// SummarizeSymbol reads a symbol's stored rows back and fills the day counts and
// date range of a written symbol.
func (g *Generator) SummarizeSymbol(ctx context.Context, symbol string) (SymbolSummary, error) {
	rows, err := g.rowStore.GetBySymbol(ctx, symbol)
	if err != nil {
		return SymbolSummary{}, fmt.Errorf("load rows for %s: %w", symbol, err)
	}

	sum := SymbolSummary{Symbol: symbol, Status: StatusWritten, TradingDays: len(rows)}
	for i, r := range rows {
		if i == 0 {
			sum.FirstDate = r.Date
		}
		sum.LastDate = r.Date
		if r.HasSentiment() {
			sum.DaysWithPosts++
			sum.PostsUsed += r.Sentiment.TotalPosts
		}
	}
	return sum, nil
}

// NewCollectionReport counts scored posts per tracked name, in names order.
// Names are normalised the way the collector buckets them.
func (g *Generator) NewCollectionReport(runID, mode string, policy domain.Policy, subreddits, names []string, posts []domain.ScoredPost) *CollectionReport {
	names = reddit.NormalizeNames(names)
	counts := make(map[string]*StockCount, len(names))
	report := &CollectionReport{
		GeneratedAt: g.now(),
		RunID:       runID,
		Mode:        mode,
		Policy:      policy,
		Subreddits:  subreddits,
		Stocks:      make([]StockCount, len(names)),
	}
	for i, name := range names {
		report.Stocks[i].Stock = name
		counts[name] = &report.Stocks[i]
	}

	for _, p := range posts {
		c, ok := counts[p.StockSymbol]
		if !ok {
			continue
		}
		c.Posts++
		if p.Sentiment.Policy != domain.PolicyLabel {
			continue
		}
		switch p.Sentiment.Label {
		case domain.LabelPositive:
			c.Positive++
		case domain.LabelNegative:
			c.Negative++
		default:
			c.Neutral++
		}
	}
	return report
}
