package aggregation

import (
	"errors"
	"fmt"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/lookup"
)

// ErrInvalidWindow is returned when the window start is after its end.
var ErrInvalidWindow = errors.New("invalid date window")

// Table is the per-symbol output: one row per trading day in the window.
type Table struct {
	Symbol string
	Rows   []domain.OutputRow

	// Summaries holds every posted day, including days dropped by the join.
	Summaries []*domain.DailySentimentSummary

	// DaysWithPosts counts rows carrying sentiment.
	DaysWithPosts int
	// PostsUsed counts posts that landed on a row.
	PostsUsed int
	// DroppedDays counts days with posts but no trading row in the window.
	DroppedDays int
}

// FilterWindow keeps the price rows whose date lies in window, in input order.
func FilterWindow(prices []domain.PriceRecord, window domain.DateWindow) []domain.PriceRecord {
	var out []domain.PriceRecord
	for _, p := range prices {
		if window.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

// Merge left-joins daily summaries onto price rows by calendar date.
// Every price row appears exactly once; days with posts and no price row are dropped.
func Merge(symbol string, prices []domain.PriceRecord, summaries []*domain.DailySentimentSummary) *Table {
	idx := lookup.NewDailyIndex(summaries)
	table := &Table{Symbol: symbol, Rows: make([]domain.OutputRow, 0, len(prices))}

	matched := make(map[*domain.DailySentimentSummary]bool, len(summaries))
	for _, p := range prices {
		row := domain.OutputRow{StockSymbol: symbol, PriceRecord: p}
		if s, err := idx.On(p.Date); err == nil {
			row.Sentiment = s
			table.DaysWithPosts++
			if !matched[s] {
				matched[s] = true
				table.PostsUsed += s.TotalPosts
			}
		}
		table.Rows = append(table.Rows, row)
	}
	table.DroppedDays = idx.Len() - len(matched)

	return table
}

// Aggregate turns one symbol's scored posts and price series into its output table.
func Aggregate(symbol string, posts []domain.ScoredIndexedPost, prices []domain.PriceRecord, window domain.DateWindow) (*Table, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidWindow,
			window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}
	summaries := DailySummaries(symbol, posts)
	table := Merge(symbol, FilterWindow(prices, window), summaries)
	table.Summaries = summaries
	return table, nil
}
