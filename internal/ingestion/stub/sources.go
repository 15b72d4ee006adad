package stub

import (
	"context"
	"fmt"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/ingestion"
	"reddit-sentiment-lab/internal/lookup"
)

// Dataset serves fixed in-memory tables for testing.
// Implements ingestion.PostSource, ingestion.StockIndexSource and ingestion.PriceSource.
type Dataset struct {
	posts  []domain.RawPost
	index  []domain.StockIndexEntry
	prices map[string][]domain.PriceRecord
}

// NewDataset creates a stub dataset. Price keys are matched case-insensitively.
func NewDataset(posts []domain.RawPost, index []domain.StockIndexEntry, prices map[string][]domain.PriceRecord) *Dataset {
	byKey := make(map[string][]domain.PriceRecord, len(prices))
	for sym, rows := range prices {
		byKey[lookup.NormalizeSymbol(sym)] = rows
	}
	return &Dataset{posts: posts, index: index, prices: byKey}
}

// Posts returns a copy of the posts table.
func (d *Dataset) Posts(_ context.Context) ([]domain.RawPost, error) {
	return append([]domain.RawPost(nil), d.posts...), nil
}

// StockIndex returns a copy of the index rows.
func (d *Dataset) StockIndex(_ context.Context) ([]domain.StockIndexEntry, error) {
	return append([]domain.StockIndexEntry(nil), d.index...), nil
}

// Prices returns a copy of the price rows, or ErrPriceDataMissing.
func (d *Dataset) Prices(_ context.Context, symbol string) ([]domain.PriceRecord, error) {
	rows, ok := d.prices[lookup.NormalizeSymbol(symbol)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ingestion.ErrPriceDataMissing, symbol)
	}
	return append([]domain.PriceRecord(nil), rows...), nil
}
