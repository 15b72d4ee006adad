package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySentimentSummary aggregates the posts of one stock on one UTC calendar day.
// Ratios sum to 1 whenever TotalPosts > 0.
type DailySentimentSummary struct {
	StockSymbol   string
	Date          time.Time // midnight UTC
	AveragePos    float64
	AverageNeg    float64
	AverageNeu    float64
	PositiveRatio float64
	NegativeRatio float64
	NeutralRatio  float64
	TotalPosts    int // used for ratios, not exported to output tables
}

// PriceRecord is one trading day of price history.
type PriceRecord struct {
	Date   time.Time // midnight UTC
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// OutputRow is a price record left-joined with the day's sentiment.
// Sentiment is nil when no posts exist for that trading day.
type OutputRow struct {
	StockSymbol string
	PriceRecord
	Sentiment *DailySentimentSummary
}

// HasSentiment reports whether the row carries sentiment columns.
func (r OutputRow) HasSentiment() bool {
	return r.Sentiment != nil
}
