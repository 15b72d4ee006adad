package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestDailySummaryStore_InsertAndRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailySummaryStore(conn)
	ctx := context.Background()

	assert.NoError(t, store.InsertBulk(ctx, nil))

	err := store.InsertBulk(ctx, []*domain.DailySentimentSummary{
		{StockSymbol: "TSLA", Date: day(2), AveragePos: 0.3, AverageNeg: 0.15, AverageNeu: 0.55, PositiveRatio: 0.5, NeutralRatio: 0.5, TotalPosts: 2},
		{StockSymbol: "TSLA", Date: day(5), NeutralRatio: 1, TotalPosts: 1},
		{StockSymbol: "AAPL", Date: day(2), NegativeRatio: 1, TotalPosts: 4},
	})
	require.NoError(t, err)

	got, err := store.GetByDateRange(ctx, "TSLA", day(1), day(3))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day(2), got[0].Date)
	assert.Equal(t, 0.55, got[0].AverageNeu)
	assert.Equal(t, 2, got[0].TotalPosts)

	err = store.InsertBulk(ctx, []*domain.DailySentimentSummary{{StockSymbol: "TSLA", Date: day(5)}})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDatasetRowStore_NullableSentiment(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDatasetRowStore(conn)
	ctx := context.Background()

	price := func(d int, close string) domain.PriceRecord {
		c := decimal.RequireFromString(close)
		return domain.PriceRecord{Date: day(d), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}

	rows := []*domain.OutputRow{
		{StockSymbol: "TSLA", PriceRecord: price(1, "28.68")},
		{StockSymbol: "TSLA", PriceRecord: price(2, "29.5"), Sentiment: &domain.DailySentimentSummary{
			AveragePos: 0.3, AverageNeg: 0.15, AverageNeu: 0.55, PositiveRatio: 0.5, NeutralRatio: 0.5, TotalPosts: 2,
		}},
		{StockSymbol: "TSLA", PriceRecord: price(3, "30")},
	}
	require.NoError(t, store.InsertBulk(ctx, rows))

	got, err := store.GetBySymbol(ctx, "TSLA")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.False(t, got[0].HasSentiment())
	assert.True(t, got[0].Close.Equal(decimal.RequireFromString("28.68")))
	require.True(t, got[1].HasSentiment())
	assert.Equal(t, 0.5, got[1].Sentiment.PositiveRatio)
	assert.False(t, got[2].HasSentiment())

	err = store.InsertBulk(ctx, []*domain.OutputRow{{StockSymbol: "TSLA", PriceRecord: price(3, "1")}})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDatasetRowStore_RepeatedDateInBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDatasetRowStore(conn)
	ctx := context.Background()

	rows := []*domain.OutputRow{
		{StockSymbol: "GME", PriceRecord: domain.PriceRecord{Date: day(2), Close: decimal.NewFromInt(20)}},
		{StockSymbol: "GME", PriceRecord: domain.PriceRecord{Date: day(2), Close: decimal.NewFromInt(21)}},
	}
	require.NoError(t, store.InsertBulk(ctx, rows))

	got, err := store.GetBySymbol(ctx, "GME")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	err = store.InsertBulk(ctx, rows[:1])
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
