package clickhouse

import (
	"context"
	"fmt"
	"time"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

// DailySummaryStore implements storage.DailySummaryStore using ClickHouse.
type DailySummaryStore struct {
	conn *Conn
}

// NewDailySummaryStore creates a new DailySummaryStore.
func NewDailySummaryStore(conn *Conn) *DailySummaryStore {
	return &DailySummaryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailySummaryStore = (*DailySummaryStore)(nil)

// InsertBulk adds summaries. Fails entire batch on duplicate (stock_symbol, date).
func (s *DailySummaryStore) InsertBulk(ctx context.Context, summaries []*domain.DailySentimentSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	type key struct {
		symbol string
		date   time.Time
	}
	seen := make(map[key]struct{}, len(summaries))
	for _, d := range summaries {
		if d == nil || d.StockSymbol == "" {
			return storage.ErrInvalidInput
		}
		k := key{d.StockSymbol, domain.DateOf(d.Date)}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness
	for k := range seen {
		exists, err := existsOn(ctx, s.conn, "daily_sentiment", k.symbol, k.date)
		if err != nil {
			return err
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_sentiment (
			stock_symbol, date, average_pos, average_neg, average_neu,
			positive_ratio, negative_ratio, neutral_ratio, total_posts
		)
	`)
	if err != nil {
		return queryError("prepare daily sentiment batch", err)
	}

	for _, d := range summaries {
		err = batch.Append(
			d.StockSymbol, domain.DateOf(d.Date),
			d.AveragePos, d.AverageNeg, d.AverageNeu,
			d.PositiveRatio, d.NegativeRatio, d.NeutralRatio,
			uint32(d.TotalPosts),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return queryError("send daily sentiment batch", err)
	}
	return nil
}

// GetByDateRange retrieves summaries for a symbol within [start, end] (inclusive), ordered by date.
func (s *DailySummaryStore) GetByDateRange(ctx context.Context, symbol string, start, end time.Time) ([]*domain.DailySentimentSummary, error) {
	query := `
		SELECT stock_symbol, date, average_pos, average_neg, average_neu,
			positive_ratio, negative_ratio, neutral_ratio, total_posts
		FROM daily_sentiment
		WHERE stock_symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return nil, queryError("query daily sentiment by date range", err)
	}
	defer rows.Close()

	return scanDailySummaries(rows)
}

// existsOn reports whether table has a row for (symbol, date).
func existsOn(ctx context.Context, conn *Conn, table, symbol string, date time.Time) (bool, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE stock_symbol = ? AND date = ?`, table)

	var count uint64
	if err := conn.QueryRow(ctx, query, symbol, date).Scan(&count); err != nil {
		return false, queryError("check exists in "+table, err)
	}
	return count > 0, nil
}

func scanDailySummaries(rows chRows) ([]*domain.DailySentimentSummary, error) {
	var summaries []*domain.DailySentimentSummary

	for rows.Next() {
		var d domain.DailySentimentSummary
		var total uint32

		err := rows.Scan(
			&d.StockSymbol, &d.Date,
			&d.AveragePos, &d.AverageNeg, &d.AverageNeu,
			&d.PositiveRatio, &d.NegativeRatio, &d.NeutralRatio,
			&total,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily sentiment row: %w", err)
		}

		d.Date = domain.DateOf(d.Date)
		d.TotalPosts = int(total)
		summaries = append(summaries, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily sentiment rows: %w", err)
	}
	return summaries, nil
}
