package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

// DatasetRowStore implements storage.DatasetRowStore using ClickHouse.
type DatasetRowStore struct {
	conn *Conn
}

// NewDatasetRowStore creates a new DatasetRowStore.
func NewDatasetRowStore(conn *Conn) *DatasetRowStore {
	return &DatasetRowStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DatasetRowStore = (*DatasetRowStore)(nil)

// InsertBulk adds rows. Fails entire batch when a (stock_symbol, date) is already
// stored. Repeated dates within the batch are inserted as given.
func (s *DatasetRowStore) InsertBulk(ctx context.Context, rows []*domain.OutputRow) error {
	if len(rows) == 0 {
		return nil
	}

	type key struct {
		symbol string
		date   time.Time
	}
	seen := make(map[key]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.StockSymbol == "" {
			return storage.ErrInvalidInput
		}
		seen[key{r.StockSymbol, domain.DateOf(r.Date)}] = struct{}{}
	}

	for k := range seen {
		exists, err := existsOn(ctx, s.conn, "dataset_rows", k.symbol, k.date)
		if err != nil {
			return err
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO dataset_rows (
			stock_symbol, date, open, high, low, close, volume,
			average_pos, average_neg, average_neu,
			positive_ratio, negative_ratio, neutral_ratio, total_posts
		)
	`)
	if err != nil {
		return queryError("prepare dataset rows batch", err)
	}

	for _, r := range rows {
		var avgPos, avgNeg, avgNeu, posRatio, negRatio, neuRatio *float64
		var total uint32
		if sent := r.Sentiment; sent != nil {
			avgPos, avgNeg, avgNeu = &sent.AveragePos, &sent.AverageNeg, &sent.AverageNeu
			posRatio, negRatio, neuRatio = &sent.PositiveRatio, &sent.NegativeRatio, &sent.NeutralRatio
			total = uint32(sent.TotalPosts)
		}

		err = batch.Append(
			r.StockSymbol, domain.DateOf(r.Date),
			r.Open, r.High, r.Low, r.Close, r.Volume,
			avgPos, avgNeg, avgNeu,
			posRatio, negRatio, neuRatio, total,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return queryError("send dataset rows batch", err)
	}
	return nil
}

// GetBySymbol retrieves all rows for a symbol, ordered by date.
func (s *DatasetRowStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.OutputRow, error) {
	query := `
		SELECT stock_symbol, date, open, high, low, close, volume,
			average_pos, average_neg, average_neu,
			positive_ratio, negative_ratio, neutral_ratio, total_posts
		FROM dataset_rows
		WHERE stock_symbol = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return nil, queryError("query dataset rows by symbol", err)
	}
	defer rows.Close()

	return scanDatasetRows(rows)
}

func scanDatasetRows(rows chRows) ([]*domain.OutputRow, error) {
	var result []*domain.OutputRow

	for rows.Next() {
		var (
			r                                              domain.OutputRow
			open, high, low, closePrice                    decimal.Decimal
			avgPos, avgNeg, avgNeu, posRat, negRat, neuRat *float64
			total                                          uint32
		)

		err := rows.Scan(
			&r.StockSymbol, &r.Date, &open, &high, &low, &closePrice, &r.Volume,
			&avgPos, &avgNeg, &avgNeu,
			&posRat, &negRat, &neuRat, &total,
		)
		if err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}

		r.Date = domain.DateOf(r.Date)
		r.Open, r.High, r.Low, r.Close = open, high, low, closePrice
		if avgPos != nil {
			r.Sentiment = &domain.DailySentimentSummary{
				StockSymbol:   r.StockSymbol,
				Date:          r.Date,
				AveragePos:    *avgPos,
				AverageNeg:    deref(avgNeg),
				AverageNeu:    deref(avgNeu),
				PositiveRatio: deref(posRat),
				NegativeRatio: deref(negRat),
				NeutralRatio:  deref(neuRat),
				TotalPosts:    int(total),
			}
		}
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset rows: %w", err)
	}
	return result, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
