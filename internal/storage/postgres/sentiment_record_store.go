package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

// SentimentRecordStore implements storage.SentimentRecordStore using PostgreSQL.
type SentimentRecordStore struct {
	pool *Pool
}

// NewSentimentRecordStore creates a new SentimentRecordStore.
func NewSentimentRecordStore(pool *Pool) *SentimentRecordStore {
	return &SentimentRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SentimentRecordStore = (*SentimentRecordStore)(nil)

const insertSentimentRecordQuery = `
	INSERT INTO sentiment_records (
		record_id, run_id, stock_id, subreddit, author, posted_at, sentiment, text, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// Insert adds a record. Returns ErrDuplicateKey if record_id exists.
func (s *SentimentRecordStore) Insert(ctx context.Context, r *domain.SentimentRecord) error {
	_, err := s.pool.Exec(ctx, insertSentimentRecordQuery, recordArgs(r)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return queryError("insert sentiment record", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *SentimentRecordStore) InsertBulk(ctx context.Context, records []*domain.SentimentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		if _, err := tx.Exec(ctx, insertSentimentRecordQuery, recordArgs(r)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return queryError("insert sentiment record in bulk", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByStock retrieves all records for a stock, ordered by (created_at, record_id) ASC.
func (s *SentimentRecordStore) GetByStock(ctx context.Context, stockID int64) ([]*domain.SentimentRecord, error) {
	query := `
		SELECT record_id, run_id, stock_id, subreddit, author, posted_at, sentiment, text, created_at
		FROM sentiment_records
		WHERE stock_id = $1
		ORDER BY created_at ASC, record_id ASC
	`

	rows, err := s.pool.Query(ctx, query, stockID)
	if err != nil {
		return nil, queryError("get sentiment records by stock", err)
	}
	defer rows.Close()

	return scanSentimentRecords(rows)
}

// GetByRun retrieves all records of one run, ordered by (created_at, record_id) ASC.
func (s *SentimentRecordStore) GetByRun(ctx context.Context, runID string) ([]*domain.SentimentRecord, error) {
	query := `
		SELECT record_id, run_id, stock_id, subreddit, author, posted_at, sentiment, text, created_at
		FROM sentiment_records
		WHERE run_id = $1
		ORDER BY created_at ASC, record_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, queryError("get sentiment records by run", err)
	}
	defer rows.Close()

	return scanSentimentRecords(rows)
}

func recordArgs(r *domain.SentimentRecord) []any {
	return []any{
		r.RecordID,
		r.RunID,
		r.StockID,
		r.Subreddit,
		r.Author,
		r.PostedAt,
		r.Sentiment,
		r.Text,
		r.CreatedAt,
	}
}

// scanSentimentRecords scans multiple rows into a slice of SentimentRecord.
func scanSentimentRecords(rows pgx.Rows) ([]*domain.SentimentRecord, error) {
	var records []*domain.SentimentRecord

	for rows.Next() {
		var r domain.SentimentRecord
		err := rows.Scan(
			&r.RecordID,
			&r.RunID,
			&r.StockID,
			&r.Subreddit,
			&r.Author,
			&r.PostedAt,
			&r.Sentiment,
			&r.Text,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sentiment record row: %w", err)
		}
		if r.PostedAt != nil {
			utc := r.PostedAt.UTC()
			r.PostedAt = &utc
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sentiment record rows: %w", err)
	}

	return records, nil
}
