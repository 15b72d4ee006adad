package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

// StockStore implements storage.StockStore using PostgreSQL.
type StockStore struct {
	pool *Pool
}

// NewStockStore creates a new StockStore.
func NewStockStore(pool *Pool) *StockStore {
	return &StockStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StockStore = (*StockStore)(nil)

// Insert adds a stock and sets its generated ID. Names are stored lowercase.
func (s *StockStore) Insert(ctx context.Context, st *domain.Stock) error {
	name := strings.ToLower(strings.TrimSpace(st.Name))
	if name == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO stocks (name, ticker)
		VALUES ($1, $2)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query, name, st.Ticker).Scan(&st.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return queryError("insert stock", err)
	}
	st.Name = name
	return nil
}

// GetByName retrieves a stock by name. Returns ErrNotFound if not exists.
func (s *StockStore) GetByName(ctx context.Context, name string) (*domain.Stock, error) {
	query := `
		SELECT id, name, ticker
		FROM stocks
		WHERE name = $1
	`

	var st domain.Stock
	err := s.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(name))).Scan(&st.ID, &st.Name, &st.Ticker)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, queryError("get stock by name", err)
	}
	return &st, nil
}

// List returns all stocks ordered by name.
func (s *StockStore) List(ctx context.Context) ([]*domain.Stock, error) {
	query := `
		SELECT id, name, ticker
		FROM stocks
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, queryError("list stocks", err)
	}
	defer rows.Close()

	return scanStocks(rows)
}

func scanStocks(rows pgx.Rows) ([]*domain.Stock, error) {
	var stocks []*domain.Stock
	for rows.Next() {
		var st domain.Stock
		if err := rows.Scan(&st.ID, &st.Name, &st.Ticker); err != nil {
			return nil, queryError("scan stock row", err)
		}
		stocks = append(stocks, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("iterate stock rows", err)
	}
	return stocks, nil
}
