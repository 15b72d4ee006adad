package postgres

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"reddit-sentiment-lab/internal/domain"
)

// setupTestDB starts a PostgreSQL container with the schema from
// internal/storage/migrations/postgres loaded as init scripts.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("sentiment"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(migrationFiles(t)...),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, dsn, WithMaxConns(4), WithApplicationName("postgres-store-test"))
	require.NoError(t, err)

	return pool, func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}
}

// migrationFiles lists the schema files in apply order. The migrations package
// imports this one, so the files are read from disk rather than the embedded FS.
func migrationFiles(t *testing.T) []string {
	t.Helper()

	dir := filepath.Join("..", "migrations", "postgres")
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no migrations in %s", dir)
	sort.Strings(files)

	for i, f := range files {
		abs, err := filepath.Abs(f)
		require.NoError(t, err)
		files[i] = abs
	}
	return files
}

func ptr[T any](v T) *T {
	return &v
}

// seedStock inserts a stock and returns its ID.
func seedStock(t *testing.T, pool *Pool, name string) int64 {
	t.Helper()

	st := &domain.Stock{Name: name}
	require.NoError(t, NewStockStore(pool).Insert(context.Background(), st))
	return st.ID
}
