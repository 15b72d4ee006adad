package collection

import (
	"context"
	"errors"
	"fmt"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

// SeedStocks inserts every tracked name into the stocks table, leaving existing
// rows untouched. Returns the number of rows added.
func SeedStocks(ctx context.Context, store storage.StockStore, names []string) (int, error) {
	added := 0
	for _, name := range namesInOrder(names) {
		err := store.Insert(ctx, &domain.Stock{Name: name})
		if errors.Is(err, storage.ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("seed stock %s: %w", name, err)
		}
		added++
	}
	return added, nil
}
