package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/lookup"
)

// Default directory layout under the data root.
const (
	PostDataDir    = "post_data"
	PriceDataDir   = "price_data"
	PostsFile      = "posts.csv"
	StockIndexFile = "stock_index.csv"
)

// FileDataset reads the dataset tables from a directory tree:
//
//	{root}/post_data/posts.csv
//	{root}/post_data/stock_index.csv
//	{root}/price_data/{SYMBOL}.csv
//
// Implements PostSource, StockIndexSource and PriceSource.
type FileDataset struct {
	root string
}

// NewFileDataset creates a dataset rooted at dir.
func NewFileDataset(dir string) *FileDataset {
	return &FileDataset{root: dir}
}

// PostsPath returns the posts table location.
func (d *FileDataset) PostsPath() string {
	return filepath.Join(d.root, PostDataDir, PostsFile)
}

// StockIndexPath returns the stock index table location.
func (d *FileDataset) StockIndexPath() string {
	return filepath.Join(d.root, PostDataDir, StockIndexFile)
}

// PricePath returns the price file location for symbol.
func (d *FileDataset) PricePath(symbol string) string {
	return filepath.Join(d.root, PriceDataDir, lookup.NormalizeSymbol(symbol)+".csv")
}

// Posts loads the posts table.
func (d *FileDataset) Posts(ctx context.Context) ([]domain.RawPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.PostsPath())
	if err != nil {
		return nil, fmt.Errorf("open posts: %w", err)
	}
	defer f.Close()

	posts, err := ReadPosts(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.PostsPath(), err)
	}
	return posts, nil
}

// StockIndex loads the stock index table.
func (d *FileDataset) StockIndex(ctx context.Context) ([]domain.StockIndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.StockIndexPath())
	if err != nil {
		return nil, fmt.Errorf("open stock index: %w", err)
	}
	defer f.Close()

	entries, err := ReadStockIndex(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.StockIndexPath(), err)
	}
	return entries, nil
}

// Prices loads the price history of symbol.
// A missing file is reported as ErrPriceDataMissing.
func (d *FileDataset) Prices(ctx context.Context, symbol string) ([]domain.PriceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := d.PricePath(symbol)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPriceDataMissing, path)
		}
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer f.Close()

	prices, err := ReadPrices(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prices, nil
}
