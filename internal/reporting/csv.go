package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/lookup"
)

// OutputColumns is the header of a per-symbol output table.
var OutputColumns = []string{
	"Date", "Open", "High", "Low", "Close", "Volume",
	"average_pos", "average_neg", "average_neu",
	"positive_ratio", "negative_ratio", "neutral_ratio",
}

// ScoredPostColumns is the header of a collection export.
var ScoredPostColumns = []string{"subreddit", "stock", "post", "author", "created_time", "sentiment"}

// OutputFileName returns the artifact name for symbol.
func OutputFileName(symbol string) string {
	return lookup.NormalizeSymbol(symbol) + "_avg_ratio.csv"
}

// WriteOutputTable writes rows as CSV. Rows without sentiment have empty
// sentiment cells.
func WriteOutputTable(w io.Writer, rows []domain.OutputRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OutputColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		rec := []string{
			r.Date.Format("2006-01-02"),
			r.Open.String(),
			r.High.String(),
			r.Low.String(),
			r.Close.String(),
			strconv.FormatInt(r.Volume, 10),
			"", "", "", "", "", "",
		}
		if s := r.Sentiment; s != nil {
			rec[6] = formatFloat(s.AveragePos)
			rec[7] = formatFloat(s.AverageNeg)
			rec[8] = formatFloat(s.AverageNeu)
			rec[9] = formatFloat(s.PositiveRatio)
			rec[10] = formatFloat(s.NegativeRatio)
			rec[11] = formatFloat(s.NeutralRatio)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", rec[0], err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteOutputFile writes the symbol's table to dir/{SYMBOL}_avg_ratio.csv and
// returns the path.
func WriteOutputFile(dir, symbol string, rows []domain.OutputRow) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, OutputFileName(symbol))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteOutputTable(f, rows); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// WriteScoredPosts writes collection rows as CSV.
func WriteScoredPosts(w io.Writer, posts []domain.ScoredPost) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScoredPostColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range posts {
		rec := []string{
			p.Subreddit,
			p.StockSymbol,
			p.Title,
			p.Author,
			p.CreatedTime(),
			p.Sentiment.String(),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write post: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
