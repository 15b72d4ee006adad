package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"reddit-sentiment-lab/internal/domain"
)

// Errors returned by the CSV loaders.
var (
	ErrMissingColumn    = errors.New("missing column")
	ErrPriceDataMissing = errors.New("price data missing")
	ErrInvalidValue     = errors.New("invalid value")
)

// Column names of the input tables.
const (
	ColID         = "id"
	ColTitle      = "title"
	ColSelftext   = "selftext"
	ColAuthor     = "author"
	ColPermalink  = "permalink"
	ColURL        = "url"
	ColCreatedUTC = "created_utc"
	ColSubreddit  = "subreddit"
	ColSymbol     = "stock_symbol"

	ColDate   = "Date"
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

// priceDateLayouts are tried in order. Offsets are honoured and the result
// is converted to UTC before truncation to a calendar day.
var priceDateLayouts = []string{
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// table is a CSV file with its header resolved to column positions.
type table struct {
	reader *csv.Reader
	cols   map[string]int
}

func newTable(r io.Reader, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	return &table{reader: reader, cols: cols}, nil
}

// next returns the next record, or io.EOF.
func (t *table) next() ([]string, error) {
	return t.reader.Read()
}

// get returns the named cell, or "" when the column or cell is absent.
func (t *table) get(rec []string, name string) string {
	i, ok := t.cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func (t *table) line() int {
	line, _ := t.reader.FieldPos(0)
	return line
}

// ReadPosts parses the posts table. A row whose created_utc is not a unix
// timestamp is an error: the column is the only time source for the join.
func ReadPosts(r io.Reader) ([]domain.RawPost, error) {
	t, err := newTable(r, ColID, ColTitle, ColSelftext, ColCreatedUTC)
	if err != nil {
		return nil, err
	}

	var posts []domain.RawPost
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read posts: %w", err)
		}

		created, err := parseUnixSeconds(t.get(rec, ColCreatedUTC))
		if err != nil {
			return nil, fmt.Errorf("posts line %d: %w", t.line(), err)
		}

		posts = append(posts, domain.RawPost{
			ID:         strings.TrimSpace(t.get(rec, ColID)),
			Title:      t.get(rec, ColTitle),
			Selftext:   t.get(rec, ColSelftext),
			Author:     t.get(rec, ColAuthor),
			Permalink:  t.get(rec, ColPermalink),
			URL:        t.get(rec, ColURL),
			CreatedUTC: created,
			Subreddit:  t.get(rec, ColSubreddit),
		})
	}
	return posts, nil
}

// ReadStockIndex parses the stock index table. Its created_utc is optional
// and left zero when absent or unparseable; the join takes time from posts.
func ReadStockIndex(r io.Reader) ([]domain.StockIndexEntry, error) {
	t, err := newTable(r, ColID, ColSymbol)
	if err != nil {
		return nil, err
	}

	var entries []domain.StockIndexEntry
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read stock index: %w", err)
		}

		entry := domain.StockIndexEntry{
			ID:          strings.TrimSpace(t.get(rec, ColID)),
			StockSymbol: strings.TrimSpace(t.get(rec, ColSymbol)),
		}
		if created, err := parseUnixSeconds(t.get(rec, ColCreatedUTC)); err == nil {
			entry.CreatedUTC = created
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReadPrices parses a daily price history. Rows with an unparseable Date are
// dropped. Extra columns such as Dividends and Stock Splits are ignored.
func ReadPrices(r io.Reader) ([]domain.PriceRecord, error) {
	t, err := newTable(r, ColDate, ColOpen, ColHigh, ColLow, ColClose, ColVolume)
	if err != nil {
		return nil, err
	}

	var prices []domain.PriceRecord
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read prices: %w", err)
		}

		date, ok := parsePriceDate(t.get(rec, ColDate))
		if !ok {
			continue
		}

		p := domain.PriceRecord{Date: date}
		fields := []struct {
			col string
			dst *decimal.Decimal
		}{
			{ColOpen, &p.Open},
			{ColHigh, &p.High},
			{ColLow, &p.Low},
			{ColClose, &p.Close},
		}
		for _, f := range fields {
			v, err := parseDecimal(t.get(rec, f.col))
			if err != nil {
				return nil, fmt.Errorf("prices line %d %s: %w", t.line(), f.col, err)
			}
			*f.dst = v
		}

		vol, err := parseDecimal(t.get(rec, ColVolume))
		if err != nil {
			return nil, fmt.Errorf("prices line %d %s: %w", t.line(), ColVolume, err)
		}
		p.Volume = vol.IntPart()

		prices = append(prices, p)
	}
	return prices, nil
}

func parseUnixSeconds(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrInvalidValue)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(n, 0).UTC(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrInvalidValue, s)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}

func parsePriceDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range priceDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DateOf(t), true
		}
	}
	return time.Time{}, false
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return d, nil
}
