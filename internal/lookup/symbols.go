package lookup

import (
	"errors"
	"strings"

	"reddit-sentiment-lab/internal/domain"
)

// Errors returned by lookup functions.
var (
	ErrUnknownPost  = errors.New("post id not in stock index")
	ErrNoDailyEntry = errors.New("no sentiment for date")
)

// SymbolIndex resolves post ids to stock symbols.
// Symbols are stored upper-cased; the first entry for an id wins.
type SymbolIndex struct {
	byID map[string]string
}

// NewSymbolIndex builds an index from stock_index rows.
// Entries with an empty id or symbol are ignored.
func NewSymbolIndex(entries []domain.StockIndexEntry) *SymbolIndex {
	idx := &SymbolIndex{byID: make(map[string]string, len(entries))}
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		sym := NormalizeSymbol(e.StockSymbol)
		if id == "" || sym == "" {
			continue
		}
		if _, ok := idx.byID[id]; ok {
			continue
		}
		idx.byID[id] = sym
	}
	return idx
}

// Symbol returns the symbol for a post id.
// Returns ErrUnknownPost if the id is not indexed.
func (idx *SymbolIndex) Symbol(id string) (string, error) {
	sym, ok := idx.byID[strings.TrimSpace(id)]
	if !ok {
		return "", ErrUnknownPost
	}
	return sym, nil
}

// Len returns the number of indexed ids.
func (idx *SymbolIndex) Len() int {
	return len(idx.byID)
}

// NormalizeSymbol trims and upper-cases a ticker for case-insensitive matching.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
