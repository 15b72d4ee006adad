package aggregation

import (
	"errors"
	"sort"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/lookup"
)

// JoinResult is the inner join of the posts table with the stock index.
type JoinResult struct {
	Posts []domain.IndexedPost

	// Unindexed counts post rows whose id has no stock index entry.
	Unindexed int
}

// JoinPosts attributes posts to symbols through the id index.
// The timestamp comes from the post row. Output is sorted by (symbol, created_at);
// ties keep file order.
func JoinPosts(posts []domain.RawPost, index *lookup.SymbolIndex) JoinResult {
	var res JoinResult

	for _, p := range posts {
		sym, err := index.Symbol(p.ID)
		if err != nil {
			if errors.Is(err, lookup.ErrUnknownPost) {
				res.Unindexed++
			}
			continue
		}
		res.Posts = append(res.Posts, domain.IndexedPost{
			ID:          p.ID,
			StockSymbol: sym,
			Title:       p.Title,
			Selftext:    p.Selftext,
			CreatedAt:   p.CreatedUTC.UTC(),
		})
	}

	sort.SliceStable(res.Posts, func(i, j int) bool {
		a, b := res.Posts[i], res.Posts[j]
		if a.StockSymbol != b.StockSymbol {
			return a.StockSymbol < b.StockSymbol
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return res
}

// ForSymbol returns the posts attributed to symbol, compared case-insensitively.
func ForSymbol(posts []domain.IndexedPost, symbol string) []domain.IndexedPost {
	want := lookup.NormalizeSymbol(symbol)
	var out []domain.IndexedPost
	for _, p := range posts {
		if lookup.NormalizeSymbol(p.StockSymbol) == want {
			out = append(out, p)
		}
	}
	return out
}
