package domain

import "time"

// NotAvailable is the sentinel stored for a missing author or timestamp.
const NotAvailable = "N/A"

// CreatedTimeLayout is the rendering of a post's creation time (UTC).
const CreatedTimeLayout = "2006-01-02 15:04:05"

// Post represents one collected Reddit post attributed to a tracked stock name.
// Identity is positional: the same submission may appear under several names.
type Post struct {
	Title       string     // lowercased title
	Author      string     // NotAvailable when the listing has no author
	CreatedAt   *time.Time // UTC creation time, nil when the listing has no timestamp
	StockSymbol string     // tracked name or ticker the post is attributed to
	Subreddit   string
}

// CreatedTime renders the creation time, or NotAvailable when unknown.
func (p Post) CreatedTime() string {
	if p.CreatedAt == nil {
		return NotAvailable
	}
	return p.CreatedAt.UTC().Format(CreatedTimeLayout)
}

// RawPost is one row of the posts table used for dataset preparation.
type RawPost struct {
	ID         string
	Title      string
	Selftext   string // empty when the source cell is empty
	Author     string
	Permalink  string
	URL        string
	CreatedUTC time.Time
	Subreddit  string
}

// StockIndexEntry maps a post id to the stock symbol it was indexed under.
type StockIndexEntry struct {
	ID          string
	StockSymbol string
	CreatedUTC  time.Time
}

// IndexedPost is a RawPost joined with its stock symbol.
type IndexedPost struct {
	ID          string
	StockSymbol string
	Title       string
	Selftext    string
	CreatedAt   time.Time
}
