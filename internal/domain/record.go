package domain

import "time"

// Stock is a row of the stocks table. Scored posts may only be persisted
// for stocks that exist there.
type Stock struct {
	ID     int64
	Name   string // tracked name, lowercase
	Ticker *string
}

// SentimentRecord is a persisted scored post.
// Corresponds to sentiment_records table in PostgreSQL.
type SentimentRecord struct {
	RecordID  string // deterministic hash, see idhash
	RunID     string
	StockID   int64
	Subreddit string
	Author    string
	PostedAt  *time.Time
	Sentiment string // label, or formatted compound score
	Text      string
	CreatedAt int64 // record creation timestamp (ms)
}
