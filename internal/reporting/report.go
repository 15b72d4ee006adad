package reporting

import (
	"time"

	"reddit-sentiment-lab/internal/domain"
)

// Symbol statuses in a dataset report.
const (
	StatusWritten = "written"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// DatasetReport summarises one dataset preparation run.
type DatasetReport struct {
	GeneratedAt time.Time
	Window      domain.DateWindow
	Policy      domain.Policy
	Workers     int

	// Symbols in run order.
	Symbols []SymbolSummary

	PostsLoaded int
	PostsJoined int
	Unindexed   int

	Skipped []string
	Errors  []string
}

// SymbolSummary is one symbol's line in the dataset report.
type SymbolSummary struct {
	Symbol        string
	Status        string
	TradingDays   int
	DaysWithPosts int
	PostsScored   int
	PostsUsed     int
	DroppedDays   int
	FirstDate     time.Time
	LastDate      time.Time
	Artifact      string
}

// CollectionReport summarises one collection run.
type CollectionReport struct {
	GeneratedAt time.Time
	RunID       string
	Mode        string
	Policy      domain.Policy
	Subreddits  []string

	// Stocks lists per-stock counts in tracked-name order.
	Stocks []StockCount

	Stored  int
	Skipped []string
}

// StockCount is the number of posts collected for one tracked name.
type StockCount struct {
	Stock    string
	Posts    int
	Positive int
	Negative int
	Neutral  int
}
