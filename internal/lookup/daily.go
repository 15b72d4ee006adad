package lookup

import (
	"time"

	"reddit-sentiment-lab/internal/domain"
)

// DailyIndex resolves a UTC calendar day to its sentiment summary.
type DailyIndex struct {
	byDate map[time.Time]*domain.DailySentimentSummary
}

// NewDailyIndex indexes summaries by their calendar day.
func NewDailyIndex(summaries []*domain.DailySentimentSummary) *DailyIndex {
	idx := &DailyIndex{byDate: make(map[time.Time]*domain.DailySentimentSummary, len(summaries))}
	for _, s := range summaries {
		if s == nil {
			continue
		}
		idx.byDate[domain.DateOf(s.Date)] = s
	}
	return idx
}

// On returns the summary for the calendar day of t.
// Returns ErrNoDailyEntry when no posts fell on that day.
func (idx *DailyIndex) On(t time.Time) (*domain.DailySentimentSummary, error) {
	s, ok := idx.byDate[domain.DateOf(t)]
	if !ok {
		return nil, ErrNoDailyEntry
	}
	return s, nil
}

// Len returns the number of indexed days.
func (idx *DailyIndex) Len() int {
	return len(idx.byDate)
}
