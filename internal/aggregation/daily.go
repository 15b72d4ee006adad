package aggregation

import (
	"sort"
	"time"

	"reddit-sentiment-lab/internal/domain"
)

type dayAccumulator struct {
	sumPos, sumNeg, sumNeu float64
	counts                 map[domain.Label]int
	total                  int
}

// DailySummaries groups scored posts by the UTC calendar day of their
// timestamp. Per day it averages the components and derives category ratios
// from strict-argmax categories. Output is sorted by date.
func DailySummaries(symbol string, posts []domain.ScoredIndexedPost) []*domain.DailySentimentSummary {
	days := make(map[time.Time]*dayAccumulator)

	for _, p := range posts {
		day := domain.DateOf(p.CreatedAt)
		acc, ok := days[day]
		if !ok {
			acc = &dayAccumulator{counts: make(map[domain.Label]int, 3)}
			days[day] = acc
		}
		acc.sumPos += p.Components.Pos
		acc.sumNeg += p.Components.Neg
		acc.sumNeu += p.Components.Neu
		acc.counts[p.Components.Category()]++
		acc.total++
	}

	summaries := make([]*domain.DailySentimentSummary, 0, len(days))
	for day, acc := range days {
		n := float64(acc.total)
		summaries = append(summaries, &domain.DailySentimentSummary{
			StockSymbol:   symbol,
			Date:          day,
			AveragePos:    acc.sumPos / n,
			AverageNeg:    acc.sumNeg / n,
			AverageNeu:    acc.sumNeu / n,
			PositiveRatio: float64(acc.counts[domain.LabelPositive]) / n,
			NegativeRatio: float64(acc.counts[domain.LabelNegative]) / n,
			NeutralRatio:  float64(acc.counts[domain.LabelNeutral]) / n,
			TotalPosts:    acc.total,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date.Before(summaries[j].Date)
	})
	return summaries
}
