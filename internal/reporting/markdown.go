package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// RenderDatasetMarkdown renders a dataset report as Markdown.
func RenderDatasetMarkdown(r *DatasetReport) string {
	var sb strings.Builder

	sb.WriteString("# Dataset Preparation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Window: %s .. %s | Policy: %s | Workers: %d\n\n",
		r.Window.Start.Format(time.DateOnly), r.Window.End.Format(time.DateOnly), r.Policy, r.Workers))

	sb.WriteString("## Posts\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Posts loaded | %s |\n", humanize.Comma(int64(r.PostsLoaded))))
	sb.WriteString(fmt.Sprintf("| Posts joined to a symbol | %s |\n", humanize.Comma(int64(r.PostsJoined))))
	sb.WriteString(fmt.Sprintf("| Posts without index entry | %s |\n", humanize.Comma(int64(r.Unindexed))))
	sb.WriteString("\n")

	sb.WriteString("## Symbols\n\n")
	if len(r.Symbols) == 0 {
		sb.WriteString("No symbols processed.\n\n")
	} else {
		sb.WriteString("| Symbol | Status | Trading Days | Days With Posts | Posts Scored | Posts Used | Dropped Days | Range |\n")
		sb.WriteString("|--------|--------|--------------|-----------------|--------------|------------|--------------|-------|\n")
		for _, s := range r.Symbols {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %d | %s |\n",
				s.Symbol,
				s.Status,
				humanize.Comma(int64(s.TradingDays)),
				humanize.Comma(int64(s.DaysWithPosts)),
				humanize.Comma(int64(s.PostsScored)),
				humanize.Comma(int64(s.PostsUsed)),
				s.DroppedDays,
				dateRange(s.FirstDate, s.LastDate),
			))
		}
		sb.WriteString("\n")
	}

	writeList(&sb, "Skipped", r.Skipped)
	writeList(&sb, "Errors", r.Errors)

	return sb.String()
}

// RenderCollectionMarkdown renders a collection report as Markdown.
func RenderCollectionMarkdown(r *CollectionReport) string {
	var sb strings.Builder

	sb.WriteString("# Collection Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Mode: %s | Policy: %s\n\n", r.RunID, r.Mode, r.Policy))
	sb.WriteString(fmt.Sprintf("Subreddits: %s\n\n", strings.Join(r.Subreddits, ", ")))

	var total int
	sb.WriteString("| Stock | Posts | Positive | Negative | Neutral |\n")
	sb.WriteString("|-------|-------|----------|----------|---------|\n")
	for _, s := range r.Stocks {
		total += s.Posts
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d |\n",
			s.Stock, humanize.Comma(int64(s.Posts)), s.Positive, s.Negative, s.Neutral))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total posts: %s | Stored: %s\n\n",
		humanize.Comma(int64(total)), humanize.Comma(int64(r.Stored))))

	writeList(&sb, "Skipped", r.Skipped)

	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s\n", item))
	}
	sb.WriteString("\n")
}

func dateRange(first, last time.Time) string {
	if first.IsZero() {
		return "-"
	}
	return first.Format(time.DateOnly) + " .. " + last.Format(time.DateOnly)
}
