package reddit

import (
	"context"
	"strings"

	"reddit-sentiment-lab/internal/logger"
	"reddit-sentiment-lab/internal/observability"
)

// Crawl stop reasons.
const (
	StopQuota     = "quota"
	StopExhausted = "exhausted"
	StopError     = "error"
	StopMaxPages  = "max_pages"
	StopCancelled = "cancelled"
)

// PageFetcher fetches listing and search pages. *Client implements it.
type PageFetcher interface {
	Listing(ctx context.Context, subreddit, after string) (*Page, error)
	Search(ctx context.Context, subreddit, query, after string) (*Page, error)
}

var _ PageFetcher = (*Client)(nil)

// Collector walks paginated listings and buckets posts per tracked name.
type Collector struct {
	fetcher  PageFetcher
	maxPages int
	log      *logger.Logger
}

// CollectorOptions contains configuration for creating a Collector.
type CollectorOptions struct {
	Fetcher  PageFetcher
	MaxPages int // 0 = no page bound; the crawl still ends when the cursor runs out
	Logger   *logger.Logger
}

// NewCollector creates a new Collector.
func NewCollector(opts CollectorOptions) *Collector {
	return &Collector{
		fetcher:  opts.Fetcher,
		maxPages: opts.MaxPages,
		log:      logger.OrDefault(opts.Logger),
	}
}

// Collect scans r/{subreddit} for posts whose lowercased title contains a tracked
// name. A post is attributed to every name it contains. The crawl stops once all
// names reach quota, when the cursor runs out, or at the first failed page;
// whatever was collected so far is returned in every case.
func (c *Collector) Collect(ctx context.Context, subreddit string, names []string, quota int) *Buckets {
	b := NewBuckets(names, quota)
	log := c.log.With("subreddit", subreddit)

	after := ""
	pages := 0
	reason := StopQuota
	for !b.AllSatisfied() {
		if ctx.Err() != nil {
			reason = StopCancelled
			break
		}
		if c.maxPages > 0 && pages >= c.maxPages {
			reason = StopMaxPages
			break
		}

		page, err := c.fetcher.Listing(ctx, subreddit, after)
		pages++
		if err != nil {
			log.Warnw("listing crawl aborted", "page", pages, "collected", b.Total(), "error", err)
			reason = StopError
			break
		}

		c.attribute(b, page, subreddit)

		if page.After == "" {
			if !b.AllSatisfied() {
				reason = StopExhausted
			}
			break
		}
		after = page.After
	}

	observability.RecordCrawlStop(reason)
	log.Debugw("listing crawl finished", "pages", pages, "collected", b.Total(), "reason", reason)
	return b
}

// attribute matches every entry of page against the unfilled names.
func (c *Collector) attribute(b *Buckets, page *Page, subreddit string) {
	for _, entry := range page.Posts {
		for _, name := range b.names {
			if b.Full(name) || !strings.Contains(entry.Title, name) {
				continue
			}
			b.Add(name, entry.toPost(name, subreddit))
			observability.RecordPostCollected(subreddit)
		}
		if b.AllSatisfied() {
			return
		}
	}
}

// Search runs a keyword search per name restricted to r/{subreddit} and crawls
// each until its cursor runs out. There is no quota: every result returned by the
// search endpoint is attributed to the queried name. A failed page ends only that
// name's crawl.
func (c *Collector) Search(ctx context.Context, subreddit string, names []string) *Buckets {
	b := NewBuckets(names, 0)

	for _, name := range b.names {
		if ctx.Err() != nil {
			observability.RecordCrawlStop(StopCancelled)
			break
		}
		c.searchName(ctx, b, subreddit, name)
	}

	return b
}

func (c *Collector) searchName(ctx context.Context, b *Buckets, subreddit, name string) {
	log := c.log.With("subreddit", subreddit, "stock", name)

	after := ""
	pages := 0
	reason := StopExhausted
	for {
		if ctx.Err() != nil {
			reason = StopCancelled
			break
		}
		if c.maxPages > 0 && pages >= c.maxPages {
			reason = StopMaxPages
			break
		}

		page, err := c.fetcher.Search(ctx, subreddit, name, after)
		pages++
		if err != nil {
			log.Warnw("search crawl aborted", "page", pages, "collected", b.Len(name), "error", err)
			reason = StopError
			break
		}

		for _, entry := range page.Posts {
			b.Add(name, entry.toPost(name, subreddit))
			observability.RecordPostCollected(subreddit)
		}

		if page.After == "" {
			break
		}
		after = page.After
	}

	observability.RecordCrawlStop(reason)
	log.Debugw("search crawl finished", "pages", pages, "collected", b.Len(name), "reason", reason)
}
