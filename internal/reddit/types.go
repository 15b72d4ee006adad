package reddit

import (
	"strings"
	"time"

	"reddit-sentiment-lab/internal/domain"
)

// listingResponse is the envelope returned by listing and search endpoints.
// Data is a pointer so a payload without "data" can be told apart from an empty page.
type listingResponse struct {
	Data *listingData `json:"data"`
}

type listingData struct {
	Children []listingChild `json:"children"`
	After    *string        `json:"after"`
}

type listingChild struct {
	Kind string          `json:"kind"`
	Data listingPostData `json:"data"`
}

type listingPostData struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Selftext   string   `json:"selftext"`
	Author     *string  `json:"author"`
	Subreddit  string   `json:"subreddit"`
	Permalink  string   `json:"permalink"`
	URL        string   `json:"url"`
	CreatedUTC *float64 `json:"created_utc"`
}

// Page is one decoded listing page.
type Page struct {
	Posts []ListingPost
	After string // empty when the listing is exhausted
}

// ListingPost is one entry of a page, with sentinels already applied.
type ListingPost struct {
	ID        string
	Title     string // lowercased
	Selftext  string
	Author    string // domain.NotAvailable when absent
	CreatedAt *time.Time
	Subreddit string
}

// toListingPost normalizes a raw entry. A zero or missing created_utc is
// treated as unknown.
func toListingPost(d listingPostData) ListingPost {
	author := domain.NotAvailable
	if d.Author != nil && *d.Author != "" {
		author = *d.Author
	}

	var createdAt *time.Time
	if d.CreatedUTC != nil && *d.CreatedUTC != 0 {
		sec := int64(*d.CreatedUTC)
		ts := time.Unix(sec, 0).UTC()
		createdAt = &ts
	}

	return ListingPost{
		ID:        d.ID,
		Title:     strings.ToLower(d.Title),
		Selftext:  d.Selftext,
		Author:    author,
		CreatedAt: createdAt,
		Subreddit: d.Subreddit,
	}
}

// toPost attributes a listing entry to a tracked name.
func (p ListingPost) toPost(name, subreddit string) domain.Post {
	return domain.Post{
		Title:       p.Title,
		Author:      p.Author,
		CreatedAt:   p.CreatedAt,
		StockSymbol: name,
		Subreddit:   subreddit,
	}
}
