package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/logger"
)

func newTestCollector(url string, maxPages int) *Collector {
	return NewCollector(CollectorOptions{
		Fetcher:  NewClient(url),
		MaxPages: maxPages,
		Logger:   logger.Nop(),
	})
}

func TestCollect_QuotaCapsEachName(t *testing.T) {
	// 7 tesla posts and 4 apple posts spread over two pages.
	pages := [][]fakePost{
		append(titles("Tesla", 5), titles("apple", 2)...),
		append(titles("TESLA", 2), titles("Apple", 2)...),
	}

	tests := []struct {
		name      string
		quota     int
		wantTesla int
		wantApple int
	}{
		{"quota below counts", 3, 3, 3},
		{"quota between counts", 5, 5, 4},
		{"quota above counts", 50, 7, 4},
		{"no quota", 0, 7, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newListingServer(t, pages)
			b := newTestCollector(server.URL, 0).Collect(context.Background(), "stocks", []string{"tesla", "apple"}, tt.quota)

			assert.Equal(t, tt.wantTesla, b.Len("tesla"))
			assert.Equal(t, tt.wantApple, b.Len("apple"))
		})
	}
}

func TestCollect_StopsWhenAllQuotasMet(t *testing.T) {
	pages := [][]fakePost{titles("tesla", 3), titles("tesla", 3), titles("tesla", 3)}
	server := newListingServer(t, pages)

	b := newTestCollector(server.URL, 0).Collect(context.Background(), "stocks", []string{"tesla"}, 2)

	assert.Equal(t, 2, b.Len("tesla"))
	assert.Equal(t, int64(1), server.requests.Load(), "no further page after quota is met")
}

func TestCollect_TerminatesOnNullCursor(t *testing.T) {
	pages := [][]fakePost{titles("nothing", 2), titles("nothing", 2), titles("nothing", 1)}
	server := newListingServer(t, pages)

	b := newTestCollector(server.URL, 0).Collect(context.Background(), "stocks", []string{"tesla"}, 10)

	assert.Equal(t, 0, b.Len("tesla"))
	assert.Equal(t, int64(3), server.requests.Load())
}

func TestCollect_MaxPagesBound(t *testing.T) {
	pages := [][]fakePost{titles("x", 1), titles("x", 1), titles("x", 1), titles("x", 1)}
	server := newListingServer(t, pages)

	newTestCollector(server.URL, 2).Collect(context.Background(), "stocks", []string{"tesla"}, 0)
	assert.Equal(t, int64(2), server.requests.Load())
}

func TestCollect_MultiNameAttribution(t *testing.T) {
	pages := [][]fakePost{{
		{Title: "Apple vs Tesla earnings"},
		{Title: "just apple"},
	}}
	server := newListingServer(t, pages)

	b := newTestCollector(server.URL, 0).Collect(context.Background(), "stocks", []string{"Tesla", "APPLE"}, 0)

	require.Equal(t, []string{"tesla", "apple"}, b.Names())
	assert.Equal(t, 1, b.Len("tesla"))
	assert.Equal(t, 2, b.Len("apple"))

	teslaPost := b.Posts("tesla")[0]
	assert.Equal(t, "apple vs tesla earnings", teslaPost.Title)
	assert.Equal(t, "tesla", teslaPost.StockSymbol)
	assert.Equal(t, "stocks", teslaPost.Subreddit)
	assert.Equal(t, "apple", b.Posts("apple")[0].StockSymbol)
}

func TestCollect_SentinelsForMissingFields(t *testing.T) {
	pages := [][]fakePost{{
		{Title: "tesla without metadata"},
		{Title: "tesla zero timestamp", Author: strPtr("amy"), CreatedUTC: floatPtr(0)},
		{Title: "tesla with metadata", Author: strPtr("amy"), CreatedUTC: floatPtr(1577836800)},
	}}
	server := newListingServer(t, pages)

	b := newTestCollector(server.URL, 0).Collect(context.Background(), "stocks", []string{"tesla"}, 0)
	posts := b.Posts("tesla")
	require.Len(t, posts, 3)

	assert.Equal(t, domain.NotAvailable, posts[0].Author)
	assert.Equal(t, domain.NotAvailable, posts[0].CreatedTime())
	assert.Equal(t, domain.NotAvailable, posts[1].CreatedTime())
	assert.Equal(t, "amy", posts[2].Author)
	assert.Equal(t, "2020-01-01 00:00:00", posts[2].CreatedTime())
}

func TestCollect_ErrorReturnsPartialResults(t *testing.T) {
	tests := []struct {
		name       string
		secondPage func(w http.ResponseWriter)
	}{
		{"server error", func(w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) }},
		{"malformed payload", func(w http.ResponseWriter) { w.Write([]byte(`{"data":`)) }},
		{"empty payload", func(w http.ResponseWriter) { w.Write([]byte(`{}`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				if r.URL.Query().Get("after") == "" {
					w.Write([]byte(`{"data":{"children":[{"data":{"title":"tesla one"}},{"data":{"title":"tesla two"}}],"after":"t3_2"}}`))
					return
				}
				tt.secondPage(w)
			}))
			defer server.Close()

			b := newTestCollector(server.URL, 0).Collect(context.Background(), "stocks", []string{"tesla"}, 10)
			assert.Equal(t, 2, b.Len("tesla"))
			assert.Equal(t, 2, requests, "failed page is not retried")
		})
	}
}

func TestCollect_NoNamesFetchesNothing(t *testing.T) {
	server := newListingServer(t, [][]fakePost{titles("tesla", 2)})

	b := newTestCollector(server.URL, 0).Collect(context.Background(), "stocks", nil, 5)
	assert.Equal(t, 0, b.Total())
	assert.Equal(t, int64(0), server.requests.Load())
}

func TestSearch_CrawlsEachNameUntilExhausted(t *testing.T) {
	server := newListingServer(t, [][]fakePost{titles("a", 2), titles("b", 3)})

	b := newTestCollector(server.URL, 0).Search(context.Background(), "stocks", []string{"tesla", "apple"})

	// Search results are attributed without title matching.
	assert.Equal(t, 5, b.Len("tesla"))
	assert.Equal(t, 5, b.Len("apple"))
	assert.Equal(t, int64(4), server.requests.Load())
	assert.Equal(t, "/r/stocks/search.json", server.lastPath.Load())
}

func TestNormalizeNames(t *testing.T) {
	got := NormalizeNames([]string{"Tesla", " apple ", "", "TESLA", "nvidia", "Apple"})
	assert.Equal(t, []string{"tesla", "apple", "nvidia"}, got)

	b := NewBuckets([]string{"Tesla", "tesla"}, 1)
	assert.Equal(t, []string{"tesla"}, b.Names())
	assert.True(t, b.Add("tesla", domain.Post{Title: "tesla"}))
	assert.True(t, b.AllSatisfied())
}
