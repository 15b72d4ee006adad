package reddit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakePost is one synthetic listing entry. Nil fields are omitted from the payload.
type fakePost struct {
	Title      string
	Author     *string
	CreatedUTC *float64
	Selftext   string
}

// listingServer serves pages in order; page i is returned for after="p{i}".
type listingServer struct {
	*httptest.Server
	requests atomic.Int64
	lastPath atomic.Value
}

func newListingServer(t *testing.T, pages [][]fakePost) *listingServer {
	t.Helper()

	ls := &listingServer{}
	ls.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ls.requests.Add(1)
		ls.lastPath.Store(r.URL.Path)

		idx := 0
		if after := r.URL.Query().Get("after"); after != "" {
			if _, err := fmt.Sscanf(after, "p%d", &idx); err != nil {
				t.Errorf("unexpected cursor %q", after)
			}
		}
		if idx >= len(pages) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		children := make([]map[string]interface{}, 0, len(pages[idx]))
		for _, p := range pages[idx] {
			data := map[string]interface{}{"title": p.Title, "selftext": p.Selftext}
			if p.Author != nil {
				data["author"] = *p.Author
			}
			if p.CreatedUTC != nil {
				data["created_utc"] = *p.CreatedUTC
			}
			children = append(children, map[string]interface{}{"kind": "t3", "data": data})
		}

		var after interface{}
		if idx+1 < len(pages) {
			after = fmt.Sprintf("p%d", idx+1)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"kind": "Listing",
			"data": map[string]interface{}{"children": children, "after": after},
		})
	}))
	t.Cleanup(ls.Close)
	return ls
}

func titles(prefix string, n int) []fakePost {
	out := make([]fakePost, n)
	author := "someone"
	created := 1609459200.0
	for i := range out {
		out[i] = fakePost{Title: fmt.Sprintf("%s post %d", prefix, i), Author: &author, CreatedUTC: &created}
	}
	return out
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
