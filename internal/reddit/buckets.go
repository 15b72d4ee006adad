package reddit

import (
	"strings"

	"reddit-sentiment-lab/internal/domain"
)

// Buckets holds the posts collected per tracked name.
// Names are lowercased and unique; Names() keeps first-seen order.
// A quota <= 0 means unlimited.
type Buckets struct {
	names []string
	posts map[string][]domain.Post
	quota int
}

// NewBuckets creates empty buckets for names.
func NewBuckets(names []string, quota int) *Buckets {
	b := &Buckets{
		names: NormalizeNames(names),
		quota: quota,
	}
	b.posts = make(map[string][]domain.Post, len(b.names))
	for _, n := range b.names {
		b.posts[n] = nil
	}
	return b
}

// NormalizeNames lowercases and trims names, dropping blanks and repeats.
// First-seen order is kept.
func NormalizeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// Names returns the tracked names in first-seen order.
func (b *Buckets) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Len returns the number of posts collected for name.
func (b *Buckets) Len(name string) int {
	return len(b.posts[name])
}

// Posts returns the posts collected for name in collection order.
func (b *Buckets) Posts(name string) []domain.Post {
	src := b.posts[name]
	out := make([]domain.Post, len(src))
	copy(out, src)
	return out
}

// Full reports whether name reached its quota. Always false when unlimited.
func (b *Buckets) Full(name string) bool {
	return b.quota > 0 && len(b.posts[name]) >= b.quota
}

// AllSatisfied reports whether every name reached its quota.
// With an unlimited quota it is false unless no names are tracked.
func (b *Buckets) AllSatisfied() bool {
	for _, n := range b.names {
		if !b.Full(n) {
			return false
		}
	}
	return true
}

// Add appends post to name's bucket unless the bucket is full or unknown.
func (b *Buckets) Add(name string, post domain.Post) bool {
	if _, ok := b.posts[name]; !ok || b.Full(name) {
		return false
	}
	b.posts[name] = append(b.posts[name], post)
	return true
}

// Total returns the number of posts across all buckets.
func (b *Buckets) Total() int {
	total := 0
	for _, n := range b.names {
		total += len(b.posts[n])
	}
	return total
}
