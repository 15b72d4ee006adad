package idhash

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// ComputeRecordID computes a deterministic id for a persisted scored post.
// Formula: SHA256(run_id|subreddit|stock|position|title)
// Posts have no stable identity in a listing crawl, so position within the
// (subreddit, stock) bucket is part of the key. Returns base58 of the digest.
func ComputeRecordID(runID, subreddit, stock string, position int, title string) string {
	data := fmt.Sprintf("%s|%s|%s|%d|%s",
		runID,
		strings.ToLower(subreddit),
		strings.ToLower(stock),
		position,
		title,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
