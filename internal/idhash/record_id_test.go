package idhash

import (
	"testing"

	"github.com/mr-tron/base58"
)

func TestComputeRecordID(t *testing.T) {
	tests := []struct {
		name      string
		runID     string
		subreddit string
		stock     string
		position  int
		title     string
	}{
		{"first post", "run-1", "stocks", "tesla", 0, "tesla earnings beat"},
		{"later post", "run-1", "stocks", "tesla", 14, "tesla recall"},
		{"search mode", "run-2", "WallStreetBets", "gamestop", 3, "gme squeeze"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ComputeRecordID(tt.runID, tt.subreddit, tt.stock, tt.position, tt.title)

			decoded, err := base58.Decode(id)
			if err != nil {
				t.Fatalf("id is not base58: %v", err)
			}
			if len(decoded) != 32 {
				t.Errorf("expected 32-byte digest, got %d", len(decoded))
			}

			if again := ComputeRecordID(tt.runID, tt.subreddit, tt.stock, tt.position, tt.title); again != id {
				t.Errorf("not deterministic: %s != %s", id, again)
			}
		})
	}
}

func TestComputeRecordID_Distinct(t *testing.T) {
	base := ComputeRecordID("run", "stocks", "apple", 0, "apple")

	variants := map[string]string{
		"run":       ComputeRecordID("run2", "stocks", "apple", 0, "apple"),
		"subreddit": ComputeRecordID("run", "investing", "apple", 0, "apple"),
		"stock":     ComputeRecordID("run", "stocks", "nvidia", 0, "apple"),
		"position":  ComputeRecordID("run", "stocks", "apple", 1, "apple"),
		"title":     ComputeRecordID("run", "stocks", "apple", 0, "apple pie"),
	}
	for field, id := range variants {
		if id == base {
			t.Errorf("changing %s did not change the id", field)
		}
	}
}

func TestComputeRecordID_CaseInsensitiveNames(t *testing.T) {
	a := ComputeRecordID("run", "Stocks", "Tesla", 2, "t")
	b := ComputeRecordID("run", "stocks", "tesla", 2, "t")
	if a != b {
		t.Errorf("subreddit and stock should be case-insensitive: %s != %s", a, b)
	}
}
