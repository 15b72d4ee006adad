package domain

import (
	"testing"
	"time"
)

func TestComponents_Category(t *testing.T) {
	tests := []struct {
		name string
		c    Components
		want Label
	}{
		{"positive dominates", Components{Pos: 0.6, Neg: 0.1, Neu: 0.3}, LabelPositive},
		{"negative dominates", Components{Pos: 0.1, Neg: 0.5, Neu: 0.4}, LabelNegative},
		{"neutral dominates", Components{Pos: 0.1, Neg: 0.1, Neu: 0.8}, LabelNeutral},
		{"pos neg tie", Components{Pos: 0.5, Neg: 0.5, Neu: 0.0}, LabelNeutral},
		{"pos neu tie", Components{Pos: 0.45, Neg: 0.1, Neu: 0.45}, LabelNeutral},
		{"neg neu tie", Components{Pos: 0.0, Neg: 0.5, Neu: 0.5}, LabelNeutral},
		{"all zero", Components{}, LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Category(); got != tt.want {
				t.Errorf("Category() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPost_CreatedTime(t *testing.T) {
	p := Post{Title: "tesla"}
	if got := p.CreatedTime(); got != NotAvailable {
		t.Errorf("expected %q for missing timestamp, got %q", NotAvailable, got)
	}

	ts := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	p.CreatedAt = &ts
	if got := p.CreatedTime(); got != "2021-03-04 05:06:07" {
		t.Errorf("unexpected created time %q", got)
	}
}

func TestDateWindow_Contains(t *testing.T) {
	w := NewDateWindow(
		time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
	)

	if !w.Valid() {
		t.Fatal("expected valid window")
	}
	if !w.Contains(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("start day should be included")
	}
	if !w.Contains(time.Date(2020, 1, 3, 23, 59, 0, 0, time.UTC)) {
		t.Error("end day should be included regardless of time of day")
	}
	if w.Contains(time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC)) {
		t.Error("day after end should be excluded")
	}
	if w.Contains(time.Date(2019, 12, 31, 23, 59, 0, 0, time.UTC)) {
		t.Error("day before start should be excluded")
	}
}

func TestDateOf_ConvertsToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	got := DateOf(time.Date(2020, 1, 2, 21, 0, 0, 0, est))
	want := time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOf = %v, want %v", got, want)
	}
}

func TestSentiment_String(t *testing.T) {
	tests := []struct {
		s    Sentiment
		want string
	}{
		{Sentiment{Policy: PolicyLabel, Label: LabelNegative}, "negative"},
		{Sentiment{Policy: PolicyCompound, Compound: 0.42}, "0.4200"},
		{Sentiment{Policy: PolicyComponents, Components: Components{Pos: 0.5, Neg: 0.1, Neu: 0.4}}, "pos=0.500 neg=0.100 neu=0.400"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
