package domain

import (
	"fmt"
	"strconv"
)

// Label is a discrete sentiment category.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// String returns the string representation of Label.
func (l Label) String() string {
	return string(l)
}

// Policy selects which sentiment signal a scorer produces.
type Policy string

const (
	PolicyLabel      Policy = "label"      // polarity sign -> Label
	PolicyCompound   Policy = "compound"   // scalar in [-1, 1]
	PolicyComponents Policy = "components" // pos / neg / neu decomposition
)

// IsValid checks if the policy is known.
func (p Policy) IsValid() bool {
	return p == PolicyLabel || p == PolicyCompound || p == PolicyComponents
}

// Components is the pos / neg / neu decomposition of a text, summing to about 1.
type Components struct {
	Pos float64
	Neg float64
	Neu float64
}

// Category classifies by strict argmax. When no component is strictly greater
// than both others the result is neutral, so pos == neg > neu is neutral.
func (c Components) Category() Label {
	switch {
	case c.Pos > c.Neg && c.Pos > c.Neu:
		return LabelPositive
	case c.Neg > c.Pos && c.Neg > c.Neu:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Sentiment is the output of one scorer call. Only the field selected by
// Policy is meaningful.
type Sentiment struct {
	Policy     Policy
	Label      Label
	Compound   float64
	Components Components
}

// ScoredPost is a collected post with its sentiment.
type ScoredPost struct {
	Post
	Sentiment Sentiment
}

// ScoredIndexedPost is an indexed post with component scores.
type ScoredIndexedPost struct {
	IndexedPost
	Components Components
}

// String renders the signal selected by Policy: the label, the compound score,
// or the pos/neg/neu triplet.
func (s Sentiment) String() string {
	switch s.Policy {
	case PolicyCompound:
		return strconv.FormatFloat(s.Compound, 'f', 4, 64)
	case PolicyComponents:
		return fmt.Sprintf("pos=%.3f neg=%.3f neu=%.3f", s.Components.Pos, s.Components.Neg, s.Components.Neu)
	default:
		return string(s.Label)
	}
}
