// Package sentiment scores post text with a lexicon analyzer.
package sentiment

import (
	"github.com/jonreiter/govader"
)

// Scores is the raw output of an analyzer.
type Scores struct {
	Pos      float64
	Neg      float64
	Neu      float64
	Compound float64
}

// Analyzer scores a single text. Implementations need not be safe for
// concurrent use; the Pool gives every worker its own instance.
type Analyzer interface {
	PolarityScores(text string) Scores
}

// AnalyzerFactory builds a fresh Analyzer.
type AnalyzerFactory func() Analyzer

// VaderAnalyzer adapts the VADER lexicon analyzer.
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVaderAnalyzer creates a new VADER analyzer instance.
func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// PolarityScores implements Analyzer.
func (v *VaderAnalyzer) PolarityScores(text string) Scores {
	s := v.sia.PolarityScores(text)
	return Scores{
		Pos:      s.Positive,
		Neg:      s.Negative,
		Neu:      s.Neutral,
		Compound: s.Compound,
	}
}

// VaderFactory is the default AnalyzerFactory.
func VaderFactory() Analyzer {
	return NewVaderAnalyzer()
}

var _ Analyzer = (*VaderAnalyzer)(nil)
