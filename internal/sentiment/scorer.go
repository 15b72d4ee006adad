package sentiment

import (
	"errors"
	"fmt"

	"reddit-sentiment-lab/internal/domain"
)

// ErrUnknownPolicy is returned for a policy name that has no scorer.
var ErrUnknownPolicy = errors.New("unknown sentiment policy")

// Scorer maps one text to a Sentiment. Scoring the same text twice yields
// the same result.
type Scorer interface {
	Policy() domain.Policy
	Score(text string) domain.Sentiment
}

// NewScorer returns the scorer for policy, backed by analyzer.
func NewScorer(policy domain.Policy, analyzer Analyzer) (Scorer, error) {
	switch policy {
	case domain.PolicyLabel:
		return &LabelScorer{analyzer: analyzer}, nil
	case domain.PolicyCompound:
		return &CompoundScorer{analyzer: analyzer}, nil
	case domain.PolicyComponents:
		return &ComponentScorer{analyzer: analyzer}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}

// LabelScorer turns the sign of the polarity into a three-way label.
type LabelScorer struct {
	analyzer Analyzer
}

func (s *LabelScorer) Policy() domain.Policy { return domain.PolicyLabel }

// Score implements Scorer.
func (s *LabelScorer) Score(text string) domain.Sentiment {
	return domain.Sentiment{
		Policy: domain.PolicyLabel,
		Label:  LabelFromPolarity(s.analyzer.PolarityScores(text).Compound),
	}
}

// LabelFromPolarity maps > 0 to positive, 0 to neutral and < 0 to negative.
func LabelFromPolarity(polarity float64) domain.Label {
	switch {
	case polarity > 0:
		return domain.LabelPositive
	case polarity == 0:
		return domain.LabelNeutral
	default:
		return domain.LabelNegative
	}
}

// CompoundScorer keeps the normalized compound score in [-1, 1].
type CompoundScorer struct {
	analyzer Analyzer
}

func (s *CompoundScorer) Policy() domain.Policy { return domain.PolicyCompound }

// Score implements Scorer.
func (s *CompoundScorer) Score(text string) domain.Sentiment {
	return domain.Sentiment{
		Policy:   domain.PolicyCompound,
		Compound: clamp(s.analyzer.PolarityScores(text).Compound),
	}
}

// ComponentScorer keeps the pos / neg / neu decomposition.
type ComponentScorer struct {
	analyzer Analyzer
}

func (s *ComponentScorer) Policy() domain.Policy { return domain.PolicyComponents }

// Score implements Scorer.
func (s *ComponentScorer) Score(text string) domain.Sentiment {
	sc := s.analyzer.PolarityScores(text)
	return domain.Sentiment{
		Policy:     domain.PolicyComponents,
		Components: domain.Components{Pos: sc.Pos, Neg: sc.Neg, Neu: sc.Neu},
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// ComposeText joins a title and body with ". ". The body is always appended,
// so an empty body yields "title. ".
func ComposeText(title, body string) string {
	return title + ". " + body
}
