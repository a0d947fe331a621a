package nlp

import (
	"github.com/jonreiter/govader"

	"review_insights/internal/domain"
)

const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Classify maps a compound score to a sentiment class. Both thresholds are inclusive.
func Classify(compound float64) domain.Sentiment {
	switch {
	case compound >= PositiveThreshold:
		return domain.Positive
	case compound <= NegativeThreshold:
		return domain.Negative
	default:
		return domain.Neutral
	}
}

// VaderScorer scores text with the VADER lexicon.
// Build it once at startup; the lexicon is loaded by the constructor.
type VaderScorer struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Compound(text string) float64 {
	return v.sia.PolarityScores(text).Compound
}
