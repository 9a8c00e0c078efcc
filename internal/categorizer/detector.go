// Package categorizer assigns news text to one of the lexicon categories by keyword matching.
package categorizer

import (
	"math"
	"strings"

	"github.com/gcbaptista/news-search-engine/internal/lexicon"
	"github.com/gcbaptista/news-search-engine/model"
)

// Tuning holds the constants of the confidence formula.
type Tuning struct {
	// SaturationMatches is the number of distinct keyword matches that yields full confidence.
	SaturationMatches float64 `yaml:"saturation_matches"`
	// AmbiguityFactor scales the winner's share when other categories also matched.
	AmbiguityFactor float64 `yaml:"ambiguity_factor"`
	// QueryThreshold is the minimum confidence for a query to be assigned a category.
	QueryThreshold float64 `yaml:"query_threshold"`
	// DefaultCategory is returned for article text without any keyword match.
	DefaultCategory string `yaml:"default_category"`
	// DefaultConfidence is the confidence paired with DefaultCategory.
	DefaultConfidence float64 `yaml:"default_confidence"`
}

// DefaultTuning returns the production constants.
func DefaultTuning() Tuning {
	return Tuning{
		SaturationMatches: 3,
		AmbiguityFactor:   1.2,
		QueryThreshold:    0.3,
		DefaultCategory:   lexicon.Economy,
		DefaultConfidence: 0.3,
	}
}

// Detector scores text against the lexicon. It holds no mutable state and is safe for concurrent use.
type Detector struct {
	lexicon *lexicon.Lexicon
	tuning  Tuning
}

// Option configures a Detector.
type Option func(*Detector)

// WithTuning overrides the confidence constants. Zero fields keep their defaults.
func WithTuning(t Tuning) Option {
	return func(d *Detector) {
		if t.SaturationMatches > 0 {
			d.tuning.SaturationMatches = t.SaturationMatches
		}
		if t.AmbiguityFactor > 0 {
			d.tuning.AmbiguityFactor = t.AmbiguityFactor
		}
		if t.QueryThreshold > 0 {
			d.tuning.QueryThreshold = t.QueryThreshold
		}
		if t.DefaultCategory != "" {
			d.tuning.DefaultCategory = t.DefaultCategory
		}
		if t.DefaultConfidence > 0 {
			d.tuning.DefaultConfidence = t.DefaultConfidence
		}
	}
}

// NewDetector creates a detector over a compiled lexicon.
func NewDetector(lex *lexicon.Lexicon, opts ...Option) *Detector {
	d := &Detector{lexicon: lex, tuning: DefaultTuning()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tuning returns the constants in effect.
func (d *Detector) Tuning() Tuning {
	return d.tuning
}

// Categorize assigns article text to a category. It always returns a category:
// blank text yields the default category with zero confidence, text without any
// keyword match yields the default category with the default confidence.
func (d *Detector) Categorize(text string) model.Categorization {
	if strings.TrimSpace(text) == "" {
		return model.Categorization{Category: d.tuning.DefaultCategory, Confidence: 0}
	}

	result, matched := d.score(text)
	if !matched {
		return model.Categorization{Category: d.tuning.DefaultCategory, Confidence: d.tuning.DefaultConfidence}
	}
	return result
}

// DetectFromQuery infers a category from a search query. Unlike Categorize it
// returns no category when nothing matched or confidence is below the query threshold.
func (d *Detector) DetectFromQuery(query string) model.Categorization {
	if strings.TrimSpace(query) == "" {
		return model.Categorization{}
	}

	result, matched := d.score(query)
	if !matched || result.Confidence < d.tuning.QueryThreshold {
		return model.Categorization{}
	}
	return result
}

func (d *Detector) score(text string) (model.Categorization, bool) {
	counts := d.lexicon.UniqueMatches(text)
	names := d.lexicon.Names()

	best, total := -1, 0
	for i, c := range counts {
		total += c
		// strict comparison keeps the earliest category on ties
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return model.Categorization{}, false
	}

	maxScore := float64(counts[best])
	confidence := math.Min(maxScore/d.tuning.SaturationMatches, 1.0)
	if float64(total) > maxScore {
		confidence *= (maxScore / float64(total)) * d.tuning.AmbiguityFactor
		confidence = math.Min(confidence, 1.0)
	}

	return model.Categorization{
		Category:   names[best],
		Confidence: math.Round(confidence*100) / 100,
	}, true
}
