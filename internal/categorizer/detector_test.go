package categorizer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/news-search-engine/internal/lexicon"
	"github.com/gcbaptista/news-search-engine/model"
)

func newTestDetector() *Detector {
	return NewDetector(lexicon.Default())
}

func TestCategorize(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name string
		text string
		want model.Categorization
	}{
		{"empty text", "", model.Categorization{Category: "economy", Confidence: 0}},
		{"whitespace text", "   \n\t", model.Categorization{Category: "economy", Confidence: 0}},
		{"no keyword matches", "The quick brown fox jumps over the lazy dog", model.Categorization{Category: "economy", Confidence: 0.3}},
		{"three economy matches saturate", "Inflation slows economic growth", model.Categorization{Category: "economy", Confidence: 1.0}},
		{"two health matches", "A new cancer treatment", model.Categorization{Category: "health", Confidence: 0.67}},
		{"ambiguous text is penalised", "Inflation and GDP weigh on oil", model.Categorization{Category: "economy", Confidence: 0.53}},
		{"tie prefers earlier category", "oil and hospital", model.Categorization{Category: "market", Confidence: 0.2}},
		{"tie between economy and technology", "inflation software", model.Categorization{Category: "economy", Confidence: 0.2}},
		{"repeated keyword counts once", "stock stock stock", model.Categorization{Category: "market", Confidence: 0.33}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Categorize(tt.text)
			if got != tt.want {
				t.Errorf("Categorize(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectFromQuery(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		query string
		want  model.Categorization
	}{
		{"", model.Categorization{}},
		{"   ", model.Categorization{}},
		{"weather today", model.Categorization{}},
		{"stock market rally", model.Categorization{Category: "market", Confidence: 1.0}},
		{"inflation economic growth", model.Categorization{Category: "economy", Confidence: 1.0}},
		{"new cancer treatment", model.Categorization{Category: "health", Confidence: 0.67}},
		{"apple", model.Categorization{Category: "technology", Confidence: 0.33}},
		{"oil hospital", model.Categorization{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := d.DetectFromQuery(tt.query)
			if got != tt.want {
				t.Errorf("DetectFromQuery(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestCategorize_ConfidenceBounds(t *testing.T) {
	d := newTestDetector()

	texts := []string{
		"gdp inflation recession oil gold silver hospital vaccine chip cloud factory steel",
		"market market market",
		"AI cloud chip software hardware Nvidia GPU",
		"economy",
	}

	for _, text := range texts {
		got := d.Categorize(text)
		assert.GreaterOrEqual(t, got.Confidence, 0.0, text)
		assert.LessOrEqual(t, got.Confidence, 1.0, text)
		assert.NotEmpty(t, got.Category, text)
	}
}

func TestDetectFromQuery_NeverBelowThreshold(t *testing.T) {
	d := newTestDetector()

	queries := []string{"oil hospital", "chip vaccine", "apple", "gold", "rate cut fed inflation oil"}
	for _, q := range queries {
		got := d.DetectFromQuery(q)
		if got.Detected() {
			assert.GreaterOrEqual(t, got.Confidence, 0.3, q)
		} else {
			assert.Equal(t, 0.0, got.Confidence, q)
		}
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	d := newTestDetector()
	text := "Tesla shares rally as EV production rises and inflation cools"

	first := d.Categorize(text)

	var wg sync.WaitGroup
	results := make([]model.Categorization, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = d.Categorize(text)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, first, r, fmt.Sprintf("run %d", i))
	}
}

func TestWithTuning(t *testing.T) {
	d := NewDetector(lexicon.Default(), WithTuning(Tuning{SaturationMatches: 1, QueryThreshold: 0.9}))

	assert.Equal(t, 1.2, d.Tuning().AmbiguityFactor)
	assert.Equal(t, model.Categorization{Category: "technology", Confidence: 1.0}, d.DetectFromQuery("apple"))
	assert.Equal(t, model.Categorization{}, d.DetectFromQuery("oil hospital"))
}
