// Package extract derives keywords and named entities from article text.
package extract

import (
	"math"
	"sort"

	"github.com/gcbaptista/news-search-engine/internal/tokenizer"
	"github.com/gcbaptista/news-search-engine/model"
)

// DefaultMaxKeywords is the number of keywords kept per article.
const DefaultMaxKeywords = 10

// KeywordExtractor ranks the non-stopword words of a text by frequency.
type KeywordExtractor struct{}

// NewKeywordExtractor creates a keyword extractor.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// Extract returns at most max keywords ordered by count, ties broken by first appearance.
// Each score is the keyword's share of all surviving words, rounded to four decimals.
func (e *KeywordExtractor) Extract(text string, max int) []model.KeywordScore {
	if max <= 0 {
		return []model.KeywordScore{}
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	total := 0
	for _, w := range tokenizer.Words(text) {
		if tokenizer.IsStopword(w) {
			continue
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
		total++
	}
	if total == 0 {
		return []model.KeywordScore{}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > max {
		order = order[:max]
	}

	keywords := make([]model.KeywordScore, len(order))
	for i, w := range order {
		keywords[i] = model.KeywordScore{
			Word:  w,
			Score: math.Round(float64(counts[w])/float64(total)*10000) / 10000,
		}
	}
	return keywords
}
