package processing

import (
	"strings"

	"github.com/gcbaptista/news-search-engine/internal/categorizer"
	"github.com/gcbaptista/news-search-engine/internal/extract"
	"github.com/gcbaptista/news-search-engine/model"
)

// summarySentences is the number of leading sentences used as a generated summary.
const summarySentences = 3

// Analyzer derives category, keywords, entities and a summary from an article.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	detector    *categorizer.Detector
	keywords    *extract.KeywordExtractor
	entities    *extract.EntityExtractor
	maxKeywords int
}

// NewAnalyzer creates an Analyzer. maxKeywords <= 0 selects extract.DefaultMaxKeywords.
func NewAnalyzer(detector *categorizer.Detector, entities *extract.EntityExtractor, maxKeywords int) (*Analyzer, error) {
	if detector == nil {
		return nil, ErrDetectorRequired
	}
	if entities == nil {
		entities = extract.NewEntityExtractor(extract.DefaultCompanies)
	}
	if maxKeywords <= 0 {
		maxKeywords = extract.DefaultMaxKeywords
	}
	return &Analyzer{
		detector:    detector,
		keywords:    extract.NewKeywordExtractor(),
		entities:    entities,
		maxKeywords: maxKeywords,
	}, nil
}

// Analyze runs the extraction pipeline over the title and content of a.
// Summary is only set when a has none.
func (an *Analyzer) Analyze(a model.Article) model.Analysis {
	text := a.Text()
	c := an.detector.Categorize(text)

	analysis := model.Analysis{
		Category:           c.Category,
		CategoryConfidence: c.Confidence,
		Keywords:           an.keywords.Extract(text, an.maxKeywords),
		Entities:           an.entities.Extract(text),
	}
	if strings.TrimSpace(a.Summary) == "" {
		analysis.Summary = Summarize(a.Content, a.Title)
	}
	return analysis
}

// Summarize returns the first sentences of content, split on periods.
// fallback is returned when content has no text.
func Summarize(content, fallback string) string {
	sentences := make([]string, 0, summarySentences)
	for _, s := range strings.Split(content, ".") {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		sentences = append(sentences, s)
		if len(sentences) == summarySentences {
			break
		}
	}
	if len(sentences) == 0 {
		return strings.TrimSpace(fallback)
	}
	return strings.Join(sentences, ". ") + "."
}
