package model

import (
	"strings"
	"time"
)

// KeywordScore is a keyword with its share of the surviving tokens of a text.
type KeywordScore struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// Entity type keys used in Entities.
const (
	EntityMoney         = "money"
	EntityPercentages   = "percentages"
	EntityOrganizations = "organizations"
)

// Entities maps an entity type to its deduplicated values. Types without matches are absent.
type Entities map[string][]string

// Article is a news article as stored by the article store.
// Only processed articles are visible to search.
type Article struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Content            string         `json:"content"`
	Summary            string         `json:"summary"`
	URL                string         `json:"url"`
	Author             string         `json:"author,omitempty"`
	ImageURL           string         `json:"image_url,omitempty"`
	Category           string         `json:"category,omitempty"`
	CategoryConfidence float64        `json:"category_confidence"`
	Keywords           []KeywordScore `json:"keywords"`
	Entities           Entities       `json:"entities"`
	PublishedAt        *time.Time     `json:"published_at,omitempty"`
	ScrapedAt          time.Time      `json:"scraped_at"`
	IsProcessed        bool           `json:"is_processed"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Text returns the combined title and content analysed by the processing pipeline.
func (a Article) Text() string {
	return a.Title + "\n\n" + a.Content
}

// KeywordTerms joins the article keywords into a single space separated string.
func (a Article) KeywordTerms() string {
	words := make([]string, len(a.Keywords))
	for i, kw := range a.Keywords {
		words[i] = kw.Word
	}
	return strings.Join(words, " ")
}

// Analysis holds the fields the processing pipeline derives from an article.
type Analysis struct {
	Category           string         `json:"category"`
	CategoryConfidence float64        `json:"category_confidence"`
	Keywords           []KeywordScore `json:"keywords"`
	Entities           Entities       `json:"entities"`
	Summary            string         `json:"summary"`
}

// ArticleFilter selects processed articles for listing endpoints.
type ArticleFilter struct {
	Category string
	Offset   int
	Limit    int
}

// ProcessingReport summarises one batch run of the processing pipeline.
type ProcessingReport struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Pending   int `json:"pending"`
}
