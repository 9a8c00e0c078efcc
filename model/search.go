package model

import "time"

// ArticleHit is an article matched by a search together with its ranking signals.
type ArticleHit struct {
	Article         Article `json:"article"`
	SearchRank      float64 `json:"search_rank"`
	TitleSimilarity float64 `json:"title_similarity"`
	CombinedScore   float64 `json:"combined_score"`
}

// SearchResult is one page of a search.
type SearchResult struct {
	Articles           []ArticleHit `json:"articles"`
	TotalCount         int          `json:"total_count"`
	DetectedCategory   string       `json:"detected_category,omitempty"`
	CategoryConfidence float64      `json:"category_confidence"`
	ExecutionTimeMs    int64        `json:"execution_time_ms"`
	QueryID            string       `json:"query_id,omitempty"`
}

// SearchLogEntry is an append-only record of an executed search.
type SearchLogEntry struct {
	ID               string    `json:"id"`
	Query            string    `json:"query"`
	DetectedCategory string    `json:"detected_category,omitempty"`
	ResultsCount     int       `json:"results_count"`
	ExecutionTimeMs  int64     `json:"execution_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}
