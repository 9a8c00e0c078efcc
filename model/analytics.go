package model

// PopularSearch is an exact query string with the number of times it was logged.
type PopularSearch struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// CategoryStat holds the number of processed articles in a category.
type CategoryStat struct {
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	ArticleCount int    `json:"article_count"`
}

// SearchStats is the aggregate analytics payload served by the stats endpoint.
type SearchStats struct {
	PopularSearches []PopularSearch `json:"popular_searches"`
	CategoryStats   []CategoryStat  `json:"category_stats"`
	TotalArticles   int             `json:"total_articles"`
	TotalSearches   int             `json:"total_searches"`
}
