package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/news-search-engine/internal/analytics"
	"github.com/gcbaptista/news-search-engine/internal/ranking"
	"github.com/gcbaptista/news-search-engine/services"
)

// SearchRequest defines the structure for search queries, from a JSON body or the query string.
type SearchRequest struct {
	Query    string `json:"query" form:"query"`
	Category string `json:"category" form:"category"` // optional; auto-detected when empty
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
	SortBy   string `json:"sort_by" form:"sort_by"` // relevance, date or -date
}

// SearchResultItem is one ranked article of a search response.
type SearchResultItem struct {
	ArticleListItem
	SearchRank      float64 `json:"search_rank"`
	TitleSimilarity float64 `json:"title_similarity"`
	CombinedScore   float64 `json:"combined_score"`
}

// SearchResponse is the body returned by the search endpoint.
type SearchResponse struct {
	Query                      string             `json:"query"`
	DetectedCategory           *string            `json:"detected_category"`
	DetectedCategoryConfidence float64            `json:"detected_category_confidence"`
	TotalResults               int                `json:"total_results"`
	Page                       int                `json:"page"`
	PageSize                   int                `json:"page_size"`
	TotalPages                 int                `json:"total_pages"`
	ExecutionTimeMs            int64              `json:"execution_time_ms"`
	QueryID                    string             `json:"query_id,omitempty"`
	Results                    []SearchResultItem `json:"results"`
}

// SearchHandler handles GET (query string) and POST (JSON body) searches.
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest

	var bindResult *ValidationResult
	if c.Request.Method == http.MethodPost {
		bindResult = ValidateJSONBinding(c, &req)
	} else {
		bindResult = ValidateQueryBinding(c, &req)
	}
	if bindResult.HasErrors() {
		SendValidationError(c, bindResult)
		return
	}

	if result := ValidateSearchRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result, err := api.engine.Search().Search(c.Request.Context(), services.SearchQuery{
		Query:    req.Query,
		Category: req.Category,
		Page:     req.Page,
		PageSize: req.PageSize,
		SortBy:   ranking.SortOrder(req.SortBy),
		LogQuery: true,
	})
	if err != nil {
		_ = c.Error(err)
		SendSearchError(c, err)
		return
	}

	response := SearchResponse{
		Query:                      req.Query,
		DetectedCategoryConfidence: result.CategoryConfidence,
		TotalResults:               result.TotalCount,
		Page:                       req.Page,
		PageSize:                   req.PageSize,
		TotalPages:                 (result.TotalCount + req.PageSize - 1) / req.PageSize,
		ExecutionTimeMs:            result.ExecutionTimeMs,
		QueryID:                    result.QueryID,
		Results:                    make([]SearchResultItem, 0, len(result.Articles)),
	}
	if result.DetectedCategory != "" {
		response.DetectedCategory = &result.DetectedCategory
	}
	for _, hit := range result.Articles {
		response.Results = append(response.Results, SearchResultItem{
			ArticleListItem: api.toListItem(hit.Article),
			SearchRank:      hit.SearchRank,
			TitleSimilarity: hit.TitleSimilarity,
			CombinedScore:   hit.CombinedScore,
		})
	}

	c.JSON(http.StatusOK, response)
}

// SuggestionsHandler returns autocomplete suggestions for the partial query in q.
// An optional limit overrides the default of 5.
func (api *API) SuggestionsHandler(c *gin.Context) {
	limit := analytics.DefaultSuggestionLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPageSize {
			result := &ValidationResult{Valid: true}
			result.AddError("limit", "Limit must be between 1 and 100")
			SendValidationError(c, result)
			return
		}
		limit = parsed
	}

	suggestions, err := api.engine.Analytics().Suggestions(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		_ = c.Error(err)
		SendStoreError(c, "suggestions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
