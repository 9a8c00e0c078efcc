// Package api provides the HTTP API of the news search service.
package api

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/news-search-engine/internal/ranking"
)

const (
	maxQueryLength    = 500
	maxCategoryLength = 50
	defaultPageSize   = 20
	maxPageSize       = 100
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateSearchRequest checks a search request and applies its defaults.
// Page and page size of zero mean "not given". An empty sort_by means relevance;
// any other value must be relevance, date or -date.
func ValidateSearchRequest(req *SearchRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	req.Query = strings.Join(strings.Fields(req.Query), " ")
	req.Category = strings.TrimSpace(req.Category)

	switch {
	case req.Query == "":
		result.AddError("query", "Query is required")
	case utf8.RuneCountInString(req.Query) > maxQueryLength:
		result.AddError("query", "Query cannot be longer than 500 characters")
	}

	if utf8.RuneCountInString(req.Category) > maxCategoryLength {
		result.AddError("category", "Category cannot be longer than 50 characters")
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.Page < 1 {
		result.AddError("page", "Page number must be greater than 0")
	}

	if req.PageSize == 0 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize < 1 || req.PageSize > maxPageSize {
		result.AddError("page_size", "Page size must be between 1 and 100")
	}

	switch ranking.SortOrder(req.SortBy) {
	case "":
		req.SortBy = string(ranking.SortRelevance)
	case ranking.SortRelevance, ranking.SortDate, ranking.SortDateDesc:
	default:
		result.AddError("sort_by", "Sort must be one of relevance, date or -date")
	}

	return result
}

// ValidatePagination applies defaults to list pagination parameters
func ValidatePagination(page, pageSize int) (int, int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize, result
}

// ValidateArticleID validates an article ID path parameter
func ValidateArticleID(articleID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if articleID == "" {
		result.AddError("id", "Article ID is required")
		return result
	}

	if strings.TrimSpace(articleID) != articleID {
		result.AddError("id", "Article ID cannot have leading or trailing whitespace")
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}

// ValidateQueryBinding validates query parameter binding
func ValidateQueryBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindQuery(target); err != nil {
		result.AddError("query_parameters", "Invalid query parameters: "+err.Error())
	}

	return result
}
