// Package search plans and executes article searches: it resolves the category,
// builds a ranking.Plan for the article store and logs the executed query.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gcbaptista/news-search-engine/internal/categorizer"
	"github.com/gcbaptista/news-search-engine/internal/ranking"
	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxLoggedQueryLength is the number of characters of a query kept in the search log.
	MaxLoggedQueryLength = 500
)

// Service implements the search query planner.
type Service struct {
	articles services.ArticleSearcher
	logs     services.SearchLogStore
	detector *categorizer.Detector

	weights         ranking.Weights
	thresholds      ranking.Thresholds
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
	now             func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithWeights overrides the combined score weights.
func WithWeights(w ranking.Weights) Option {
	return func(s *Service) { s.weights = w }
}

// WithThresholds overrides the match thresholds.
func WithThresholds(t ranking.Thresholds) Option {
	return func(s *Service) { s.thresholds = t }
}

// WithPageSizes sets the page size used when none is requested and the upper bound.
func WithPageSizes(defaultSize, maxSize int) Option {
	return func(s *Service) {
		if defaultSize > 0 {
			s.defaultPageSize = defaultSize
		}
		if maxSize > 0 {
			s.maxPageSize = maxSize
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to measure execution time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a search Service. logs may be nil when no query is ever logged.
func NewService(articles services.ArticleSearcher, logs services.SearchLogStore, detector *categorizer.Detector, opts ...Option) (*Service, error) {
	if articles == nil {
		return nil, fmt.Errorf("article store cannot be nil")
	}
	if detector == nil {
		return nil, fmt.Errorf("category detector cannot be nil")
	}

	s := &Service{
		articles:        articles,
		logs:            logs,
		detector:        detector,
		weights:         ranking.DefaultWeights(),
		thresholds:      ranking.DefaultThresholds(),
		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
		logger:          slog.Default(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "search")
	return s, nil
}

// NormalizeQuery collapses whitespace runs to single spaces and trims the result.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

// Search executes query. Only failures of the article store are returned;
// search-log failures are logged and the result is returned regardless.
func (s *Service) Search(ctx context.Context, query services.SearchQuery) (model.SearchResult, error) {
	cleaned := NormalizeQuery(query.Query)
	if cleaned == "" {
		return model.SearchResult{Articles: []model.ArticleHit{}}, nil
	}

	start := s.now()

	categorization := model.Categorization{Category: query.Category, Confidence: 1.0}
	if query.Category == "" {
		categorization = s.detector.DetectFromQuery(cleaned)
	}

	page, pageSize := s.window(query.Page, query.PageSize)
	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = ranking.SortRelevance
	}

	plan := ranking.Plan{
		Query:      cleaned,
		Category:   categorization.Category,
		Sort:       sortBy,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
		Weights:    s.weights,
		Thresholds: s.thresholds,
	}

	found, err := s.articles.Search(ctx, plan)
	if err != nil {
		return model.SearchResult{}, fmt.Errorf("search articles: %w", err)
	}

	result := model.SearchResult{
		Articles:           found.Hits,
		TotalCount:         found.Total,
		DetectedCategory:   categorization.Category,
		CategoryConfidence: categorization.Confidence,
		ExecutionTimeMs:    s.now().Sub(start).Milliseconds(),
	}
	if result.Articles == nil {
		result.Articles = []model.ArticleHit{}
	}

	if query.LogQuery {
		result.QueryID = s.logQuery(ctx, query.Query, result)
	}
	return result, nil
}

// window resolves the 1-based page number and the page size.
func (s *Service) window(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return page, pageSize
}

// logQuery appends the search log entry and returns its ID, or "" when it could not be written.
func (s *Service) logQuery(ctx context.Context, original string, result model.SearchResult) string {
	if s.logs == nil {
		return ""
	}

	entry := model.SearchLogEntry{
		ID:               uuid.NewString(),
		Query:            truncate(original, MaxLoggedQueryLength),
		DetectedCategory: result.DetectedCategory,
		ResultsCount:     result.TotalCount,
		ExecutionTimeMs:  result.ExecutionTimeMs,
		CreatedAt:        s.now(),
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to log search query", "query", entry.Query, "error", err)
		return ""
	}
	return entry.ID
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
