// Package analytics serves query suggestions and usage statistics from the
// search log and the article store.
package analytics

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/gcbaptista/news-search-engine/internal/lexicon"
	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
)

const (
	// MinSuggestionPrefix is the shortest partial query that yields suggestions.
	MinSuggestionPrefix = 2
	// MaxSuggestionLength is the number of characters kept of an article title suggestion.
	MaxSuggestionLength = 100

	DefaultSuggestionLimit = 5
	DefaultPopularLimit    = 10
)

// ArticleStats is the part of the article store analytics reads from.
type ArticleStats interface {
	TitlesContaining(ctx context.Context, partial string, limit int) ([]string, error)
	services.ArticleCounter
}

// Service implements search analytics
type Service struct {
	articles ArticleStats
	logs     services.SearchLogStore
	lexicon  *lexicon.Lexicon
}

// NewService creates a new analytics service
func NewService(articles ArticleStats, logs services.SearchLogStore, lex *lexicon.Lexicon) (*Service, error) {
	if articles == nil {
		return nil, fmt.Errorf("article store cannot be nil")
	}
	if logs == nil {
		return nil, fmt.Errorf("search log store cannot be nil")
	}
	if lex == nil {
		return nil, fmt.Errorf("lexicon cannot be nil")
	}
	return &Service{articles: articles, logs: logs, lexicon: lex}, nil
}

// Suggestions completes a partial query. Previously logged queries come first,
// then titles of processed articles not already suggested.
func (s *Service) Suggestions(ctx context.Context, partial string, limit int) ([]string, error) {
	suggestions := make([]string, 0, max(limit, 0))
	if utf8.RuneCountInString(partial) < MinSuggestionPrefix || limit <= 0 {
		return suggestions, nil
	}

	queries, err := s.logs.DistinctQueriesContaining(ctx, partial, limit)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	suggestions = append(suggestions, queries...)
	if len(suggestions) >= limit {
		return suggestions[:limit], nil
	}

	titles, err := s.articles.TitlesContaining(ctx, partial, limit)
	if err != nil {
		return nil, fmt.Errorf("title suggestions: %w", err)
	}

	seen := make(map[string]struct{}, len(suggestions))
	for _, q := range suggestions {
		seen[q] = struct{}{}
	}
	for _, title := range titles {
		if len(suggestions) == limit {
			break
		}
		title = truncate(title, MaxSuggestionLength)
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		suggestions = append(suggestions, title)
	}
	return suggestions, nil
}

// PopularSearches returns the most frequent logged queries.
func (s *Service) PopularSearches(ctx context.Context, limit int) ([]model.PopularSearch, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	popular, err := s.logs.PopularQueries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular searches: %w", err)
	}
	return popular, nil
}

// CategoryStats returns one row per known category in priority order, including empty ones.
func (s *Service) CategoryStats(ctx context.Context) ([]model.CategoryStat, error) {
	counts, err := s.articles.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}

	categories := s.lexicon.Categories()
	stats := make([]model.CategoryStat, len(categories))
	for i, c := range categories {
		stats[i] = model.CategoryStat{
			Name:         c.Name,
			DisplayName:  c.DisplayName,
			ArticleCount: counts[c.Name],
		}
	}
	return stats, nil
}

// Stats aggregates popular searches, category counts and totals.
func (s *Service) Stats(ctx context.Context) (model.SearchStats, error) {
	popular, err := s.PopularSearches(ctx, DefaultPopularLimit)
	if err != nil {
		return model.SearchStats{}, err
	}
	categories, err := s.CategoryStats(ctx)
	if err != nil {
		return model.SearchStats{}, err
	}
	articles, err := s.articles.CountProcessed(ctx)
	if err != nil {
		return model.SearchStats{}, fmt.Errorf("count articles: %w", err)
	}
	searches, err := s.logs.Count(ctx)
	if err != nil {
		return model.SearchStats{}, fmt.Errorf("count searches: %w", err)
	}

	return model.SearchStats{
		PopularSearches: popular,
		CategoryStats:   categories,
		TotalArticles:   articles,
		TotalSearches:   searches,
	}, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
