// Package memory provides in-process implementations of the article and search-log stores.
// They reproduce the ranking semantics of the relational backend and back development
// setups and tests. Article data can be snapshotted to disk with gob.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/internal/persistence"
	"github.com/gcbaptista/news-search-engine/internal/ranking"
	"github.com/gcbaptista/news-search-engine/internal/tokenizer"
	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
)

var _ services.ArticleStore = (*ArticleStore)(nil)

// ArticleStore keeps articles in memory, indexed by ID and URL.
type ArticleStore struct {
	mu       sync.RWMutex
	articles map[string]*entry
	byURL    map[string]string

	snapshotPath string
	now          func() time.Time
	logger       *slog.Logger
}

type entry struct {
	article model.Article
	vector  docVector
}

// articleSnapshot is the gob payload of a snapshot file.
type articleSnapshot struct {
	Articles []model.Article
}

// Option configures an ArticleStore.
type Option func(*ArticleStore)

// WithSnapshot loads articles from path on creation and writes them back on Save and Close.
func WithSnapshot(path string) Option {
	return func(s *ArticleStore) {
		s.snapshotPath = path
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ArticleStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *ArticleStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewArticleStore creates an empty store, or one restored from its snapshot.
func NewArticleStore(opts ...Option) (*ArticleStore, error) {
	s := &ArticleStore{
		articles: make(map[string]*entry),
		byURL:    make(map[string]string),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.snapshotPath != "" {
		var snap articleSnapshot
		err := persistence.LoadGob(s.snapshotPath, &snap)
		switch {
		case errors.Is(err, os.ErrNotExist):
			s.logger.Info("no article snapshot found, starting empty", "path", s.snapshotPath)
		case err != nil:
			return nil, fmt.Errorf("load article snapshot: %w", err)
		default:
			for _, a := range snap.Articles {
				// gob drops empty collections
				if a.Keywords == nil {
					a.Keywords = []model.KeywordScore{}
				}
				if a.Entities == nil {
					a.Entities = model.Entities{}
				}
				s.put(a)
			}
			s.logger.Info("restored article snapshot", "path", s.snapshotPath, "articles", len(snap.Articles))
		}
	}
	return s, nil
}

func (s *ArticleStore) put(a model.Article) {
	s.articles[a.ID] = &entry{
		article: a,
		vector:  newDocVector(a.Title, a.KeywordTerms()+" "+a.Summary, a.Content),
	}
	s.byURL[a.URL] = a.ID
}

// Search scores every processed article against the plan, then sorts and paginates.
func (s *ArticleStore) Search(ctx context.Context, plan ranking.Plan) (ranking.Page, error) {
	if err := ctx.Err(); err != nil {
		return ranking.Page{}, err
	}

	query := parseWebQuery(plan.Query)
	hasTerms := !query.empty()

	s.mu.RLock()
	hits := make([]model.ArticleHit, 0)
	for _, e := range s.articles {
		a := e.article
		if !a.IsProcessed || (plan.Category != "" && a.Category != plan.Category) {
			continue
		}

		rank := 0.0
		if hasTerms {
			rank = e.vector.rank(query)
		}
		sim := tokenizer.Similarity(a.Title, plan.Query)
		if !plan.Eligible(rank, sim) {
			continue
		}
		hits = append(hits, plan.Score(model.ArticleHit{Article: a, SearchRank: rank, TitleSimilarity: sim}))
	}
	s.mu.RUnlock()

	ranking.Sort(hits, plan.Sort)
	return ranking.Page{Hits: ranking.Window(hits, plan.Offset, plan.Limit), Total: len(hits)}, nil
}

// SaveRaw stores a new unprocessed article, deduplicating by URL.
func (s *ArticleStore) SaveRaw(_ context.Context, article model.Article) (model.Article, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.byURL[article.URL]; exists {
		return s.articles[id].article, false, nil
	}

	now := s.now()
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.ScrapedAt.IsZero() {
		article.ScrapedAt = now
	}
	article.IsProcessed = false
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.Keywords == nil {
		article.Keywords = []model.KeywordScore{}
	}
	if article.Entities == nil {
		article.Entities = model.Entities{}
	}

	s.put(article)
	return article, true, nil
}

// MarkProcessed applies an analysis to an article and makes it searchable.
func (s *ArticleStore) MarkProcessed(_ context.Context, id string, analysis model.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.articles[id]
	if !ok {
		return internalErrors.NewArticleNotFoundError(id)
	}

	a := e.article
	a.Category = analysis.Category
	a.CategoryConfidence = analysis.CategoryConfidence
	a.Keywords = analysis.Keywords
	a.Entities = analysis.Entities
	if analysis.Summary != "" {
		a.Summary = analysis.Summary
	}
	a.IsProcessed = true
	a.UpdatedAt = s.now()

	s.put(a)
	return nil
}

// Get returns an article by ID regardless of its processing state.
func (s *ArticleStore) Get(_ context.Context, id string) (model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.articles[id]
	if !ok {
		return model.Article{}, internalErrors.NewArticleNotFoundError(id)
	}
	return e.article, nil
}

// List returns processed articles, newest publication first, and the total before paging.
// A Limit <= 0 returns every article after Offset.
func (s *ArticleStore) List(_ context.Context, filter model.ArticleFilter) ([]model.Article, int, error) {
	s.mu.RLock()
	hits := make([]model.ArticleHit, 0)
	for _, e := range s.articles {
		if !e.article.IsProcessed || (filter.Category != "" && e.article.Category != filter.Category) {
			continue
		}
		hits = append(hits, model.ArticleHit{Article: e.article})
	}
	s.mu.RUnlock()

	ranking.Sort(hits, ranking.SortDateDesc)
	limit := filter.Limit
	if limit <= 0 {
		limit = len(hits)
	}
	page := ranking.Window(hits, filter.Offset, limit)

	articles := make([]model.Article, len(page))
	for i, h := range page {
		articles[i] = h.Article
	}
	return articles, len(hits), nil
}

// Pending returns up to limit unprocessed articles, oldest first.
func (s *ArticleStore) Pending(_ context.Context, limit int) ([]model.Article, error) {
	s.mu.RLock()
	pending := make([]model.Article, 0)
	for _, e := range s.articles {
		if !e.article.IsProcessed {
			pending = append(pending, e.article)
		}
	}
	s.mu.RUnlock()

	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID < pending[j].ID
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// TitlesContaining returns titles of processed articles containing partial, case-insensitively.
func (s *ArticleStore) TitlesContaining(ctx context.Context, partial string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	articles, _, err := s.List(ctx, model.ArticleFilter{})
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(partial)
	titles := make([]string, 0, limit)
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), needle) {
			titles = append(titles, a.Title)
			if len(titles) == limit {
				break
			}
		}
	}
	return titles, nil
}

// CountByCategory counts processed articles per assigned category.
func (s *ArticleStore) CountByCategory(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range s.articles {
		if e.article.IsProcessed && e.article.Category != "" {
			counts[e.article.Category]++
		}
	}
	return counts, nil
}

// CountProcessed counts searchable articles.
func (s *ArticleStore) CountProcessed(_ context.Context) (int, error) {
	return s.count(true), nil
}

// CountPending counts articles waiting for processing.
func (s *ArticleStore) CountPending(_ context.Context) (int, error) {
	return s.count(false), nil
}

func (s *ArticleStore) count(processed bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.articles {
		if e.article.IsProcessed == processed {
			n++
		}
	}
	return n
}

// DeleteOlderThan removes articles published before cutoff. Undated articles are kept.
func (s *ArticleStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, e := range s.articles {
		if p := e.article.PublishedAt; p != nil && p.Before(cutoff) {
			delete(s.byURL, e.article.URL)
			delete(s.articles, id)
			deleted++
		}
	}
	return deleted, nil
}

// Save writes the snapshot file, if one is configured.
func (s *ArticleStore) Save() error {
	if s.snapshotPath == "" {
		return nil
	}

	s.mu.RLock()
	snap := articleSnapshot{Articles: make([]model.Article, 0, len(s.articles))}
	for _, e := range s.articles {
		snap.Articles = append(snap.Articles, e.article)
	}
	s.mu.RUnlock()

	if err := persistence.SaveGob(s.snapshotPath, snap); err != nil {
		return fmt.Errorf("save article snapshot: %w", err)
	}
	return nil
}

// Ping always succeeds.
func (s *ArticleStore) Ping(_ context.Context) error {
	return nil
}

// Close saves the snapshot.
func (s *ArticleStore) Close() error {
	return s.Save()
}
