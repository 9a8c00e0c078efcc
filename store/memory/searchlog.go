package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
)

var _ services.SearchLogStore = (*SearchLogStore)(nil)

// SearchLogStore is an in-memory append-only search log.
type SearchLogStore struct {
	mu      sync.RWMutex
	entries []model.SearchLogEntry
	now     func() time.Time
}

// NewSearchLogStore creates an empty search log.
func NewSearchLogStore() *SearchLogStore {
	return &SearchLogStore{now: time.Now}
}

// Append records an executed search. Missing IDs and timestamps are filled in.
func (s *SearchLogStore) Append(_ context.Context, entry model.SearchLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	return nil
}

// DistinctQueriesContaining returns distinct queries containing partial, most recently used first.
func (s *SearchLogStore) DistinctQueriesContaining(_ context.Context, partial string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	needle := strings.ToLower(partial)

	s.mu.RLock()
	lastUsed := make(map[string]time.Time)
	for _, e := range s.entries {
		if !strings.Contains(strings.ToLower(e.Query), needle) {
			continue
		}
		if t, ok := lastUsed[e.Query]; !ok || e.CreatedAt.After(t) {
			lastUsed[e.Query] = e.CreatedAt
		}
	}
	s.mu.RUnlock()

	queries := make([]string, 0, len(lastUsed))
	for q := range lastUsed {
		queries = append(queries, q)
	}
	sort.Slice(queries, func(i, j int) bool {
		ti, tj := lastUsed[queries[i]], lastUsed[queries[j]]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return queries[i] < queries[j]
	})
	if len(queries) > limit {
		queries = queries[:limit]
	}
	return queries, nil
}

// PopularQueries returns the most frequently logged queries, ties broken alphabetically.
func (s *SearchLogStore) PopularQueries(_ context.Context, limit int) ([]model.PopularSearch, error) {
	if limit <= 0 {
		return []model.PopularSearch{}, nil
	}

	s.mu.RLock()
	counts := make(map[string]int)
	for _, e := range s.entries {
		counts[e.Query]++
	}
	s.mu.RUnlock()

	popular := make([]model.PopularSearch, 0, len(counts))
	for q, n := range counts {
		popular = append(popular, model.PopularSearch{Query: q, Count: n})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Query < popular[j].Query
	})
	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

// Count returns the number of logged searches.
func (s *SearchLogStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Ping always succeeds.
func (s *SearchLogStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *SearchLogStore) Close() error {
	return nil
}
