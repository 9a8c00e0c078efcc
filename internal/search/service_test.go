package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/news-search-engine/internal/categorizer"
	"github.com/gcbaptista/news-search-engine/internal/lexicon"
	"github.com/gcbaptista/news-search-engine/internal/logging"
	"github.com/gcbaptista/news-search-engine/internal/ranking"
	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
	"github.com/gcbaptista/news-search-engine/store/memory"
)

// --- Test Helpers ---

// recordingSearcher returns a fixed page and remembers the plans it was given.
type recordingSearcher struct {
	page  ranking.Page
	err   error
	plans []ranking.Plan
}

func (r *recordingSearcher) Search(_ context.Context, plan ranking.Plan) (ranking.Page, error) {
	r.plans = append(r.plans, plan)
	return r.page, r.err
}

// failingLogStore rejects every append.
type failingLogStore struct {
	*memory.SearchLogStore
}

func (failingLogStore) Append(context.Context, model.SearchLogEntry) error {
	return errors.New("connection refused")
}

func newDetector() *categorizer.Detector {
	return categorizer.NewDetector(lexicon.Default())
}

func setupTestSearchService(t *testing.T, articles services.ArticleSearcher, logs services.SearchLogStore) *Service {
	t.Helper()
	svc, err := NewService(articles, logs, newDetector(), WithLogger(logging.Discard()))
	require.NoError(t, err)
	return svc
}

func seedProcessed(t *testing.T, store *memory.ArticleStore, title, category string, published time.Time) {
	t.Helper()
	ctx := context.Background()
	saved, _, err := store.SaveRaw(ctx, model.Article{Title: title, URL: "https://news.example.com/" + title, PublishedAt: &published})
	require.NoError(t, err)
	require.NoError(t, store.MarkProcessed(ctx, saved.ID, model.Analysis{Category: category, CategoryConfidence: 0.67}))
}

// --- Test Cases ---

func TestNewService(t *testing.T) {
	_, err := NewService(nil, nil, newDetector())
	assert.Error(t, err)

	_, err = NewService(&recordingSearcher{}, nil, nil)
	assert.Error(t, err)

	_, err = NewService(&recordingSearcher{}, nil, newDetector())
	assert.NoError(t, err)
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "oil prices today", NormalizeQuery("  oil \t prices\n\ntoday "))
	assert.Equal(t, "", NormalizeQuery(" \n\t "))
}

func TestSearch_EmptyQueryDoesNotTouchStore(t *testing.T) {
	searcher := &recordingSearcher{}
	logs := memory.NewSearchLogStore()
	svc := setupTestSearchService(t, searcher, logs)

	result, err := svc.Search(context.Background(), services.SearchQuery{Query: "   ", LogQuery: true})
	require.NoError(t, err)

	assert.Empty(t, searcher.plans)
	assert.NotNil(t, result.Articles)
	assert.Empty(t, result.Articles)
	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, int64(0), result.ExecutionTimeMs)

	n, err := logs.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSearch_CategoryResolution(t *testing.T) {
	tests := []struct {
		name           string
		query          services.SearchQuery
		wantCategory   string
		wantConfidence float64
	}{
		{"explicit category", services.SearchQuery{Query: "oil", Category: "health"}, "health", 1.0},
		{"detected from query", services.SearchQuery{Query: "inflation"}, "economy", 0.33},
		{"nothing detected", services.SearchQuery{Query: "weekend weather"}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &recordingSearcher{}
			svc := setupTestSearchService(t, searcher, nil)

			result, err := svc.Search(context.Background(), tt.query)
			require.NoError(t, err)
			require.Len(t, searcher.plans, 1)

			assert.Equal(t, tt.wantCategory, searcher.plans[0].Category)
			assert.Equal(t, tt.wantCategory, result.DetectedCategory)
			assert.InDelta(t, tt.wantConfidence, result.CategoryConfidence, 1e-9)
		})
	}
}

func TestSearch_PlanDefaults(t *testing.T) {
	searcher := &recordingSearcher{}
	svc := setupTestSearchService(t, searcher, nil)

	_, err := svc.Search(context.Background(), services.SearchQuery{Query: "  central   bank  "})
	require.NoError(t, err)
	require.Len(t, searcher.plans, 1)

	plan := searcher.plans[0]
	assert.Equal(t, "central bank", plan.Query)
	assert.Equal(t, ranking.SortRelevance, plan.Sort)
	assert.Equal(t, 0, plan.Offset)
	assert.Equal(t, DefaultPageSize, plan.Limit)
	assert.Equal(t, ranking.DefaultWeights(), plan.Weights)
	assert.Equal(t, ranking.DefaultThresholds(), plan.Thresholds)

	_, err = svc.Search(context.Background(), services.SearchQuery{Query: "gold", Page: 3, PageSize: 500, SortBy: ranking.SortDate})
	require.NoError(t, err)
	plan = searcher.plans[1]
	assert.Equal(t, MaxPageSize, plan.Limit)
	assert.Equal(t, 2*MaxPageSize, plan.Offset)
	assert.Equal(t, ranking.SortDate, plan.Sort)
}

func TestSearch_StoreFailurePropagates(t *testing.T) {
	searcher := &recordingSearcher{err: errors.New("database is down")}
	svc := setupTestSearchService(t, searcher, nil)

	_, err := svc.Search(context.Background(), services.SearchQuery{Query: "oil"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is down")
}

func TestSearch_Pagination(t *testing.T) {
	store, err := memory.NewArticleStore()
	require.NoError(t, err)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedProcessed(t, store, fmt.Sprintf("Tariff update %02d", i), "economy", base.Add(time.Duration(i)*time.Hour))
	}
	svc := setupTestSearchService(t, store, nil)
	ctx := context.Background()

	all, err := svc.Search(ctx, services.SearchQuery{Query: "tariff", PageSize: 100})
	require.NoError(t, err)
	require.Len(t, all.Articles, 25)

	second, err := svc.Search(ctx, services.SearchQuery{Query: "tariff", Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, second.TotalCount)
	assert.Equal(t, all.Articles[10:20], second.Articles)

	third, err := svc.Search(ctx, services.SearchQuery{Query: "tariff", Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, third.Articles, 5)
}

func TestSearch_UnknownCategoryIsEmpty(t *testing.T) {
	store, err := memory.NewArticleStore()
	require.NoError(t, err)
	seedProcessed(t, store, "Oil output rises", "market", time.Now())
	svc := setupTestSearchService(t, store, nil)

	result, err := svc.Search(context.Background(), services.SearchQuery{Query: "oil", Category: "sports"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalCount)
	assert.Empty(t, result.Articles)
}

func TestSearch_DateOrder(t *testing.T) {
	store, err := memory.NewArticleStore()
	require.NoError(t, err)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	seedProcessed(t, store, "Gold demand report", "market", base.Add(2*time.Hour))
	seedProcessed(t, store, "Gold", "market", base)
	seedProcessed(t, store, "Gold miners expand", "market", base.Add(time.Hour))
	svc := setupTestSearchService(t, store, nil)

	titles := func(sortBy ranking.SortOrder) []string {
		result, err := svc.Search(context.Background(), services.SearchQuery{Query: "gold", SortBy: sortBy})
		require.NoError(t, err)
		out := make([]string, len(result.Articles))
		for i, hit := range result.Articles {
			out[i] = hit.Article.Title
		}
		return out
	}

	assert.Equal(t, []string{"Gold", "Gold miners expand", "Gold demand report"}, titles(ranking.SortDate))
	assert.Equal(t, []string{"Gold demand report", "Gold miners expand", "Gold"}, titles(ranking.SortDateDesc))
	assert.Equal(t, "Gold", titles(ranking.SortRelevance)[0])
}

func TestSearch_LogsQuery(t *testing.T) {
	logs := memory.NewSearchLogStore()
	svc := setupTestSearchService(t, &recordingSearcher{page: ranking.Page{Total: 7}}, logs)
	ctx := context.Background()

	long := "oil " + strings.Repeat("x", 600)
	result, err := svc.Search(ctx, services.SearchQuery{Query: long, LogQuery: true})
	require.NoError(t, err)
	assert.NotEmpty(t, result.QueryID)

	popular, err := logs.PopularQueries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Len(t, popular[0].Query, MaxLoggedQueryLength)
	assert.True(t, strings.HasPrefix(popular[0].Query, "oil x"))

	// original text is logged, not the normalized one
	_, err = svc.Search(ctx, services.SearchQuery{Query: "  gold  price ", LogQuery: true})
	require.NoError(t, err)
	suggestions, err := logs.DistinctQueriesContaining(ctx, "gold", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"  gold  price "}, suggestions)
}

func TestSearch_LogFailureDoesNotFailSearch(t *testing.T) {
	searcher := &recordingSearcher{page: ranking.Page{
		Hits:  []model.ArticleHit{{Article: model.Article{ID: "a1", Title: "Oil"}, CombinedScore: 0.5}},
		Total: 1,
	}}
	svc := setupTestSearchService(t, searcher, failingLogStore{memory.NewSearchLogStore()})

	result, err := svc.Search(context.Background(), services.SearchQuery{Query: "oil", LogQuery: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	assert.Len(t, result.Articles, 1)
	assert.Empty(t, result.QueryID)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "hé", truncate("héllo", 2))
}
