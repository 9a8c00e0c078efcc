package postgres

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/news-search-engine/internal/lexicon"
	"github.com/gcbaptista/news-search-engine/internal/ranking"
	"github.com/gcbaptista/news-search-engine/model"
)

func testPlan() ranking.Plan {
	return ranking.Plan{
		Query:      "oil prices",
		Category:   "market",
		Sort:       ranking.SortRelevance,
		Offset:     10,
		Limit:      10,
		Weights:    ranking.DefaultWeights(),
		Thresholds: ranking.DefaultThresholds(),
	}
}

func TestSearchQuery(t *testing.T) {
	query, args, err := searchQuery(testPlan()).ToSql()
	require.NoError(t, err)

	for _, fragment := range []string{
		"search_rank * $1 + title_similarity * $2 AS combined_score",
		"ts_rank(search_vector, websearch_to_tsquery('english', $3)) AS search_rank",
		"similarity(title, $4) AS title_similarity",
		"FROM articles WHERE is_processed = $5 AND category = $6) AS scored",
		"WHERE (search_rank > $7 OR title_similarity > $8)",
		"ORDER BY combined_score DESC, published_at DESC, id LIMIT 10 OFFSET 10",
	} {
		assert.Contains(t, query, fragment)
	}
	assert.NotContains(t, query, "?")
	assert.Equal(t, []any{0.7, 0.3, "oil prices", "oil prices", true, "market", 0.01, 0.1}, args)
}

func TestSearchQuery_SortOrders(t *testing.T) {
	tests := []struct {
		sort ranking.SortOrder
		want string
	}{
		{ranking.SortRelevance, "ORDER BY combined_score DESC, published_at DESC, id"},
		{ranking.SortDate, "ORDER BY published_at ASC, combined_score DESC, id"},
		{ranking.SortDateDesc, "ORDER BY published_at DESC, combined_score DESC, id"},
		{ranking.SortOrder("title"), "ORDER BY combined_score DESC, published_at DESC, id"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			plan := testPlan()
			plan.Sort = tt.sort
			query, _, err := searchQuery(plan).ToSql()
			require.NoError(t, err)
			assert.Contains(t, query, tt.want)
		})
	}
}

func TestCountQuery_NoCategory(t *testing.T) {
	plan := testPlan()
	plan.Category = ""

	query, args, err := countQuery(plan).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "SELECT COUNT(*) FROM (SELECT "))
	assert.Contains(t, query, "FROM articles WHERE is_processed = $3) AS scored WHERE (search_rank > $4 OR title_similarity > $5)")
	assert.NotContains(t, query, "LIMIT")
	assert.NotContains(t, query, "category =")
	assert.Equal(t, []any{"oil prices", "oil prices", true, 0.01, 0.1}, args)
}

func TestListQuery(t *testing.T) {
	query, args, err := listQuery(model.ArticleFilter{Category: "health", Offset: 20, Limit: 10}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM articles WHERE (is_processed = $1 AND category = $2)")
	assert.Contains(t, query, "ORDER BY published_at DESC, id LIMIT 10 OFFSET 20")
	assert.Equal(t, []any{true, "health"}, args)

	countSQL, countArgs, err := listCountQuery(model.ArticleFilter{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM articles WHERE (is_processed = $1)", countSQL)
	assert.Equal(t, []any{true}, countArgs)
}

func TestTitlesQuery_EscapesWildcards(t *testing.T) {
	query, args, err := titlesQuery("50%_off", 5).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, `title ILIKE $2 ESCAPE '\'`)
	assert.Contains(t, query, "LIMIT 5")
	assert.Equal(t, []any{true, `%50\%\_off%`}, args)
}

func TestSeedCategoriesQuery(t *testing.T) {
	lex := lexicon.Default()
	query, args, err := seedCategoriesQuery(lex).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO categories"))
	assert.True(t, strings.HasSuffix(query, "ON CONFLICT (name) DO NOTHING"))
	require.Len(t, args, 4*lex.Len())
	assert.Equal(t, lexicon.Economy, args[0])
	assert.IsType(t, pq.StringArray{}, args[3])
}

func TestAppendQuery(t *testing.T) {
	query, args, err := appendQuery(model.SearchLogEntry{Query: "oil", ResultsCount: 3, ExecutionTimeMs: 12}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO search_queries (query,detected_category,results_count,execution_time_ms) VALUES ($1,$2,$3,$4)", query)
	assert.Equal(t, []any{"oil", sql.NullString{}, 3, int64(12)}, args)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	_, args, err = appendQuery(model.SearchLogEntry{
		ID: "8a1c6f2e-6a43-4a55-9f3e-0d5b7e8c9a10", Query: "oil", DetectedCategory: "market", CreatedAt: created,
	}).ToSql()
	require.NoError(t, err)
	require.Len(t, args, 6)
	assert.Equal(t, sql.NullString{String: "market", Valid: true}, args[1])
	assert.Equal(t, created, args[5])
}

func TestPopularAndSuggestionsQueries(t *testing.T) {
	query, _, err := popularQuery(10).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT query, COUNT(*) AS cnt FROM search_queries GROUP BY query ORDER BY cnt DESC, query LIMIT 10", query)

	query, args, err := suggestionsQuery("Oil", 5).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "GROUP BY query ORDER BY MAX(created_at) DESC, query LIMIT 5")
	assert.Equal(t, []any{"%Oil%"}, args)
}

func TestIsInvalidText(t *testing.T) {
	assert.True(t, isInvalidText(&pq.Error{Code: "22P02"}))
	assert.False(t, isInvalidText(&pq.Error{Code: "23505"}))
	assert.False(t, isInvalidText(sql.ErrNoRows))
	assert.False(t, isInvalidText(nil))
}
