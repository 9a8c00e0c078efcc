package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/news-search-engine/config"
	"github.com/gcbaptista/news-search-engine/internal/engine"
	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/internal/lexicon"
	"github.com/gcbaptista/news-search-engine/internal/logging"
	"github.com/gcbaptista/news-search-engine/internal/ranking"
	testutil "github.com/gcbaptista/news-search-engine/internal/testing"
	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
)

func TestNew_MemoryBackends(t *testing.T) {
	eng := testutil.CreateTestEngine(t)

	assert.NoError(t, eng.Ping(context.Background()))
	assert.Equal(t, lexicon.Default().Len(), eng.Lexicon().Len())
	assert.NotNil(t, eng.Search())
	assert.NotNil(t, eng.Analytics())
	assert.NotNil(t, eng.Ingest())
	assert.NotNil(t, eng.Processor())
	assert.Equal(t, config.Default(), eng.Config())
}

func TestNew_UnknownBackend(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"articles", func(c *config.Config) { c.Storage.Articles = "cassandra" }},
		{"search logs", func(c *config.Config) { c.Storage.SearchLogs = "redis" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			eng, err := engine.New(context.Background(), cfg, logging.Discard())
			assert.Nil(t, eng)
			assert.True(t, errors.Is(err, internalErrors.ErrUnknownBackend), "got %v", err)
		})
	}
}

func TestNew_SQLiteSearchLog(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.SearchLogs = config.BackendSQLite
	cfg.Storage.SQLitePath = ":memory:"
	eng := testutil.CreateTestEngineWithConfig(t, cfg)
	ctx := context.Background()

	_, err := eng.Search().Search(ctx, services.SearchQuery{Query: "stock market", LogQuery: true})
	require.NoError(t, err)

	count, err := eng.SearchLogs().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEngine_Search(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	samples := testutil.SampleArticles()
	testutil.IngestArticles(t, eng, samples)

	// unprocessed articles are not searchable
	result, err := eng.Search().Search(context.Background(), services.SearchQuery{Query: "inflation"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalCount)

	report := testutil.ProcessAll(t, eng)
	assert.Equal(t, model.ProcessingReport{Processed: len(samples)}, report)

	testutil.RunSearchTests(t, eng.Search(), []testutil.SearchTestCase{
		{
			Name:             "economy query",
			Query:            services.SearchQuery{Query: "inflation"},
			ExpectedCount:    1,
			ExpectedCategory: lexicon.Economy,
			ExpectedFirst:    samples[0].Title,
		},
		{
			Name:             "market phrase",
			Query:            services.SearchQuery{Query: "oil futures"},
			ExpectedCount:    1,
			ExpectedCategory: lexicon.Market,
			ExpectedFirst:    samples[1].Title,
		},
		{
			Name:             "health query",
			Query:            services.SearchQuery{Query: "vaccine"},
			ExpectedCount:    1,
			ExpectedCategory: lexicon.Health,
			ExpectedFirst:    samples[2].Title,
			ValidateFunc: func(t *testing.T, result model.SearchResult) {
				hit := result.Articles[0]
				assert.Equal(t, lexicon.Health, hit.Article.Category)
				assert.Greater(t, hit.SearchRank, 0.0)
				assert.InDelta(t, 0.7*hit.SearchRank+0.3*hit.TitleSimilarity, hit.CombinedScore, 1e-9)
			},
		},
		{
			Name:             "explicit category overrides detection",
			Query:            services.SearchQuery{Query: "inflation", Category: lexicon.Technology},
			ExpectedCount:    0,
			ExpectedCategory: lexicon.Technology,
		},
		{
			Name:          "no category and no match",
			Query:         services.SearchQuery{Query: "weather forecast"},
			ExpectedCount: 0,
		},
		{
			Name:             "technology sorted by date",
			Query:            services.SearchQuery{Query: "chip", SortBy: ranking.SortDate},
			ExpectedCount:    1,
			ExpectedCategory: lexicon.Technology,
			ExpectedFirst:    samples[3].Title,
		},
	})
}

func TestEngine_ProcessPendingAsync(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	testutil.IngestArticles(t, eng, testutil.SampleArticles()[:2])

	jobID, err := eng.ProcessPendingAsync(0)
	require.NoError(t, err)

	job := testutil.WaitForJobCompletion(t, eng.Jobs(), jobID, testutil.DefaultJobPollingOptions())
	testutil.AssertJobCompleted(t, job, model.JobTypeProcessPending)
	assert.Equal(t, map[string]int{"processed": 2, "failed": 0, "pending": 0}, job.Result)
	assert.Equal(t, "10", job.Metadata["batch_size"])
	require.NotNil(t, job.Progress)
	assert.Equal(t, 2, job.Progress.Current)

	pending, err := eng.Articles().CountPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}

func TestEngine_CleanupAsync(t *testing.T) {
	eng := testutil.CreateTestEngine(t)

	old := time.Now().AddDate(-1, 0, 0)
	recent := time.Now().AddDate(0, 0, -1)
	raws := testutil.SampleArticles()[:3]
	raws[0].PublishedAt = &old
	raws[1].PublishedAt = &recent
	raws[2].PublishedAt = nil
	testutil.IngestArticles(t, eng, raws)

	jobID, err := eng.CleanupAsync(90)
	require.NoError(t, err)

	job := testutil.WaitForJobCompletion(t, eng.Jobs(), jobID, testutil.DefaultJobPollingOptions())
	testutil.AssertJobCompleted(t, job, model.JobTypeCleanup)
	assert.Equal(t, map[string]int{"deleted": 1}, job.Result)
	assert.Equal(t, "90", job.Metadata["days"])
}

func TestEngine_SnapshotSurvivesRestart(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.SnapshotDir = t.TempDir()
	ctx := context.Background()

	first, err := engine.New(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	saved := testutil.IngestArticles(t, first, testutil.SampleArticles()[:1])[0]
	require.NoError(t, first.Close())

	second := testutil.CreateTestEngineWithConfig(t, cfg)
	got, err := second.Articles().Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Title, got.Title)
	assert.False(t, got.IsProcessed)
}

func TestEngine_RunPeriodicProcessing(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	testutil.IngestArticles(t, eng, testutil.SampleArticles()[:1])

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		eng.RunPeriodicProcessing(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		pending, err := eng.Articles().CountPending(context.Background())
		return err == nil && pending == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
