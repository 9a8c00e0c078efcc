// Package testing provides utilities and helpers for testing the news search service.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/news-search-engine/config"
	"github.com/gcbaptista/news-search-engine/internal/engine"
	"github.com/gcbaptista/news-search-engine/internal/ingest"
	"github.com/gcbaptista/news-search-engine/internal/logging"
	"github.com/gcbaptista/news-search-engine/internal/search"
	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
)

// CreateTestEngine creates a memory-backed engine that is closed when the test ends
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return CreateTestEngineWithConfig(t, config.Default())
}

// CreateTestEngineWithConfig is CreateTestEngine with an explicit configuration
func CreateTestEngineWithConfig(t *testing.T, cfg config.Config) *engine.Engine {
	t.Helper()
	eng, err := engine.New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err, "Failed to create test engine")
	t.Cleanup(func() {
		if err := eng.Close(); err != nil {
			t.Logf("Failed to close test engine: %v", err)
		}
	})
	return eng
}

// SampleArticles returns one article per category, economy first.
// Each is categorized unambiguously by the default lexicon.
func SampleArticles() []ingest.RawArticle {
	published := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	at := func(days int) *time.Time {
		ts := published.AddDate(0, 0, days)
		return &ts
	}

	return []ingest.RawArticle{
		{
			Title:       "Inflation slows as central bank holds",
			Content:     "<p>Inflation eased again this quarter.</p><p>The central bank kept its budget outlook unchanged. Wages rose modestly.</p>",
			URL:         "https://news.example.com/economy/inflation-slows",
			Author:      "Jane Roe",
			PublishedAt: at(0),
		},
		{
			Title:       "Oil futures rally on Wall Street",
			Content:     "Oil and gold futures rallied as traders on Wall Street bought commodities. The Nasdaq also gained.",
			URL:         "https://news.example.com/markets/oil-futures",
			PublishedAt: at(1),
		},
		{
			Title:       "New vaccine trial shows promise for cancer patients",
			Content:     "The clinical trial tested a vaccine in hospital wards. Researchers said the treatment was well tolerated.",
			URL:         "https://news.example.com/health/vaccine-trial",
			PublishedAt: at(2),
		},
		{
			Title:       "Nvidia unveils faster AI chip",
			Content:     "The GPU maker said its new semiconductor speeds up machine learning software.",
			URL:         "https://news.example.com/tech/nvidia-chip",
			PublishedAt: at(3),
		},
	}
}

// IngestArticles stores raws as new articles and returns them in order
func IngestArticles(t *testing.T, eng *engine.Engine, raws []ingest.RawArticle) []model.Article {
	t.Helper()
	articles := make([]model.Article, 0, len(raws))
	for _, raw := range raws {
		article, created, err := eng.Ingest().SaveRaw(context.Background(), raw)
		require.NoError(t, err, "Failed to ingest %q", raw.Title)
		require.True(t, created, "Article %q already existed", raw.URL)
		articles = append(articles, article)
	}
	return articles
}

// ProcessAll processes every pending article synchronously
func ProcessAll(t *testing.T, eng *engine.Engine) model.ProcessingReport {
	t.Helper()
	pending, err := eng.Articles().CountPending(context.Background())
	require.NoError(t, err)

	report, err := eng.Processor().ProcessPending(context.Background(), max(pending, 1), nil)
	require.NoError(t, err, "Failed to process pending articles")
	require.Zero(t, report.Failed, "Some articles failed to process")
	return report
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      5 * time.Second,
		PollInterval: 5 * time.Millisecond,
	}
}

// WaitForJobCompletion polls a job until it completes or times out
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
			return nil
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				if opts.LogProgress {
					t.Logf("Job %s completed in %v", jobID, job.CompletedAt.Sub(job.CreatedAt))
				}
				return job
			case model.JobStatusFailed, model.JobStatusCancelled:
				t.Fatalf("Job %s ended with status %s: %s", jobID, job.Status, job.Error)
				return nil
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID,
						job.Progress.Current,
						job.Progress.Total,
						job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name             string
	Query            services.SearchQuery
	ExpectedCount    int
	ExpectedCategory string // detected or explicit category, "" for none
	ExpectedFirst    string // title of the first result
	ValidateFunc     func(t *testing.T, result model.SearchResult)
}

// RunSearchTests runs a suite of search tests against the query planner
func RunSearchTests(t *testing.T, searcher *search.Service, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			result, err := searcher.Search(context.Background(), tt.Query)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, tt.ExpectedCount, result.TotalCount, "Result count should match")
			assert.Equal(t, tt.ExpectedCategory, result.DetectedCategory, "Category should match")

			if tt.ExpectedFirst != "" {
				require.NotEmpty(t, result.Articles, "Expected at least one result")
				assert.Equal(t, tt.ExpectedFirst, result.Articles[0].Article.Title, "First result should match expected")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, result)
			}
		})
	}
}
