package services

import (
	"context"
	"time"

	"github.com/gcbaptista/news-search-engine/internal/ranking"
	"github.com/gcbaptista/news-search-engine/model"
)

// SearchQuery is a search request as accepted by the query planner.
type SearchQuery struct {
	Query    string            `json:"query"`
	Category string            `json:"category,omitempty"` // explicit filter; auto-detected when empty
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	SortBy   ranking.SortOrder `json:"sort_by"`
	LogQuery bool              `json:"-"` // append a search-log entry after executing
}

// ArticleSearcher runs a ranked full-text search over processed articles
type ArticleSearcher interface {
	Search(ctx context.Context, plan ranking.Plan) (ranking.Page, error)
}

// ArticleReader defines read access to stored articles
type ArticleReader interface {
	Get(ctx context.Context, id string) (model.Article, error)
	List(ctx context.Context, filter model.ArticleFilter) ([]model.Article, int, error)
	Pending(ctx context.Context, limit int) ([]model.Article, error)
	TitlesContaining(ctx context.Context, partial string, limit int) ([]string, error)
}

// ArticleWriter defines the mutations the ingestion and processing pipelines perform
type ArticleWriter interface {
	// SaveRaw inserts an unprocessed article. When an article with the same URL
	// already exists it is returned unchanged with created == false.
	SaveRaw(ctx context.Context, article model.Article) (saved model.Article, created bool, err error)
	MarkProcessed(ctx context.Context, id string, analysis model.Analysis) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ArticleCounter provides the aggregates used by analytics
type ArticleCounter interface {
	CountByCategory(ctx context.Context) (map[string]int, error)
	CountProcessed(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

// ArticleStore is the full article persistence contract implemented by every backend
type ArticleStore interface {
	ArticleSearcher
	ArticleReader
	ArticleWriter
	ArticleCounter
	Ping(ctx context.Context) error
	Close() error
}

// SearchLogStore is the append-only log of executed searches
type SearchLogStore interface {
	Append(ctx context.Context, entry model.SearchLogEntry) error
	// DistinctQueriesContaining returns distinct logged queries containing partial,
	// case-insensitively, most recently used first.
	DistinctQueriesContaining(ctx context.Context, partial string, limit int) ([]string, error)
	PopularQueries(ctx context.Context, limit int) ([]model.PopularSearch, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// JobManager defines operations for inspecting background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(jobType model.JobType, status *model.JobStatus) []*model.Job
}
