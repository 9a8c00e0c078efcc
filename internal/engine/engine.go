// Package engine wires the configured stores and services of the news search
// service together. cmd/news_search and the HTTP API both start from an Engine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gcbaptista/news-search-engine/config"
	"github.com/gcbaptista/news-search-engine/internal/analytics"
	"github.com/gcbaptista/news-search-engine/internal/categorizer"
	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/internal/extract"
	"github.com/gcbaptista/news-search-engine/internal/ingest"
	"github.com/gcbaptista/news-search-engine/internal/jobs"
	"github.com/gcbaptista/news-search-engine/internal/lexicon"
	"github.com/gcbaptista/news-search-engine/internal/processing"
	"github.com/gcbaptista/news-search-engine/internal/search"
	"github.com/gcbaptista/news-search-engine/services"
	"github.com/gcbaptista/news-search-engine/store/memory"
	"github.com/gcbaptista/news-search-engine/store/postgres"
	"github.com/gcbaptista/news-search-engine/store/sqlite"
)

const articleSnapshotFile = "articles.gob"

// Engine owns the stores and the services built on top of them.
type Engine struct {
	cfg    config.Config
	logger *slog.Logger

	db         *postgres.DB // nil unless a postgres backend is configured
	articles   services.ArticleStore
	searchLogs services.SearchLogStore

	lexicon   *lexicon.Lexicon
	detector  *categorizer.Detector
	search    *search.Service
	analytics *analytics.Service
	ingest    *ingest.Service
	processor *processing.Processor
	jobs      *jobs.Manager
}

// New opens the configured stores, migrates the postgres schema when postgres
// is in use and builds every service. The job manager is started; call Close
// to stop it and release the stores.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		lexicon: lexicon.Default(),
	}

	if err := e.openStores(ctx); err != nil {
		e.closeStores()
		return nil, err
	}
	if err := e.buildServices(); err != nil {
		e.closeStores()
		return nil, err
	}

	e.jobs.Start()
	logger.Info("engine ready",
		"articles", cfg.Storage.Articles,
		"search_logs", cfg.Storage.SearchLogs,
		"categories", e.lexicon.Len())
	return e, nil
}

func (e *Engine) openStores(ctx context.Context) error {
	storage := e.cfg.Storage

	if e.cfg.UsesPostgres() {
		db, err := postgres.Open(ctx, storage.PostgresDSN)
		if err != nil {
			return err
		}
		e.db = db
		if err := db.Migrate(ctx, e.lexicon); err != nil {
			return err
		}
	}

	switch storage.Articles {
	case config.BackendPostgres:
		e.articles = postgres.NewArticleStore(e.db)
	case config.BackendMemory:
		opts := []memory.Option{memory.WithLogger(e.logger)}
		if storage.SnapshotDir != "" {
			opts = append(opts, memory.WithSnapshot(filepath.Join(storage.SnapshotDir, articleSnapshotFile)))
		}
		articles, err := memory.NewArticleStore(opts...)
		if err != nil {
			return fmt.Errorf("failed to open memory article store: %w", err)
		}
		e.articles = articles
	default:
		return internalErrors.NewUnknownBackendError("articles", storage.Articles)
	}

	switch storage.SearchLogs {
	case config.BackendPostgres:
		e.searchLogs = postgres.NewSearchLogStore(e.db)
	case config.BackendSQLite:
		logs, err := sqlite.Open(storage.SQLitePath)
		if err != nil {
			return err
		}
		e.searchLogs = logs
	case config.BackendMemory:
		e.searchLogs = memory.NewSearchLogStore()
	default:
		return internalErrors.NewUnknownBackendError("search_logs", storage.SearchLogs)
	}
	return nil
}

func (e *Engine) buildServices() error {
	var err error

	e.detector = categorizer.NewDetector(e.lexicon, categorizer.WithTuning(e.cfg.Categorizer))

	e.search, err = search.NewService(e.articles, e.searchLogs, e.detector,
		search.WithWeights(e.cfg.Search.Weights),
		search.WithThresholds(e.cfg.Search.Thresholds),
		search.WithPageSizes(e.cfg.Search.DefaultPageSize, e.cfg.Search.MaxPageSize),
		search.WithLogger(e.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create search service: %w", err)
	}

	e.analytics, err = analytics.NewService(e.articles, e.searchLogs, e.lexicon)
	if err != nil {
		return fmt.Errorf("failed to create analytics service: %w", err)
	}

	e.ingest, err = ingest.NewService(e.articles, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create ingest service: %w", err)
	}

	analyzer, err := processing.NewAnalyzer(e.detector, extract.NewEntityExtractor(extract.DefaultCompanies), e.cfg.Processing.MaxKeywords)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	e.processor, err = processing.NewProcessor(e.articles, analyzer,
		processing.WithPoolSize(e.cfg.Processing.Workers),
		processing.WithLogger(e.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create processor: %w", err)
	}

	e.jobs = jobs.NewManager(e.cfg.Server.JobWorkers, e.logger)
	return nil
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() config.Config { return e.cfg }

// Lexicon returns the compiled category table.
func (e *Engine) Lexicon() *lexicon.Lexicon { return e.lexicon }

// Detector returns the category detector.
func (e *Engine) Detector() *categorizer.Detector { return e.detector }

// Articles returns the article store.
func (e *Engine) Articles() services.ArticleStore { return e.articles }

// SearchLogs returns the search-log store.
func (e *Engine) SearchLogs() services.SearchLogStore { return e.searchLogs }

// Search returns the query planner.
func (e *Engine) Search() *search.Service { return e.search }

// Analytics returns the suggestions and statistics service.
func (e *Engine) Analytics() *analytics.Service { return e.analytics }

// Ingest returns the raw article ingestion service.
func (e *Engine) Ingest() *ingest.Service { return e.ingest }

// Processor returns the batch processing pipeline.
func (e *Engine) Processor() *processing.Processor { return e.processor }

// Jobs returns the background job manager.
func (e *Engine) Jobs() *jobs.Manager { return e.jobs }

// Ping checks that both stores can serve requests.
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.articles.Ping(ctx); err != nil {
		return fmt.Errorf("article store: %w", err)
	}
	if err := e.searchLogs.Ping(ctx); err != nil {
		return fmt.Errorf("search log store: %w", err)
	}
	return nil
}

// Close stops running jobs, releases the worker pool and closes the stores.
// The memory article store writes its snapshot on close.
func (e *Engine) Close() error {
	if e.jobs != nil {
		e.jobs.Stop()
	}
	if e.processor != nil {
		e.processor.Release()
	}
	err := e.closeStores()
	if err == nil {
		e.logger.Info("engine closed")
	}
	return err
}

func (e *Engine) closeStores() error {
	var errs []error
	if e.articles != nil {
		if err := e.articles.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close article store: %w", err))
		}
	}
	if e.searchLogs != nil {
		if err := e.searchLogs.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close search log store: %w", err))
		}
	}
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
