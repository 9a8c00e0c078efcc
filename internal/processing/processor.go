// Package processing turns raw articles into searchable ones: it categorizes them,
// extracts keywords and entities, and applies the retention policy.
package processing

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gcbaptista/news-search-engine/model"
)

// DefaultBatchSize is the number of pending articles processed per run.
const DefaultBatchSize = 10

// Store is the part of the article store the processor works on.
type Store interface {
	Pending(ctx context.Context, limit int) ([]model.Article, error)
	MarkProcessed(ctx context.Context, id string, analysis model.Analysis) error
	CountPending(ctx context.Context) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ProgressFunc is called after each article of a batch, with the number of
// articles handled so far and the batch size. Calls are serialized.
type ProgressFunc func(done, total int)

// Processor analyses pending articles concurrently on a worker pool.
type Processor struct {
	store    Store
	analyzer *Analyzer
	pool     *ants.Pool
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Processor.
type Option func(*Processor) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Processor) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithClock overrides the time source used for retention cutoffs.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// NewProcessor creates a Processor. Call Release when done with it.
func NewProcessor(store Store, analyzer *Analyzer, opts ...Option) (*Processor, error) {
	if store == nil {
		return nil, ErrArticleStoreRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		store:    store,
		analyzer: analyzer,
		pool:     pool,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "processing")
	return p, nil
}

// ProcessPending analyses up to batchSize unprocessed articles, oldest first.
// A failing article is logged and counted; it does not stop the batch.
// progress may be nil.
func (p *Processor) ProcessPending(ctx context.Context, batchSize int, progress ProgressFunc) (model.ProcessingReport, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	pending, err := p.store.Pending(ctx, batchSize)
	if err != nil {
		return model.ProcessingReport{}, err
	}

	var (
		report model.ProcessingReport
		mu     sync.Mutex
		wg     sync.WaitGroup
		done   int
	)
	finish := func(ok bool) {
		mu.Lock()
		defer mu.Unlock()
		if ok {
			report.Processed++
		} else {
			report.Failed++
		}
		done++
		if progress != nil {
			progress(done, len(pending))
		}
	}

	for _, article := range pending {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			finish(p.processOne(ctx, article))
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Error("error submitting article", "article_id", article.ID, "err", submitErr)
			finish(false)
		}
	}
	wg.Wait()

	remaining, err := p.store.CountPending(ctx)
	if err != nil {
		return report, err
	}
	report.Pending = remaining

	p.logger.Info("processed pending articles",
		"processed", report.Processed, "failed", report.Failed, "pending", report.Pending)
	return report, ctx.Err()
}

func (p *Processor) processOne(ctx context.Context, article model.Article) bool {
	if err := ctx.Err(); err != nil {
		return false
	}

	analysis := p.analyzer.Analyze(article)
	if err := p.store.MarkProcessed(ctx, article.ID, analysis); err != nil {
		p.logger.Error("error processing article", "article_id", article.ID, "err", err)
		return false
	}
	p.logger.Debug("processed article", "article_id", article.ID, "category", analysis.Category)
	return true
}

// CleanupOlderThan deletes articles published more than days ago.
func (p *Processor) CleanupOlderThan(ctx context.Context, days int) (int, error) {
	cutoff := p.now().AddDate(0, 0, -days)
	deleted, err := p.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		p.logger.Info("cleaned up old articles", "deleted", deleted, "days", days, "cutoff", cutoff)
	}
	return deleted, nil
}

// Release releases the worker pool.
// The processor should not be used after calling Release.
func (p *Processor) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
