package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gcbaptista/news-search-engine/model"
)

// ProcessPendingAsync starts a background job that processes up to batchSize
// pending articles. A batchSize <= 0 uses the configured batch size.
func (e *Engine) ProcessPendingAsync(batchSize int) (string, error) {
	if batchSize <= 0 {
		batchSize = e.cfg.Processing.BatchSize
	}

	jobID := e.jobs.CreateJob(model.JobTypeProcessPending, map[string]string{
		"operation":  "process_pending",
		"batch_size": strconv.Itoa(batchSize),
	})

	err := e.jobs.ExecuteJob(jobID, func(ctx context.Context, job model.Job) (map[string]int, error) {
		return e.executeProcessPendingJob(ctx, job.ID, batchSize)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start process pending job: %w", err)
	}

	return jobID, nil
}

func (e *Engine) executeProcessPendingJob(ctx context.Context, jobID string, batchSize int) (map[string]int, error) {
	e.jobs.UpdateJobProgress(jobID, 0, batchSize, "Loading pending articles")

	report, err := e.processor.ProcessPending(ctx, batchSize, func(done, total int) {
		e.jobs.UpdateJobProgress(jobID, done, total, "Processing articles")
	})
	result := reportResult(report)
	if err != nil {
		return result, fmt.Errorf("failed to process pending articles: %w", err)
	}

	e.jobs.UpdateJobProgress(jobID, report.Processed+report.Failed, report.Processed+report.Failed, "Processing finished")
	return result, nil
}

// CleanupAsync starts a background job deleting articles published more than
// days ago. A days value <= 0 uses the configured retention.
func (e *Engine) CleanupAsync(days int) (string, error) {
	if days <= 0 {
		days = e.cfg.Retention.Days
	}

	jobID := e.jobs.CreateJob(model.JobTypeCleanup, map[string]string{
		"operation": "cleanup_old_articles",
		"days":      strconv.Itoa(days),
	})

	err := e.jobs.ExecuteJob(jobID, func(ctx context.Context, job model.Job) (map[string]int, error) {
		deleted, err := e.processor.CleanupOlderThan(ctx, days)
		if err != nil {
			return nil, fmt.Errorf("failed to clean up old articles: %w", err)
		}
		return map[string]int{"deleted": deleted}, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start cleanup job: %w", err)
	}

	return jobID, nil
}

// RunPeriodicProcessing processes a batch of pending articles every interval
// until ctx is done. Errors are logged and the loop keeps going.
func (e *Engine) RunPeriodicProcessing(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("periodic processing enabled", "interval", interval, "batch_size", e.cfg.Processing.BatchSize)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.processor.ProcessPending(ctx, e.cfg.Processing.BatchSize, nil); err != nil && ctx.Err() == nil {
				e.logger.Error("periodic processing failed", "err", err)
			}
		}
	}
}

func reportResult(report model.ProcessingReport) map[string]int {
	return map[string]int{
		"processed": report.Processed,
		"failed":    report.Failed,
		"pending":   report.Pending,
	}
}
