// Package jobs runs long operations such as batch processing in the background
// and tracks their status for the HTTP API.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/model"
)

const (
	cleanupInterval = time.Hour
	completedJobTTL = 24 * time.Hour
)

// Func is the body of a job. It reports progress and results through the Manager.
type Func func(ctx context.Context, job model.Job) (map[string]int, error)

// Manager handles background job execution and tracking
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	workers  chan struct{} // Limits concurrent jobs
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	metrics  *Metrics
	logger   *slog.Logger
}

// NewManager creates a new job manager with specified worker count
func NewManager(maxWorkers int, logger *slog.Logger) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		jobs:     make(map[string]*model.Job),
		workers:  make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
		metrics:  NewMetrics(),
		logger:   logger.With("component", "jobs"),
	}
}

// Start begins the job manager and starts background cleanup
func (m *Manager) Start() {
	m.logger.Info("job manager started", "max_workers", cap(m.workers))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.cleanupRoutine()
	}()
}

// Stop cancels running jobs and waits for them to return
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	m.wg.Wait()
	m.logger.Info("job manager stopped")
}

// CreateJob registers a pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.recordCreated(jobType)
	m.logger.Debug("created job", "job_id", job.ID, "type", job.Type)
	return job.ID
}

// GetJob retrieves a copy of a job by ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns jobs newest first. An empty jobType or nil status matches all.
func (m *Manager) ListJobs(jobType model.JobType, status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0)
	for _, job := range m.jobs {
		if jobType != "" && job.Type != jobType {
			continue
		}
		if status != nil && job.Status != *status {
			continue
		}
		result = append(result, copyJob(job))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func copyJob(job *model.Job) *model.Job {
	c := *job
	if job.Progress != nil {
		p := *job.Progress
		c.Progress = &p
	}
	if job.Result != nil {
		c.Result = make(map[string]int, len(job.Result))
		for k, v := range job.Result {
			c.Result[k] = v
		}
	}
	return &c
}

// ExecuteJob starts fn for a pending job in the background. The job waits for a
// free worker slot; its context is cancelled when the manager stops.
func (m *Manager) ExecuteJob(jobID string, fn Func) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	snapshot := *copyJob(job)
	m.mu.Unlock()

	select {
	case <-m.stopChan:
		m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down")
		return fmt.Errorf("job manager is shutting down")
	default:
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		// Acquire worker slot
		select {
		case m.workers <- struct{}{}:
		case <-m.stopChan:
			m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down")
			return
		}
		defer func() { <-m.workers }()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-m.stopChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		m.markRunning(jobID)
		start := time.Now()
		result, err := fn(ctx, snapshot)
		took := time.Since(start)

		m.setResult(jobID, result)
		m.metrics.recordFinished(snapshot.Type, took, err)
		if err != nil {
			m.updateJobStatus(jobID, model.JobStatusFailed, err.Error())
			m.logger.Error("job failed", "job_id", jobID, "type", snapshot.Type, "duration", took, "err", err)
			return
		}
		m.updateJobStatus(jobID, model.JobStatusCompleted, "")
		m.logger.Info("job completed", "job_id", jobID, "type", snapshot.Type, "duration", took)
	}()

	return nil
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

func (m *Manager) markRunning(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	now := time.Now()
	job.StartedAt = &now
	m.metrics.recordTransition(job.Status, model.JobStatusRunning)
	job.Status = model.JobStatusRunning
}

func (m *Manager) setResult(jobID string, result map[string]int) {
	if result == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if job, exists := m.jobs[jobID]; exists {
		job.Result = result
	}
}

// updateJobStatus updates the status of a job (internal method)
func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	m.metrics.recordTransition(job.Status, status)
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	if status == model.JobStatusCompleted || status == model.JobStatusFailed || status == model.JobStatusCancelled {
		now := time.Now()
		job.CompletedAt = &now
	}
}

// cleanupRoutine runs periodic job cleanup
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(completedJobTTL)
		case <-m.stopChan:
			return
		}
	}
}

// CleanupOldJobs removes finished jobs older than maxAge and returns how many were removed
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		m.logger.Info("cleaned up old jobs", "count", cleaned)
	}
	return cleaned
}

// Metrics returns a snapshot of the job metrics
func (m *Manager) Metrics() MetricsSnapshot {
	return m.metrics.Snapshot()
}
