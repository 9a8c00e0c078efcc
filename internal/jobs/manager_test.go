package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/internal/logging"
	"github.com/gcbaptista/news-search-engine/model"
)

func newTestManager(t *testing.T, workers int) *Manager {
	t.Helper()
	manager := NewManager(workers, logging.Discard())
	manager.Start()
	t.Cleanup(manager.Stop)
	return manager
}

// waitForStatus polls until the job reaches status or the deadline passes.
func waitForStatus(t *testing.T, m *Manager, jobID string, status model.JobStatus) *model.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := m.GetJob(jobID)
		if err != nil {
			t.Fatalf("Failed to get job: %v", err)
		}
		if job.Status == status {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := m.GetJob(jobID)
	t.Fatalf("Job %s did not reach status %s (current: %s)", jobID, status, job.Status)
	return nil
}

func TestJobManager_CreateJob(t *testing.T) {
	manager := newTestManager(t, 2)

	jobID := manager.CreateJob(model.JobTypeProcessPending, map[string]string{"batch_size": "10"})
	if jobID == "" {
		t.Fatal("Expected non-empty job ID")
	}

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get created job: %v", err)
	}
	if job.Type != model.JobTypeProcessPending {
		t.Errorf("Expected job type %s, got %s", model.JobTypeProcessPending, job.Type)
	}
	if job.Status != model.JobStatusPending {
		t.Errorf("Expected job status %s, got %s", model.JobStatusPending, job.Status)
	}
	if job.Metadata["batch_size"] != "10" {
		t.Errorf("Expected metadata batch_size 10, got %q", job.Metadata["batch_size"])
	}
}

func TestJobManager_GetJobNotFound(t *testing.T) {
	manager := newTestManager(t, 1)

	_, err := manager.GetJob("missing")
	if !errors.Is(err, internalErrors.ErrJobNotFound) {
		t.Errorf("Expected ErrJobNotFound, got %v", err)
	}
}

func TestJobManager_ExecuteJob(t *testing.T) {
	manager := newTestManager(t, 2)
	jobID := manager.CreateJob(model.JobTypeProcessPending, nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job model.Job) (map[string]int, error) {
		manager.UpdateJobProgress(job.ID, 5, 10, "halfway")
		manager.UpdateJobProgress(job.ID, 10, 10, "done")
		return map[string]int{"processed": 10, "failed": 0}, nil
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	job := waitForStatus(t, manager, jobID, model.JobStatusCompleted)
	if job.Progress == nil || job.Progress.Current != 10 || job.Progress.Total != 10 {
		t.Errorf("Expected progress 10/10, got %+v", job.Progress)
	}
	if job.Progress.GetProgressPercentage() != 100 {
		t.Errorf("Expected 100%% progress, got %v", job.Progress.GetProgressPercentage())
	}
	if job.Result["processed"] != 10 {
		t.Errorf("Expected result processed=10, got %v", job.Result)
	}
	if job.StartedAt == nil || job.CompletedAt == nil {
		t.Error("Expected start and completion times to be set")
	}

	if err := manager.ExecuteJob(jobID, nil); err == nil {
		t.Error("Expected error when executing a job that is not pending")
	}
}

func TestJobManager_FailedJob(t *testing.T) {
	manager := newTestManager(t, 1)
	jobID := manager.CreateJob(model.JobTypeCleanup, nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job model.Job) (map[string]int, error) {
		return nil, errors.New("store unavailable")
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	job := waitForStatus(t, manager, jobID, model.JobStatusFailed)
	if job.Error != "store unavailable" {
		t.Errorf("Expected error message to be recorded, got %q", job.Error)
	}

	metrics := manager.Metrics()
	if metrics.JobsFailed != 1 {
		t.Errorf("Expected 1 failed job, got %d", metrics.JobsFailed)
	}
	if metrics.SuccessRate != 0 {
		t.Errorf("Expected success rate 0, got %v", metrics.SuccessRate)
	}
}

func TestJobManager_StopCancelsRunningJobs(t *testing.T) {
	manager := NewManager(1, logging.Discard())
	manager.Start()

	jobID := manager.CreateJob(model.JobTypeProcessPending, nil)
	started := make(chan struct{})
	err := manager.ExecuteJob(jobID, func(ctx context.Context, job model.Job) (map[string]int, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	<-started
	manager.Stop()

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if job.Status != model.JobStatusFailed {
		t.Errorf("Expected cancelled job to be marked failed, got %s", job.Status)
	}

	next := manager.CreateJob(model.JobTypeProcessPending, nil)
	if err := manager.ExecuteJob(next, func(context.Context, model.Job) (map[string]int, error) { return nil, nil }); err == nil {
		t.Error("Expected error when executing after stop")
	}
}

func TestJobManager_ListJobs(t *testing.T) {
	manager := newTestManager(t, 1)

	first := manager.CreateJob(model.JobTypeProcessPending, nil)
	time.Sleep(time.Millisecond)
	manager.CreateJob(model.JobTypeCleanup, nil)
	time.Sleep(time.Millisecond)
	third := manager.CreateJob(model.JobTypeProcessPending, nil)

	all := manager.ListJobs("", nil)
	if len(all) != 3 {
		t.Fatalf("Expected 3 jobs, got %d", len(all))
	}

	processing := manager.ListJobs(model.JobTypeProcessPending, nil)
	if len(processing) != 2 {
		t.Fatalf("Expected 2 processing jobs, got %d", len(processing))
	}
	if processing[0].ID != third || processing[1].ID != first {
		t.Errorf("Expected newest job first")
	}

	running := model.JobStatusRunning
	if got := manager.ListJobs("", &running); len(got) != 0 {
		t.Errorf("Expected no running jobs, got %d", len(got))
	}
}

func TestJobManager_CleanupOldJobs(t *testing.T) {
	manager := newTestManager(t, 1)
	jobID := manager.CreateJob(model.JobTypeCleanup, nil)

	if err := manager.ExecuteJob(jobID, func(context.Context, model.Job) (map[string]int, error) {
		return map[string]int{"deleted": 3}, nil
	}); err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}
	waitForStatus(t, manager, jobID, model.JobStatusCompleted)

	if n := manager.CleanupOldJobs(time.Hour); n != 0 {
		t.Errorf("Expected recent job to be kept, cleaned %d", n)
	}
	if n := manager.CleanupOldJobs(-time.Second); n != 1 {
		t.Errorf("Expected 1 job cleaned, got %d", n)
	}
	if _, err := manager.GetJob(jobID); err == nil {
		t.Error("Expected job to be removed")
	}
}
