package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/news-search-engine/model"
)

// maxDurationsPerType bounds the execution-time samples kept per job type.
const maxDurationsPerType = 100

// MetricsSnapshot is a point-in-time copy of the job metrics.
type MetricsSnapshot struct {
	JobsCreated        int64                     `json:"jobs_created"`
	JobsCompleted      int64                     `json:"jobs_completed"`
	JobsFailed         int64                     `json:"jobs_failed"`
	SuccessRate        float64                   `json:"success_rate"`
	ActiveJobs         int64                     `json:"active_jobs"`
	AverageDurationMs  int64                     `json:"average_duration_ms"`
	AverageDurationsMs map[model.JobType]int64   `json:"average_durations_ms"`
	JobsByType         map[model.JobType]int64   `json:"jobs_by_type"`
	JobsByStatus       map[model.JobStatus]int64 `json:"jobs_by_status"`
	LastUpdated        time.Time                 `json:"last_updated"`
}

// Metrics counts jobs per type and status and keeps recent execution times.
type Metrics struct {
	mu          sync.RWMutex
	created     int64
	completed   int64
	failed      int64
	totalTime   time.Duration
	byType      map[model.JobType]int64
	byStatus    map[model.JobStatus]int64
	durations   map[model.JobType][]time.Duration
	lastUpdated time.Time
}

// NewMetrics creates an empty metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		byType:      make(map[model.JobType]int64),
		byStatus:    make(map[model.JobStatus]int64),
		durations:   make(map[model.JobType][]time.Duration),
		lastUpdated: time.Now(),
	}
}

func (m *Metrics) recordCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created++
	m.byType[jobType]++
	m.byStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

func (m *Metrics) recordTransition(from, to model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if from != "" && m.byStatus[from] > 0 {
		m.byStatus[from]--
	}
	m.byStatus[to]++
	m.lastUpdated = time.Now()
}

func (m *Metrics) recordFinished(jobType model.JobType, took time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.failed++
	} else {
		m.completed++
		m.totalTime += took
		samples := append(m.durations[jobType], took)
		if len(samples) > maxDurationsPerType {
			samples = samples[1:]
		}
		m.durations[jobType] = samples
	}
	m.lastUpdated = time.Now()
}

// SuccessRate returns completed / (completed + failed), or 1 when nothing finished yet.
func (m *Metrics) SuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.successRate()
}

func (m *Metrics) successRate() float64 {
	finished := m.completed + m.failed
	if finished == 0 {
		return 1.0
	}
	return float64(m.completed) / float64(finished)
}

// ActiveJobs returns the number of pending and running jobs.
func (m *Metrics) ActiveJobs() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning]
}

// Snapshot copies the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := MetricsSnapshot{
		JobsCreated:        m.created,
		JobsCompleted:      m.completed,
		JobsFailed:         m.failed,
		SuccessRate:        m.successRate(),
		ActiveJobs:         m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning],
		AverageDurationsMs: make(map[model.JobType]int64, len(m.durations)),
		JobsByType:         make(map[model.JobType]int64, len(m.byType)),
		JobsByStatus:       make(map[model.JobStatus]int64, len(m.byStatus)),
		LastUpdated:        m.lastUpdated,
	}
	if m.completed > 0 {
		s.AverageDurationMs = (m.totalTime / time.Duration(m.completed)).Milliseconds()
	}
	for t, samples := range m.durations {
		var total time.Duration
		for _, d := range samples {
			total += d
		}
		s.AverageDurationsMs[t] = (total / time.Duration(len(samples))).Milliseconds()
	}
	for k, v := range m.byType {
		s.JobsByType[k] = v
	}
	for k, v := range m.byStatus {
		s.JobsByStatus[k] = v
	}
	return s
}
