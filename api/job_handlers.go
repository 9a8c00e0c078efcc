package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/news-search-engine/model"
)

// ProcessRequest is the optional body of the process endpoint
type ProcessRequest struct {
	BatchSize int `json:"batch_size"` // 0 uses the configured batch size
}

// CleanupRequest is the optional body of the cleanup endpoint
type CleanupRequest struct {
	Days int `json:"days"` // 0 uses the configured retention
}

// ProcessPendingHandler starts a background job that processes pending articles
func (api *API) ProcessPendingHandler(c *gin.Context) {
	var req ProcessRequest
	if c.Request.ContentLength > 0 {
		if result := ValidateJSONBinding(c, &req); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
	}
	if req.BatchSize < 0 || req.BatchSize > maxPageSize {
		result := &ValidationResult{Valid: true}
		result.AddError("batch_size", "Batch size must be between 1 and 100")
		SendValidationError(c, result)
		return
	}

	jobID, err := api.engine.ProcessPendingAsync(req.BatchSize)
	if err != nil {
		_ = c.Error(err)
		SendJobExecutionError(c, "process pending", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Processing of pending articles started",
		"job_id":  jobID,
	})
}

// CleanupHandler starts a background job deleting articles past retention
func (api *API) CleanupHandler(c *gin.Context) {
	var req CleanupRequest
	if c.Request.ContentLength > 0 {
		if result := ValidateJSONBinding(c, &req); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
	}
	if req.Days < 0 {
		result := &ValidationResult{Valid: true}
		result.AddError("days", "Days must be greater than 0")
		SendValidationError(c, result)
		return
	}

	jobID, err := api.engine.CleanupAsync(req.Days)
	if err != nil {
		_ = c.Error(err)
		SendJobExecutionError(c, "cleanup", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Cleanup of old articles started",
		"job_id":  jobID,
	})
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.engine.Jobs().GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs newest first, filtered by the optional type and status parameters
func (api *API) ListJobsHandler(c *gin.Context) {
	var statusFilter *model.JobStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobs := api.engine.Jobs().ListJobs(model.JobType(c.Query("type")), statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	metrics := api.engine.Jobs().Metrics()

	c.JSON(http.StatusOK, gin.H{
		"metrics":          metrics,
		"success_rate":     metrics.SuccessRate,
		"current_workload": metrics.ActiveJobs,
	})
}
