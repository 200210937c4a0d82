package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/lucyvers/bankflow/internal/api/middleware"
	"github.com/lucyvers/bankflow/internal/jobs"
	"github.com/lucyvers/bankflow/internal/workflow"
)

// BatchesHandler handles batch-related endpoints.
type BatchesHandler struct {
	publisher jobs.Publisher
	reports   *workflow.ReportStore
	log       zerolog.Logger
}

// NewBatchesHandler creates a new batches handler.
func NewBatchesHandler(publisher jobs.Publisher, reports *workflow.ReportStore, log zerolog.Logger) *BatchesHandler {
	return &BatchesHandler{
		publisher: publisher,
		reports:   reports,
		log:       log,
	}
}

// CreateBatch handles POST /api/batches.
// It enqueues a batch load job and returns immediately; the report
// becomes available under the batch id once the job finishes.
func (h *BatchesHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req workflow.BatchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CustomersURI == "" || req.TransactionsURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "customers_uri and transactions_uri are required")
		return
	}

	ctx := r.Context()

	job := &jobs.LoadBatchJob{
		BatchID:         req.BatchID,
		BankName:        req.BankName,
		BankNr:          req.BankNr,
		CustomersURI:    req.CustomersURI,
		TransactionsURI: req.TransactionsURI,
	}

	if err := h.publisher.PublishLoadBatch(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue batch job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue batch job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("batch_id", job.BatchID).Msg("Batch job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":   job.JobID,
		"batch_id": job.BatchID,
		"status":   string(job.Status),
	})
}

// ListReports handles GET /api/batches.
func (h *BatchesHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports := h.reports.List()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"batches": reports,
		"count":   len(reports),
	})
}

// GetReport handles GET /api/batches/{id}/report.
func (h *BatchesHandler) GetReport(w http.ResponseWriter, r *http.Request, batchID string) {
	report, ok := h.reports.Get(batchID)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Report not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, report)
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse query parameters
	query := r.URL.Query()
	filter := jobs.JobFilter{
		BatchID: query.Get("batch_id"),
		Status:  jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
