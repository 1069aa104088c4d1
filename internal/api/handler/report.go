package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/internal/cache"
	"github.com/kiranshivaraju/keywordlens/internal/store"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// terminalSnapshotTTL bounds how long a finished job report is served
// from cache.
const terminalSnapshotTTL = time.Hour

const msgJobNotFound = "The requested job ID does not exist or has expired"

// NewReportHandler returns an http.HandlerFunc for GET /api/v1/report/{jobID}.
// Reports in a terminal status are cached and written back to the analysis
// record for the job.
func NewReportHandler(p models.KeywordProvider, s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		if jobID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Job ID is required", nil)
			return
		}
		ctx := r.Context()

		if cached, ok, err := c.GetJobSnapshot(ctx, jobID); err != nil {
			slog.Warn("job snapshot cache read failed", "job_id", jobID, "error", err)
		} else if ok {
			response.JSON(w, json.RawMessage(cached))
			return
		}

		raw, err := p.JobReport(ctx, jobID)
		if err != nil {
			writeProviderError(w, r, err, "JOB_NOT_FOUND", msgJobNotFound)
			return
		}

		var head struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(raw, &head); err == nil && models.IsTerminalStatus(head.Status) {
			if err := c.SetJobSnapshot(ctx, jobID, raw, terminalSnapshotTTL); err != nil {
				slog.Warn("job snapshot cache write failed", "job_id", jobID, "error", err)
			}
			recordTerminalStatus(ctx, s, jobID, head.Status)
		}

		response.JSON(w, raw)
	}
}

// recordTerminalStatus settles the analysis record for jobID. Records that
// are already terminal, and jobs submitted elsewhere, are left alone.
func recordTerminalStatus(ctx context.Context, s store.Store, jobID, status string) {
	rec, err := s.GetAnalysisRecordByJobID(ctx, jobID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return
	case err != nil:
		slog.Warn("failed to load analysis record", "job_id", jobID, "error", err)
		return
	case models.IsTerminalStatus(rec.Status):
		return
	}
	if err := s.UpdateAnalysisStatusByJobID(ctx, jobID, status); err != nil {
		slog.Warn("failed to record job status", "job_id", jobID, "status", status, "error", err)
	}
}
