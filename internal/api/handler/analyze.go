package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/internal/store"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

type analyzeResponse struct {
	JobID   string `json:"job_id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
// A CSV answer is relayed as an attachment; a queued job answers 202 with
// the job id; a message-only answer is relayed as data.
func NewAnalyzeHandler(p models.KeywordProvider, s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domainEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		req.normalize()
		if err := validate.Struct(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", analyzeValidationMessage(err), nil)
			return
		}
		domain, email := req.Domain, req.Email

		sub, err := p.Submit(r.Context(), domain, email)
		if err != nil {
			slog.Warn("analysis submission failed", "domain", domain, "provider", p.Name(), "error", err)
			writeProviderError(w, r, err, "NOT_FOUND", "Resource not found")
			return
		}

		rec := newAnalysisRecord(domain, email, p.Name())
		switch {
		case len(sub.CSV) > 0:
			rec.Status = models.JobStatusCompleted
			saveRecord(r, s, rec)
			response.CSV(w, "keywords-"+domain+".csv", sub.CSV)
		case sub.Ticket != nil:
			jobID := sub.Ticket.JobID
			rec.JobID = &jobID
			rec.Status = sub.Ticket.Status
			saveRecord(r, s, rec)
			msg := sub.Ticket.Message
			if msg == "" {
				msg = sub.Message
			}
			response.Accepted(w, analyzeResponse{JobID: jobID, Status: sub.Ticket.Status, Message: msg})
		default:
			rec.Status = models.JobStatusPending
			saveRecord(r, s, rec)
			response.JSON(w, analyzeResponse{Message: sub.Message})
		}
	}
}

// analyzeValidationMessage picks the form message for the first problem:
// missing fields, then the domain, then the email.
func analyzeValidationMessage(err error) string {
	fields := fieldErrors(err)
	switch {
	case fields["domain"] == "required" || fields["email"] == "required":
		return "Domain and email are required"
	case fields["domain"] != "":
		return "Please enter a valid root domain (e.g., example.com)"
	default:
		return "Please enter a valid email address"
	}
}

func newAnalysisRecord(domain, email, mode string) *models.AnalysisRecord {
	now := time.Now().UTC()
	return &models.AnalysisRecord{
		ID:        uuid.New(),
		Domain:    domain,
		Email:     email,
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// saveRecord persists rec. The submission already succeeded upstream, so a
// store failure is logged and does not fail the request.
func saveRecord(r *http.Request, s store.Store, rec *models.AnalysisRecord) {
	if err := s.CreateAnalysisRecord(r.Context(), rec); err != nil {
		slog.Error("failed to save analysis record", "domain", rec.Domain, "error", err)
	}
}
