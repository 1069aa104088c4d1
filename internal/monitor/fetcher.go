// Package monitor tracks a keyword analysis job from submission to a
// downloadable CSV: a status fetcher, a poller that drives it, and a view
// controller that turns snapshots into named views.
package monitor

import (
	"context"
	"errors"
	"net/http"

	"github.com/kiranshivaraju/keywordlens/internal/client"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

const (
	msgJobNotFound   = "Job not found"
	msgCheckFailed   = "Failed to check job status"
	msgNetworkFailed = "network error"
)

// Fetcher performs one status round trip for a job. It never fails: every
// error is folded into a snapshot with status failed.
type Fetcher interface {
	Fetch(ctx context.Context, jobID, domain string) models.JobSnapshot
}

// ReportClient is the slice of the API client a StatusFetcher needs.
type ReportClient interface {
	Report(ctx context.Context, jobID string) (models.JobSnapshot, error)
}

// StatusFetcher is the Fetcher backed by GET /api/v1/report/{jobID}.
type StatusFetcher struct {
	client ReportClient
}

func NewStatusFetcher(c ReportClient) *StatusFetcher {
	return &StatusFetcher{client: c}
}

func (f *StatusFetcher) Fetch(ctx context.Context, jobID, domain string) models.JobSnapshot {
	snap, err := f.client.Report(ctx, jobID)
	if err == nil {
		if snap.JobID == "" {
			snap.JobID = jobID
		}
		if snap.Domain == "" {
			snap.Domain = domain
		}
		return snap
	}

	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return models.FailedSnapshot(jobID, domain, messageOr(apiErr.Message, msgJobNotFound))
	case errors.As(err, &apiErr):
		return models.FailedSnapshot(jobID, domain, messageOr(apiErr.Message, msgCheckFailed))
	case errors.Is(err, client.ErrNetwork):
		return models.FailedSnapshot(jobID, domain, msgNetworkFailed)
	default:
		return models.FailedSnapshot(jobID, domain, msgCheckFailed)
	}
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, jobID, domain string) models.JobSnapshot

func (f FetcherFunc) Fetch(ctx context.Context, jobID, domain string) models.JobSnapshot {
	return f(ctx, jobID, domain)
}
