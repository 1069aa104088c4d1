// Package models contains shared data models used across the keywordlens codebase.
package models

import (
	"context"
	"encoding/json"
)

// KeywordProvider is the core interface behind every API route.
// Handlers never talk to the analytics backend directly; they are given
// either the backend-backed provider or the mock one.
type KeywordProvider interface {
	// Submit requests a keyword analysis for domain on behalf of email.
	Submit(ctx context.Context, domain, email string) (*Submission, error)
	// JobReport returns the raw JSON report for a job.
	JobReport(ctx context.Context, jobID string) (json.RawMessage, error)
	// DomainStatus returns the raw JSON processing status of a domain.
	DomainStatus(ctx context.Context, domain string) (json.RawMessage, error)
	// GenerateCSV queues CSV generation for an already processed domain.
	GenerateCSV(ctx context.Context, domain string) (json.RawMessage, error)
	// DownloadCSV returns the keyword CSV artifact for a domain.
	DownloadCSV(ctx context.Context, domain string) ([]byte, error)
	// Seeds returns newline-separated seed keywords for a domain.
	Seeds(ctx context.Context, domain string) (string, error)
	// ExpandInput expands newline-separated keywords from an uploaded file.
	ExpandInput(ctx context.Context, filename string, content []byte) (string, error)
	// AnalyzeDomain returns the raw JSON DomainInsights for a domain.
	AnalyzeDomain(ctx context.Context, req DomainInsightsRequest) (json.RawMessage, error)
	// Name returns the provider identifier ("mock" or "backend").
	Name() string
}

// Submission is the outcome of a successful Submit. At most one of
// Ticket and CSV is set; Message accompanies either or stands alone.
type Submission struct {
	Ticket  *JobTicket
	CSV     []byte
	Message string
}

// BackendProbe is the result of a connectivity check against the backend.
type BackendProbe struct {
	URL        string `json:"url"`
	Status     int    `json:"status"`
	OK         bool   `json:"ok"`
	StatusText string `json:"statusText"`
}
