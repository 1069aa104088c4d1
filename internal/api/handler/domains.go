package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

func domainParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	domain := strings.TrimSpace(chi.URLParam(r, "domain"))
	if domain == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Domain is required", nil)
		return "", false
	}
	return domain, true
}

// NewDomainStatusHandler returns an http.HandlerFunc for
// GET /api/v1/domains/{domain}/status.
func NewDomainStatusHandler(p models.KeywordProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain, ok := domainParam(w, r)
		if !ok {
			return
		}
		raw, err := p.DomainStatus(r.Context(), domain)
		if err != nil {
			writeProviderError(w, r, err, "DOMAIN_NOT_FOUND", "Domain not found")
			return
		}
		response.JSON(w, raw)
	}
}

// NewGenerateCSVHandler returns an http.HandlerFunc for
// POST /api/v1/domains/{domain}/generate-csv.
func NewGenerateCSVHandler(p models.KeywordProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain, ok := domainParam(w, r)
		if !ok {
			return
		}
		raw, err := p.GenerateCSV(r.Context(), domain)
		if err != nil {
			writeProviderError(w, r, err, "DOMAIN_NOT_FOUND", "Domain not found")
			return
		}
		response.Accepted(w, raw)
	}
}

// NewDownloadCSVHandler returns an http.HandlerFunc for
// GET /api/v1/domains/{domain}/download.
func NewDownloadCSVHandler(p models.KeywordProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain, ok := domainParam(w, r)
		if !ok {
			return
		}
		body, err := p.DownloadCSV(r.Context(), domain)
		if err != nil {
			writeProviderError(w, r, err, "CSV_NOT_AVAILABLE", "CSV not available for this domain")
			return
		}
		response.CSV(w, "keywords-"+domain+".csv", body)
	}
}
