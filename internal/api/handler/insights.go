package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

type analyzeDomainRequest struct {
	Domain             string `json:"domain"             validate:"required,rootdomain"`
	IncludeSubdomains  bool   `json:"includeSubdomains"`
	IncludeCompetitors bool   `json:"includeCompetitors"`
	StrategicFocus     string `json:"strategicFocus"     validate:"max=200"`
}

// NewAnalyzeDomainHandler returns an http.HandlerFunc for
// POST /api/v1/analyze-domain.
func NewAnalyzeDomainHandler(p models.KeywordProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeDomainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		req.Domain = strings.TrimSpace(req.Domain)
		req.StrategicFocus = strings.TrimSpace(req.StrategicFocus)
		if err := validate.Struct(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"A valid domain is required", fieldErrors(err))
			return
		}

		raw, err := p.AnalyzeDomain(r.Context(), models.DomainInsightsRequest{
			Domain:             req.Domain,
			IncludeSubdomains:  req.IncludeSubdomains,
			IncludeCompetitors: req.IncludeCompetitors,
			StrategicFocus:     req.StrategicFocus,
		})
		if err != nil {
			writeProviderError(w, r, err, "DOMAIN_NOT_FOUND", "Domain not found")
			return
		}
		response.JSON(w, raw)
	}
}
