package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// Prober checks whether the keyword backend is reachable.
type Prober interface {
	Probe(ctx context.Context) (*models.BackendProbe, error)
}

// StatusInfo describes the running configuration reported by /status.
type StatusInfo struct {
	UseMock  bool
	BaseURL  string
	HasToken bool
	Env      string
}

type statusResponse struct {
	Status      string            `json:"status"`
	Environment statusEnvironment `json:"environment"`
	Backend     statusBackend     `json:"backend"`
	Timestamp   string            `json:"timestamp"`
}

type statusEnvironment struct {
	UseMockAPI   bool   `json:"use_mock_api"`
	APIBaseURL   string `json:"api_base_url"`
	HasAuthToken bool   `json:"has_auth_token"`
	Env          string `json:"env"`
}

type statusBackend struct {
	Reachable bool                 `json:"reachable"`
	Probe     *models.BackendProbe `json:"probe,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// NewStatusHandler returns an http.HandlerFunc for GET /api/v1/status. The
// backend is probed even in mock mode so operators can check connectivity
// before switching over. A failed probe answers 503 with the report in the
// error details.
func NewStatusHandler(prober Prober, info StatusInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{
			Environment: statusEnvironment{
				UseMockAPI:   info.UseMock,
				APIBaseURL:   info.BaseURL,
				HasAuthToken: info.HasToken,
				Env:          info.Env,
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		probe, err := prober.Probe(r.Context())
		if err != nil {
			resp.Status = "error"
			resp.Backend.Error = err.Error()
			response.Error(w, http.StatusServiceUnavailable, "BACKEND_UNREACHABLE",
				"Unable to connect to backend service", resp)
			return
		}

		resp.Status = "healthy"
		resp.Backend.Reachable = true
		resp.Backend.Probe = probe
		response.JSON(w, resp)
	}
}
