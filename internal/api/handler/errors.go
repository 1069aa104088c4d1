package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/internal/backend"
)

// writeProviderError maps a provider error onto the error envelope.
// An upstream 404 always answers with notFoundCode and the fixed
// notFoundMsg; the upstream body is not relayed.
func writeProviderError(w http.ResponseWriter, r *http.Request, err error, notFoundCode, notFoundMsg string) {
	var statusErr *backend.StatusError
	switch {
	case errors.Is(err, backend.ErrNotFound):
		response.Error(w, http.StatusNotFound, notFoundCode, notFoundMsg, nil)
	case errors.As(err, &statusErr):
		response.Error(w, statusErr.StatusCode, "BACKEND_ERROR", statusErr.Message(), nil)
	case errors.Is(err, backend.ErrTimeout):
		response.Error(w, http.StatusGatewayTimeout, "BACKEND_TIMEOUT",
			"Backend request timed out", nil)
	case errors.Is(err, backend.ErrUnavailable):
		response.Error(w, http.StatusServiceUnavailable, "BACKEND_UNAVAILABLE",
			"Backend service unavailable", nil)
	case errors.Is(err, backend.ErrInvalidResponse):
		response.Error(w, http.StatusBadGateway, "BACKEND_ERROR",
			"Backend returned an invalid response", nil)
	default:
		slog.Error("unexpected provider error", "error", err, "path", r.URL.Path)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
