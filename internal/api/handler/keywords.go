package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// maxUploadBytes caps the expand-input upload.
const maxUploadBytes = 10 << 20

// NewSeedsHandler returns an http.HandlerFunc for POST /api/v1/keywords/seeds.
// The seed list is returned as newline-separated plain text.
func NewSeedsHandler(p models.KeywordProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Domain string `json:"domain"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		domain := strings.TrimSpace(req.Domain)
		if domain == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Domain is required", nil)
			return
		}

		seeds, err := p.Seeds(r.Context(), domain)
		if err != nil {
			writeProviderError(w, r, err, "NOT_FOUND", "Resource not found")
			return
		}
		response.Text(w, seeds)
	}
}

// NewExpandInputHandler returns an http.HandlerFunc for
// POST /api/v1/keywords/expand-input. The request is multipart with the
// keyword list in the input_file part.
func NewExpandInputHandler(p models.KeywordProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, hdr, err := r.FormFile("input_file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(w, http.StatusRequestEntityTooLarge, "INVALID_REQUEST", "Input file too large", nil)
				return
			}
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Input file is required", nil)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Could not read input file", nil)
			return
		}

		expanded, err := p.ExpandInput(r.Context(), hdr.Filename, content)
		if err != nil {
			writeProviderError(w, r, err, "NOT_FOUND", "Resource not found")
			return
		}
		response.Text(w, expanded)
	}
}
