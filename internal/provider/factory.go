package provider

import (
	"github.com/kiranshivaraju/keywordlens/internal/backend"
	"github.com/kiranshivaraju/keywordlens/internal/config"
	"github.com/kiranshivaraju/keywordlens/internal/provider/mock"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// NewProvider constructs the keyword provider selected by config.
// Called once at server startup.
func NewProvider(cfg config.BackendConfig) models.KeywordProvider {
	if cfg.UseMock {
		return mock.NewProvider(mock.WithLatency(cfg.MockLatency))
	}
	return backend.NewHTTPClient(cfg.BaseURL, cfg.AuthToken, cfg.Timeout)
}
