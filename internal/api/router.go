package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/keywordlens/internal/api/middleware"
	"github.com/kiranshivaraju/keywordlens/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
// A nil RateLimit leaves /analyze unlimited.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler       http.HandlerFunc
	StatusHandler       http.HandlerFunc
	AnalyzeHandler      http.HandlerFunc
	ReportHandler       http.HandlerFunc
	DomainStatusHandler http.HandlerFunc
	GenerateCSVHandler  http.HandlerFunc
	DownloadCSVHandler  http.HandlerFunc
	SeedsHandler        http.HandlerFunc
	ExpandInputHandler  http.HandlerFunc
	ListNotifications   http.HandlerFunc
	Subscribe           http.HandlerFunc
	ListSubscriptions   http.HandlerFunc
	AnalyzeDomain       http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.ClientIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", orNotImplemented(deps.HealthHandler))
		r.Get("/status", orNotImplemented(deps.StatusHandler))

		r.Group(func(r chi.Router) {
			if deps.RateLimit != nil {
				r.Use(deps.RateLimit.Limit)
			}
			r.Post("/analyze", orNotImplemented(deps.AnalyzeHandler))
		})

		r.Post("/analyze-domain", orNotImplemented(deps.AnalyzeDomain))

		r.Get("/report/{jobID}", orNotImplemented(deps.ReportHandler))

		r.Route("/domains/{domain}", func(r chi.Router) {
			r.Get("/status", orNotImplemented(deps.DomainStatusHandler))
			r.Post("/generate-csv", orNotImplemented(deps.GenerateCSVHandler))
			r.Get("/download", orNotImplemented(deps.DownloadCSVHandler))
		})

		r.Post("/keywords/seeds", orNotImplemented(deps.SeedsHandler))
		r.Post("/keywords/expand-input", orNotImplemented(deps.ExpandInputHandler))

		r.Get("/notifications", orNotImplemented(deps.ListNotifications))
		r.Post("/notifications", orNotImplemented(deps.Subscribe))
		r.Get("/notifications/subscriptions", orNotImplemented(deps.ListSubscriptions))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
