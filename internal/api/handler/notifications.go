package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/internal/store"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

const maxNotificationsLimit = 100

// NewListNotificationsHandler returns an http.HandlerFunc for
// GET /api/v1/notifications. Recent analyses are returned newest first.
func NewListNotificationsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := store.DefaultListLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxNotificationsLimit {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"limit must be between 1 and 100", nil)
				return
			}
			limit = n
		}

		recs, err := s.ListRecentAnalyses(r.Context(), limit)
		if err != nil {
			slog.Error("failed to list analyses", "error", err)
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		items := make([]models.Notification, 0, len(recs))
		for _, rec := range recs {
			items = append(items, models.NotificationFromRecord(rec))
		}
		response.Collection(w, items, response.PaginationMeta{
			Page:  1,
			Limit: limit,
			Total: len(items),
		})
	}
}

// NewListSubscriptionsHandler returns an http.HandlerFunc for
// GET /api/v1/notifications/subscriptions. An optional ?domain= narrows the
// list to one domain.
func NewListSubscriptionsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain := strings.TrimSpace(r.URL.Query().Get("domain"))
		if domain != "" && !models.ValidDomain(domain) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"domain must be a root domain like example.com", nil)
			return
		}

		subs, err := s.ListSubscriptions(r.Context(), domain)
		if err != nil {
			slog.Error("failed to list subscriptions", "domain", domain, "error", err)
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.Collection(w, subs, response.PaginationMeta{
			Page:  1,
			Limit: len(subs),
			Total: len(subs),
		})
	}
}

// NewSubscribeHandler returns an http.HandlerFunc for
// POST /api/v1/notifications.
func NewSubscribeHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domainEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		req.normalize()
		if err := validate.Struct(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"A valid domain and email are required", fieldErrors(err))
			return
		}
		domain, email := req.Domain, req.Email

		sub := &models.Subscription{
			ID:        uuid.New(),
			Domain:    domain,
			Email:     email,
			Status:    models.SubscriptionStatusActive,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.CreateSubscription(r.Context(), sub); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "ALREADY_SUBSCRIBED",
					"This email is already subscribed to the domain", nil)
				return
			}
			slog.Error("failed to create subscription", "domain", domain, "error", err)
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		slog.Info("notification subscription created", "domain", domain)
		response.Created(w, sub)
	}
}
