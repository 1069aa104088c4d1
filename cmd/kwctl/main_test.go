package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/keywordlens/internal/config"
)

const csvBody = "keyword,avg_monthly_searches,competition_level\n\"acme tools\",1200,LOW"

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	var reports atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"data":{"job_id":"job-1","status":"pending","message":"Analysis started"}}`))
	})
	mux.HandleFunc("GET /api/v1/report/job-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if reports.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"data":{"job_id":"job-1","status":"processing","domain":"acme.io","progress":50}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"job_id":"job-1","status":"completed","domain":"acme.io"}}`))
	})
	mux.HandleFunc("GET /api/v1/report/job-gone", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"JOB_NOT_FOUND","message":"Job not found"}}`))
	})
	mux.HandleFunc("GET /api/v1/domains/acme.io/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csvBody))
	})
	mux.HandleFunc("GET /api/v1/domains/clay.com/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"status":"available","keyword_count":231968,"message":"Keyword data is ready"}}`))
	})
	mux.HandleFunc("GET /api/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"8a1c3f9e-4a5b-4c6d-8e7f-001122334455","domain":"acme.io","status":"completed","job_id":"job-1","timestamp":"2026-10-18T09:00:00Z"}],"meta":{"total":1,"limit":20}}`))
	})
	mux.HandleFunc("POST /api/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"8a1c3f9e-4a5b-4c6d-8e7f-001122334455","domain":"acme.io","email":"ops@acme.io","status":"active","created_at":"2026-10-18T09:00:00Z"}}`))
	})
	mux.HandleFunc("GET /api/v1/notifications/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("domain") == "quiet.io" {
			_, _ = w.Write([]byte(`{"data":[],"meta":{"total":0}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"8a1c3f9e-4a5b-4c6d-8e7f-001122334455","domain":"acme.io","email":"ops@acme.io","status":"active","created_at":"2026-10-18T09:00:00Z"}],"meta":{"total":1}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(config.ClientConfig{
		APIURL:       srv.URL,
		Timeout:      5 * time.Second,
		PollInterval: time.Millisecond,
	})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestAnalyze_PollsAndDownloads(t *testing.T) {
	srv := newFakeAPI(t)
	dest := filepath.Join(t.TempDir(), "out.csv")

	out, err := execute(t, srv, "analyze", "acme.io", "--email", "ops@acme.io", "--output", dest)
	require.NoError(t, err)

	assert.Contains(t, out, "Checking Status...")
	assert.Contains(t, out, "Processing")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "Completed!")
	assert.Contains(t, out, "keyword CSV for acme.io is ready")

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(body))
}

func TestAnalyze_InvalidDomain(t *testing.T) {
	srv := newFakeAPI(t)

	out, err := execute(t, srv, "analyze", "not a domain", "--email", "ops@acme.io")
	require.Error(t, err)
	assert.Contains(t, out, "Invalid domain format")
}

func TestAnalyze_RequiresEmail(t *testing.T) {
	srv := newFakeAPI(t)

	_, err := execute(t, srv, "analyze", "acme.io")
	require.Error(t, err)
}

func TestWatch_JobNotFound(t *testing.T) {
	srv := newFakeAPI(t)

	out, err := execute(t, srv, "watch", "job-gone", "--domain", "acme.io")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Job not found")
	assert.Contains(t, out, "Failed")
}

func TestWatch_Completes(t *testing.T) {
	srv := newFakeAPI(t)

	out, err := execute(t, srv, "watch", "job-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed!")
}

func TestStatus(t *testing.T) {
	srv := newFakeAPI(t)

	out, err := execute(t, srv, "status", "clay.com")
	require.NoError(t, err)
	assert.Contains(t, out, "clay.com: available (231968 keywords)")
	assert.Contains(t, out, "Keyword data is ready")
}

func TestNotifications(t *testing.T) {
	srv := newFakeAPI(t)

	out, err := execute(t, srv, "notifications")
	require.NoError(t, err)
	assert.Contains(t, out, "DOMAIN")
	assert.Contains(t, out, "acme.io")
	assert.Contains(t, out, "job-1")
}

func TestSubscribe(t *testing.T) {
	srv := newFakeAPI(t)

	out, err := execute(t, srv, "subscribe", "acme.io", "--email", "ops@acme.io")
	require.NoError(t, err)
	assert.Contains(t, out, "subscribed ops@acme.io to acme.io (active)")
}

func TestSubscriptions(t *testing.T) {
	srv := newFakeAPI(t)

	out, err := execute(t, srv, "subscriptions")
	require.NoError(t, err)
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, "ops@acme.io")

	out, err = execute(t, srv, "subscriptions", "--domain", "quiet.io")
	require.NoError(t, err)
	assert.Contains(t, out, "No subscriptions.")
}

func TestCSVFilename(t *testing.T) {
	assert.Equal(t, "keywords-acme.io.csv", csvFilename("acme.io"))
}
