package monitor_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/keywordlens/internal/client"
	"github.com/kiranshivaraju/keywordlens/internal/monitor"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

type fakeAPI struct {
	mu            sync.Mutex
	analyzeFunc   func(ctx context.Context, domain, email string) (*client.Submission, error)
	status        *models.DomainStatus
	ticket        *models.JobTicket
	csv           []byte
	analyzeCalls  int
	downloadCalls int
}

func (a *fakeAPI) Analyze(ctx context.Context, domain, email string) (*client.Submission, error) {
	a.mu.Lock()
	a.analyzeCalls++
	fn := a.analyzeFunc
	a.mu.Unlock()
	return fn(ctx, domain, email)
}

func (a *fakeAPI) DomainStatus(context.Context, string) (*models.DomainStatus, error) {
	if a.status == nil {
		return nil, &client.APIError{StatusCode: 404, Message: "Domain not found"}
	}
	return a.status, nil
}

func (a *fakeAPI) GenerateCSV(context.Context, string) (*models.JobTicket, error) {
	return a.ticket, nil
}

func (a *fakeAPI) DownloadCSV(context.Context, string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.downloadCalls++
	return a.csv, nil
}

func submitReturns(sub *client.Submission, err error) func(context.Context, string, string) (*client.Submission, error) {
	return func(context.Context, string, string) (*client.Submission, error) { return sub, err }
}

type viewRecorder struct {
	mu    sync.Mutex
	views []monitor.View
}

func (r *viewRecorder) record(v monitor.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

func (r *viewRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func newController(api *fakeAPI, f monitor.Fetcher) (*monitor.Controller, *viewRecorder) {
	rec := &viewRecorder{}
	c := monitor.NewController(api, f,
		monitor.WithPollInterval(time.Millisecond),
		monitor.WithOnChange(rec.record),
	)
	return c, rec
}

func fillForm(c *monitor.Controller) {
	c.SetDomain("  acme.io ")
	c.SetEmail("ops@acme.io")
}

func waitView(t *testing.T, c *monitor.Controller, name string) monitor.View {
	t.Helper()
	require.Eventually(t, func() bool { return c.View().Name() == name }, 2*time.Second, time.Millisecond)
	return c.View()
}

func TestController_StartsOnEmptyForm(t *testing.T) {
	c, _ := newController(&fakeAPI{}, newScriptFetcher())
	assert.Equal(t, monitor.FormView{}, c.View())
	assert.Nil(t, c.Poller())
}

func TestController_SubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		email   string
		wantErr error
		notice  string
	}{
		{"bad domain", "https://acme.io", "ops@acme.io", monitor.ErrInvalidDomain, "Invalid domain format"},
		{"empty domain", "", "ops@acme.io", monitor.ErrInvalidDomain, "Invalid domain format"},
		{"bad email", "acme.io", "ops-at-acme", monitor.ErrInvalidEmail, "Invalid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{JobID: "job-1"}, nil)}
			c, _ := newController(api, newScriptFetcher())
			c.SetDomain(tt.domain)
			c.SetEmail(tt.email)

			err := c.Submit(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, monitor.FormView{Notice: tt.notice}, c.View())
			assert.Equal(t, 0, api.analyzeCalls)
		})
	}
}

func TestController_SubmitJobRunsToCSVReady(t *testing.T) {
	api := &fakeAPI{
		analyzeFunc: submitReturns(&client.Submission{JobID: "job-1", Status: "pending"}, nil),
		csv:         []byte("keyword\nseo tools\n"),
	}
	f := newScriptFetcher(
		models.JobSnapshot{Status: models.JobStatusPending},
		models.JobSnapshot{Status: models.JobStatusProcessing, Progress: intPtr(40)},
		models.JobSnapshot{Status: models.JobStatusCompleted},
	)
	c, rec := newController(api, f)
	fillForm(c)

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, "acme.io", c.Domain())

	v := waitView(t, c, "csv-ready")
	assert.Equal(t, monitor.CSVReadyView{JobID: "job-1", Domain: "acme.io"}, v)

	p := c.Poller()
	require.NotNil(t, p)
	<-p.Done()
	assert.Equal(t, 3, f.Calls())

	rec.mu.Lock()
	var titles []string
	for _, v := range rec.views {
		if jm, ok := v.(monitor.JobMonitorView); ok {
			titles = append(titles, monitor.Describe(jm.Snapshot).Title)
		}
	}
	rec.mu.Unlock()
	assert.Equal(t, []string{"Checking Status...", "Queued", "Processing", "Completed!"}, titles)

	body, err := c.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.csv, body)
	assert.Equal(t, 1, api.downloadCalls)
}

func TestController_SubmitReturnsCSVDirectly(t *testing.T) {
	csv := []byte("keyword\nacme\n")
	api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{CSV: csv}, nil)}
	c, _ := newController(api, newScriptFetcher())
	fillForm(c)

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, monitor.CSVReadyView{Domain: "acme.io", CSV: csv}, c.View())
	assert.Nil(t, c.Poller())

	body, err := c.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, csv, body)
	assert.Equal(t, 0, api.downloadCalls)
}

func TestController_SubmitMessageOnly(t *testing.T) {
	t.Run("default notice", func(t *testing.T) {
		api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{}, nil)}
		c, _ := newController(api, newScriptFetcher())
		fillForm(c)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, monitor.FormView{Notice: "Check your email for results!"}, c.View())
	})

	t.Run("backend message", func(t *testing.T) {
		api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{Message: "Request received"}, nil)}
		c, _ := newController(api, newScriptFetcher())
		fillForm(c)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, monitor.FormView{Notice: "Request received"}, c.View())
	})
}

func TestController_SubmitErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		notice string
	}{
		{"api error message", &client.APIError{StatusCode: 400, Message: "Please enter a valid root domain (e.g., example.com)"}, "Please enter a valid root domain (e.g., example.com)"},
		{"api error without message", &client.APIError{StatusCode: 500}, "Error submitting request"},
		{"network", fmt.Errorf("%w: connection refused", client.ErrNetwork), "Network error - please try again"},
		{"other", errors.New("boom"), "Error submitting request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{analyzeFunc: submitReturns(nil, tt.err)}
			c, _ := newController(api, newScriptFetcher())
			fillForm(c)

			err := c.Submit(context.Background())
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, monitor.FormView{Notice: tt.notice}, c.View())
			assert.Equal(t, "acme.io", c.Domain(), "form keeps its input")
		})
	}
}

func TestController_SubmitOnlyFromForm(t *testing.T) {
	api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{CSV: []byte("k\n")}, nil)}
	c, _ := newController(api, newScriptFetcher())
	fillForm(c)
	require.NoError(t, c.Submit(context.Background()))

	assert.ErrorIs(t, c.Submit(context.Background()), monitor.ErrWrongView)
}

func TestController_NetworkFailureThenRetry(t *testing.T) {
	var calls int
	var mu sync.Mutex
	reports := reportFunc(func(_ context.Context, jobID string) (models.JobSnapshot, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return models.JobSnapshot{JobID: jobID, Status: models.JobStatusProcessing, Progress: intPtr(30)}, nil
		}
		return models.JobSnapshot{}, fmt.Errorf("%w: connection reset", client.ErrNetwork)
	})

	api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{JobID: "job-7"}, nil)}
	c, _ := newController(api, monitor.NewStatusFetcher(reports))
	fillForm(c)
	require.NoError(t, c.Submit(context.Background()))

	require.Eventually(t, func() bool {
		v, ok := c.View().(monitor.JobMonitorView)
		return ok && v.Snapshot != nil && v.Snapshot.Status == models.JobStatusFailed
	}, 2*time.Second, time.Millisecond)

	v := c.View().(monitor.JobMonitorView)
	assert.Equal(t, "network error", v.Snapshot.Error)
	assert.Equal(t, "Failed", monitor.Describe(v.Snapshot).Title)
	p := c.Poller()
	<-p.Done()
	assert.Equal(t, monitor.StateStopped, p.State())

	_, err := c.Download(context.Background())
	assert.ErrorIs(t, err, monitor.ErrNotReady)

	c.Retry()
	assert.Equal(t, monitor.FormView{}, c.View())
	assert.Empty(t, c.Domain())
	assert.Empty(t, c.Email())
	assert.Nil(t, c.Poller())
}

func TestController_RetryFromOnChange(t *testing.T) {
	release := make(chan struct{})
	f := monitor.FetcherFunc(func(_ context.Context, jobID, domain string) models.JobSnapshot {
		<-release
		return models.FailedSnapshot(jobID, domain, "network error")
	})
	api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{JobID: "job-9"}, nil)}

	var c *monitor.Controller
	c = monitor.NewController(api, f,
		monitor.WithPollInterval(time.Millisecond),
		monitor.WithOnChange(func(v monitor.View) {
			if jm, ok := v.(monitor.JobMonitorView); ok && jm.Snapshot != nil &&
				jm.Snapshot.Status == models.JobStatusFailed {
				c.Retry()
			}
		}),
	)
	fillForm(c)
	require.NoError(t, c.Submit(context.Background()))
	p := c.Poller()
	require.NotNil(t, p)
	close(release)

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after Retry from the change callback")
	}
	assert.Equal(t, monitor.StateStopped, p.State())
	assert.Equal(t, monitor.FormView{}, c.View())
	assert.Nil(t, c.Poller())
	assert.Empty(t, c.Domain())
}

func TestController_RetryIsIdempotent(t *testing.T) {
	api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{JobID: "job-1"}, nil)}
	f := newScriptFetcher(models.JobSnapshot{Status: models.JobStatusPending})
	c, rec := newController(api, f)
	fillForm(c)
	require.NoError(t, c.Submit(context.Background()))
	p := c.Poller()

	c.Retry()
	<-p.Done()
	first := c.View()
	n := rec.Len()

	c.Retry()
	c.StartNewAnalysis()
	assert.Equal(t, first, c.View())
	assert.Equal(t, monitor.FormView{}, c.View())
	assert.Equal(t, n, rec.Len(), "repeat resets emit no view change")
}

func TestController_RetryDiscardsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := monitor.FetcherFunc(func(_ context.Context, jobID, domain string) models.JobSnapshot {
		close(started)
		<-release
		return models.JobSnapshot{JobID: jobID, Domain: domain, Status: models.JobStatusCompleted}
	})

	api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{JobID: "job-1"}, nil)}
	c, _ := newController(api, f)
	fillForm(c)
	require.NoError(t, c.Submit(context.Background()))
	p := c.Poller()
	<-started

	c.StartNewAnalysis()
	close(release)
	<-p.Done()

	assert.Equal(t, monitor.FormView{}, c.View())
}

func TestController_RetryDiscardsInFlightSubmit(t *testing.T) {
	called := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{analyzeFunc: func(context.Context, string, string) (*client.Submission, error) {
		close(called)
		<-release
		return &client.Submission{JobID: "job-1"}, nil
	}}
	c, _ := newController(api, newScriptFetcher(models.JobSnapshot{Status: models.JobStatusPending}))
	fillForm(c)

	errc := make(chan error, 1)
	go func() { errc <- c.Submit(context.Background()) }()
	<-called
	c.Retry()
	close(release)

	assert.ErrorIs(t, <-errc, monitor.ErrSuperseded)
	assert.Equal(t, monitor.FormView{}, c.View())
	assert.Nil(t, c.Poller())
}

func TestController_DomainCheckThenGenerate(t *testing.T) {
	count := 231968
	api := &fakeAPI{
		status: &models.DomainStatus{Status: "available", KeywordCount: &count},
		ticket: &models.JobTicket{JobID: "mock_csv_1", Status: "pending"},
		csv:    []byte("keyword\n"),
	}
	f := newScriptFetcher(models.JobSnapshot{Status: models.JobStatusCompleted})
	c, _ := newController(api, f)

	assert.ErrorIs(t, c.GenerateCSV(context.Background()), monitor.ErrWrongView)
	assert.ErrorIs(t, c.CheckDomain(context.Background(), "not a domain"), monitor.ErrInvalidDomain)

	require.NoError(t, c.CheckDomain(context.Background(), "clay.com"))
	v, ok := c.View().(monitor.DomainCheckView)
	require.True(t, ok)
	assert.Equal(t, "clay.com", v.Domain)
	assert.Equal(t, 231968, *v.Status.KeywordCount)

	require.NoError(t, c.GenerateCSV(context.Background()))
	ready := waitView(t, c, "csv-ready")
	assert.Equal(t, monitor.CSVReadyView{JobID: "mock_csv_1", Domain: "clay.com"}, ready)
}

func TestController_CheckDomainError(t *testing.T) {
	c, _ := newController(&fakeAPI{}, newScriptFetcher())

	err := c.CheckDomain(context.Background(), "unknown.io")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, monitor.FormView{}, c.View())
}

func TestController_DownloadNotAvailable(t *testing.T) {
	c, _ := newController(&fakeAPI{}, newScriptFetcher())
	_, err := c.Download(context.Background())
	assert.ErrorIs(t, err, monitor.ErrWrongView)
}

func TestController_CloseStopsPoller(t *testing.T) {
	api := &fakeAPI{analyzeFunc: submitReturns(&client.Submission{JobID: "job-1"}, nil)}
	f := newScriptFetcher(models.JobSnapshot{Status: models.JobStatusPending})
	c, _ := newController(api, f)
	fillForm(c)
	require.NoError(t, c.Submit(context.Background()))
	p := c.Poller()

	c.Close()
	<-p.Done()
	assert.Equal(t, monitor.StateStopped, p.State())
}
