package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/keywordlens/internal/backend"
	"github.com/kiranshivaraju/keywordlens/pkg/keywordcsv"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

const (
	// JobIDPrefix marks ids minted by the mock provider.
	JobIDPrefix = "mock_"

	processedDomain       = "clay.com"
	processedKeywordCount = 231968
	fallbackReportDomain  = "example.com"
)

// Timeline controls how a tracked mock job progresses over wall-clock time.
type Timeline struct {
	Pending    time.Duration
	Processing time.Duration
}

// DefaultTimeline keeps a job queued for one poll interval and processing
// for three more.
var DefaultTimeline = Timeline{Pending: 3 * time.Second, Processing: 9 * time.Second}

// DefaultRetention is how long a completed job stays tracked.
const DefaultRetention = 24 * time.Hour

// Provider satisfies models.KeywordProvider without a backend. It fabricates
// plausible results from simple templates and tracks the jobs it creates so
// that polling them walks through pending, processing and completed.
type Provider struct {
	latency   time.Duration
	timeline  Timeline
	retention time.Duration
	now       func() time.Time

	mu   sync.Mutex
	jobs map[string]trackedJob
}

type trackedJob struct {
	domain    string
	createdAt time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithLatency delays every JobReport and AnalyzeDomain, mimicking backend
// round trips.
func WithLatency(d time.Duration) Option {
	return func(p *Provider) { p.latency = d }
}

func WithTimeline(tl Timeline) Option {
	return func(p *Provider) { p.timeline = tl }
}

// WithRetention sets how long a job stays tracked once it has completed.
// Forgotten ids are answered like ids from a previous run.
func WithRetention(d time.Duration) Option {
	return func(p *Provider) { p.retention = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider returns a Provider with the default timeline and no latency.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		timeline:  DefaultTimeline,
		retention: DefaultRetention,
		now:       time.Now,
		jobs:      make(map[string]trackedJob),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string { return models.ModeMock }

func (p *Provider) Submit(_ context.Context, domain, email string) (*models.Submission, error) {
	slog.Info("mock: would send keywords CSV", "email", email, "domain", domain)

	jobID := JobIDPrefix + uuid.NewString()
	p.track(jobID, domain)

	return &models.Submission{
		Ticket: &models.JobTicket{
			JobID:  jobID,
			Status: models.JobStatusPending,
		},
		Message: "Analysis request submitted successfully. Check your email for results.",
	}, nil
}

func (p *Provider) JobReport(ctx context.Context, jobID string) (json.RawMessage, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return json.Marshal(p.report(jobID))
}

func (p *Provider) DomainStatus(_ context.Context, domain string) (json.RawMessage, error) {
	status := models.DomainStatus{
		Status:  models.DomainStatusNotProcessed,
		Message: "Domain has not been processed yet",
	}
	if domain == processedDomain {
		count := processedKeywordCount
		status = models.DomainStatus{
			Status:       models.DomainStatusReadyForCSV,
			KeywordCount: &count,
			Message:      "Domain has been processed and is ready for CSV generation",
		}
	}
	return json.Marshal(status)
}

func (p *Provider) GenerateCSV(_ context.Context, domain string) (json.RawMessage, error) {
	jobID := fmt.Sprintf("%scsv_%d", JobIDPrefix, p.now().UnixMilli())
	p.track(jobID, domain)

	return json.Marshal(models.JobTicket{
		JobID:   jobID,
		Status:  models.JobStatusPending,
		Message: "CSV generation job created successfully",
	})
}

func (p *Provider) DownloadCSV(_ context.Context, domain string) ([]byte, error) {
	if domain == processedDomain {
		return []byte(keywordcsv.Encode(processedDomainKeywords(domain))), nil
	}
	if p.hasCompletedJob(domain) {
		return []byte(keywordcsv.Encode(analysisKeywords(domain))), nil
	}
	return nil, &backend.StatusError{
		StatusCode: http.StatusNotFound,
		Body:       "CSV not available for this domain",
	}
}

func (p *Provider) Seeds(_ context.Context, domain string) (string, error) {
	seeds := []string{
		domain + " pricing",
		domain + " features",
		domain + " alternatives",
		domain + " reviews",
		domain + " vs competitors",
		"best " + domain + " tools",
		domain + " integration",
		domain + " support",
		domain + " tutorial",
		domain + " comparison",
	}
	return strings.Join(seeds, "\n"), nil
}

func (p *Provider) ExpandInput(_ context.Context, _ string, content []byte) (string, error) {
	var expanded []string
	for _, line := range strings.Split(string(content), "\n") {
		kw := strings.TrimSpace(line)
		if kw == "" {
			continue
		}
		expanded = append(expanded,
			kw+" guide",
			kw+" tutorial",
			kw+" tips",
			kw+" best practices",
			kw+" examples",
			"how to "+kw,
			kw+" tools",
			kw+" software",
			kw+" solutions",
		)
	}
	return strings.Join(expanded, "\n"), nil
}

// AnalyzeDomain answers after the configured latency with templated
// insights and randomised counters.
func (p *Provider) AnalyzeDomain(ctx context.Context, req models.DomainInsightsRequest) (json.RawMessage, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	slog.Info("mock: analyzing domain", "domain", req.Domain,
		"include_subdomains", req.IncludeSubdomains,
		"include_competitors", req.IncludeCompetitors,
		"strategic_focus", req.StrategicFocus)
	return json.Marshal(domainInsights(req.Domain))
}

// wait applies the configured latency, returning early if ctx ends.
func (p *Provider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return nil
	}
	t := time.NewTimer(p.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", backend.ErrTimeout, ctx.Err())
	}
}

func (p *Provider) track(jobID, domain string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pruneLocked()
	p.jobs[jobID] = trackedJob{domain: domain, createdAt: p.now()}
}

// pruneLocked drops jobs that completed more than the retention ago. It
// must be called with p.mu held.
func (p *Provider) pruneLocked() {
	cutoff := p.now().Add(-(p.timeline.Pending + p.timeline.Processing + p.retention))
	for id, j := range p.jobs {
		if !j.createdAt.After(cutoff) {
			delete(p.jobs, id)
		}
	}
}

func (p *Provider) hasCompletedJob(domain string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pruneLocked()
	for _, j := range p.jobs {
		if j.domain == domain && p.statusAt(j) == models.JobStatusCompleted {
			return true
		}
	}
	return false
}

// statusAt must be called with p.mu held.
func (p *Provider) statusAt(j trackedJob) string {
	elapsed := p.now().Sub(j.createdAt)
	switch {
	case elapsed < p.timeline.Pending:
		return models.JobStatusPending
	case elapsed < p.timeline.Pending+p.timeline.Processing:
		return models.JobStatusProcessing
	default:
		return models.JobStatusCompleted
	}
}

func (p *Provider) report(jobID string) Report {
	p.mu.Lock()
	p.pruneLocked()
	j, ok := p.jobs[jobID]
	var status string
	var progress *int
	if ok {
		status = p.statusAt(j)
		if status == models.JobStatusProcessing && p.timeline.Processing > 0 {
			into := p.now().Sub(j.createdAt) - p.timeline.Pending
			pct := int(into * 100 / p.timeline.Processing)
			progress = &pct
		}
	}
	p.mu.Unlock()

	r := Report{JobID: jobID, Clusters: sampleClusters()}
	if ok {
		r.Status = status
		r.Domain = j.domain
		r.Progress = progress
		if status == models.JobStatusProcessing {
			r.Message = "Analyzing keywords for " + j.domain + "..."
		}
		return r
	}

	// Ids this process never minted: anything that looks like ours is
	// treated as finished, everything else as still running.
	r.Domain = fallbackReportDomain
	r.Status = models.JobStatusProcessing
	if strings.HasPrefix(jobID, JobIDPrefix) {
		r.Status = models.JobStatusCompleted
	}
	return r
}

// Compile-time check that Provider implements KeywordProvider.
var _ models.KeywordProvider = (*Provider)(nil)
