package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kiranshivaraju/keywordlens/internal/client"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

const (
	noticeInvalidDomain = "Invalid domain format"
	noticeInvalidEmail  = "Invalid email address"
	noticeSubmitted     = "Check your email for results!"
	noticeSubmitFailed  = "Error submitting request"
	noticeNetwork       = "Network error - please try again"
)

var (
	ErrInvalidDomain = errors.New("invalid domain")
	ErrInvalidEmail  = errors.New("invalid email")
	// ErrWrongView is returned when an operation is not available from the
	// current view.
	ErrWrongView = errors.New("operation not available in current view")
	// ErrNotReady is returned by Download before the CSV exists.
	ErrNotReady = errors.New("csv not ready")
	// ErrSuperseded is returned when the view changed while a request was
	// in flight and its result was dropped.
	ErrSuperseded = errors.New("request superseded")
)

// API is the slice of the API client the Controller drives.
type API interface {
	Analyze(ctx context.Context, domain, email string) (*client.Submission, error)
	DomainStatus(ctx context.Context, domain string) (*models.DomainStatus, error)
	GenerateCSV(ctx context.Context, domain string) (*models.JobTicket, error)
	DownloadCSV(ctx context.Context, domain string) ([]byte, error)
}

// Controller owns the current View and the poller of the job being watched.
// It is safe for concurrent use.
type Controller struct {
	api      API
	fetcher  Fetcher
	interval time.Duration
	onChange func(View)

	mu     sync.Mutex
	view   View
	domain string
	email  string
	poller *Poller
	// gen is bumped on every reset so results of requests issued before
	// it are dropped.
	gen uint64
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

func WithPollInterval(d time.Duration) ControllerOption {
	return func(c *Controller) { c.interval = d }
}

// WithOnChange registers a callback invoked after every view change. It
// may run on a poller goroutine and may call any Controller method,
// including Retry from a failed job view.
func WithOnChange(fn func(View)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

func NewController(api API, f Fetcher, opts ...ControllerOption) *Controller {
	c := &Controller{
		api:      api,
		fetcher:  f,
		interval: DefaultInterval,
		view:     FormView{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Controller) Domain() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.domain
}

func (c *Controller) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

// Poller returns the poller of the watched job, or nil.
func (c *Controller) Poller() *Poller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poller
}

func (c *Controller) SetDomain(d string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.domain = strings.TrimSpace(d)
}

func (c *Controller) SetEmail(e string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.email = strings.TrimSpace(e)
}

// Submit validates the form and posts it. A job id moves to JobMonitorView
// and starts polling; a CSV moves straight to CSVReadyView; anything else
// stays on the form with a notice.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if _, ok := c.view.(FormView); !ok {
		c.mu.Unlock()
		return ErrWrongView
	}
	domain, email, gen := c.domain, c.email, c.gen
	var invalid error
	switch {
	case !models.ValidDomain(domain):
		invalid = ErrInvalidDomain
		c.view = FormView{Notice: noticeInvalidDomain}
	case !models.ValidEmail(email):
		invalid = ErrInvalidEmail
		c.view = FormView{Notice: noticeInvalidEmail}
	}
	view := c.view
	c.mu.Unlock()

	if invalid != nil {
		c.notify(view)
		return invalid
	}

	sub, err := c.api.Analyze(ctx, domain, email)

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	switch {
	case err != nil:
		c.view = FormView{Notice: submitNotice(err)}
	case len(sub.CSV) > 0:
		c.view = CSVReadyView{Domain: domain, CSV: sub.CSV}
	case sub.JobID != "":
		p := c.watchLocked(sub.JobID, domain)
		view = c.view
		c.mu.Unlock()
		c.notify(view)
		p.Start()
		return nil
	default:
		c.view = FormView{Notice: messageOr(sub.Message, noticeSubmitted)}
	}
	view = c.view
	c.mu.Unlock()

	c.notify(view)
	if err != nil {
		return fmt.Errorf("submit analysis: %w", err)
	}
	return nil
}

// CheckDomain looks up whether domain already has keyword data and shows
// the answer in DomainCheckView.
func (c *Controller) CheckDomain(ctx context.Context, domain string) error {
	domain = strings.TrimSpace(domain)
	if !models.ValidDomain(domain) {
		return ErrInvalidDomain
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	st, err := c.api.DomainStatus(ctx, domain)
	if err != nil {
		return fmt.Errorf("check domain: %w", err)
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.domain = domain
	c.view = DomainCheckView{Domain: domain, Status: *st}
	view := c.view
	c.mu.Unlock()

	c.notify(view)
	return nil
}

// GenerateCSV queues CSV generation for the domain in DomainCheckView and
// watches the resulting job.
func (c *Controller) GenerateCSV(ctx context.Context) error {
	c.mu.Lock()
	v, ok := c.view.(DomainCheckView)
	gen := c.gen
	c.mu.Unlock()
	if !ok {
		return ErrWrongView
	}

	ticket, err := c.api.GenerateCSV(ctx, v.Domain)
	if err != nil {
		return fmt.Errorf("generate csv: %w", err)
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	p := c.watchLocked(ticket.JobID, v.Domain)
	view := c.view
	c.mu.Unlock()

	c.notify(view)
	p.Start()
	return nil
}

// Download returns the keyword CSV. It is available from CSVReadyView and
// from a job monitor whose job has completed.
func (c *Controller) Download(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	view := c.view
	c.mu.Unlock()

	var domain string
	switch v := view.(type) {
	case CSVReadyView:
		if len(v.CSV) > 0 {
			return v.CSV, nil
		}
		domain = v.Domain
	case JobMonitorView:
		if v.Snapshot == nil || v.Snapshot.Status != models.JobStatusCompleted {
			return nil, ErrNotReady
		}
		domain = v.Domain
	default:
		return nil, ErrWrongView
	}

	body, err := c.api.DownloadCSV(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("download csv: %w", err)
	}
	return body, nil
}

// Retry abandons the current job and returns to an empty form.
// Calling it again has no further effect.
func (c *Controller) Retry() {
	c.reset()
}

// StartNewAnalysis clears job, domain, email and notice state and returns
// to the form. Calling it again has no further effect.
func (c *Controller) StartNewAnalysis() {
	c.reset()
}

// Close stops any running poller.
func (c *Controller) Close() {
	c.reset()
}

func (c *Controller) reset() {
	c.mu.Lock()
	p := c.poller
	form, isForm := c.view.(FormView)
	changed := p != nil || c.domain != "" || c.email != "" || !isForm || form.Notice != ""
	c.poller = nil
	c.domain = ""
	c.email = ""
	c.view = FormView{}
	c.gen++
	c.mu.Unlock()

	// Cancel outside c.mu: poller callbacks take c.mu while holding the
	// poller lock.
	if p != nil {
		p.Cancel()
	}
	if changed {
		c.notify(FormView{})
	}
}

// watchLocked creates the poller for jobID and enters JobMonitorView.
// c.mu must be held. The caller starts the poller after unlocking.
func (c *Controller) watchLocked(jobID, domain string) *Poller {
	var p *Poller
	p = NewPoller(c.fetcher, jobID, domain,
		WithInterval(c.interval),
		OnSnapshot(func(s models.JobSnapshot) { c.applySnapshot(p, s) }),
		OnComplete(func(id string) { c.complete(p, id) }),
	)
	c.poller = p
	c.domain = domain
	c.view = JobMonitorView{JobID: jobID, Domain: domain}
	return p
}

func (c *Controller) applySnapshot(p *Poller, s models.JobSnapshot) {
	c.mu.Lock()
	if c.poller != p {
		c.mu.Unlock()
		return
	}
	v := JobMonitorView{JobID: p.jobID, Domain: p.domain, Snapshot: &s}
	c.view = v
	c.mu.Unlock()

	c.notify(v)
}

func (c *Controller) complete(p *Poller, jobID string) {
	c.mu.Lock()
	if c.poller != p {
		c.mu.Unlock()
		return
	}
	v := CSVReadyView{JobID: jobID, Domain: p.domain}
	c.view = v
	c.mu.Unlock()

	c.notify(v)
}

func (c *Controller) notify(v View) {
	if c.onChange != nil {
		c.onChange(v)
	}
}

func submitNotice(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return messageOr(apiErr.Message, noticeSubmitFailed)
	case errors.Is(err, client.ErrNetwork):
		return noticeNetwork
	default:
		return noticeSubmitFailed
	}
}
