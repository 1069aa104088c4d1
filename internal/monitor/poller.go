package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// DefaultInterval is the delay between a non-terminal snapshot and the
// next fetch.
const DefaultInterval = 3 * time.Second

// State is the lifecycle state of a Poller.
type State int

const (
	StateIdle State = iota
	StatePolling
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Poller fetches the status of one job until it reaches a terminal status
// or is cancelled. A single goroutine issues every fetch, so at most one
// fetch is outstanding at any time.
//
// Callbacks run on the poller goroutine, one round at a time. They may call
// Cancel, State and Snapshot on the same Poller. No callback starts after
// Cancel returns, except that Cancel does not wait for a round of callbacks
// that is already running.
type Poller struct {
	fetcher    Fetcher
	jobID      string
	domain     string
	interval   time.Duration
	onSnapshot func(models.JobSnapshot)
	onComplete func(jobID string)

	ctx        context.Context
	cancel     context.CancelFunc
	quit       chan struct{}
	done       chan struct{}
	cancelOnce sync.Once

	// mu is held for one apply round. Cancel takes it as a barrier.
	mu         sync.Mutex
	state      atomic.Int32
	cancelled  atomic.Bool
	inCallback atomic.Bool
	snapshot   atomic.Pointer[models.JobSnapshot]
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// OnSnapshot registers a callback for every applied snapshot.
func OnSnapshot(fn func(models.JobSnapshot)) PollerOption {
	return func(p *Poller) { p.onSnapshot = fn }
}

// OnComplete registers a callback fired once when the job completes.
func OnComplete(fn func(jobID string)) PollerOption {
	return func(p *Poller) { p.onComplete = fn }
}

// NewPoller returns an idle Poller for jobID. Call Start to begin polling.
func NewPoller(f Fetcher, jobID, domain string, opts ...PollerOption) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		fetcher:  f,
		jobID:    jobID,
		domain:   domain,
		interval: DefaultInterval,
		ctx:      ctx,
		cancel:   cancel,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start moves an idle poller to polling and issues the first fetch
// immediately. It is a no-op in any other state.
func (p *Poller) Start() {
	if p.state.CompareAndSwap(int32(StateIdle), int32(StatePolling)) {
		go p.run()
	}
}

// Cancel stops the poller. A scheduled fetch is dropped, an in-flight fetch
// is aborted and its result discarded, and the completion callback will not
// fire. Cancel is idempotent and may be called from a callback.
func (p *Poller) Cancel() {
	p.cancelled.Store(true)
	p.cancelOnce.Do(func() {
		p.cancel()
		close(p.quit)
	})

	if p.state.CompareAndSwap(int32(StateIdle), int32(StateStopped)) {
		// run never started, so nothing else will close done.
		close(p.done)
		return
	}
	p.state.Store(int32(StateStopped))

	if p.inCallback.Load() {
		return
	}
	// Wait out an apply round that has not reached its callbacks yet.
	p.mu.Lock()
	p.mu.Unlock() //nolint:staticcheck // barrier
}

// Done is closed once the poller has stopped and issues no more fetches.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) State() State {
	return State(p.state.Load())
}

// Snapshot returns the latest applied snapshot.
func (p *Poller) Snapshot() (models.JobSnapshot, bool) {
	s := p.snapshot.Load()
	if s == nil {
		return models.JobSnapshot{}, false
	}
	return *s, true
}

func (p *Poller) JobID() string { return p.jobID }

func (p *Poller) run() {
	defer close(p.done)
	defer p.cancel()

	for {
		snap := p.fetcher.Fetch(p.ctx, p.jobID, p.domain)
		if !p.apply(snap) {
			return
		}
		if !p.wait() {
			return
		}
	}
}

// apply records snap and reports whether polling continues. A snapshot
// that arrives after Cancel is dropped.
func (p *Poller) apply(snap models.JobSnapshot) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancelled.Load() || p.State() != StatePolling {
		return false
	}
	p.snapshot.Store(&snap)
	terminal := models.IsTerminalStatus(snap.Status)
	if terminal {
		p.state.Store(int32(StateStopped))
	}

	p.inCallback.Store(true)
	defer p.inCallback.Store(false)

	if p.onSnapshot != nil {
		p.onSnapshot(snap)
	}
	if !terminal {
		return !p.cancelled.Load()
	}
	if snap.Status == models.JobStatusCompleted && p.onComplete != nil && !p.cancelled.Load() {
		p.onComplete(p.jobID)
	}
	return false
}

func (p *Poller) wait() bool {
	t := time.NewTimer(p.interval)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-p.quit:
		return false
	}
}
