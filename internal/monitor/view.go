package monitor

import "github.com/kiranshivaraju/keywordlens/pkg/models"

// View is one of FormView, DomainCheckView, JobMonitorView or CSVReadyView.
// Each variant carries exactly the data its screen needs.
type View interface {
	Name() string
	isView()
}

// FormView collects domain and email. Notice is the message shown under
// the form, if any.
type FormView struct {
	Notice string
}

// DomainCheckView shows whether a domain already has keyword data.
type DomainCheckView struct {
	Domain string
	Status models.DomainStatus
}

// JobMonitorView tracks a running job. Snapshot is nil until the first
// fetch has been applied.
type JobMonitorView struct {
	JobID    string
	Domain   string
	Snapshot *models.JobSnapshot
}

// CSVReadyView offers the artifact for download. CSV is set when the
// submission answered with the file directly; JobID when a job produced it.
type CSVReadyView struct {
	JobID  string
	Domain string
	CSV    []byte
}

func (FormView) Name() string        { return "form" }
func (DomainCheckView) Name() string { return "domain-check" }
func (JobMonitorView) Name() string  { return "job-monitor" }
func (CSVReadyView) Name() string    { return "csv-ready" }

func (FormView) isView()        {}
func (DomainCheckView) isView() {}
func (JobMonitorView) isView()  {}
func (CSVReadyView) isView()    {}
