package models

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// IsTerminalStatus reports whether no further transitions are expected
// after status has been observed.
func IsTerminalStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusFailed
}

// JobSnapshot is the latest known state of a keyword analysis job as
// reported by one status fetch. The client POSTs /api/v1/analyze to get a
// job_id, then polls GET /api/v1/report/{job_id} until status is terminal.
type JobSnapshot struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Domain   string `json:"domain"`
	Progress *int   `json:"progress,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ProgressPercent returns the progress clamped to 0-100, or 0 when unset.
func (s JobSnapshot) ProgressPercent() int {
	if s.Progress == nil {
		return 0
	}
	p := *s.Progress
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// FailedSnapshot builds the failed snapshot every fetch failure collapses to.
func FailedSnapshot(jobID, domain, errMsg string) JobSnapshot {
	return JobSnapshot{
		JobID:  jobID,
		Status: JobStatusFailed,
		Domain: domain,
		Error:  errMsg,
	}
}

// JobTicket is what a submission returns when the backend queues work
// instead of answering with the artifact directly.
type JobTicket struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
