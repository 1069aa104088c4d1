package models

import (
	"time"

	"github.com/google/uuid"
)

const SubscriptionStatusActive = "active"

// Subscription asks for an email once analysis of a domain finishes.
type Subscription struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Domain    string    `db:"domain"     json:"domain"`
	Email     string    `db:"email"      json:"email"`
	Status    string    `db:"status"     json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Notification is the client-facing view of an AnalysisRecord.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Domain    string    `json:"domain"`
	Status    string    `json:"status"`
	JobID     string    `json:"job_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationFromRecord projects an analysis record for the notifications feed.
func NotificationFromRecord(r *AnalysisRecord) Notification {
	n := Notification{
		ID:        r.ID,
		Domain:    r.Domain,
		Status:    r.Status,
		Timestamp: r.UpdatedAt,
	}
	if r.JobID != nil {
		n.JobID = *r.JobID
	}
	return n
}
