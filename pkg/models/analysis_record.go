package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ModeMock    = "mock"
	ModeBackend = "backend"
)

// AnalysisRecord audits one submission accepted by POST /api/v1/analyze.
// JobID is nil when the backend answered with the CSV directly.
type AnalysisRecord struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Domain    string    `db:"domain"     json:"domain"`
	Email     string    `db:"email"      json:"email"`
	JobID     *string   `db:"job_id"     json:"job_id,omitempty"`
	Status    string    `db:"status"     json:"status"`
	Mode      string    `db:"mode"       json:"mode"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
