package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")
var ErrInvalidTransition = errors.New("invalid status transition")

// Store is the data access interface. All persistence goes through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateAnalysisRecord(ctx context.Context, rec *models.AnalysisRecord) error
	GetAnalysisRecordByJobID(ctx context.Context, jobID string) (*models.AnalysisRecord, error)
	UpdateAnalysisStatusByJobID(ctx context.Context, jobID, status string) error
	ListRecentAnalyses(ctx context.Context, limit int) ([]*models.AnalysisRecord, error)

	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	ListSubscriptions(ctx context.Context, domain string) ([]*models.Subscription, error)
}

// DefaultListLimit caps ListRecentAnalyses when the caller passes a
// non-positive limit.
const DefaultListLimit = 20

var validTransitions = map[string][]string{
	models.JobStatusPending:    {models.JobStatusProcessing, models.JobStatusCompleted, models.JobStatusFailed},
	models.JobStatusProcessing: {models.JobStatusCompleted, models.JobStatusFailed},
}

// checkTransition returns nil when current may move to next. Re-applying
// the current status is allowed.
func checkTransition(current, next string) error {
	if current == next {
		return nil
	}
	for _, a := range validTransitions[current] {
		if a == next {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
