package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Analysis records ---

const analysisColumns = `id, domain, email, job_id, status, mode, created_at, updated_at`

func scanAnalysis(row pgx.Row) (*models.AnalysisRecord, error) {
	var r models.AnalysisRecord
	err := row.Scan(&r.ID, &r.Domain, &r.Email, &r.JobID, &r.Status, &r.Mode, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) CreateAnalysisRecord(ctx context.Context, rec *models.AnalysisRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_records (`+analysisColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Domain, rec.Email, rec.JobID, rec.Status, rec.Mode, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create analysis record: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAnalysisRecordByJobID(ctx context.Context, jobID string) (*models.AnalysisRecord, error) {
	r, err := scanAnalysis(s.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analysis_records WHERE job_id = $1`, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis record: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) UpdateAnalysisStatusByJobID(ctx context.Context, jobID, status string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update analysis status: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var current string
	err = tx.QueryRow(ctx,
		`SELECT status FROM analysis_records WHERE job_id = $1 FOR UPDATE`, jobID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get analysis status: %w", err)
	}
	if err := checkTransition(current, status); err != nil {
		return err
	}
	if current == status {
		return nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE analysis_records SET status = $2, updated_at = $3 WHERE job_id = $1`,
		jobID, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update analysis status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit analysis status: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecentAnalyses(ctx context.Context, limit int) ([]*models.AnalysisRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+analysisColumns+` FROM analysis_records ORDER BY created_at DESC LIMIT $1`,
		normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	recs := []*models.AnalysisRecord{}
	for rows.Next() {
		r, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis record: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// --- Subscriptions ---

func (s *PostgresStore) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscriptions (id, domain, email, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.Domain, sub.Email, sub.Status, sub.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSubscriptions(ctx context.Context, domain string) ([]*models.Subscription, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, domain, email, status, created_at FROM subscriptions
		 WHERE ($1 = '' OR domain = $1) ORDER BY created_at DESC`, domain)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []*models.Subscription{}
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.Domain, &sub.Email, &sub.Status, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

var _ Store = (*PostgresStore)(nil)
