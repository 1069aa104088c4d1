package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// MemoryStore keeps records in process memory. It is selected when no
// DATABASE_URL is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[string]*models.AnalysisRecord // by record id
	byJob    map[string]string                 // job id -> record id
	subs     []*models.Subscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		analyses: make(map[string]*models.AnalysisRecord),
		byJob:    make(map[string]string),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) CreateAnalysisRecord(ctx context.Context, rec *models.AnalysisRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.ID.String()
	if _, ok := s.analyses[id]; ok {
		return ErrDuplicateKey
	}
	if rec.JobID != nil {
		if _, ok := s.byJob[*rec.JobID]; ok {
			return ErrDuplicateKey
		}
		s.byJob[*rec.JobID] = id
	}
	cp := *rec
	s.analyses[id] = &cp
	return nil
}

func (s *MemoryStore) GetAnalysisRecordByJobID(ctx context.Context, jobID string) (*models.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byJob[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.analyses[id]
	return &cp, nil
}

func (s *MemoryStore) UpdateAnalysisStatusByJobID(ctx context.Context, jobID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byJob[jobID]
	if !ok {
		return ErrNotFound
	}
	rec := s.analyses[id]
	if err := checkTransition(rec.Status, status); err != nil {
		return err
	}
	if rec.Status != status {
		rec.Status = status
		rec.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (s *MemoryStore) ListRecentAnalyses(ctx context.Context, limit int) ([]*models.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*models.AnalysisRecord, 0, len(s.analyses))
	for _, r := range s.analyses {
		cp := *r
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n := normalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subs {
		if existing.Domain == sub.Domain && existing.Email == sub.Email {
			return ErrDuplicateKey
		}
	}
	cp := *sub
	s.subs = append(s.subs, &cp)
	return nil
}

func (s *MemoryStore) ListSubscriptions(ctx context.Context, domain string) ([]*models.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Subscription{}
	for i := len(s.subs) - 1; i >= 0; i-- {
		if domain == "" || s.subs[i].Domain == domain {
			cp := *s.subs[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
