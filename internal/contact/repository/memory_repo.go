package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"github.com/google/uuid"
)

// MemoryRepository keeps submissions in process. It backs development runs
// without a database; records are lost on restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []domain.Submission // insertion order
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (r *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	r.now = now
	return r
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }

func (r *MemoryRepository) Create(ctx context.Context, f domain.Fields) (*domain.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := domain.Submission{
		ID:        uuid.New().String(),
		Name:      f.Name,
		Email:     f.Email,
		Message:   f.Message,
		CreatedAt: r.now().UTC(),
	}

	r.mu.Lock()
	r.items = append(r.items, s)
	r.mu.Unlock()

	return &s, nil
}

func (r *MemoryRepository) List(_ context.Context, page, limit int) (*domain.Page, error) {
	page, limit = domain.NormalizePage(page, limit)

	r.mu.RLock()
	defer r.mu.RUnlock()

	// newest first; ties keep the later insert first
	ordered := make([]domain.Submission, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		ordered = append(ordered, r.items[i])
	}
	slices.SortStableFunc(ordered, func(a, b domain.Submission) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(ordered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]domain.Submission, end-start)
	copy(items, ordered[start:end])
	return domain.NewPage(items, total, page, limit), nil
}

func (r *MemoryRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, domain.ErrNotFound
}

// Count returns the number of stored submissions.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
