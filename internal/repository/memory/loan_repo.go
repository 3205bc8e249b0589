package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/loan"
)

type LoanRepository struct {
	mu    sync.RWMutex
	items map[string]loan.Entity
	order []string
	now   func() time.Time
}

func NewLoanRepository() *LoanRepository {
	return &LoanRepository{
		items: map[string]loan.Entity{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *LoanRepository) Create(_ context.Context, e loan.Entity) (*loan.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = uuid.NewString()
	e.CreatedAt = time.Time{}
	e.Touch(r.now())

	r.items[e.ID] = e
	r.order = append(r.order, e.ID)
	return &e, nil
}

func (r *LoanRepository) GetByID(_ context.Context, id string) (*loan.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, id)
	}
	return &e, nil
}

func (r *LoanRepository) List(_ context.Context, f loan.ListFilter) ([]loan.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]loan.Entity, 0, len(r.order))
	for _, id := range r.order {
		e := r.items[id]
		if f.RiskGrade != "" && string(e.RiskGrade) != f.RiskGrade {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *LoanRepository) Update(_ context.Context, e loan.Entity) (*loan.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[e.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, e.ID)
	}
	e.CreatedAt = existing.CreatedAt
	e.Touch(r.now())
	r.items[e.ID] = e
	return &e, nil
}

func (r *LoanRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%w: %s", loan.ErrNotFound, id)
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *LoanRepository) CountByBorrower(_ context.Context, borrowerID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, e := range r.items {
		if e.BorrowerID == borrowerID {
			n++
		}
	}
	return n, nil
}
