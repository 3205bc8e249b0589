package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/borrower"
)

type BorrowerRepository struct {
	mu    sync.RWMutex
	items map[string]borrower.Entity
	order []string
	now   func() time.Time
}

func NewBorrowerRepository() *BorrowerRepository {
	return &BorrowerRepository{
		items: map[string]borrower.Entity{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *BorrowerRepository) Create(_ context.Context, in borrower.Input) (*borrower.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := borrower.Entity{}
	e.ID = uuid.NewString()
	applyInput(&e, in)
	e.Touch(r.now())

	r.items[e.ID] = e
	r.order = append(r.order, e.ID)
	return &e, nil
}

func (r *BorrowerRepository) GetByID(_ context.Context, id string) (*borrower.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", borrower.ErrNotFound, id)
	}
	return &e, nil
}

func (r *BorrowerRepository) List(_ context.Context) ([]borrower.Entity, error) {
	return r.filter(func(borrower.Entity) bool { return true }), nil
}

func (r *BorrowerRepository) SearchByLastName(_ context.Context, fragment string) ([]borrower.Entity, error) {
	needle := strings.ToLower(fragment)
	return r.filter(func(e borrower.Entity) bool {
		return strings.Contains(strings.ToLower(e.LastName), needle)
	}), nil
}

func (r *BorrowerRepository) Update(_ context.Context, id string, in borrower.Input) (*borrower.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", borrower.ErrNotFound, id)
	}
	applyInput(&e, in)
	e.Touch(r.now())
	r.items[id] = e
	return &e, nil
}

func (r *BorrowerRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[id]
	return ok, nil
}

func (r *BorrowerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%w: %s", borrower.ErrNotFound, id)
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

func (r *BorrowerRepository) filter(keep func(borrower.Entity) bool) []borrower.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]borrower.Entity, 0, len(r.order))
	for _, id := range r.order {
		if e := r.items[id]; keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func applyInput(e *borrower.Entity, in borrower.Input) {
	e.FirstName = in.FirstName
	e.LastName = in.LastName
	if in.DateOfBirth != nil {
		e.DateOfBirth = *in.DateOfBirth
	}
	e.EmploymentStatus = in.EmploymentStatus
	e.AnnualIncome = in.AnnualIncome
}
