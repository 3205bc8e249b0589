package borrower

import (
	"context"
	"fmt"
	"strings"
)

// LoanCounter reports how many loans reference a borrower. Deletion is
// refused while the count is non-zero.
type LoanCounter interface {
	CountByBorrower(ctx context.Context, borrowerID string) (int64, error)
}

type Service struct {
	repo  Repository
	loans LoanCounter
}

func NewService(repo Repository, loans LoanCounter) *Service {
	return &Service{repo: repo, loans: loans}
}

func (s *Service) CreateBorrower(ctx context.Context, in Input) (*Entity, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create borrower: %w", err)
	}
	return created, nil
}

func (s *Service) GetBorrower(ctx context.Context, id string) (*Entity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListBorrowers(ctx context.Context) ([]Entity, error) {
	return s.repo.List(ctx)
}

// SearchByLastName matches fragment as a case-insensitive substring of the
// last name. An empty fragment lists every borrower.
func (s *Service) SearchByLastName(ctx context.Context, fragment string) ([]Entity, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return s.repo.List(ctx)
	}
	return s.repo.SearchByLastName(ctx, fragment)
}

// UpdateBorrower replaces all five attributes of an existing borrower.
func (s *Service) UpdateBorrower(ctx context.Context, id string, in Input) (*Entity, error) {
	if _, err := s.GetBorrower(ctx, id); err != nil {
		return nil, err
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update borrower: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteBorrower(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check borrower: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	if s.loans != nil {
		n, err := s.loans.CountByBorrower(ctx, id)
		if err != nil {
			return fmt.Errorf("count borrower loans: %w", err)
		}
		if n > 0 {
			return ErrHasLoans
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete borrower: %w", err)
	}
	return nil
}
