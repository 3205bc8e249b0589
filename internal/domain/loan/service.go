package loan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const OutboxTopicAssessed = "loan_assessed"

type BorrowerLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, topic string, payload []byte) error
}

// Transactor runs fn with a loan store and outbox that commit or roll back
// together.
type Transactor interface {
	InTx(ctx context.Context, fn func(loans Repository, outbox OutboxRepository) error) error
}

type AssessmentRecorder interface {
	ObserveAssessment(grade, decision string)
}

type Service struct {
	borrowers BorrowerLookup
	loanRepo  Repository
	outbox    OutboxRepository
	tx        Transactor
	recorder  AssessmentRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the loan workflow. outbox and recorder may be nil.
func NewService(borrowers BorrowerLookup, loanRepo Repository, outbox OutboxRepository, recorder AssessmentRecorder) *Service {
	return &Service{
		borrowers: borrowers,
		loanRepo:  loanRepo,
		outbox:    outbox,
		recorder:  recorder,
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithTransactor makes loan writes and their assessment events atomic.
// Without one, a failed enqueue is logged and the saved loan still returned.
func (s *Service) WithTransactor(tx Transactor) *Service {
	s.tx = tx
	return s
}

func (s *Service) WithLogger(logger *slog.Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Service) CreateLoan(ctx context.Context, in CreateInput) (*Entity, error) {
	borrowerID := strings.TrimSpace(in.BorrowerID)
	if err := s.ensureBorrower(ctx, borrowerID); err != nil {
		return nil, err
	}

	e := Entity{
		BorrowerID: borrowerID,
		Amount:     in.Amount,
		TermMonths: in.TermMonths,
		LoanType:   in.LoanType,
	}
	e.Assess()

	var created *Entity
	err := s.write(ctx, func(loans Repository, outbox OutboxRepository) error {
		var err error
		created, err = loans.Create(ctx, e)
		if err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		return s.enqueueAssessment(ctx, outbox, created)
	})
	if err != nil {
		return nil, err
	}
	s.recordAssessment(created)
	return created, nil
}

func (s *Service) GetLoan(ctx context.Context, id string) (*Entity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	return s.loanRepo.GetByID(ctx, id)
}

// ListLoans returns every loan when the grade filter is empty, otherwise only
// loans whose stored grade equals it exactly.
func (s *Service) ListLoans(ctx context.Context, filter ListFilter) ([]Entity, error) {
	return s.loanRepo.List(ctx, filter)
}

func (s *Service) UpdateLoan(ctx context.Context, id string, in UpdateInput) (*Entity, error) {
	existing, err := s.GetLoan(ctx, id)
	if err != nil {
		return nil, err
	}

	borrowerID := strings.TrimSpace(in.BorrowerID)
	if !strings.EqualFold(borrowerID, existing.BorrowerID) {
		if err := s.ensureBorrower(ctx, borrowerID); err != nil {
			return nil, err
		}
		existing.BorrowerID = borrowerID
	}

	existing.Amount = in.Amount
	existing.TermMonths = in.TermMonths
	existing.LoanType = in.LoanType
	existing.Assess()

	var updated *Entity
	err = s.write(ctx, func(loans Repository, outbox OutboxRepository) error {
		var err error
		updated, err = loans.Update(ctx, *existing)
		if err != nil {
			return fmt.Errorf("update loan: %w", err)
		}
		return s.enqueueAssessment(ctx, outbox, updated)
	})
	if err != nil {
		return nil, err
	}
	s.recordAssessment(updated)
	return updated, nil
}

func (s *Service) DeleteLoan(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.loanRepo.Delete(ctx, id)
}

func (s *Service) ensureBorrower(ctx context.Context, borrowerID string) error {
	if borrowerID == "" {
		return ErrBorrowerNotFound
	}
	ok, err := s.borrowers.Exists(ctx, borrowerID)
	if err != nil {
		return fmt.Errorf("lookup borrower: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrBorrowerNotFound, borrowerID)
	}
	return nil
}

// write runs fn atomically when a Transactor is set. Otherwise the loan is
// written directly and an enqueue failure is logged, never returned, since
// the loan is already stored.
func (s *Service) write(ctx context.Context, fn func(loans Repository, outbox OutboxRepository) error) error {
	if s.tx != nil {
		return s.tx.InTx(ctx, fn)
	}
	return fn(s.loanRepo, bestEffortOutbox{next: s.outbox, logger: s.logger})
}

func (s *Service) recordAssessment(e *Entity) {
	if s.recorder != nil {
		s.recorder.ObserveAssessment(string(e.RiskGrade), string(e.Decision))
	}
}

func (s *Service) enqueueAssessment(ctx context.Context, outbox OutboxRepository, e *Entity) error {
	if outbox == nil {
		return nil
	}
	payload, err := json.Marshal(AssessedEvent{
		LoanID:     e.ID,
		BorrowerID: e.BorrowerID,
		Amount:     e.Amount,
		RiskScore:  e.RiskScore,
		RiskGrade:  e.RiskGrade,
		Decision:   e.Decision,
		AssessedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	if err := outbox.Enqueue(ctx, OutboxTopicAssessed, payload); err != nil {
		return fmt.Errorf("enqueue assessment: %w", err)
	}
	return nil
}

type bestEffortOutbox struct {
	next   OutboxRepository
	logger *slog.Logger
}

func (o bestEffortOutbox) Enqueue(ctx context.Context, topic string, payload []byte) error {
	if o.next == nil {
		return nil
	}
	if err := o.next.Enqueue(ctx, topic, payload); err != nil {
		o.logger.Error("assessment event dropped", "err", err, "topic", topic)
	}
	return nil
}
