package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/apperr"
	"github.com/DaniellaNwagu/credit-risk/internal/domain/record"
	"github.com/DaniellaNwagu/credit-risk/internal/domain/risk"
)

var (
	ErrNotFound         = apperr.NotFound("loan_not_found", "loan not found")
	ErrBorrowerNotFound = apperr.NotFound("borrower_not_found", "referenced borrower not found")
)

type Entity struct {
	record.Meta
	BorrowerID string          `json:"borrower_id"`
	Amount     decimal.Decimal `json:"loan_amount"`
	TermMonths int32           `json:"term_months"`
	LoanType   string          `json:"loan_type"`
	RiskScore  decimal.Decimal `json:"risk_score"`
	RiskGrade  risk.Grade      `json:"risk_grade"`
	Decision   risk.Decision   `json:"decision"`
}

// Assess recomputes the risk fields from the current amount, replacing
// whatever was there before.
func (e *Entity) Assess() {
	a := risk.Evaluate(e.Amount)
	e.RiskScore = a.Score
	e.RiskGrade = a.Grade
	e.Decision = a.Decision
}

type CreateInput struct {
	BorrowerID string
	Amount     decimal.Decimal
	TermMonths int32
	LoanType   string
}

type UpdateInput = CreateInput

type ListFilter struct {
	RiskGrade string
}

type Repository interface {
	Create(ctx context.Context, e Entity) (*Entity, error)
	GetByID(ctx context.Context, id string) (*Entity, error)
	List(ctx context.Context, f ListFilter) ([]Entity, error)
	Update(ctx context.Context, e Entity) (*Entity, error)
	Delete(ctx context.Context, id string) error
	CountByBorrower(ctx context.Context, borrowerID string) (int64, error)
}

// AssessedEvent is the outbox payload written after every evaluation.
type AssessedEvent struct {
	LoanID     string          `json:"loan_id"`
	BorrowerID string          `json:"borrower_id"`
	Amount     decimal.Decimal `json:"amount"`
	RiskScore  decimal.Decimal `json:"risk_score"`
	RiskGrade  risk.Grade      `json:"risk_grade"`
	Decision   risk.Decision   `json:"decision"`
	AssessedAt time.Time       `json:"assessed_at"`
}
