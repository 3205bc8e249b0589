package borrower

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/apperr"
	"github.com/DaniellaNwagu/credit-risk/internal/domain/record"
)

var (
	ErrNotFound            = apperr.NotFound("borrower_not_found", "borrower not found")
	ErrInvalidAnnualIncome = apperr.Validation("invalid_annual_income", "annual income cannot be negative")
	ErrMissingDateOfBirth  = apperr.Validation("missing_date_of_birth", "date of birth is required")
	ErrHasLoans            = apperr.Conflict("borrower_has_loans", "borrower is referenced by existing loans")
)

type Entity struct {
	record.Meta
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	DateOfBirth      time.Time       `json:"date_of_birth"`
	EmploymentStatus string          `json:"employment_status"`
	AnnualIncome     decimal.Decimal `json:"annual_income"`
}

// Input carries the five client-writable attributes. DateOfBirth is nil when
// the client omitted it.
type Input struct {
	FirstName        string
	LastName         string
	DateOfBirth      *time.Time
	EmploymentStatus string
	AnnualIncome     decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, in Input) (*Entity, error)
	GetByID(ctx context.Context, id string) (*Entity, error)
	List(ctx context.Context) ([]Entity, error)
	SearchByLastName(ctx context.Context, fragment string) ([]Entity, error)
	Update(ctx context.Context, id string, in Input) (*Entity, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
