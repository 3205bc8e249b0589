package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/loan"
	riskdomain "github.com/DaniellaNwagu/credit-risk/internal/domain/risk"
)

const loanColumns = `id::text, borrower_id::text, loan_amount, term_months, loan_type, risk_score, risk_grade, decision, created_at, updated_at`

type LoanRepository struct {
	db querier
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{db: pool}
}

func (r *LoanRepository) Create(ctx context.Context, e loan.Entity) (*loan.Entity, error) {
	borrowerKey, ok := parseID(e.BorrowerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", loan.ErrBorrowerNotFound, e.BorrowerID)
	}
	q := `
INSERT INTO loan_applications (borrower_id, loan_amount, term_months, loan_type, risk_score, risk_grade, decision)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
RETURNING ` + loanColumns
	out, err := scanLoan(r.db.QueryRow(ctx, q,
		borrowerKey, e.Amount, e.TermMonths, e.LoanType, e.RiskScore, string(e.RiskGrade), string(e.Decision),
	), "")
	if isForeignKeyViolation(err) {
		return nil, fmt.Errorf("%w: %s", loan.ErrBorrowerNotFound, e.BorrowerID)
	}
	return out, err
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (*loan.Entity, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, id)
	}
	q := `SELECT ` + loanColumns + ` FROM loan_applications WHERE id = $1::uuid`
	return scanLoan(r.db.QueryRow(ctx, q, key), id)
}

func (r *LoanRepository) List(ctx context.Context, f loan.ListFilter) ([]loan.Entity, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + loanColumns + ` FROM loan_applications`)

	args := []any{}
	if f.RiskGrade != "" {
		builder.WriteString(` WHERE risk_grade = $1`)
		args = append(args, f.RiskGrade)
	}
	builder.WriteString(` ORDER BY created_at ASC, id ASC`)

	rows, err := r.db.Query(ctx, builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]loan.Entity, 0)
	for rows.Next() {
		var item loan.Entity
		var grade, decision string
		if err := rows.Scan(
			&item.ID, &item.BorrowerID, &item.Amount, &item.TermMonths, &item.LoanType,
			&item.RiskScore, &grade, &decision, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		item.RiskGrade, item.Decision = riskdomain.Grade(grade), riskdomain.Decision(decision)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanRepository) Update(ctx context.Context, e loan.Entity) (*loan.Entity, error) {
	key, ok := parseID(e.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, e.ID)
	}
	borrowerKey, ok := parseID(e.BorrowerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", loan.ErrBorrowerNotFound, e.BorrowerID)
	}
	q := `
UPDATE loan_applications
SET borrower_id = $2::uuid, loan_amount = $3, term_months = $4, loan_type = $5,
    risk_score = $6, risk_grade = $7, decision = $8, updated_at = NOW()
WHERE id = $1::uuid
RETURNING ` + loanColumns
	out, err := scanLoan(r.db.QueryRow(ctx, q,
		key, borrowerKey, e.Amount, e.TermMonths, e.LoanType, e.RiskScore, string(e.RiskGrade), string(e.Decision),
	), e.ID)
	if isForeignKeyViolation(err) {
		return nil, fmt.Errorf("%w: %s", loan.ErrBorrowerNotFound, e.BorrowerID)
	}
	return out, err
}

func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	key, ok := parseID(id)
	if !ok {
		return fmt.Errorf("%w: %s", loan.ErrNotFound, id)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM loan_applications WHERE id = $1::uuid`, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", loan.ErrNotFound, id)
	}
	return nil
}

func (r *LoanRepository) CountByBorrower(ctx context.Context, borrowerID string) (int64, error) {
	key, ok := parseID(borrowerID)
	if !ok {
		return 0, nil
	}
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*)::bigint FROM loan_applications WHERE borrower_id = $1::uuid`, key).Scan(&n)
	return n, err
}

func scanLoan(row pgx.Row, id string) (*loan.Entity, error) {
	out := &loan.Entity{}
	var grade, decision string
	err := row.Scan(
		&out.ID, &out.BorrowerID, &out.Amount, &out.TermMonths, &out.LoanType,
		&out.RiskScore, &grade, &decision, &out.CreatedAt, &out.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", loan.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	out.RiskGrade, out.Decision = riskdomain.Grade(grade), riskdomain.Decision(decision)
	return out, nil
}
