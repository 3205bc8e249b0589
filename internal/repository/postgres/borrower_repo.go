package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/borrower"
)

const borrowerColumns = `id::text, first_name, last_name, date_of_birth, employment_status, annual_income, created_at, updated_at`

type BorrowerRepository struct {
	db querier
}

func NewBorrowerRepository(pool *pgxpool.Pool) *BorrowerRepository {
	return &BorrowerRepository{db: pool}
}

func (r *BorrowerRepository) Create(ctx context.Context, in borrower.Input) (*borrower.Entity, error) {
	q := `
INSERT INTO borrowers (first_name, last_name, date_of_birth, employment_status, annual_income)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + borrowerColumns
	return scanBorrower(r.db.QueryRow(ctx, q, in.FirstName, in.LastName, in.DateOfBirth, in.EmploymentStatus, in.AnnualIncome), "")
}

func (r *BorrowerRepository) GetByID(ctx context.Context, id string) (*borrower.Entity, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", borrower.ErrNotFound, id)
	}
	q := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE id = $1::uuid`
	return scanBorrower(r.db.QueryRow(ctx, q, key), id)
}

func (r *BorrowerRepository) List(ctx context.Context) ([]borrower.Entity, error) {
	q := `SELECT ` + borrowerColumns + ` FROM borrowers ORDER BY created_at ASC, id ASC`
	return r.query(ctx, q)
}

func (r *BorrowerRepository) SearchByLastName(ctx context.Context, fragment string) ([]borrower.Entity, error) {
	q := `
SELECT ` + borrowerColumns + `
FROM borrowers
WHERE STRPOS(LOWER(last_name), LOWER($1)) > 0
ORDER BY created_at ASC, id ASC`
	return r.query(ctx, q, fragment)
}

func (r *BorrowerRepository) Update(ctx context.Context, id string, in borrower.Input) (*borrower.Entity, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", borrower.ErrNotFound, id)
	}
	q := `
UPDATE borrowers
SET first_name = $2, last_name = $3, date_of_birth = $4, employment_status = $5, annual_income = $6, updated_at = NOW()
WHERE id = $1::uuid
RETURNING ` + borrowerColumns
	return scanBorrower(r.db.QueryRow(ctx, q, key, in.FirstName, in.LastName, in.DateOfBirth, in.EmploymentStatus, in.AnnualIncome), id)
}

func (r *BorrowerRepository) Exists(ctx context.Context, id string) (bool, error) {
	key, ok := parseID(id)
	if !ok {
		return false, nil
	}
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM borrowers WHERE id = $1::uuid)`, key).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BorrowerRepository) Delete(ctx context.Context, id string) error {
	key, ok := parseID(id)
	if !ok {
		return fmt.Errorf("%w: %s", borrower.ErrNotFound, id)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM borrowers WHERE id = $1::uuid`, key)
	if err != nil {
		if isForeignKeyViolation(err) {
			return borrower.ErrHasLoans
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", borrower.ErrNotFound, id)
	}
	return nil
}

func (r *BorrowerRepository) query(ctx context.Context, q string, args ...any) ([]borrower.Entity, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]borrower.Entity, 0)
	for rows.Next() {
		var item borrower.Entity
		if err := rows.Scan(
			&item.ID, &item.FirstName, &item.LastName, &item.DateOfBirth,
			&item.EmploymentStatus, &item.AnnualIncome, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanBorrower(row pgx.Row, id string) (*borrower.Entity, error) {
	out := &borrower.Entity{}
	err := row.Scan(
		&out.ID, &out.FirstName, &out.LastName, &out.DateOfBirth,
		&out.EmploymentStatus, &out.AnnualIncome, &out.CreatedAt, &out.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", borrower.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
