package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/borrower"
	"github.com/DaniellaNwagu/credit-risk/internal/domain/loan"
	"github.com/DaniellaNwagu/credit-risk/internal/repository/postgres"
	"github.com/DaniellaNwagu/credit-risk/internal/testutil"
)

func TestPostgresBorrowerAndLoanFlow(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()

	borrowers := postgres.NewBorrowerRepository(pool)
	loans := postgres.NewLoanRepository(pool)
	outbox := postgres.NewOutboxRepository(pool)

	borrowerSvc := borrower.NewService(borrowers, loans)
	loanSvc := loan.NewService(borrowers, loans, outbox, nil).WithTransactor(postgres.NewTransactor(pool))

	dob := time.Date(1988, 11, 23, 0, 0, 0, 0, time.UTC)
	b, err := borrowerSvc.CreateBorrower(ctx, borrower.Input{
		FirstName:        "Kwame",
		LastName:         "Asante",
		DateOfBirth:      &dob,
		EmploymentStatus: "employed",
		AnnualIncome:     decimal.RequireFromString("48000.75"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.True(t, b.DateOfBirth.Equal(dob))
	assert.Equal(t, "48000.75", b.AnnualIncome.String())

	hits, err := borrowerSvc.SearchByLastName(ctx, "SANT")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, b.ID, hits[0].ID)

	exists, err := borrowers.Exists(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = borrowerSvc.GetBorrower(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, borrower.ErrNotFound)

	created, err := loanSvc.CreateLoan(ctx, loan.CreateInput{
		BorrowerID: b.ID,
		Amount:     decimal.NewFromInt(250000),
		TermMonths: 24,
		LoanType:   "business",
	})
	require.NoError(t, err)
	assert.Equal(t, "75", created.RiskScore.String())
	assert.Equal(t, "Low", string(created.RiskGrade))

	updated, err := loanSvc.UpdateLoan(ctx, created.ID, loan.UpdateInput{
		BorrowerID: b.ID,
		Amount:     decimal.NewFromInt(500001),
		TermMonths: 24,
		LoanType:   "business",
	})
	require.NoError(t, err)
	assert.Equal(t, "High", string(updated.RiskGrade))
	assert.Equal(t, "Reject", string(updated.Decision))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	high, err := loanSvc.ListLoans(ctx, loan.ListFilter{RiskGrade: "High"})
	require.NoError(t, err)
	assert.Len(t, high, 1)

	assert.ErrorIs(t, borrowerSvc.DeleteBorrower(ctx, b.ID), borrower.ErrHasLoans)
	assert.ErrorIs(t, borrowers.Delete(ctx, b.ID), borrower.ErrHasLoans)

	require.NoError(t, loanSvc.DeleteLoan(ctx, created.ID))
	assert.ErrorIs(t, loanSvc.DeleteLoan(ctx, created.ID), loan.ErrNotFound)
	require.NoError(t, borrowerSvc.DeleteBorrower(ctx, b.ID))
}

func TestPostgresOutboxClaimAndFeed(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	outbox := postgres.NewOutboxRepository(pool)

	require.NoError(t, outbox.Enqueue(ctx, loan.OutboxTopicAssessed, []byte(`{"loan_id":"a","risk_grade":"Low"}`)))
	require.NoError(t, outbox.Enqueue(ctx, loan.OutboxTopicAssessed, []byte(`{"loan_id":"b","risk_grade":"High"}`)))

	feed, err := outbox.ListEventsSince(ctx, loan.OutboxTopicAssessed, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Less(t, feed[0].ID, feed[1].ID)

	after, err := outbox.ListEventsSince(ctx, loan.OutboxTopicAssessed, feed[0].ID, 10)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.JSONEq(t, `{"loan_id":"b","risk_grade":"High"}`, string(after[0].Payload))

	claimed, err := outbox.ClaimPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, int32(1), claimed[0].Attempts)
	assert.Equal(t, "processing", claimed[0].Status)

	again, err := outbox.ClaimPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	require.NoError(t, outbox.MarkDone(ctx, claimed[0].ID))
	require.NoError(t, outbox.MarkRetry(ctx, claimed[1].ID, time.Now().Add(-time.Second), "broker down"))

	retried, err := outbox.ClaimPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, retried, 1)
	assert.Equal(t, claimed[1].ID, retried[0].ID)
	assert.Equal(t, int32(2), retried[0].Attempts)
	assert.Equal(t, "broker down", retried[0].LastError)

	require.NoError(t, outbox.MarkFailed(ctx, retried[0].ID, "gave up"))
	none, err := outbox.ClaimPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostgresIDsAreParsedAsUUID(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()

	borrowers := postgres.NewBorrowerRepository(pool)
	loans := postgres.NewLoanRepository(pool)
	loanSvc := loan.NewService(borrowers, loans, postgres.NewOutboxRepository(pool), nil).
		WithTransactor(postgres.NewTransactor(pool))

	dob := time.Date(1975, 2, 14, 0, 0, 0, 0, time.UTC)
	b, err := borrowers.Create(ctx, borrower.Input{
		FirstName:        "Ama",
		LastName:         "Owusu",
		DateOfBirth:      &dob,
		EmploymentStatus: "employed",
		AnnualIncome:     decimal.NewFromInt(90000),
	})
	require.NoError(t, err)

	upper := strings.ToUpper(b.ID)
	got, err := borrowers.GetByID(ctx, upper)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	exists, err := borrowers.Exists(ctx, upper)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = borrowers.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, borrower.ErrNotFound)
	_, err = borrowers.Update(ctx, "not-a-uuid", borrower.Input{LastName: "X", DateOfBirth: &dob})
	assert.ErrorIs(t, err, borrower.ErrNotFound)
	assert.ErrorIs(t, borrowers.Delete(ctx, "not-a-uuid"), borrower.ErrNotFound)

	created, err := loanSvc.CreateLoan(ctx, loan.CreateInput{
		BorrowerID: upper,
		Amount:     decimal.NewFromInt(1000),
		TermMonths: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, b.ID, created.BorrowerID)

	updated, err := loanSvc.UpdateLoan(ctx, strings.ToUpper(created.ID), loan.UpdateInput{
		BorrowerID: upper,
		Amount:     decimal.NewFromInt(2000),
		TermMonths: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, b.ID, updated.BorrowerID)

	_, err = loans.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, loan.ErrNotFound)
	assert.ErrorIs(t, loans.Delete(ctx, "not-a-uuid"), loan.ErrNotFound)
	_, err = loanSvc.CreateLoan(ctx, loan.CreateInput{BorrowerID: "not-a-uuid", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, loan.ErrBorrowerNotFound)

	count, err := loans.CountByBorrower(ctx, upper)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = loans.CountByBorrower(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostgresTransactorRollsBackLoanWithEvent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()

	borrowers := postgres.NewBorrowerRepository(pool)
	loans := postgres.NewLoanRepository(pool)
	outbox := postgres.NewOutboxRepository(pool)

	dob := time.Date(1980, 6, 1, 0, 0, 0, 0, time.UTC)
	b, err := borrowers.Create(ctx, borrower.Input{
		LastName:     "Nkosi",
		DateOfBirth:  &dob,
		AnnualIncome: decimal.NewFromInt(40000),
	})
	require.NoError(t, err)

	errAbort := errors.New("abort")
	err = postgres.NewTransactor(pool).InTx(ctx, func(txLoans loan.Repository, txOutbox loan.OutboxRepository) error {
		if _, err := txLoans.Create(ctx, loan.Entity{BorrowerID: b.ID, Amount: decimal.NewFromInt(5000), TermMonths: 6}); err != nil {
			return err
		}
		if err := txOutbox.Enqueue(ctx, loan.OutboxTopicAssessed, []byte(`{"loan_id":"x"}`)); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	all, err := loans.List(ctx, loan.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	latest, err := outbox.LatestEventID(ctx, loan.OutboxTopicAssessed)
	require.NoError(t, err)
	assert.Zero(t, latest)

	err = postgres.NewTransactor(pool).InTx(ctx, func(txLoans loan.Repository, txOutbox loan.OutboxRepository) error {
		if _, err := txLoans.Create(ctx, loan.Entity{BorrowerID: b.ID, Amount: decimal.NewFromInt(5000), TermMonths: 6}); err != nil {
			return err
		}
		return txOutbox.Enqueue(ctx, loan.OutboxTopicAssessed, []byte(`{"loan_id":"y"}`))
	})
	require.NoError(t, err)

	all, err = loans.List(ctx, loan.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	feed, err := outbox.ListEventsSince(ctx, loan.OutboxTopicAssessed, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	latest, err = outbox.LatestEventID(ctx, loan.OutboxTopicAssessed)
	require.NoError(t, err)
	assert.Equal(t, feed[0].ID, latest)
}
