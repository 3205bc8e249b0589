package borrower_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/borrower"
	"github.com/DaniellaNwagu/credit-risk/internal/repository/memory"
)

type fakeLoanCounter struct {
	counts map[string]int64
}

func (f fakeLoanCounter) CountByBorrower(_ context.Context, id string) (int64, error) {
	return f.counts[id], nil
}

func validInput(lastName string) borrower.Input {
	dob := time.Date(1985, 3, 2, 0, 0, 0, 0, time.UTC)
	return borrower.Input{
		FirstName:        "Ada",
		LastName:         lastName,
		DateOfBirth:      &dob,
		EmploymentStatus: "employed",
		AnnualIncome:     decimal.NewFromInt(72000),
	}
}

func newService(counts map[string]int64) (*borrower.Service, *memory.BorrowerRepository) {
	repo := memory.NewBorrowerRepository()
	return borrower.NewService(repo, fakeLoanCounter{counts: counts}), repo
}

func TestCreateBorrowerPersistsAndStamps(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	created, err := svc.CreateBorrower(ctx, validInput("Lovelace"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.GetBorrower(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.True(t, got.AnnualIncome.Equal(decimal.NewFromInt(72000)))
}

func TestCreateBorrowerRejectsInvalidInput(t *testing.T) {
	svc, repo := newService(nil)
	ctx := context.Background()

	in := validInput("Hopper")
	in.AnnualIncome = decimal.NewFromInt(-100)
	_, err := svc.CreateBorrower(ctx, in)
	assert.ErrorIs(t, err, borrower.ErrInvalidAnnualIncome)

	in = validInput("Hopper")
	in.DateOfBirth = nil
	_, err = svc.CreateBorrower(ctx, in)
	assert.ErrorIs(t, err, borrower.ErrMissingDateOfBirth)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetBorrowerNotFound(t *testing.T) {
	svc, _ := newService(nil)

	_, err := svc.GetBorrower(context.Background(), "missing")
	assert.ErrorIs(t, err, borrower.ErrNotFound)

	_, err = svc.GetBorrower(context.Background(), "  ")
	assert.ErrorIs(t, err, borrower.ErrNotFound)
}

func TestSearchByLastName(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	for _, name := range []string{"Smith", "Smithers", "Jones"} {
		_, err := svc.CreateBorrower(ctx, validInput(name))
		require.NoError(t, err)
	}

	hits, err := svc.SearchByLastName(ctx, "smi")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Smith", hits[0].LastName)
	assert.Equal(t, "Smithers", hits[1].LastName)

	all, err := svc.SearchByLastName(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := svc.SearchByLastName(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateBorrowerOverwritesAllFields(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	created, err := svc.CreateBorrower(ctx, validInput("Turing"))
	require.NoError(t, err)

	in := validInput("Turing-Smith")
	in.FirstName = "Alan"
	in.EmploymentStatus = "self-employed"
	in.AnnualIncome = decimal.RequireFromString("1000.50")

	updated, err := svc.UpdateBorrower(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Alan", updated.FirstName)
	assert.Equal(t, "Turing-Smith", updated.LastName)
	assert.Equal(t, "self-employed", updated.EmploymentStatus)
	assert.Equal(t, "1000.5", updated.AnnualIncome.String())
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUpdateBorrowerErrors(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	_, err := svc.UpdateBorrower(ctx, "missing", validInput("X"))
	assert.ErrorIs(t, err, borrower.ErrNotFound)

	created, err := svc.CreateBorrower(ctx, validInput("Y"))
	require.NoError(t, err)
	bad := validInput("Y")
	bad.AnnualIncome = decimal.NewFromInt(-1)
	_, err = svc.UpdateBorrower(ctx, created.ID, bad)
	assert.ErrorIs(t, err, borrower.ErrInvalidAnnualIncome)

	got, err := svc.GetBorrower(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.AnnualIncome.Equal(decimal.NewFromInt(72000)))
}

func TestDeleteBorrower(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewBorrowerRepository()
	counts := map[string]int64{}
	svc := borrower.NewService(repo, fakeLoanCounter{counts: counts})

	referenced, err := svc.CreateBorrower(ctx, validInput("Ref"))
	require.NoError(t, err)
	free, err := svc.CreateBorrower(ctx, validInput("Free"))
	require.NoError(t, err)
	counts[referenced.ID] = 2

	assert.ErrorIs(t, svc.DeleteBorrower(ctx, referenced.ID), borrower.ErrHasLoans)
	_, err = svc.GetBorrower(ctx, referenced.ID)
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteBorrower(ctx, free.ID))
	_, err = svc.GetBorrower(ctx, free.ID)
	assert.ErrorIs(t, err, borrower.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteBorrower(ctx, free.ID), borrower.ErrNotFound)
}
