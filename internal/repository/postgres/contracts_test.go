package postgres

import (
	borrowerdomain "github.com/DaniellaNwagu/credit-risk/internal/domain/borrower"
	loandomain "github.com/DaniellaNwagu/credit-risk/internal/domain/loan"
	"github.com/DaniellaNwagu/credit-risk/internal/jobs"
	"github.com/DaniellaNwagu/credit-risk/internal/ws"
)

var (
	_ borrowerdomain.Repository   = (*BorrowerRepository)(nil)
	_ borrowerdomain.LoanCounter  = (*LoanRepository)(nil)
	_ loandomain.Repository       = (*LoanRepository)(nil)
	_ loandomain.BorrowerLookup   = (*BorrowerRepository)(nil)
	_ loandomain.OutboxRepository = (*OutboxRepository)(nil)
	_ loandomain.Transactor       = (*Transactor)(nil)
	_ jobs.OutboxRepository       = (*OutboxRepository)(nil)
	_ ws.FeedRepository           = (*OutboxRepository)(nil)
)
