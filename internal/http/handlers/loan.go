package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	loandomain "github.com/DaniellaNwagu/credit-risk/internal/domain/loan"
)

type LoanService interface {
	CreateLoan(ctx context.Context, in loandomain.CreateInput) (*loandomain.Entity, error)
	GetLoan(ctx context.Context, id string) (*loandomain.Entity, error)
	ListLoans(ctx context.Context, filter loandomain.ListFilter) ([]loandomain.Entity, error)
	UpdateLoan(ctx context.Context, id string, in loandomain.UpdateInput) (*loandomain.Entity, error)
	DeleteLoan(ctx context.Context, id string) error
}

type LoanHandler struct {
	loanService LoanService
}

func NewLoanHandler(loanService LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

type loanRequest struct {
	BorrowerID string          `json:"borrower_id"`
	LoanAmount decimal.Decimal `json:"loan_amount"`
	TermMonths int32           `json:"term_months"`
	LoanType   string          `json:"loan_type"`
}

func (r loanRequest) toInput() loandomain.CreateInput {
	return loandomain.CreateInput{
		BorrowerID: strings.TrimSpace(r.BorrowerID),
		Amount:     r.LoanAmount,
		TermMonths: r.TermMonths,
		LoanType:   r.LoanType,
	}
}

func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed loan body")
		return
	}
	item, err := h.loanService.CreateLoan(c.Request.Context(), req.toInput())
	if err != nil {
		writeError(c, err, "create_loan_failed")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *LoanHandler) ListLoans(c *gin.Context) {
	items, err := h.loanService.ListLoans(c.Request.Context(), loandomain.ListFilter{
		RiskGrade: c.Query("risk_grade"),
	})
	if err != nil {
		writeError(c, err, "list_loans_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *LoanHandler) GetLoan(c *gin.Context) {
	item, err := h.loanService.GetLoan(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		writeError(c, err, "get_loan_failed")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed loan body")
		return
	}
	item, err := h.loanService.UpdateLoan(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.toInput())
	if err != nil {
		writeError(c, err, "update_loan_failed")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	if err := h.loanService.DeleteLoan(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		writeError(c, err, "delete_loan_failed")
		return
	}
	c.Status(http.StatusNoContent)
}
