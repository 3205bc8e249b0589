package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	borrowerdomain "github.com/DaniellaNwagu/credit-risk/internal/domain/borrower"
)

const dateLayout = "2006-01-02"

type BorrowerService interface {
	CreateBorrower(ctx context.Context, in borrowerdomain.Input) (*borrowerdomain.Entity, error)
	GetBorrower(ctx context.Context, id string) (*borrowerdomain.Entity, error)
	ListBorrowers(ctx context.Context) ([]borrowerdomain.Entity, error)
	SearchByLastName(ctx context.Context, fragment string) ([]borrowerdomain.Entity, error)
	UpdateBorrower(ctx context.Context, id string, in borrowerdomain.Input) (*borrowerdomain.Entity, error)
	DeleteBorrower(ctx context.Context, id string) error
}

type BorrowerHandler struct {
	borrowerService BorrowerService
}

func NewBorrowerHandler(borrowerService BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{borrowerService: borrowerService}
}

type borrowerRequest struct {
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	DateOfBirth      string          `json:"date_of_birth"`
	EmploymentStatus string          `json:"employment_status"`
	AnnualIncome     decimal.Decimal `json:"annual_income"`
}

func (r borrowerRequest) toInput() (borrowerdomain.Input, bool) {
	in := borrowerdomain.Input{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		EmploymentStatus: r.EmploymentStatus,
		AnnualIncome:     r.AnnualIncome,
	}
	if raw := strings.TrimSpace(r.DateOfBirth); raw != "" {
		dob, err := time.Parse(dateLayout, raw)
		if err != nil {
			return in, false
		}
		in.DateOfBirth = &dob
	}
	return in, true
}

type borrowerResponse struct {
	ID               string          `json:"id"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	DateOfBirth      string          `json:"date_of_birth"`
	EmploymentStatus string          `json:"employment_status"`
	AnnualIncome     decimal.Decimal `json:"annual_income"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func newBorrowerResponse(e borrowerdomain.Entity) borrowerResponse {
	return borrowerResponse{
		ID:               e.ID,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		DateOfBirth:      e.DateOfBirth.Format(dateLayout),
		EmploymentStatus: e.EmploymentStatus,
		AnnualIncome:     e.AnnualIncome,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func (h *BorrowerHandler) CreateBorrower(c *gin.Context) {
	in, ok := bindBorrower(c)
	if !ok {
		return
	}
	item, err := h.borrowerService.CreateBorrower(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "create_borrower_failed")
		return
	}
	c.JSON(http.StatusCreated, newBorrowerResponse(*item))
}

func (h *BorrowerHandler) ListBorrowers(c *gin.Context) {
	var (
		items []borrowerdomain.Entity
		err   error
	)
	if lastName, ok := c.GetQuery("last_name"); ok {
		items, err = h.borrowerService.SearchByLastName(c.Request.Context(), strings.TrimSpace(lastName))
	} else {
		items, err = h.borrowerService.ListBorrowers(c.Request.Context())
	}
	if err != nil {
		writeError(c, err, "list_borrowers_failed")
		return
	}

	out := make([]borrowerResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newBorrowerResponse(item))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *BorrowerHandler) GetBorrower(c *gin.Context) {
	item, err := h.borrowerService.GetBorrower(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		writeError(c, err, "get_borrower_failed")
		return
	}
	c.JSON(http.StatusOK, newBorrowerResponse(*item))
}

func (h *BorrowerHandler) UpdateBorrower(c *gin.Context) {
	in, ok := bindBorrower(c)
	if !ok {
		return
	}
	item, err := h.borrowerService.UpdateBorrower(c.Request.Context(), strings.TrimSpace(c.Param("id")), in)
	if err != nil {
		writeError(c, err, "update_borrower_failed")
		return
	}
	c.JSON(http.StatusOK, newBorrowerResponse(*item))
}

func (h *BorrowerHandler) DeleteBorrower(c *gin.Context) {
	if err := h.borrowerService.DeleteBorrower(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		writeError(c, err, "delete_borrower_failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func bindBorrower(c *gin.Context) (borrowerdomain.Input, bool) {
	var req borrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed borrower body")
		return borrowerdomain.Input{}, false
	}
	in, ok := req.toInput()
	if !ok {
		badRequest(c, "date_of_birth must be YYYY-MM-DD")
		return borrowerdomain.Input{}, false
	}
	return in, true
}
