package api

import (
	"github.com/gin-gonic/gin"

	"mclub-backend/internal/models"
	"mclub-backend/internal/services"
)

// LoanHandlers exposes loan origination, payments and reads
type LoanHandlers struct {
	ledger *services.LedgerService
	loans  *services.LoanService
}

// NewLoanHandlers creates loan handlers
func NewLoanHandlers(ledger *services.LedgerService, loans *services.LoanService) *LoanHandlers {
	return &LoanHandlers{ledger: ledger, loans: loans}
}

// ListLoans handles GET /loans. ?status=ACTIVE narrows to active loans in
// payment-due order.
func (h *LoanHandlers) ListLoans(c *gin.Context) {
	var (
		loans []*models.Loan
		err   error
	)
	if c.Query("status") == string(models.LoanStatusActive) {
		loans, err = h.loans.ListActiveLoans()
	} else {
		loans, err = h.loans.ListLoans()
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, loans)
}

// GetLoan handles GET /loans/:id
func (h *LoanHandlers) GetLoan(c *gin.Context) {
	loan, err := h.loans.GetLoanByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, loan)
}

// CreateLoan handles POST /loans
func (h *LoanHandlers) CreateLoan(c *gin.Context) {
	var req models.LoanCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	loan, err := h.ledger.OriginateLoan(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, loan)
}

// MakePayment handles POST /loans/:id/payment
func (h *LoanHandlers) MakePayment(c *gin.Context) {
	var req models.LoanPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	loan, err := h.ledger.ApplyLoanPayment(c.Param("id"), req.Amount, req.Date, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, loan)
}

// MarkDefaulted handles POST /loans/:id/default
func (h *LoanHandlers) MarkDefaulted(c *gin.Context) {
	loan, err := h.loans.MarkDefaulted(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, loan)
}
