package api

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"mclub-backend/internal/models"
	"mclub-backend/internal/services"
)

// TransactionHandlers exposes the ledger over HTTP
type TransactionHandlers struct {
	ledger       *services.LedgerService
	transactions *services.TransactionService
}

// NewTransactionHandlers creates transaction handlers
func NewTransactionHandlers(ledger *services.LedgerService, transactions *services.TransactionService) *TransactionHandlers {
	return &TransactionHandlers{ledger: ledger, transactions: transactions}
}

// ListTransactions handles GET /transactions with optional memberId,
// type, startDate and endDate query filters
func (h *TransactionHandlers) ListTransactions(c *gin.Context) {
	filter := &models.TransactionFilter{
		MemberID:  c.Query("memberId"),
		Type:      models.TransactionType(c.Query("type")),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		respondBadRequest(c, "Invalid transaction type: "+string(filter.Type))
		return
	}

	transactions, err := h.transactions.ListTransactions(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, transactions)
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandlers) GetTransaction(c *gin.Context) {
	txn, err := h.transactions.GetTransactionByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, txn)
}

// CreateTransaction handles POST /transactions. Contribution entries go
// through the ledger engine so the member aggregate moves with the log;
// disbursals and repayments exist only as effects of loan operations and
// are rejected here.
func (h *TransactionHandlers) CreateTransaction(c *gin.Context) {
	var req models.TransactionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}
	if !req.Type.IsValid() {
		respondBadRequest(c, "Invalid transaction type: "+string(req.Type))
		return
	}

	var (
		entry *models.Transaction
		err   error
	)
	switch req.Type {
	case models.TransactionTypeContribution:
		entry, err = h.ledger.RecordContribution(req.MemberID, req.Amount, req.Date, req.PaymentMethod, req.ReceivedBy, req.Description)
	case models.TransactionTypeFee:
		entry, err = h.ledger.RecordFee(req.MemberID, req.Amount, req.Date, req.Description)
	case models.TransactionTypeDistribution:
		entry, err = h.ledger.RecordDistribution(req.MemberID, req.Amount, req.Date, req.Description)
	default:
		err = models.NewValidationError("%s entries are created by loan operations, not directly", req.Type)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, entry)
}

// MakeContribution handles POST /contributions, a convenience alias for
// contribution entries
func (h *TransactionHandlers) MakeContribution(c *gin.Context) {
	var req struct {
		MemberID      string          `json:"memberId" binding:"required"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		Date          string          `json:"date"`
		Description   string          `json:"description"`
		PaymentMethod string          `json:"paymentMethod"`
		ReceivedBy    string          `json:"receivedBy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	entry, err := h.ledger.RecordContribution(req.MemberID, req.Amount, req.Date, req.PaymentMethod, req.ReceivedBy, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, entry)
}
