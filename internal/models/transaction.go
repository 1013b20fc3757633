package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger entry
type TransactionType string

const (
	TransactionTypeContribution  TransactionType = "CONTRIBUTION"
	TransactionTypeLoanDisbursal TransactionType = "LOAN_DISBURSAL"
	TransactionTypeLoanRepayment TransactionType = "LOAN_REPAYMENT"
	TransactionTypeFee           TransactionType = "FEE"
	TransactionTypeDistribution  TransactionType = "DISTRIBUTION"
)

// IsValid checks whether the type is one of the known ledger entry kinds
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeContribution, TransactionTypeLoanDisbursal,
		TransactionTypeLoanRepayment, TransactionTypeFee, TransactionTypeDistribution:
		return true
	}
	return false
}

// Transaction represents an immutable ledger entry. The transaction log is
// the source of truth for monetary history; member and loan aggregates are
// derived from it.
type Transaction struct {
	ID            string          `json:"id" db:"id"`
	MemberID      string          `json:"memberId" db:"member_id"`
	Type          TransactionType `json:"type" db:"type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Date          string          `json:"date" db:"date"`
	Description   string          `json:"description" db:"description"`
	PaymentMethod string          `json:"paymentMethod,omitempty" db:"payment_method"`
	ReceivedBy    string          `json:"receivedBy,omitempty" db:"received_by"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// TransactionCreate represents a ledger entry submitted over the API
type TransactionCreate struct {
	MemberID      string          `json:"memberId" binding:"required"`
	Type          TransactionType `json:"type" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"paymentMethod"`
	ReceivedBy    string          `json:"receivedBy"`
}

// TransactionFilter narrows ledger listings
type TransactionFilter struct {
	MemberID  string
	Type      TransactionType
	StartDate string
	EndDate   string
}
