package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus represents loan status
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusPaid      LoanStatus = "PAID"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

// Loan represents a member loan
type Loan struct {
	ID               string          `json:"id" db:"id"`
	BorrowerID       string          `json:"borrowerId" db:"borrower_id"`
	CosignerID       *string         `json:"cosignerId,omitempty" db:"cosigner_id"`
	OriginalAmount   decimal.Decimal `json:"originalAmount" db:"original_amount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance" db:"remaining_balance"`
	TermMonths       int             `json:"termMonths" db:"term_months"`
	Status           LoanStatus      `json:"status" db:"status"`
	StartDate        string          `json:"startDate" db:"start_date"`
	NextPaymentDue   string          `json:"nextPaymentDue" db:"next_payment_due"`
	IssuedBy         *string         `json:"issuedBy,omitempty" db:"issued_by"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`

	// Joined data
	Borrower *Member `json:"borrower,omitempty"`
}

// IsActive checks if the loan is active
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// IsTerminal checks if the loan is in a terminal state
func (l *Loan) IsTerminal() bool {
	return l.Status == LoanStatusPaid || l.Status == LoanStatusDefaulted
}

// MonthlyDue returns the nominal monthly payment derived from the term
func (l *Loan) MonthlyDue() decimal.Decimal {
	if l.TermMonths <= 0 {
		return decimal.Zero
	}
	return l.OriginalAmount.DivRound(decimal.NewFromInt(int64(l.TermMonths)), 2)
}

// IsOverdue checks whether the next payment due date has passed
func (l *Loan) IsOverdue(now time.Time) bool {
	due, err := time.Parse("2006-01-02", l.NextPaymentDue)
	if err != nil {
		return false
	}
	return l.IsActive() && due.Before(now)
}

// LoanCreate represents loan origination data
type LoanCreate struct {
	BorrowerID     string          `json:"borrowerId" binding:"required"`
	CosignerID     *string         `json:"cosignerId,omitempty"`
	OriginalAmount decimal.Decimal `json:"originalAmount" binding:"required"`
	TermMonths     int             `json:"termMonths" binding:"required,gt=0"`
	StartDate      string          `json:"startDate"`
	IssuedBy       *string         `json:"issuedBy,omitempty"`
}

// LoanPaymentRequest represents a loan payment
type LoanPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
}
