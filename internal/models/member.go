package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus represents member account status
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "Active"
	AccountStatusInactive AccountStatus = "Inactive"
)

// Member represents a club member
type Member struct {
	ID                string          `json:"id" db:"id"`
	Name              string          `json:"name" db:"name"`
	Nickname          string          `json:"nickname" db:"nickname"`
	Email             string          `json:"email" db:"email"`
	PasswordHash      string          `json:"-" db:"password_hash"`
	JoinDate          string          `json:"joinDate" db:"join_date"`
	AccountStatus     AccountStatus   `json:"accountStatus" db:"account_status"`
	Phone             string          `json:"phone" db:"phone"`
	Address           string          `json:"address" db:"address"`
	City              string          `json:"city" db:"city"`
	State             string          `json:"state" db:"state"`
	ZipCode           string          `json:"zipCode" db:"zip_code"`
	Beneficiary       string          `json:"beneficiary" db:"beneficiary"`
	TotalContribution decimal.Decimal `json:"totalContribution" db:"total_contribution"`
	ActiveLoanID      *string         `json:"activeLoanId" db:"active_loan_id"`
	LastLoanPaidDate  *string         `json:"lastLoanPaidDate" db:"last_loan_paid_date"`
	AutoPay           bool            `json:"autoPay" db:"auto_pay"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`
}

// IsActive checks if the member account is active
func (m *Member) IsActive() bool {
	return m.AccountStatus == AccountStatusActive
}

// HasActiveLoan checks if the member currently holds a loan
func (m *Member) HasActiveLoan() bool {
	return m.ActiveLoanID != nil && *m.ActiveLoanID != ""
}

// MemberCreate represents member creation data
type MemberCreate struct {
	Name        string `json:"name" binding:"required"`
	Nickname    string `json:"nickname"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	JoinDate    string `json:"joinDate"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	Beneficiary string `json:"beneficiary"`
	AutoPay     bool   `json:"autoPay"`
}

// MemberUpdate represents member profile update data. Aggregate fields
// (totalContribution, activeLoanId) are never client-writable.
type MemberUpdate struct {
	Name          *string        `json:"name,omitempty"`
	Nickname      *string        `json:"nickname,omitempty"`
	Email         *string        `json:"email,omitempty"`
	AccountStatus *AccountStatus `json:"accountStatus,omitempty"`
	Phone         *string        `json:"phone,omitempty"`
	Address       *string        `json:"address,omitempty"`
	City          *string        `json:"city,omitempty"`
	State         *string        `json:"state,omitempty"`
	ZipCode       *string        `json:"zipCode,omitempty"`
	Beneficiary   *string        `json:"beneficiary,omitempty"`
	AutoPay       *bool          `json:"autoPay,omitempty"`
}

// YearlyContribution maps contribution year to the summed amount
type YearlyContribution map[int]decimal.Decimal
