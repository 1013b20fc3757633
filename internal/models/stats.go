package models

import "github.com/shopspring/decimal"

// DashboardStats is a point-in-time view over members, loans and the ledger.
// It is recomputed on demand and never persisted.
type DashboardStats struct {
	TotalMembers        int             `json:"totalMembers"`
	ActiveMemberCount   int             `json:"activeMemberCount"`
	InactiveMemberCount int             `json:"inactiveMemberCount"`
	ActiveLoanCount     int             `json:"activeLoanCount"`
	TotalFund           decimal.Decimal `json:"totalFund"`
	TotalDisbursed      decimal.Decimal `json:"totalDisbursed"`
	AvailableToLend     decimal.Decimal `json:"availableToLend"`
	OverdueLoans        []*Loan         `json:"overdueLoans"`
	UpcomingLoans       []*Loan         `json:"upcomingLoans"`
	UnpaidThisMonth     []*Member       `json:"unpaidThisMonth"`
}
