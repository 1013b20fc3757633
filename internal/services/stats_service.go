package services

import (
	"database/sql"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"mclub-backend/internal/models"
)

// StatsService computes the dashboard view. The computation itself is a pure
// function over entity snapshots; nothing here is persisted.
type StatsService struct {
	db *sql.DB
}

// NewStatsService creates a new stats service
func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{db: db}
}

// DashboardStats loads current entity state and computes the dashboard view
func (s *StatsService) DashboardStats(now time.Time) (*models.DashboardStats, error) {
	members, err := NewMemberService(s.db).ListMembers()
	if err != nil {
		return nil, err
	}
	loans, err := NewLoanService(s.db).ListLoans()
	if err != nil {
		return nil, err
	}
	transactions, err := NewTransactionService(s.db).ListTransactions(nil)
	if err != nil {
		return nil, err
	}

	return ComputeDashboardStats(members, loans, transactions, now), nil
}

// ComputeDashboardStats derives every dashboard aggregate from the given
// snapshots. Calling it twice with unchanged inputs yields identical output.
func ComputeDashboardStats(members []*models.Member, loans []*models.Loan, transactions []*models.Transaction, now time.Time) *models.DashboardStats {
	stats := &models.DashboardStats{
		TotalMembers:    len(members),
		TotalFund:       decimal.Zero,
		TotalDisbursed:  decimal.Zero,
		AvailableToLend: decimal.Zero,
		OverdueLoans:    []*models.Loan{},
		UpcomingLoans:   []*models.Loan{},
		UnpaidThisMonth: []*models.Member{},
	}

	for _, member := range members {
		if member.IsActive() {
			stats.ActiveMemberCount++
		} else {
			stats.InactiveMemberCount++
		}
		stats.TotalFund = stats.TotalFund.Add(member.TotalContribution)
	}

	outstanding := decimal.Zero
	var activeLoans []*models.Loan
	for _, loan := range loans {
		if !loan.IsActive() {
			continue
		}
		stats.ActiveLoanCount++
		stats.TotalDisbursed = stats.TotalDisbursed.Add(loan.OriginalAmount)
		outstanding = outstanding.Add(loan.RemainingBalance)
		activeLoans = append(activeLoans, loan)
	}
	stats.AvailableToLend = stats.TotalFund.Sub(outstanding)

	sort.SliceStable(activeLoans, func(i, j int) bool {
		return activeLoans[i].NextPaymentDue < activeLoans[j].NextPaymentDue
	})
	for _, loan := range activeLoans {
		if loan.IsOverdue(now) {
			stats.OverdueLoans = append(stats.OverdueLoans, loan)
		} else {
			stats.UpcomingLoans = append(stats.UpcomingLoans, loan)
		}
	}

	// Members with no CONTRIBUTION entry dated in the current calendar month
	paidThisMonth := make(map[string]bool)
	for _, txn := range transactions {
		if txn.Type != models.TransactionTypeContribution {
			continue
		}
		date, err := time.Parse(dateLayout, txn.Date)
		if err != nil {
			continue
		}
		if date.Month() == now.Month() && date.Year() == now.Year() {
			paidThisMonth[txn.MemberID] = true
		}
	}
	for _, member := range members {
		if member.IsActive() && !paidThisMonth[member.ID] {
			stats.UnpaidThisMonth = append(stats.UnpaidThisMonth, member)
		}
	}

	return stats
}
