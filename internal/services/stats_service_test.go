package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mclub-backend/internal/models"
)

func makeMember(id string, status models.AccountStatus, total string) *models.Member {
	return &models.Member{
		ID:                id,
		Name:              "Member " + id,
		AccountStatus:     status,
		TotalContribution: decimal.RequireFromString(total),
	}
}

func makeActiveLoan(id, borrower, due, original, remaining string) *models.Loan {
	return &models.Loan{
		ID:               id,
		BorrowerID:       borrower,
		Status:           models.LoanStatusActive,
		NextPaymentDue:   due,
		OriginalAmount:   decimal.RequireFromString(original),
		RemainingBalance: decimal.RequireFromString(remaining),
	}
}

func makeContribution(memberID, date string) *models.Transaction {
	return &models.Transaction{
		ID:       "TXN-" + memberID + "-" + date,
		MemberID: memberID,
		Type:     models.TransactionTypeContribution,
		Amount:   decimal.NewFromInt(100),
		Date:     date,
	}
}

func TestComputeDashboardStats(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	members := []*models.Member{
		makeMember("M001", models.AccountStatusActive, "1000"),
		makeMember("M002", models.AccountStatusActive, "2500.50"),
		makeMember("M003", models.AccountStatusInactive, "400"),
	}
	loans := []*models.Loan{
		makeActiveLoan("L1", "M001", "2024-06-01", "1200", "800"), // overdue
		makeActiveLoan("L2", "M002", "2024-07-01", "600", "600"),  // upcoming
		{ID: "L3", BorrowerID: "M003", Status: models.LoanStatusPaid,
			OriginalAmount: decimal.NewFromInt(900), RemainingBalance: decimal.Zero},
	}
	transactions := []*models.Transaction{
		makeContribution("M001", "2024-06-05"),
		makeContribution("M002", "2024-05-05"), // previous month, does not count
	}

	stats := ComputeDashboardStats(members, loans, transactions, now)

	assert.Equal(t, 3, stats.TotalMembers)
	assert.Equal(t, 2, stats.ActiveMemberCount)
	assert.Equal(t, 1, stats.InactiveMemberCount)
	assert.Equal(t, 2, stats.ActiveLoanCount)

	assert.True(t, stats.TotalFund.Equal(decimal.RequireFromString("3900.50")))
	// Only active loans count toward disbursed
	assert.True(t, stats.TotalDisbursed.Equal(decimal.NewFromInt(1800)))
	// 3900.50 - (800 + 600)
	assert.True(t, stats.AvailableToLend.Equal(decimal.RequireFromString("2500.50")))

	require.Len(t, stats.OverdueLoans, 1)
	assert.Equal(t, "L1", stats.OverdueLoans[0].ID)
	require.Len(t, stats.UpcomingLoans, 1)
	assert.Equal(t, "L2", stats.UpcomingLoans[0].ID)

	// M002 has no contribution in June, M003 is inactive
	require.Len(t, stats.UnpaidThisMonth, 1)
	assert.Equal(t, "M002", stats.UnpaidThisMonth[0].ID)
}

func TestComputeDashboardStatsIsPure(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	members := []*models.Member{
		makeMember("M001", models.AccountStatusActive, "100"),
		makeMember("M002", models.AccountStatusActive, "200"),
	}
	loans := []*models.Loan{makeActiveLoan("L1", "M001", "2024-07-01", "500", "300")}
	transactions := []*models.Transaction{makeContribution("M001", "2024-06-01")}

	first := ComputeDashboardStats(members, loans, transactions, now)
	second := ComputeDashboardStats(members, loans, transactions, now)
	assert.Equal(t, first, second)
}

func TestComputeDashboardStatsOrderIndependentSums(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	a := makeMember("M001", models.AccountStatusActive, "123.45")
	b := makeMember("M002", models.AccountStatusActive, "678.90")
	c := makeMember("M003", models.AccountStatusInactive, "0.65")

	forward := ComputeDashboardStats([]*models.Member{a, b, c}, nil, nil, now)
	reversed := ComputeDashboardStats([]*models.Member{c, b, a}, nil, nil, now)

	assert.True(t, forward.TotalFund.Equal(reversed.TotalFund))
	assert.True(t, forward.TotalFund.Equal(decimal.RequireFromString("803.00")))
}

func TestComputeDashboardStatsActiveLoansSortedByDueDate(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	loans := []*models.Loan{
		makeActiveLoan("L3", "M003", "2024-03-01", "100", "100"),
		makeActiveLoan("L1", "M001", "2024-01-15", "100", "100"),
		makeActiveLoan("L2", "M002", "2024-02-01", "100", "100"),
	}

	stats := ComputeDashboardStats(nil, loans, nil, now)

	require.Len(t, stats.UpcomingLoans, 3)
	assert.Equal(t, "L1", stats.UpcomingLoans[0].ID)
	assert.Equal(t, "L2", stats.UpcomingLoans[1].ID)
	assert.Equal(t, "L3", stats.UpcomingLoans[2].ID)
}

func TestDashboardStatsFromDatabase(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	stats := NewStatsService(db)

	m := createTestMember(t, db, "Olive Wairimu", "olive@example.com")
	_, err := ledger.RecordContribution(m.ID, decimal.NewFromInt(300), "2024-02-01", "", "", "")
	require.NoError(t, err)
	_, err = ledger.OriginateLoan(&models.LoanCreate{
		BorrowerID:     m.ID,
		OriginalAmount: decimal.NewFromInt(200),
		TermMonths:     2,
		StartDate:      "2024-02-01",
	})
	require.NoError(t, err)

	got, err := stats.DashboardStats(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 1, got.ActiveMemberCount)
	assert.Equal(t, 1, got.ActiveLoanCount)
	assert.True(t, got.TotalFund.Equal(decimal.NewFromInt(300)))
	assert.True(t, got.TotalDisbursed.Equal(decimal.NewFromInt(200)))
	assert.True(t, got.AvailableToLend.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, got.UnpaidThisMonth)
}
