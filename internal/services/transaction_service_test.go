package services

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"mclub-backend/internal/models"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	db           *sql.DB
	transactions *TransactionService
	ledger       *LedgerService
	alice        *models.Member
	bob          *models.Member
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.transactions = NewTransactionService(s.db)
	s.ledger = NewLedgerService(s.db)
	s.alice = createTestMember(s.T(), s.db, "Alice", "alice@example.com")
	s.bob = createTestMember(s.T(), s.db, "Bob", "bob@example.com")

	var err error
	_, err = s.ledger.RecordContribution(s.alice.ID, decimal.NewFromInt(100), "2024-01-10", "", "", "")
	s.Require().NoError(err)
	_, err = s.ledger.RecordContribution(s.alice.ID, decimal.NewFromInt(100), "2024-03-10", "", "", "")
	s.Require().NoError(err)
	_, err = s.ledger.RecordContribution(s.bob.ID, decimal.NewFromInt(200), "2024-02-10", "", "", "")
	s.Require().NoError(err)
	_, err = s.ledger.RecordFee(s.bob.ID, decimal.NewFromInt(25), "2024-02-15", "late fee")
	s.Require().NoError(err)
}

func (s *TransactionServiceTestSuite) TestListTransactionsNewestFirst() {
	all, err := s.transactions.ListTransactions(nil)
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.Equal("2024-03-10", all[0].Date)
	s.Equal("2024-01-10", all[3].Date)
}

func (s *TransactionServiceTestSuite) TestFilterByMember() {
	entries, err := s.transactions.ListTransactions(&models.TransactionFilter{MemberID: s.alice.ID})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	for _, entry := range entries {
		s.Equal(s.alice.ID, entry.MemberID)
	}
}

func (s *TransactionServiceTestSuite) TestFilterByType() {
	fees, err := s.transactions.ListTransactions(&models.TransactionFilter{
		Type: models.TransactionTypeFee,
	})
	s.Require().NoError(err)
	s.Require().Len(fees, 1)
	s.True(fees[0].Amount.Equal(decimal.NewFromInt(25)))
}

func (s *TransactionServiceTestSuite) TestFilterByDateRange() {
	entries, err := s.transactions.ListTransactions(&models.TransactionFilter{
		StartDate: "2024-02-01",
		EndDate:   "2024-02-28",
	})
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *TransactionServiceTestSuite) TestFiltersCombine() {
	entries, err := s.transactions.ListTransactions(&models.TransactionFilter{
		MemberID: s.bob.ID,
		Type:     models.TransactionTypeContribution,
	})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("2024-02-10", entries[0].Date)
}

func (s *TransactionServiceTestSuite) TestGetTransactionByID() {
	all, err := s.transactions.ListTransactions(nil)
	s.Require().NoError(err)
	s.Require().NotEmpty(all)

	got, err := s.transactions.GetTransactionByID(all[0].ID)
	s.Require().NoError(err)
	s.Equal(all[0].ID, got.ID)

	_, err = s.transactions.GetTransactionByID("TXN-missing")
	s.Equal(models.ErrorKindNotFound, models.ErrorKindOf(err))
}

func (s *TransactionServiceTestSuite) TestGetTransactionsByMember() {
	entries, err := s.transactions.GetTransactionsByMember(s.bob.ID)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
