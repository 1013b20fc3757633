package services

import (
	"database/sql"
	"fmt"

	"mclub-backend/internal/models"
)

// TransactionService handles reads over the append-only ledger
type TransactionService struct {
	db *sql.DB
}

// NewTransactionService creates a new transaction service
func NewTransactionService(db *sql.DB) *TransactionService {
	return &TransactionService{db: db}
}

// GetTransactionByID retrieves a ledger entry by ID
func (s *TransactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	row := s.db.QueryRow("SELECT "+transactionColumns+" FROM transactions WHERE id = ?", transactionID)
	txn, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("transaction %s not found", transactionID)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions retrieves ledger entries matching the filter, newest first
func (s *TransactionService) ListTransactions(filter *models.TransactionFilter) ([]*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE 1=1"
	var args []interface{}

	if filter != nil {
		if filter.MemberID != "" {
			query += " AND member_id = ?"
			args = append(args, filter.MemberID)
		}
		if filter.Type != "" {
			query += " AND type = ?"
			args = append(args, filter.Type)
		}
		if filter.StartDate != "" {
			query += " AND date >= ?"
			args = append(args, filter.StartDate)
		}
		if filter.EndDate != "" {
			query += " AND date <= ?"
			args = append(args, filter.EndDate)
		}
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

// GetTransactionsByMember retrieves all ledger entries for a member
func (s *TransactionService) GetTransactionsByMember(memberID string) ([]*models.Transaction, error) {
	return s.ListTransactions(&models.TransactionFilter{MemberID: memberID})
}
