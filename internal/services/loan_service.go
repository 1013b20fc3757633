package services

import (
	"database/sql"
	"fmt"
	"time"

	"mclub-backend/internal/models"
)

// LoanService handles loan reads and administrative status changes. Balance
// movements go through the ledger service.
type LoanService struct {
	db *sql.DB
}

// NewLoanService creates a new loan service
func NewLoanService(db *sql.DB) *LoanService {
	return &LoanService{db: db}
}

// GetLoanByID retrieves a loan by ID
func (s *LoanService) GetLoanByID(loanID string) (*models.Loan, error) {
	row := s.db.QueryRow("SELECT "+loanColumns+" FROM loans WHERE id = ?", loanID)
	loan, err := scanLoan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("loan %s not found", loanID)
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}

// ListLoans retrieves all loans, newest first
func (s *LoanService) ListLoans() ([]*models.Loan, error) {
	rows, err := s.db.Query("SELECT " + loanColumns + " FROM loans ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

// ListActiveLoans retrieves active loans sorted by next payment due date
func (s *LoanService) ListActiveLoans() ([]*models.Loan, error) {
	rows, err := s.db.Query(
		"SELECT "+loanColumns+" FROM loans WHERE status = ? ORDER BY next_payment_due",
		models.LoanStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

// GetLoansByMember retrieves loans where the member is borrower or cosigner
func (s *LoanService) GetLoansByMember(memberID string) ([]*models.Loan, error) {
	rows, err := s.db.Query(
		"SELECT "+loanColumns+" FROM loans WHERE borrower_id = ? OR cosigner_id = ? ORDER BY created_at DESC",
		memberID, memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get member loans: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

// MarkDefaulted transitions an active loan to DEFAULTED. This is an
// administrative action; there is no automatic overdue rule. The borrower's
// active loan pointer is cleared in the same transaction so the member can
// be considered for a future loan.
func (s *LoanService) MarkDefaulted(loanID string) (*models.Loan, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	loan, err := getLoanTx(tx, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.IsActive() {
		return nil, models.NewInvalidStateError("loan %s is %s and cannot be defaulted", loanID, loan.Status)
	}

	now := time.Now()
	result, err := tx.Exec(
		"UPDATE loans SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		models.LoanStatusDefaulted, now, loanID, models.LoanStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to default loan: %w", err)
	}
	if n, _ := result.RowsAffected(); n != 1 {
		return nil, models.NewConflictError("loan %s was modified concurrently", loanID)
	}

	_, err = tx.Exec(
		"UPDATE members SET active_loan_id = NULL, updated_at = ? WHERE id = ? AND active_loan_id = ?",
		now, loan.BorrowerID, loanID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to clear borrower active loan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	loan.Status = models.LoanStatusDefaulted
	loan.UpdatedAt = now
	return loan, nil
}

func collectLoans(rows *sql.Rows) ([]*models.Loan, error) {
	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}
