package services

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"mclub-backend/internal/models"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const memberColumns = `id, name, nickname, email, password_hash, join_date,
	account_status, phone, address, city, state, zip_code, beneficiary,
	total_contribution, active_loan_id, last_loan_paid_date, auto_pay,
	created_at, updated_at`

const loanColumns = `id, borrower_id, cosigner_id, original_amount,
	remaining_balance, term_months, status, start_date, next_payment_due,
	issued_by, created_at, updated_at`

const transactionColumns = `id, member_id, type, amount, date, description,
	payment_method, received_by, created_at`

func scanMember(row rowScanner) (*models.Member, error) {
	member := &models.Member{}
	var totalContribution string
	err := row.Scan(
		&member.ID, &member.Name, &member.Nickname, &member.Email,
		&member.PasswordHash, &member.JoinDate, &member.AccountStatus,
		&member.Phone, &member.Address, &member.City, &member.State,
		&member.ZipCode, &member.Beneficiary, &totalContribution,
		&member.ActiveLoanID, &member.LastLoanPaidDate, &member.AutoPay,
		&member.CreatedAt, &member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	member.TotalContribution, err = decimal.NewFromString(totalContribution)
	if err != nil {
		return nil, fmt.Errorf("invalid total contribution for member %s: %w", member.ID, err)
	}
	return member, nil
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	loan := &models.Loan{}
	var originalAmount, remainingBalance string
	err := row.Scan(
		&loan.ID, &loan.BorrowerID, &loan.CosignerID, &originalAmount,
		&remainingBalance, &loan.TermMonths, &loan.Status, &loan.StartDate,
		&loan.NextPaymentDue, &loan.IssuedBy, &loan.CreatedAt, &loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if loan.OriginalAmount, err = decimal.NewFromString(originalAmount); err != nil {
		return nil, fmt.Errorf("invalid original amount for loan %s: %w", loan.ID, err)
	}
	if loan.RemainingBalance, err = decimal.NewFromString(remainingBalance); err != nil {
		return nil, fmt.Errorf("invalid remaining balance for loan %s: %w", loan.ID, err)
	}
	return loan, nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var amount string
	err := row.Scan(
		&txn.ID, &txn.MemberID, &txn.Type, &amount, &txn.Date,
		&txn.Description, &txn.PaymentMethod, &txn.ReceivedBy, &txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if txn.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid amount for transaction %s: %w", txn.ID, err)
	}
	return txn, nil
}

// getMemberTx reads a member inside an open transaction
func getMemberTx(tx *sql.Tx, memberID string) (*models.Member, error) {
	row := tx.QueryRow("SELECT "+memberColumns+" FROM members WHERE id = ?", memberID)
	member, err := scanMember(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("member %s not found", memberID)
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// getLoanTx reads a loan inside an open transaction
func getLoanTx(tx *sql.Tx, loanID string) (*models.Loan, error) {
	row := tx.QueryRow("SELECT "+loanColumns+" FROM loans WHERE id = ?", loanID)
	loan, err := scanLoan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("loan %s not found", loanID)
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}
