package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mclub-backend/internal/models"
)

const dateLayout = "2006-01-02"

// LedgerService keeps member aggregates, loan balances and the transaction
// log mutually consistent. Every balance-affecting operation runs inside a
// single database transaction: the aggregate update and the ledger entry
// that justifies it commit together or not at all.
type LedgerService struct {
	db *sql.DB
}

// NewLedgerService creates a new ledger service
func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{db: db}
}

// RecordContribution appends a CONTRIBUTION entry and increments the
// member's total contribution by the same amount.
func (s *LedgerService) RecordContribution(memberID string, amount decimal.Decimal, date, paymentMethod, receivedBy, description string) (*models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("contribution amount must be positive")
	}
	if date == "" {
		date = time.Now().Format(dateLayout)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	member, err := getMemberTx(tx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive() {
		return nil, models.NewInvalidStateError("member %s is not active", memberID)
	}

	newTotal := member.TotalContribution.Add(amount)
	result, err := tx.Exec(
		"UPDATE members SET total_contribution = ?, updated_at = ? WHERE id = ? AND total_contribution = ?",
		newTotal.String(), time.Now(), memberID, member.TotalContribution.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update member contribution: %w", err)
	}
	if n, _ := result.RowsAffected(); n != 1 {
		return nil, fmt.Errorf("contribution total for member %s changed concurrently", memberID)
	}

	if description == "" {
		description = fmt.Sprintf("Monthly contribution from %s", member.Name)
	}
	entry := &models.Transaction{
		ID:            "TXN-" + uuid.New().String(),
		MemberID:      memberID,
		Type:          models.TransactionTypeContribution,
		Amount:        amount,
		Date:          date,
		Description:   description,
		PaymentMethod: paymentMethod,
		ReceivedBy:    receivedBy,
		CreatedAt:     time.Now(),
	}
	if err := insertTransactionTx(tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

// ApplyLoanPayment decrements the loan balance, closes the loan when the
// balance reaches zero and appends the LOAN_REPAYMENT entry. A payment
// exceeding the remaining balance is absorbed: the balance floors at zero,
// no refund entry is produced.
func (s *LedgerService) ApplyLoanPayment(loanID string, amount decimal.Decimal, date, paymentMethod string) (*models.Loan, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("payment amount must be positive")
	}
	if date == "" {
		date = time.Now().Format(dateLayout)
	}

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
		return nil, models.NewInvalidStateError("loan %s is %s, payments are only accepted on active loans", loanID, loan.Status)
	}

	newBalance := loan.RemainingBalance.Sub(amount)
	newStatus := models.LoanStatusActive
	if newBalance.LessThanOrEqual(decimal.Zero) {
		newBalance = decimal.Zero
		newStatus = models.LoanStatusPaid
	}

	now := time.Now()
	// The status and balance predicates reject a racing payment that was
	// applied between our read and this write.
	result, err := tx.Exec(
		"UPDATE loans SET remaining_balance = ?, status = ?, updated_at = ? WHERE id = ? AND status = ? AND remaining_balance = ?",
		newBalance.String(), newStatus, now, loanID, models.LoanStatusActive, loan.RemainingBalance.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}
	if n, _ := result.RowsAffected(); n != 1 {
		return nil, models.NewConflictError("loan %s was modified concurrently, retry the payment", loanID)
	}

	if newStatus == models.LoanStatusPaid {
		_, err = tx.Exec(
			"UPDATE members SET active_loan_id = NULL, last_loan_paid_date = ?, updated_at = ? WHERE id = ?",
			date, now, loan.BorrowerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to clear borrower active loan: %w", err)
		}
	}

	entry := &models.Transaction{
		ID:            "TXN-" + uuid.New().String(),
		MemberID:      loan.BorrowerID,
		Type:          models.TransactionTypeLoanRepayment,
		Amount:        amount,
		Date:          date,
		Description:   fmt.Sprintf("Loan payment for %s", loanID),
		PaymentMethod: paymentMethod,
		CreatedAt:     now,
	}
	if err := insertTransactionTx(tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	loan.RemainingBalance = newBalance
	loan.Status = newStatus
	loan.UpdatedAt = now
	return loan, nil
}

// OriginateLoan creates an active loan, points the borrower's active loan at
// it and appends the LOAN_DISBURSAL entry. A borrower holds at most one
// active loan; the check runs against the loans table, not just the cached
// pointer on the member row.
func (s *LedgerService) OriginateLoan(create *models.LoanCreate) (*models.Loan, error) {
	if create.OriginalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("loan amount must be positive")
	}
	if create.TermMonths <= 0 {
		return nil, models.NewValidationError("loan term must be at least one month")
	}

	startDate := create.StartDate
	if startDate == "" {
		startDate = time.Now().Format(dateLayout)
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, models.NewValidationError("invalid start date %q, expected YYYY-MM-DD", create.StartDate)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	borrower, err := getMemberTx(tx, create.BorrowerID)
	if err != nil {
		return nil, err
	}
	if !borrower.IsActive() {
		return nil, models.NewInvalidStateError("member %s is not active", create.BorrowerID)
	}

	var activeCount int
	err = tx.QueryRow(
		"SELECT COUNT(*) FROM loans WHERE borrower_id = ? AND status = ?",
		create.BorrowerID, models.LoanStatusActive,
	).Scan(&activeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to check active loans: %w", err)
	}
	if activeCount > 0 || borrower.HasActiveLoan() {
		return nil, models.NewConflictError("member %s already has an active loan", create.BorrowerID)
	}

	if create.CosignerID != nil && *create.CosignerID != "" {
		if _, err := getMemberTx(tx, *create.CosignerID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	loan := &models.Loan{
		ID:               "LN-" + uuid.New().String(),
		BorrowerID:       create.BorrowerID,
		CosignerID:       create.CosignerID,
		OriginalAmount:   create.OriginalAmount,
		RemainingBalance: create.OriginalAmount,
		TermMonths:       create.TermMonths,
		Status:           models.LoanStatusActive,
		StartDate:        startDate,
		NextPaymentDue:   start.AddDate(0, 1, 0).Format(dateLayout),
		IssuedBy:         create.IssuedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err = tx.Exec(`
		INSERT INTO loans (
			id, borrower_id, cosigner_id, original_amount, remaining_balance,
			term_months, status, start_date, next_payment_due, issued_by,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loan.ID, loan.BorrowerID, loan.CosignerID, loan.OriginalAmount.String(),
		loan.RemainingBalance.String(), loan.TermMonths, loan.Status,
		loan.StartDate, loan.NextPaymentDue, loan.IssuedBy, loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	_, err = tx.Exec(
		"UPDATE members SET active_loan_id = ?, updated_at = ? WHERE id = ?",
		loan.ID, now, create.BorrowerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set borrower active loan: %w", err)
	}

	entry := &models.Transaction{
		ID:          "TXN-" + uuid.New().String(),
		MemberID:    create.BorrowerID,
		Type:        models.TransactionTypeLoanDisbursal,
		Amount:      create.OriginalAmount,
		Date:        startDate,
		Description: fmt.Sprintf("Loan disbursal for %s", loan.ID),
		CreatedAt:   now,
	}
	if err := insertTransactionTx(tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return loan, nil
}

// RecordFee appends a FEE entry. Fees do not touch member aggregates.
func (s *LedgerService) RecordFee(memberID string, amount decimal.Decimal, date, description string) (*models.Transaction, error) {
	return s.recordSimpleEntry(memberID, models.TransactionTypeFee, amount, date, description)
}

// RecordDistribution appends a DISTRIBUTION entry, a payout of club funds
// to a member.
func (s *LedgerService) RecordDistribution(memberID string, amount decimal.Decimal, date, description string) (*models.Transaction, error) {
	return s.recordSimpleEntry(memberID, models.TransactionTypeDistribution, amount, date, description)
}

func (s *LedgerService) recordSimpleEntry(memberID string, entryType models.TransactionType, amount decimal.Decimal, date, description string) (*models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("%s amount must be positive", entryType)
	}
	if date == "" {
		date = time.Now().Format(dateLayout)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := getMemberTx(tx, memberID); err != nil {
		return nil, err
	}

	entry := &models.Transaction{
		ID:          "TXN-" + uuid.New().String(),
		MemberID:    memberID,
		Type:        entryType,
		Amount:      amount,
		Date:        date,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := insertTransactionTx(tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

func insertTransactionTx(tx *sql.Tx, entry *models.Transaction) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (
			id, member_id, type, amount, date, description,
			payment_method, received_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.MemberID, entry.Type, entry.Amount.String(), entry.Date,
		entry.Description, entry.PaymentMethod, entry.ReceivedBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}
