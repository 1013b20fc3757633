package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"mclub-backend/internal/models"
)

// MemberService handles member-related business logic
type MemberService struct {
	db *sql.DB
}

// NewMemberService creates a new member service
func NewMemberService(db *sql.DB) *MemberService {
	return &MemberService{db: db}
}

// CreateMember registers a new member with zeroed aggregates
func (s *MemberService) CreateMember(create *models.MemberCreate) (*models.Member, error) {
	if create.Name == "" {
		return nil, models.NewValidationError("member name is required")
	}
	if create.Email == "" {
		return nil, models.NewValidationError("member email is required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(create.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	joinDate := create.JoinDate
	if joinDate == "" {
		joinDate = time.Now().Format(dateLayout)
	}

	now := time.Now()
	member := &models.Member{
		ID:                "MBR-" + uuid.New().String(),
		Name:              create.Name,
		Nickname:          create.Nickname,
		Email:             strings.ToLower(create.Email),
		PasswordHash:      string(hashedPassword),
		JoinDate:          joinDate,
		AccountStatus:     models.AccountStatusActive,
		Phone:             create.Phone,
		Address:           create.Address,
		City:              create.City,
		State:             create.State,
		ZipCode:           create.ZipCode,
		Beneficiary:       create.Beneficiary,
		TotalContribution: decimal.Zero,
		AutoPay:           create.AutoPay,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err = s.db.Exec(`
		INSERT INTO members (
			id, name, nickname, email, password_hash, join_date, account_status,
			phone, address, city, state, zip_code, beneficiary, total_contribution,
			active_loan_id, last_loan_paid_date, auto_pay, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?, ?)`,
		member.ID, member.Name, member.Nickname, member.Email, member.PasswordHash,
		member.JoinDate, member.AccountStatus, member.Phone, member.Address,
		member.City, member.State, member.ZipCode, member.Beneficiary,
		member.TotalContribution.String(), member.AutoPay, member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, models.NewConflictError("a member with email %s already exists", member.Email)
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return member, nil
}

// GetMemberByID retrieves a member by ID
func (s *MemberService) GetMemberByID(memberID string) (*models.Member, error) {
	row := s.db.QueryRow("SELECT "+memberColumns+" FROM members WHERE id = ?", memberID)
	member, err := scanMember(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("member %s not found", memberID)
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// GetMemberByEmail retrieves a member by email
func (s *MemberService) GetMemberByEmail(email string) (*models.Member, error) {
	row := s.db.QueryRow("SELECT "+memberColumns+" FROM members WHERE email = ?", strings.ToLower(email))
	member, err := scanMember(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("member with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// ListMembers retrieves all members ordered by name
func (s *MemberService) ListMembers() ([]*models.Member, error) {
	rows, err := s.db.Query("SELECT " + memberColumns + " FROM members ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	return collectMembers(rows)
}

// SearchMembers finds members by name, email or id, case-insensitive
func (s *MemberService) SearchMembers(query string) ([]*models.Member, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(
		"SELECT "+memberColumns+" FROM members WHERE name LIKE ? OR email LIKE ? OR id LIKE ? ORDER BY name",
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	defer rows.Close()

	return collectMembers(rows)
}

// UpdateMember applies profile field updates. Aggregate fields stay untouched;
// they only move through the ledger service.
func (s *MemberService) UpdateMember(memberID string, update *models.MemberUpdate) (*models.Member, error) {
	if _, err := s.GetMemberByID(memberID); err != nil {
		return nil, err
	}

	if update.AccountStatus != nil &&
		*update.AccountStatus != models.AccountStatusActive &&
		*update.AccountStatus != models.AccountStatusInactive {
		return nil, models.NewValidationError("invalid account status %q", *update.AccountStatus)
	}

	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	apply := func(column string, value interface{}) {
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}

	if update.Name != nil {
		apply("name", *update.Name)
	}
	if update.Nickname != nil {
		apply("nickname", *update.Nickname)
	}
	if update.Email != nil {
		apply("email", strings.ToLower(*update.Email))
	}
	if update.AccountStatus != nil {
		apply("account_status", *update.AccountStatus)
	}
	if update.Phone != nil {
		apply("phone", *update.Phone)
	}
	if update.Address != nil {
		apply("address", *update.Address)
	}
	if update.City != nil {
		apply("city", *update.City)
	}
	if update.State != nil {
		apply("state", *update.State)
	}
	if update.ZipCode != nil {
		apply("zip_code", *update.ZipCode)
	}
	if update.Beneficiary != nil {
		apply("beneficiary", *update.Beneficiary)
	}
	if update.AutoPay != nil {
		apply("auto_pay", *update.AutoPay)
	}

	args = append(args, memberID)
	query := "UPDATE members SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, models.NewConflictError("a member with that email already exists")
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return s.GetMemberByID(memberID)
}

// DeleteMember removes a member. Members with an active loan cannot be
// deleted; their balance history would dangle.
func (s *MemberService) DeleteMember(memberID string) error {
	member, err := s.GetMemberByID(memberID)
	if err != nil {
		return err
	}
	if member.HasActiveLoan() {
		return models.NewConflictError("member %s has an active loan and cannot be deleted", memberID)
	}

	result, err := s.db.Exec("DELETE FROM members WHERE id = ?", memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.NewNotFoundError("member %s not found", memberID)
	}
	return nil
}

// YearlyContributions sums the member's CONTRIBUTION entries per year,
// straight off the transaction log.
func (s *MemberService) YearlyContributions(memberID string) (models.YearlyContribution, error) {
	if _, err := s.GetMemberByID(memberID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT date, amount FROM transactions WHERE member_id = ? AND type = ?",
		memberID, models.TransactionTypeContribution,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributions: %w", err)
	}
	defer rows.Close()

	result := models.YearlyContribution{}
	for rows.Next() {
		var date, amountStr string
		if err := rows.Scan(&date, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid contribution amount: %w", err)
		}
		year := parsed.Year()
		result[year] = result[year].Add(amount)
	}

	return result, rows.Err()
}

// UpdatePassword replaces the member's password hash
func (s *MemberService) UpdatePassword(memberID, newPassword string) error {
	if len(newPassword) < 8 {
		return models.NewValidationError("password must be at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := s.db.Exec(
		"UPDATE members SET password_hash = ?, updated_at = ? WHERE id = ?",
		string(hashedPassword), time.Now(), memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.NewNotFoundError("member %s not found", memberID)
	}
	return nil
}

func collectMembers(rows *sql.Rows) ([]*models.Member, error) {
	var members []*models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
