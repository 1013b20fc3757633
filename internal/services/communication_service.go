package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mclub-backend/internal/models"
)

// CommunicationService records and lists member contact history
type CommunicationService struct {
	db *sql.DB
}

// NewCommunicationService creates a new communication service
func NewCommunicationService(db *sql.DB) *CommunicationService {
	return &CommunicationService{db: db}
}

// CreateLog appends a communication log entry
func (s *CommunicationService) CreateLog(create *models.CommunicationCreate) (*models.CommunicationLog, error) {
	if create.Content == "" {
		return nil, models.NewValidationError("communication content is required")
	}

	// The member must exist; a log against a deleted member is meaningless.
	var exists int
	err := s.db.QueryRow("SELECT COUNT(*) FROM members WHERE id = ?", create.MemberID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check member: %w", err)
	}
	if exists == 0 {
		return nil, models.NewNotFoundError("member %s not found", create.MemberID)
	}

	date := create.Date
	if date == "" {
		date = time.Now().Format(dateLayout)
	}
	direction := create.Direction
	if direction == "" {
		direction = models.CommunicationOutbound
	}

	entry := &models.CommunicationLog{
		ID:        "LOG-" + uuid.New().String(),
		MemberID:  create.MemberID,
		Type:      create.Type,
		Content:   create.Content,
		Date:      date,
		Direction: direction,
		AdminID:   create.AdminID,
		CreatedAt: time.Now(),
	}

	_, err = s.db.Exec(`
		INSERT INTO communication_logs (id, member_id, type, content, date, direction, admin_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.MemberID, entry.Type, entry.Content, entry.Date,
		entry.Direction, entry.AdminID, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create communication log: %w", err)
	}

	return entry, nil
}

// ListLogs retrieves communication logs, optionally for one member, newest first
func (s *CommunicationService) ListLogs(memberID string) ([]*models.CommunicationLog, error) {
	query := "SELECT id, member_id, type, content, date, direction, admin_id, created_at FROM communication_logs"
	var args []interface{}
	if memberID != "" {
		query += " WHERE member_id = ?"
		args = append(args, memberID)
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list communication logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.CommunicationLog
	for rows.Next() {
		entry := &models.CommunicationLog{}
		err := rows.Scan(
			&entry.ID, &entry.MemberID, &entry.Type, &entry.Content,
			&entry.Date, &entry.Direction, &entry.AdminID, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan communication log: %w", err)
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
