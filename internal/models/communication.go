package models

import "time"

// CommunicationType represents the channel of a communication log entry
type CommunicationType string

const (
	CommunicationTypeSystem CommunicationType = "System"
	CommunicationTypeNote   CommunicationType = "Note"
	CommunicationTypeEmail  CommunicationType = "Email"
	CommunicationTypeSMS    CommunicationType = "SMS"
)

// CommunicationDirection represents who initiated the communication
type CommunicationDirection string

const (
	CommunicationInbound  CommunicationDirection = "Inbound"
	CommunicationOutbound CommunicationDirection = "Outbound"
)

// CommunicationLog records a contact with a member
type CommunicationLog struct {
	ID        string                 `json:"id" db:"id"`
	MemberID  string                 `json:"memberId" db:"member_id"`
	Type      CommunicationType      `json:"type" db:"type"`
	Content   string                 `json:"content" db:"content"`
	Date      string                 `json:"date" db:"date"`
	Direction CommunicationDirection `json:"direction" db:"direction"`
	AdminID   *string                `json:"adminId,omitempty" db:"admin_id"`
	CreatedAt time.Time              `json:"createdAt" db:"created_at"`
}

// CommunicationCreate represents a new communication log entry
type CommunicationCreate struct {
	MemberID  string                 `json:"memberId" binding:"required"`
	Type      CommunicationType      `json:"type" binding:"required"`
	Content   string                 `json:"content" binding:"required"`
	Date      string                 `json:"date"`
	Direction CommunicationDirection `json:"direction"`
	AdminID   *string                `json:"adminId,omitempty"`
}
