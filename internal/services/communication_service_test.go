package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mclub-backend/internal/models"
)

func TestCreateCommunicationLog(t *testing.T) {
	db := newTestDB(t)
	comms := NewCommunicationService(db)
	member := createTestMember(t, db, "Contact", "contact@example.com")

	entry, err := comms.CreateLog(&models.CommunicationCreate{
		MemberID: member.ID,
		Type:     models.CommunicationTypeNote,
		Content:  "Reminded about March contribution",
		Date:     "2024-03-20",
	})
	require.NoError(t, err)

	assert.Contains(t, entry.ID, "LOG-")
	assert.Equal(t, models.CommunicationOutbound, entry.Direction)
	assert.Equal(t, "2024-03-20", entry.Date)
}

func TestCreateCommunicationLogValidation(t *testing.T) {
	db := newTestDB(t)
	comms := NewCommunicationService(db)
	member := createTestMember(t, db, "Contact", "contact@example.com")

	_, err := comms.CreateLog(&models.CommunicationCreate{
		MemberID: member.ID,
		Type:     models.CommunicationTypeNote,
	})
	assert.Equal(t, models.ErrorKindValidation, models.ErrorKindOf(err))

	_, err = comms.CreateLog(&models.CommunicationCreate{
		MemberID: "MBR-missing",
		Type:     models.CommunicationTypeNote,
		Content:  "hello",
	})
	assert.Equal(t, models.ErrorKindNotFound, models.ErrorKindOf(err))
}

func TestListCommunicationLogsFilteredByMember(t *testing.T) {
	db := newTestDB(t)
	comms := NewCommunicationService(db)
	first := createTestMember(t, db, "First", "first@example.com")
	second := createTestMember(t, db, "Second", "second@example.com")

	for _, c := range []models.CommunicationCreate{
		{MemberID: first.ID, Type: models.CommunicationTypeNote, Content: "older", Date: "2024-01-01"},
		{MemberID: first.ID, Type: models.CommunicationTypeEmail, Content: "newer", Date: "2024-02-01"},
		{MemberID: second.ID, Type: models.CommunicationTypeSMS, Content: "other member", Date: "2024-01-15"},
	} {
		create := c
		_, err := comms.CreateLog(&create)
		require.NoError(t, err)
	}

	all, err := comms.ListLogs("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	logs, err := comms.ListLogs(first.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "newer", logs[0].Content)
	assert.Equal(t, "older", logs[1].Content)
}
