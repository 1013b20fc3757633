package services

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"mclub-backend/database"
	"mclub-backend/internal/models"
)

// newTestDB opens an in-memory database with the full schema. A single
// connection keeps every statement on the same in-memory instance.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}

func createTestMember(t *testing.T, db *sql.DB, name, email string) *models.Member {
	t.Helper()

	member, err := NewMemberService(db).CreateMember(&models.MemberCreate{
		Name:     name,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return member
}

func countTransactions(t *testing.T, db *sql.DB, memberID string, txnType models.TransactionType) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE member_id = ? AND type = ?",
		memberID, txnType,
	).Scan(&count)
	require.NoError(t, err)
	return count
}
