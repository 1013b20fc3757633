package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Initialize creates and returns a database connection
func Initialize(databaseURL string) (*sql.DB, error) {
	// Add SQLite-specific parameters for better concurrent access
	if !strings.Contains(databaseURL, "?") && databaseURL != ":memory:" {
		databaseURL = databaseURL + "?_busy_timeout=30000&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1"
	}

	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = memory",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			log.Printf("Warning: failed to set pragma %s: %v", pragma, err)
		}
	}

	return db, nil
}

// Monetary columns are TEXT so decimal amounts round-trip without losing
// precision.
const createMembersTable = `
CREATE TABLE IF NOT EXISTS members (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	nickname TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	join_date TEXT NOT NULL DEFAULT '',
	account_status TEXT NOT NULL DEFAULT 'Active' CHECK (account_status IN ('Active', 'Inactive')),
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	zip_code TEXT NOT NULL DEFAULT '',
	beneficiary TEXT NOT NULL DEFAULT '',
	total_contribution TEXT NOT NULL DEFAULT '0',
	active_loan_id TEXT,
	last_loan_paid_date TEXT,
	auto_pay BOOLEAN NOT NULL DEFAULT false,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createLoansTable = `
CREATE TABLE IF NOT EXISTS loans (
	id TEXT PRIMARY KEY,
	borrower_id TEXT NOT NULL,
	cosigner_id TEXT,
	original_amount TEXT NOT NULL,
	remaining_balance TEXT NOT NULL,
	term_months INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE', 'PAID', 'DEFAULTED')),
	start_date TEXT NOT NULL DEFAULT '',
	next_payment_due TEXT NOT NULL DEFAULT '',
	issued_by TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (borrower_id) REFERENCES members(id),
	FOREIGN KEY (cosigner_id) REFERENCES members(id)
)`

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	member_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('CONTRIBUTION', 'LOAN_DISBURSAL', 'LOAN_REPAYMENT', 'FEE', 'DISTRIBUTION')),
	amount TEXT NOT NULL,
	date TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	payment_method TEXT NOT NULL DEFAULT '',
	received_by TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (member_id) REFERENCES members(id)
)`

const createCommunicationLogsTable = `
CREATE TABLE IF NOT EXISTS communication_logs (
	id TEXT PRIMARY KEY,
	member_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('System', 'Note', 'Email', 'SMS')),
	content TEXT NOT NULL,
	date TEXT NOT NULL,
	direction TEXT NOT NULL DEFAULT 'Outbound' CHECK (direction IN ('Inbound', 'Outbound')),
	admin_id TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (member_id) REFERENCES members(id)
)`

// Migrate runs database migrations
func Migrate(db *sql.DB) error {
	migrations := []string{
		createMembersTable,
		createLoansTable,
		createTransactionsTable,
		createCommunicationLogsTable,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_loans_borrower ON loans(borrower_id)",
		"CREATE INDEX IF NOT EXISTS idx_loans_status ON loans(status)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_member ON transactions(member_id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_type_date ON transactions(type, date)",
		"CREATE INDEX IF NOT EXISTS idx_communication_logs_member ON communication_logs(member_id)",
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
