package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// MemoryDSN keeps the journal in process memory; it disappears on exit.
const MemoryDSN = ":memory:"

// Loan is one borrow recorded in the journal, open until ReturnedAt is set.
type Loan struct {
	ID         uuid.UUID
	MemberID   string
	ISBN       string
	BorrowedAt time.Time
	DueAt      time.Time
	ReturnedAt *time.Time
	Fine       decimal.Decimal
}

// Open reports whether the loan has not been returned yet.
func (l Loan) Open() bool { return l.ReturnedAt == nil }

// Journal records circulation history in SQLite. Catalog state itself lives
// in Library; the journal only answers "who had what, when, and what did it
// cost".
type Journal struct {
	db *sql.DB

	borrowStmt *sql.Stmt
	returnStmt *sql.Stmt
}

// NewJournal opens (or creates) the journal at dsn, applies schema
// migrations, and prepares common statements. MemoryDSN needs no file.
func NewJournal(dsn string) (*Journal, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	var (
		db  *sql.DB
		err error
	)
	if dsn == MemoryDSN {
		db, err = sql.Open("sqlite3", "file::memory:?_foreign_keys=1&_loc=auto")
		if err == nil {
			// Every new connection to :memory: is a fresh, empty database.
			db.SetMaxOpenConns(1)
		}
	} else {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create journal dir: %w", err)
			}
		}
		db, err = sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1&_loc=auto", dsn))
	}
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	j := &Journal{db: db}
	if err := j.prepareStatements(); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

// Close releases prepared statements and closes the DB.
func (j *Journal) Close() error {
	if j.borrowStmt != nil {
		j.borrowStmt.Close()
	}
	if j.returnStmt != nil {
		j.returnStmt.Close()
	}
	return j.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return fmt.Errorf("create meta: %w", err)
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS loans (
            id TEXT PRIMARY KEY,
            member_id TEXT NOT NULL,
            isbn TEXT NOT NULL,
            borrowed_at DATETIME NOT NULL,
            due_at DATETIME NOT NULL,
            returned_at DATETIME,
            fine TEXT
        );`,
		`CREATE INDEX IF NOT EXISTS idx_loans_member ON loans(member_id, borrowed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_loans_open ON loans(isbn) WHERE returned_at IS NULL;`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (j *Journal) prepareStatements() error {
	var err error
	if j.borrowStmt, err = j.db.Prepare(`INSERT INTO loans(id,member_id,isbn,borrowed_at,due_at) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if j.returnStmt, err = j.db.Prepare(`UPDATE loans SET returned_at=?, fine=? WHERE id=?`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Recording
// ---------------------------------------------------------------------------

// RecordBorrow opens a loan and returns its id.
func (j *Journal) RecordBorrow(memberID, isbn string, at, due time.Time) (uuid.UUID, error) {
	id := uuid.New()
	if _, err := j.borrowStmt.Exec(id.String(), memberID, isbn, at, due); err != nil {
		return uuid.Nil, fmt.Errorf("record borrow: %w", err)
	}
	return id, nil
}

// RecordReturn closes the open loan of isbn by memberID and stores the fine
// assessed at return.
func (j *Journal) RecordReturn(memberID, isbn string, at time.Time, fine decimal.Decimal) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow(`SELECT id FROM loans WHERE member_id=? AND isbn=? AND returned_at IS NULL ORDER BY borrowed_at DESC LIMIT 1`, memberID, isbn).
		Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("no open loan of %s for member %s", isbn, memberID)
	}
	if err != nil {
		return err
	}

	if _, err := tx.Stmt(j.returnStmt).Exec(at, fine.StringFixed(2), id); err != nil {
		return fmt.Errorf("record return: %w", err)
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

const loanColumns = `id, member_id, isbn, borrowed_at, due_at, returned_at, COALESCE(fine,'0')`

// MemberHistory returns every loan of memberID, oldest first.
func (j *Journal) MemberHistory(memberID string) ([]Loan, error) {
	return j.queryLoans(`SELECT `+loanColumns+` FROM loans WHERE member_id=? ORDER BY borrowed_at, rowid`, memberID)
}

// OpenLoans returns loans not yet returned, oldest first.
func (j *Journal) OpenLoans() ([]Loan, error) {
	return j.queryLoans(`SELECT ` + loanColumns + ` FROM loans WHERE returned_at IS NULL ORDER BY borrowed_at, rowid`)
}

func (j *Journal) queryLoans(query string, args ...any) ([]Loan, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []Loan
	for rows.Next() {
		var (
			l        Loan
			id, fine string
			returned sql.NullTime
		)
		if err := rows.Scan(&id, &l.MemberID, &l.ISBN, &l.BorrowedAt, &l.DueAt, &returned, &fine); err != nil {
			return nil, err
		}
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("loan id %q: %w", id, err)
		}
		if returned.Valid {
			t := returned.Time
			l.ReturnedAt = &t
		}
		if l.Fine, err = decimal.NewFromString(fine); err != nil {
			return nil, fmt.Errorf("loan %s fine: %w", id, err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
