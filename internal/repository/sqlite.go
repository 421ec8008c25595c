package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/folio/signupd/internal/model"
)

// sqliteTimeLayouts are tried in order when reading created_at text.
var sqliteTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// SQLite implements Store on an embedded SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at dsn (a path or file: URI).
func NewSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := openSQLite(dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLite{db: db}, nil
}

// openSQLite applies per-connection pragmas through the DSN so every pooled
// connection gets them.
func openSQLite(dsn string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite has a single writer; one connection keeps writes from
	// contending for the lock.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// Ping checks database connectivity.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateSignup inserts a new signup.
func (s *SQLite) CreateSignup(ctx context.Context, signup *model.Signup) error {
	query := `
		INSERT INTO signups (first_name, last_name, email)
		VALUES (?, ?, ?)
		RETURNING id, created_at
	`

	var createdAt string
	err := s.db.QueryRowContext(ctx, query, signup.FirstName, signup.LastName, signup.Email).
		Scan(&signup.ID, &createdAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create signup: %w", err)
	}

	signup.CreatedAt, err = parseSQLiteTime(createdAt)
	if err != nil {
		return err
	}

	return nil
}

// ListSignups returns every signup ordered newest first.
func (s *SQLite) ListSignups(ctx context.Context) ([]*model.Signup, error) {
	query := `
		SELECT id, first_name, last_name, email, created_at
		FROM signups
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	defer rows.Close()

	signups := make([]*model.Signup, 0)
	for rows.Next() {
		var (
			signup    model.Signup
			createdAt string
		)
		if err := rows.Scan(&signup.ID, &signup.FirstName, &signup.LastName, &signup.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan signup: %w", err)
		}
		if signup.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
			return nil, err
		}
		signups = append(signups, &signup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signups: %w", err)
	}

	return signups, nil
}

// GetAdminCredential loads the singleton credential row.
func (s *SQLite) GetAdminCredential(ctx context.Context) (*model.AdminCredential, error) {
	query := `
		SELECT password_hash, created_at
		FROM admin_credentials
		WHERE id = ?
	`

	var (
		cred      model.AdminCredential
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, model.AdminCredentialID).Scan(&cred.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin credential: %w", err)
	}

	if cred.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, err
	}

	return &cred, nil
}

// CreateAdminCredential inserts the singleton credential row.
func (s *SQLite) CreateAdminCredential(ctx context.Context, passwordHash string) error {
	query := `
		INSERT INTO admin_credentials (id, password_hash)
		VALUES (?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, model.AdminCredentialID, passwordHash); err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrAdminExists
		}
		return fmt.Errorf("failed to create admin credential: %w", err)
	}

	return nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func parseSQLiteTime(value string) (time.Time, error) {
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", value)
}
