// Package repository provides database access layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/folio/signupd/internal/model"
)

// Common errors for repository operations.
var (
	ErrEmailExists       = errors.New("email already exists")
	ErrAdminExists       = errors.New("admin credential already exists")
	ErrAdminNotFound     = errors.New("admin credential not found")
	ErrUnsupportedScheme = errors.New("unsupported database URL scheme")
)

// Dialect identifies the SQL backend behind a database URL.
type Dialect string

// Supported dialects.
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Store is the persistence contract for signups and the admin credential.
type Store interface {
	// CreateSignup inserts s and fills in ID and CreatedAt.
	// Returns ErrEmailExists when the email is already stored.
	CreateSignup(ctx context.Context, s *model.Signup) error
	// ListSignups returns all signups, newest first, ties broken by id descending.
	ListSignups(ctx context.Context) ([]*model.Signup, error)
	// GetAdminCredential returns ErrAdminNotFound until setup has completed.
	GetAdminCredential(ctx context.Context) (*model.AdminCredential, error)
	// CreateAdminCredential inserts the singleton row.
	// Returns ErrAdminExists if it is already present.
	CreateAdminCredential(ctx context.Context, passwordHash string) error
	Ping(ctx context.Context) error
	Close() error
}

// ParseURL detects the dialect of databaseURL and returns the DSN the
// matching driver expects.
func ParseURL(databaseURL string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DialectPostgres, databaseURL, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedScheme)
		}
		return DialectSQLite, path, nil
	case strings.HasPrefix(databaseURL, "file:"):
		return DialectSQLite, databaseURL, nil
	default:
		return "", "", ErrUnsupportedScheme
	}
}

// Open connects to the store named by databaseURL.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	dialect, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case DialectPostgres:
		pg, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case DialectSQLite:
		lite, err := NewSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return lite, nil
	default:
		return nil, ErrUnsupportedScheme
	}
}
