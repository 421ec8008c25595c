package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio/signupd/internal/model"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new Postgres store with a connection pool.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Ping checks database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Postgres.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// CreateSignup inserts a new signup.
func (p *Postgres) CreateSignup(ctx context.Context, s *model.Signup) error {
	query := `
		INSERT INTO signups (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := p.pool.QueryRow(ctx, query, s.FirstName, s.LastName, s.Email).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isPgUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create signup: %w", err)
	}

	return nil
}

// ListSignups returns every signup ordered newest first.
func (p *Postgres) ListSignups(ctx context.Context) ([]*model.Signup, error) {
	query := `
		SELECT id, first_name, last_name, email, created_at
		FROM signups
		ORDER BY created_at DESC, id DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	defer rows.Close()

	signups := make([]*model.Signup, 0)
	for rows.Next() {
		var s model.Signup
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan signup: %w", err)
		}
		signups = append(signups, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signups: %w", err)
	}

	return signups, nil
}

// GetAdminCredential loads the singleton credential row.
func (p *Postgres) GetAdminCredential(ctx context.Context) (*model.AdminCredential, error) {
	query := `
		SELECT password_hash, created_at
		FROM admin_credentials
		WHERE id = $1
	`

	var cred model.AdminCredential
	err := p.pool.QueryRow(ctx, query, model.AdminCredentialID).Scan(&cred.PasswordHash, &cred.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin credential: %w", err)
	}

	return &cred, nil
}

// CreateAdminCredential inserts the singleton credential row.
// The primary key makes a second insert fail rather than overwrite.
func (p *Postgres) CreateAdminCredential(ctx context.Context, passwordHash string) error {
	query := `
		INSERT INTO admin_credentials (id, password_hash)
		VALUES ($1, $2)
	`

	if _, err := p.pool.Exec(ctx, query, model.AdminCredentialID, passwordHash); err != nil {
		if isPgUniqueViolation(err) {
			return ErrAdminExists
		}
		return fmt.Errorf("failed to create admin credential: %w", err)
	}

	return nil
}

// isPgUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
