package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/folio/signupd/internal/auth"
	"github.com/folio/signupd/internal/metrics"
	"github.com/folio/signupd/internal/model"
	"github.com/folio/signupd/internal/repository"
)

// MinPasswordLength is the shortest admin password accepted by setup.
const MinPasswordLength = 8

// Admin errors.
var (
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrAlreadyInitialized = errors.New("admin password already set")
	ErrUnauthorized       = errors.New("invalid admin credentials")
)

// AdminStore is the persistence needed by AdminService.
type AdminStore interface {
	GetAdminCredential(ctx context.Context) (*model.AdminCredential, error)
	CreateAdminCredential(ctx context.Context, passwordHash string) error
}

// AdminService owns the one-way Uninitialized -> Active transition and
// verifies admin credentials once active.
type AdminService struct {
	store   AdminStore
	hasher  auth.Hasher
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAdminService creates a new AdminService. hasher is used for new
// credentials; verification accepts any supported scheme.
func NewAdminService(store AdminStore, hasher auth.Hasher, logger *slog.Logger, recorder metrics.Recorder) *AdminService {
	if hasher == nil {
		hasher = auth.SHA256Hasher{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AdminService{
		store:   store,
		hasher:  hasher,
		logger:  logger.With("component", "service.admin"),
		metrics: recorder,
	}
}

// State reports whether the admin credential has been created.
func (a *AdminService) State(ctx context.Context) (model.AdminState, error) {
	_, err := a.store.GetAdminCredential(ctx)
	switch {
	case err == nil:
		return model.AdminActive, nil
	case errors.Is(err, repository.ErrAdminNotFound):
		return model.AdminUninitialized, nil
	default:
		return model.AdminUninitialized, fmt.Errorf("load admin state: %w", err)
	}
}

// Setup stores the admin password. It succeeds at most once; the store's
// primary key decides between concurrent callers.
func (a *AdminService) Setup(ctx context.Context, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := a.store.CreateAdminCredential(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrAdminExists) {
			return ErrAlreadyInitialized
		}
		return fmt.Errorf("save admin credential: %w", err)
	}

	a.logger.Info("admin_password_set")
	return nil
}

// Authenticate checks password against the stored credential.
// Returns ErrUnauthorized when no credential exists or the password differs.
func (a *AdminService) Authenticate(ctx context.Context, password string) error {
	cred, err := a.store.GetAdminCredential(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			a.metrics.IncAdminAuthFailure()
			return ErrUnauthorized
		}
		return fmt.Errorf("load admin credential: %w", err)
	}

	ok, err := auth.Verify(password, cred.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify admin password: %w", err)
	}
	if !ok {
		a.metrics.IncAdminAuthFailure()
		return ErrUnauthorized
	}

	return nil
}
