// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/folio/signupd/internal/metrics"
	"github.com/folio/signupd/internal/model"
	"github.com/folio/signupd/internal/repository"
)

// Signup errors.
var (
	ErrMissingFields     = errors.New("all fields are required")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrAlreadySubscribed = errors.New("email already subscribed")
)

// emailRegex accepts local@domain.tld where no part holds whitespace or '@'.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignupStore is the persistence needed by SignupService.
type SignupStore interface {
	CreateSignup(ctx context.Context, s *model.Signup) error
	ListSignups(ctx context.Context) ([]*model.Signup, error)
}

// SignupService handles signup business logic.
type SignupService struct {
	store   SignupStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewSignupService creates a new SignupService.
func NewSignupService(store SignupStore, logger *slog.Logger, recorder metrics.Recorder) *SignupService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SignupService{
		store:   store,
		logger:  logger.With("component", "service.signup"),
		metrics: recorder,
	}
}

// SubscribeInput defines input for a signup submission.
type SubscribeInput struct {
	FirstName string
	LastName  string
	Email     string
}

// Normalize trims all fields, truncates names to model.MaxNameLength
// characters and lower-cases the email, then validates the result.
func Normalize(in SubscribeInput) (SubscribeInput, error) {
	out := SubscribeInput{
		FirstName: truncate(strings.TrimSpace(in.FirstName), model.MaxNameLength),
		LastName:  truncate(strings.TrimSpace(in.LastName), model.MaxNameLength),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
	}

	if out.FirstName == "" || out.LastName == "" || out.Email == "" {
		return out, ErrMissingFields
	}

	if !ValidEmail(out.Email) {
		return out, ErrInvalidEmail
	}

	return out, nil
}

// ValidEmail reports whether email has the basic local@domain.tld shape
// and is at most model.MaxEmailLength characters long.
func ValidEmail(email string) bool {
	return utf8.RuneCountInString(email) <= model.MaxEmailLength && emailRegex.MatchString(email)
}

// Subscribe validates and stores a new signup.
func (s *SignupService) Subscribe(ctx context.Context, in SubscribeInput) (*model.Signup, error) {
	normalized, err := Normalize(in)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			s.metrics.IncSignupRejected(metrics.ReasonMissingFields)
		case errors.Is(err, ErrInvalidEmail):
			s.metrics.IncSignupRejected(metrics.ReasonInvalidEmail)
		}
		return nil, err
	}

	signup := &model.Signup{
		FirstName: normalized.FirstName,
		LastName:  normalized.LastName,
		Email:     normalized.Email,
	}

	if err := s.store.CreateSignup(ctx, signup); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncSignupRejected(metrics.ReasonDuplicate)
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("save signup: %w", err)
	}

	s.metrics.IncSignupCreated()
	s.logger.Info("signup_created", "signup_id", signup.ID)

	return signup, nil
}

// List returns all signups, newest first.
func (s *SignupService) List(ctx context.Context) ([]*model.Signup, error) {
	signups, err := s.store.ListSignups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list signups: %w", err)
	}
	return signups, nil
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
