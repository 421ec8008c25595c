package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/folio/signupd/internal/handler/dto"
	"github.com/folio/signupd/internal/metrics"
	"github.com/folio/signupd/internal/middleware"
	"github.com/folio/signupd/internal/service"
)

// SignupHandler handles the public signup endpoint.
type SignupHandler struct {
	svc     *service.SignupService
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewSignupHandler creates a new SignupHandler.
func NewSignupHandler(svc *service.SignupService, logger *slog.Logger, recorder metrics.Recorder) *SignupHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SignupHandler{
		svc:     svc,
		logger:  logger,
		metrics: recorder,
	}
}

// Submit handles POST /api/signup.
func (h *SignupHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		h.metrics.IncSignupRejected(metrics.ReasonInvalidJSON)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	_, err := h.svc.Subscribe(r.Context(), service.SubscribeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Successfully subscribed!",
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *SignupHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		h.writeError(w, http.StatusBadRequest, "All fields are required")
	case errors.Is(err, service.ErrInvalidEmail):
		h.writeError(w, http.StatusBadRequest, "Invalid email address")
	case errors.Is(err, service.ErrAlreadySubscribed):
		h.writeError(w, http.StatusConflict, "Email already subscribed")
	default:
		h.logger.Error("signup_failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		h.writeError(w, http.StatusInternalServerError, "Failed to save signup")
	}
}

// writeError writes an error response.
func (h *SignupHandler) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}
