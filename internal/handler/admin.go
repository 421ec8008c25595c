package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/folio/signupd/internal/auth"
	"github.com/folio/signupd/internal/handler/dto"
	"github.com/folio/signupd/internal/metrics"
	"github.com/folio/signupd/internal/middleware"
	"github.com/folio/signupd/internal/model"
	"github.com/folio/signupd/internal/service"
	"github.com/folio/signupd/internal/web"
)

// setupPasswordField is the form field read by the one-time setup POST.
const setupPasswordField = "setup_password"

// setupFormMaxMemory caps the in-memory part of a multipart setup form.
const setupFormMaxMemory = 32 << 10

// AdminHandler serves the password-gated admin surface.
type AdminHandler struct {
	admin     *service.AdminService
	signups   *service.SignupService
	pages     *web.Pages
	adminPath string
	logger    *slog.Logger
	metrics   metrics.Recorder
	now       func() time.Time
}

// AdminConfig holds AdminHandler dependencies.
type AdminConfig struct {
	Admin     *service.AdminService
	Signups   *service.SignupService
	Pages     *web.Pages
	AdminPath string
	Logger    *slog.Logger
	Metrics   metrics.Recorder
	// Now stamps export filenames; defaults to time.Now.
	Now func() time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cfg AdminConfig) *AdminHandler {
	h := &AdminHandler{
		admin:     cfg.Admin,
		signups:   cfg.Signups,
		pages:     cfg.Pages,
		adminPath: cfg.AdminPath,
		logger:    cfg.Logger.With("component", "handler.admin"),
		metrics:   cfg.Metrics,
		now:       cfg.Now,
	}
	if h.pages == nil {
		h.pages = web.MustLoad()
	}
	if h.metrics == nil {
		h.metrics = metrics.NewNoop()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Index handles GET {admin}. It serves the setup form until a password
// exists and the signup panel to authenticated callers afterwards.
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	state, err := h.admin.State(r.Context())
	if err != nil {
		h.internalError(w, r, "admin_state_failed", err)
		return
	}

	if state == model.AdminUninitialized {
		h.renderSetup(w, r, http.StatusOK, "")
		return
	}

	if !h.authorize(r) {
		h.writeChallenge(w)
		return
	}

	signups, err := h.signups.List(r.Context())
	if err != nil {
		h.internalError(w, r, "list_signups_failed", err)
		return
	}

	var buf bytes.Buffer
	if err := h.pages.RenderPanel(&buf, web.PanelData{AdminPath: h.adminPath, Signups: signups}); err != nil {
		h.internalError(w, r, "render_panel_failed", err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// Setup handles POST {admin}. It is accepted once, while no password exists.
func (h *AdminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	state, err := h.admin.State(r.Context())
	if err != nil {
		h.internalError(w, r, "admin_state_failed", err)
		return
	}
	if state == model.AdminActive {
		w.Header().Set("Allow", http.MethodGet)
		writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Accept both urlencoded and multipart (FormData) submissions.
	if err := r.ParseMultipartForm(setupFormMaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.renderSetup(w, r, http.StatusBadRequest, "Could not read the submitted form.")
		return
	}

	err = h.admin.Setup(r.Context(), r.PostForm.Get(setupPasswordField))
	switch {
	case err == nil:
		h.logger.Info("admin_setup_completed",
			"client_ip", middleware.GetClientIP(r.Context()),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeText(w, http.StatusOK, "Password set successfully")
	case errors.Is(err, service.ErrWeakPassword):
		h.renderSetup(w, r, http.StatusBadRequest, "Password must be at least 8 characters.")
	case errors.Is(err, service.ErrAlreadyInitialized):
		writeText(w, http.StatusConflict, "Admin password already set")
	default:
		h.internalError(w, r, "admin_setup_failed", err)
	}
}

// ListSignups handles GET {admin}/api/signups.
func (h *AdminHandler) ListSignups(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	signups, err := h.signups.List(r.Context())
	if err != nil {
		h.logger.Error("list_signups_failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load signups"})
		return
	}

	writeJSON(w, http.StatusOK, dto.NewSignupsResponse(signups))
}

// Export handles GET {admin}/export.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		h.writeChallenge(w)
		return
	}

	signups, err := h.signups.List(r.Context())
	if err != nil {
		h.internalError(w, r, "export_failed", err)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, signups); err != nil {
		h.internalError(w, r, "export_failed", err)
		return
	}

	h.metrics.IncExport()
	h.logger.Info("signups_exported",
		"count", len(signups),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFilename(h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Styles handles GET {admin}/admin-styles.css.
func (h *AdminHandler) Styles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.pages.Styles())
}

// authorize reports whether the request carries the admin password.
// Store failures are logged and treated as unauthorized.
func (h *AdminHandler) authorize(r *http.Request) bool {
	password, ok := auth.BasicPassword(r)
	if !ok {
		return false
	}

	err := h.admin.Authenticate(r.Context(), password)
	switch {
	case err == nil:
		return true
	case errors.Is(err, service.ErrUnauthorized):
		h.logger.Warn("admin_auth_failed",
			"client_ip", middleware.GetClientIP(r.Context()),
			"request_id", middleware.GetRequestID(r.Context()),
		)
	default:
		h.logger.Error("admin_auth_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}
	return false
}

func (h *AdminHandler) renderSetup(w http.ResponseWriter, r *http.Request, status int, message string) {
	var buf bytes.Buffer
	data := web.SetupData{AdminPath: h.adminPath, Error: message, MinLength: service.MinPasswordLength}
	if err := h.pages.RenderSetup(&buf, data); err != nil {
		h.internalError(w, r, "render_setup_failed", err)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

// writeChallenge writes a plain 401 asking the browser for Basic credentials.
func (h *AdminHandler) writeChallenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", auth.BasicChallenge)
	writeText(w, http.StatusUnauthorized, "Unauthorized")
}

func (h *AdminHandler) internalError(w http.ResponseWriter, r *http.Request, event string, err error) {
	h.logger.Error(event,
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	writeText(w, http.StatusInternalServerError, "Internal server error")
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
