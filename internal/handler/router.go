package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/folio/signupd/internal/metrics"
	"github.com/folio/signupd/internal/middleware"
	"github.com/folio/signupd/internal/ratelimit"
	"github.com/folio/signupd/internal/web"
)

// RouterConfig wires handlers and middleware into the HTTP surface.
type RouterConfig struct {
	Logger *slog.Logger

	AdminPath          string
	CORSOrigin         string
	TrustedIPHeader    string
	IsDevelopment      bool
	MaxRequestBodySize int64

	SignupLimiter ratelimit.Limiter
	SignupWindow  time.Duration
	AdminRPS      float64
	AdminBurst    int

	Signup *SignupHandler
	Admin  *AdminHandler
	Health *HealthHandler
	// Metrics is nil when the metrics endpoint is disabled.
	Metrics  *MetricsHandler
	Recorder metrics.Recorder
}

// NewRouter builds the chi router for the service.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Must be set before any sub-router is mounted so they inherit it.
	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigin = cfg.CORSOrigin

	r.Use(middleware.RequestID)
	r.Use(middleware.ClientIP(cfg.TrustedIPHeader))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cors))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.Recoverer(cfg.Logger))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}

	r.With(middleware.RateLimitSignup(middleware.RateLimitConfig{
		Logger:  cfg.Logger,
		Limiter: cfg.SignupLimiter,
		Metrics: cfg.Recorder,
		Window:  cfg.SignupWindow,
	})).Post("/api/signup", cfg.Signup.Submit)

	r.Route(cfg.AdminPath, func(r chi.Router) {
		r.Get(web.StylesPath, cfg.Admin.Styles)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminThrottle(cfg.Logger, cfg.AdminRPS, cfg.AdminBurst))
			r.Get("/", cfg.Admin.Index)
			r.Post("/", cfg.Admin.Setup)
			r.Get("/api/signups", cfg.Admin.ListSignups)
			r.Get("/export", cfg.Admin.Export)
		})
	})

	return r
}
