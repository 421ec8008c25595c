// Package main is the entrypoint for the signupd API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/folio/signupd/internal/auth"
	"github.com/folio/signupd/internal/cache"
	"github.com/folio/signupd/internal/config"
	"github.com/folio/signupd/internal/handler"
	"github.com/folio/signupd/internal/metrics"
	"github.com/folio/signupd/internal/ratelimit"
	"github.com/folio/signupd/internal/repository"
	"github.com/folio/signupd/internal/server"
	"github.com/folio/signupd/internal/service"
	"github.com/folio/signupd/internal/web"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// shutdownHook is a component closed after the HTTP server stops.
type shutdownHook struct {
	name string
	fn   server.ShutdownFunc
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.MigrateOnStart {
		if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Error(
				"failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return err
		}
		logger.Info("migrations applied")
	}

	store, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return err
	}
	logger.Info("connected to database")

	var recorder metrics.Recorder = metrics.NewNoop()
	var metricsHandler *handler.MetricsHandler
	if cfg.MetricsEnabled {
		inMemory := metrics.NewInMemory()
		recorder = inMemory
		metricsHandler = handler.NewMetricsHandler(inMemory)
	}

	hasher, err := auth.NewHasher(cfg.PasswordHashScheme)
	if err != nil {
		_ = store.Close()
		return err
	}

	hooks := []shutdownHook{
		{"store", func(context.Context) error { return store.Close() }},
	}

	// Signup limiter: Redis when configured so every instance shares one
	// window, otherwise an in-process window with a background janitor.
	var limiter ratelimit.Limiter
	var limiterHealth handler.HealthChecker
	if cfg.RedisURL != "" {
		cacheClient, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			_ = store.Close()
			return err
		}
		logger.Info("connected to Redis", "rate_limiter", "redis")

		window := cacheClient.NewSlidingWindow(cfg.SignupRateLimit, cfg.SignupRateWindow)
		limiter = window
		limiterHealth = window
		hooks = append(hooks, shutdownHook{"redis", func(context.Context) error { return cacheClient.Close() }})
	} else {
		window := ratelimit.NewSlidingWindow(cfg.SignupRateLimit, cfg.SignupRateWindow)
		limiter = window

		janitorCtx, stopJanitor := context.WithCancel(ctx)
		go window.Run(janitorCtx, cfg.SignupRateWindow)
		hooks = append(hooks, shutdownHook{"rate_limit_janitor", func(context.Context) error {
			stopJanitor()
			return nil
		}})
		logger.Info("using in-memory rate limiter")
	}

	signupService := service.NewSignupService(store, logger, recorder)
	adminService := service.NewAdminService(store, hasher, logger, recorder)

	adminPath := cfg.NormalizedAdminPath()

	router := handler.NewRouter(handler.RouterConfig{
		Logger:             logger,
		AdminPath:          adminPath,
		CORSOrigin:         cfg.CORSOrigin,
		TrustedIPHeader:    cfg.TrustedIPHeader,
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		SignupLimiter:      limiter,
		SignupWindow:       cfg.SignupRateWindow,
		AdminRPS:           cfg.AdminRateLimitRPS,
		AdminBurst:         cfg.AdminRateLimitBurst,
		Signup:             handler.NewSignupHandler(signupService, logger, recorder),
		Admin: handler.NewAdminHandler(handler.AdminConfig{
			Admin:     adminService,
			Signups:   signupService,
			Pages:     web.MustLoad(),
			AdminPath: adminPath,
			Logger:    logger,
			Metrics:   recorder,
		}),
		Health:   handler.NewHealthHandler(store, limiterHealth),
		Metrics:  metricsHandler,
		Recorder: recorder,
	})

	srv := server.New(
		router,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	for _, h := range hooks {
		srv.OnShutdown(h.name, h.fn)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"admin_path", adminPath,
		"hash_scheme", cfg.PasswordHashScheme,
		"metrics_enabled", cfg.MetricsEnabled,
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return passwordPattern.ReplaceAllString(parsed.String(), "password=redacted")
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
