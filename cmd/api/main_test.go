package main

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://signupd:s3cr3t@db:5432/signupd", "postgres://signupd@db:5432/signupd"},
		{"redis://:s3cr3t@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"sqlite:///var/lib/signupd/signups.db", "sqlite:///var/lib/signupd/signups.db"},
		{"postgres://db/signupd?password=s3cr3t&sslmode=disable", "postgres://db/signupd?password=redacted&sslmode=disable"},
	}

	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://signupd:s3cr3t@db:5432/signupd"
	err := errors.New("failed to connect to " + dsn + ": password=s3cr3t rejected")

	got := sanitizeError(err, dsn)
	if strings.Contains(got, "s3cr3t") {
		t.Errorf("secret leaked: %s", got)
	}
	if sanitizeError(nil, dsn) != "" {
		t.Error("nil error should sanitize to empty string")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
