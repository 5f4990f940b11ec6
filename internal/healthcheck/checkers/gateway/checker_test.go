package gatewaychecker

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/waroutehq/waroute/internal/config"
	"github.com/waroutehq/waroute/internal/healthcheck"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckReachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	checker := NewChecker(newTestLogger(), config.GatewayConfig{BaseURL: srv.URL})
	result := checker.Check(context.Background())
	if result.Status != healthcheck.StatusOK {
		t.Fatalf("expected ok for responding host, got %s (%s)", result.Status, result.Detail)
	}
	if result.Component != "gateway" {
		t.Fatalf("unexpected component %q", result.Component)
	}
}

func TestCheckUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	checker := NewChecker(newTestLogger(), config.GatewayConfig{BaseURL: url})
	result := checker.Check(context.Background())
	if result.Status != healthcheck.StatusError {
		t.Fatalf("expected error for closed host, got %s", result.Status)
	}
	if result.Detail == "" {
		t.Fatal("expected transport error detail")
	}
}

func TestCheckWithoutBaseURL(t *testing.T) {
	t.Parallel()

	checker := NewChecker(newTestLogger(), config.GatewayConfig{})
	result := checker.Check(context.Background())
	if result.Status != healthcheck.StatusWarn {
		t.Fatalf("expected warn for missing base url, got %s", result.Status)
	}
}
