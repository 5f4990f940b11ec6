package postgreschecker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/waroutehq/waroute/internal/healthcheck"
)

func TestCheckWithoutPool(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	checker := NewChecker(log, nil)
	result := checker.Check(context.Background())
	if result.Status != healthcheck.StatusWarn {
		t.Fatalf("expected warn for nil pool, got %s", result.Status)
	}
	if result.Component != "postgres" {
		t.Fatalf("unexpected component %q", result.Component)
	}
	if result.Detail == "" {
		t.Fatal("expected fallback mode detail")
	}
}
