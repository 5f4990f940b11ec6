package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/waroutehq/waroute/internal/healthcheck"
)

func TestHealthReportsStatus(t *testing.T) {
	h := NewHealthHandler(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	if err := h.Health(e.NewContext(req, rec)); err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "OK" {
		t.Fatalf("unexpected status field: %q", resp.Status)
	}
	if resp.Timestamp == "" || resp.Uptime == "" {
		t.Fatalf("expected timestamp and uptime, got %+v", resp)
	}
}

type stubChecker struct {
	result healthcheck.CheckResult
}

func (s stubChecker) Check(ctx context.Context) healthcheck.CheckResult {
	return s.result
}

func TestHealthChecksReportWorstStatus(t *testing.T) {
	h := NewHealthHandler(nil,
		stubChecker{result: healthcheck.CheckResult{Component: "postgres", Status: healthcheck.StatusOK}},
		stubChecker{result: healthcheck.CheckResult{Component: "gateway", Status: healthcheck.StatusError, Summary: "Gateway is unreachable."}},
	)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/checks", nil)
	rec := httptest.NewRecorder()
	if err := h.Checks(e.NewContext(req, rec)); err != nil {
		t.Fatalf("checks failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var resp ChecksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != healthcheck.StatusError {
		t.Fatalf("expected error overall, got %q", resp.Status)
	}
	if len(resp.Checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(resp.Checks))
	}
}

func TestHealthChecksWithoutCheckers(t *testing.T) {
	h := NewHealthHandler(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/checks", nil)
	rec := httptest.NewRecorder()
	if err := h.Checks(e.NewContext(req, rec)); err != nil {
		t.Fatalf("checks failed: %v", err)
	}

	var resp ChecksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != healthcheck.StatusOK {
		t.Fatalf("expected ok with no checkers, got %q", resp.Status)
	}
}

func TestPing(t *testing.T) {
	h := NewHealthHandler(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	if err := h.Ping(e.NewContext(req, rec)); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected body: %v", resp)
	}
}
