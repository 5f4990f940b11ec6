package healthcheck

import (
	"context"
	"testing"
	"time"
)

type staticChecker struct {
	result CheckResult
	delay  time.Duration
}

func (s staticChecker) Check(ctx context.Context) CheckResult {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.result
}

func TestRunReportsWorstStatus(t *testing.T) {
	t.Parallel()

	overall, results := Run(context.Background(),
		staticChecker{result: CheckResult{Component: "postgres", Status: StatusOK}},
		staticChecker{result: CheckResult{Component: "gateway", Status: StatusWarn}},
	)
	if overall != StatusWarn {
		t.Fatalf("expected warn overall, got %s", overall)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	overall, _ = Run(context.Background(),
		staticChecker{result: CheckResult{Component: "postgres", Status: StatusError}},
		staticChecker{result: CheckResult{Component: "gateway", Status: StatusOK}},
	)
	if overall != StatusError {
		t.Fatalf("expected error overall, got %s", overall)
	}
}

func TestRunSkipsNilCheckers(t *testing.T) {
	t.Parallel()

	overall, results := Run(context.Background(),
		nil,
		staticChecker{result: CheckResult{Component: "postgres", Status: StatusOK}},
	)
	if overall != StatusOK {
		t.Fatalf("expected ok overall, got %s", overall)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestRunMeasuresLatency(t *testing.T) {
	t.Parallel()

	_, results := Run(context.Background(), staticChecker{
		result: CheckResult{Component: "gateway", Status: StatusOK},
		delay:  15 * time.Millisecond,
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].LatencyMS < 10 {
		t.Fatalf("expected measured latency, got %dms", results[0].LatencyMS)
	}
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()

	overall, results := Run(context.Background())
	if overall != StatusOK {
		t.Fatalf("expected ok overall with no checkers, got %s", overall)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
