// Package healthcheck evaluates runtime dependency checks for the ops
// diagnostics endpoint.
package healthcheck

import (
	"context"
	"time"
)

const (
	// StatusOK indicates check passed.
	StatusOK = "ok"
	// StatusWarn indicates check completed with warning.
	StatusWarn = "warn"
	// StatusError indicates check failed.
	StatusError = "error"
)

// CheckResult is one dependency check item produced by a checker.
type CheckResult struct {
	Component string `json:"component"`
	Status    string `json:"status"`
	Summary   string `json:"summary"`
	Detail    string `json:"detail,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// Checker evaluates the health of one dependency.
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// Run evaluates every checker and reports the worst status seen alongside
// the individual results. Nil checkers are skipped.
func Run(ctx context.Context, checkers ...Checker) (string, []CheckResult) {
	if ctx == nil {
		ctx = context.Background()
	}
	overall := StatusOK
	results := make([]CheckResult, 0, len(checkers))
	for _, checker := range checkers {
		if checker == nil {
			continue
		}
		started := time.Now()
		result := checker.Check(ctx)
		result.LatencyMS = time.Since(started).Milliseconds()
		results = append(results, result)
		if rank(result.Status) > rank(overall) {
			overall = result.Status
		}
	}
	return overall, results
}

func rank(status string) int {
	switch status {
	case StatusError:
		return 2
	case StatusWarn:
		return 1
	default:
		return 0
	}
}
