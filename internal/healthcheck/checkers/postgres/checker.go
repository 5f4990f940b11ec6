package postgreschecker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waroutehq/waroute/internal/healthcheck"
)

const checkTimeout = 3 * time.Second

// Checker pings the conversation store.
type Checker struct {
	logger *slog.Logger
	pool   *pgxpool.Pool
}

// NewChecker creates a database health checker. A nil pool means the service
// runs without persistence and serves the fallback tenant only.
func NewChecker(log *slog.Logger, pool *pgxpool.Pool) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger: log.With(slog.String("checker", "healthcheck_postgres")),
		pool:   pool,
	}
}

// Check pings the pool with a bounded timeout.
func (c *Checker) Check(ctx context.Context) healthcheck.CheckResult {
	result := healthcheck.CheckResult{Component: "postgres"}
	if c.pool == nil {
		result.Status = healthcheck.StatusWarn
		result.Summary = "Database is not connected."
		result.Detail = "serving the fallback tenant from environment credentials"
		return result
	}

	pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := c.pool.Ping(pingCtx); err != nil {
		c.logger.Warn("database ping failed", slog.Any("error", err))
		result.Status = healthcheck.StatusError
		result.Summary = "Database ping failed."
		result.Detail = err.Error()
		return result
	}

	result.Status = healthcheck.StatusOK
	result.Summary = "Database is reachable."
	return result
}
