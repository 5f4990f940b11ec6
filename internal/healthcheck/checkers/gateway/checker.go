package gatewaychecker

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/waroutehq/waroute/internal/config"
	"github.com/waroutehq/waroute/internal/healthcheck"
)

const checkTimeout = 5 * time.Second

// Checker probes the response gateway with a lightweight request.
type Checker struct {
	logger     *slog.Logger
	baseURL    string
	httpClient *http.Client
}

// NewChecker creates a gateway health checker.
func NewChecker(log *slog.Logger, cfg config.GatewayConfig) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger:     log.With(slog.String("checker", "healthcheck_gateway")),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: checkTimeout},
	}
}

// Check sends a HEAD to the gateway base URL. Any HTTP status counts as
// reachable; only the response route is part of the gateway contract, so a
// 404 on the root still proves the host is up.
func (c *Checker) Check(ctx context.Context) healthcheck.CheckResult {
	result := healthcheck.CheckResult{Component: "gateway"}
	if c.baseURL == "" {
		result.Status = healthcheck.StatusWarn
		result.Summary = "Gateway base URL is not configured."
		return result
	}

	probeCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		result.Status = healthcheck.StatusError
		result.Summary = "Gateway base URL is invalid."
		result.Detail = err.Error()
		return result
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gateway probe failed", slog.Any("error", err))
		result.Status = healthcheck.StatusError
		result.Summary = "Gateway is unreachable."
		result.Detail = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.Status = healthcheck.StatusOK
	result.Summary = "Gateway is reachable."
	return result
}
