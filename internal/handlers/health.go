package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/waroutehq/waroute/internal/healthcheck"
	"github.com/waroutehq/waroute/internal/version"
)

// HealthHandler serves liveness probes and dependency diagnostics.
type HealthHandler struct {
	startedAt time.Time
	checkers  []healthcheck.Checker
	logger    *slog.Logger
}

// NewHealthHandler creates a HealthHandler. Checkers feed the guarded
// diagnostics route; the liveness routes never touch them.
func NewHealthHandler(log *slog.Logger, checkers ...healthcheck.Checker) *HealthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HealthHandler{
		startedAt: time.Now(),
		checkers:  checkers,
		logger:    log.With(slog.String("handler", "health")),
	}
}

// Register registers the health routes. The checks route is not on the JWT
// skip list, so it requires an ops token.
func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.HEAD("/health", h.HealthHead)
	e.GET("/health/checks", h.Checks)
	e.GET("/ping", h.Ping)
}

// HealthResponse reports process status for monitors.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

// Health godoc
// @Summary Health check
// @Description Report service status and uptime
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "waroute " + version.Version + " is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// HealthHead answers HEAD probes without a body.
func (h *HealthHandler) HealthHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// ChecksResponse reports per-dependency probe results.
type ChecksResponse struct {
	Status string                    `json:"status"`
	Checks []healthcheck.CheckResult `json:"checks"`
}

// Checks runs the dependency probes and reports the worst status seen.
func (h *HealthHandler) Checks(c echo.Context) error {
	status, checks := healthcheck.Run(c.Request().Context(), h.checkers...)
	return c.JSON(http.StatusOK, ChecksResponse{Status: status, Checks: checks})
}

// Ping responds to a liveness ping.
func (h *HealthHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
