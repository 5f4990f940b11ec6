package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/waroutehq/waroute/internal/metrics"
)

// MetricsHandler exposes the Prometheus scrape endpoint. With metrics
// disabled no route is registered and /metrics stays a 404.
type MetricsHandler struct {
	metrics *metrics.Metrics
}

// NewMetricsHandler creates a MetricsHandler. m may be nil.
func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// Register registers the scrape route when metrics are enabled.
func (h *MetricsHandler) Register(e *echo.Echo) {
	if h == nil || h.metrics == nil {
		return
	}
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
}
