// Package metrics exposes Prometheus collectors for the HTTP surface and
// the webhook processing pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/waroutehq/waroute/internal/config"
)

// Metrics bundles the collectors recorded across webhook processing. All
// record methods accept a nil receiver, so callers built without metrics
// skip recording instead of branching.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	webhookEvents   *prometheus.CounterVec
	messages        *prometheus.CounterVec
	gatewayRequests *prometheus.CounterVec
	gatewayDuration prometheus.Histogram
	deliveries      *prometheus.CounterVec
	statusUpdates   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry under the configured
// name prefix.
func New(cfg config.MetricsConfig) *Metrics {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = config.DefaultMetricsPrefix
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		webhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_webhook_events_total",
			Help: "Total number of webhook deliveries by outcome",
		}, []string{"outcome"}),
		messages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_messages_processed_total",
			Help: "Total number of inbound messages by type and whether they were forwarded to the gateway",
		}, []string{"type", "forwarded"}),
		gatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_gateway_requests_total",
			Help: "Total number of response gateway calls by result",
		}, []string{"status"}),
		gatewayDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    prefix + "_gateway_request_seconds",
			Help:    "Duration of response gateway calls in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_deliveries_total",
			Help: "Total number of outbound WhatsApp sends by result",
		}, []string{"status"}),
		statusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_delivery_status_updates_total",
			Help: "Total number of delivery status events by reported status",
		}, []string{"status"}),
	}
}

// ObserveWebhookEvent counts one webhook delivery by outcome.
func (m *Metrics) ObserveWebhookEvent(outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(outcome).Inc()
}

// ObserveMessage counts one processed inbound message.
func (m *Metrics) ObserveMessage(messageType string, forwarded bool) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(messageType, strconv.FormatBool(forwarded)).Inc()
}

// ObserveGatewayRequest records one response gateway call.
func (m *Metrics) ObserveGatewayRequest(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(status).Inc()
	m.gatewayDuration.Observe(elapsed.Seconds())
}

// ObserveDelivery counts one outbound WhatsApp send.
func (m *Metrics) ObserveDelivery(status string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(status).Inc()
}

// ObserveStatusUpdate counts one delivery status event.
func (m *Metrics) ObserveStatusUpdate(status string) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(status).Inc()
}

// Middleware records request count and duration per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			duration := time.Since(start).Seconds()

			method := c.Request().Method
			path := c.Path()
			status := strconv.Itoa(c.Response().Status)

			m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
			m.httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)

			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
