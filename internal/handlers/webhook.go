package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/waroutehq/waroute/internal/metrics"
	"github.com/waroutehq/waroute/internal/signature"
	"github.com/waroutehq/waroute/internal/tenant"
	"github.com/waroutehq/waroute/internal/whatsapp"
)

// webhookMaxBodyBytes caps the callback payload read. Meta batches stay far
// below 1 MiB.
const webhookMaxBodyBytes int64 = 1 << 20

// signatureHeader is the HMAC header Meta signs POST bodies with.
const signatureHeader = "X-Hub-Signature-256"

// EnvelopeProcessor runs the message pipeline for a decoded callback batch.
// Used by WebhookHandler.
type EnvelopeProcessor interface {
	Process(ctx context.Context, envelope whatsapp.Envelope)
}

// VerifyTokenResolver matches subscription handshake tokens to tenants.
// Used by WebhookHandler.
type VerifyTokenResolver interface {
	ResolveByVerifyToken(ctx context.Context, token string) (tenant.Tenant, error)
}

// WebhookHandler receives Meta webhook traffic: the GET subscription
// handshake and POSTed event batches.
type WebhookHandler struct {
	tenants   VerifyTokenResolver
	processor EnvelopeProcessor
	appSecret []byte
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler. An empty appSecret disables
// signature verification; POST bodies are then accepted as-is.
func NewWebhookHandler(
	log *slog.Logger,
	tenants VerifyTokenResolver,
	processor EnvelopeProcessor,
	appSecret string,
	m *metrics.Metrics,
) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{
		tenants:   tenants,
		processor: processor,
		appSecret: []byte(strings.TrimSpace(appSecret)),
		metrics:   m,
		logger:    log.With(slog.String("handler", "webhook")),
	}
}

// Register registers the webhook routes.
func (h *WebhookHandler) Register(e *echo.Echo) {
	e.GET("/webhook", h.Verify)
	e.POST("/webhook", h.Receive)
}

// Verify answers the Meta subscription handshake: echo the challenge back
// when the mode is "subscribe" and the token matches a registered tenant.
// Everything else is a 403 so Meta marks the callback URL as unverified.
func (h *WebhookHandler) Verify(c echo.Context) error {
	mode := c.QueryParam("hub.mode")
	token := c.QueryParam("hub.verify_token")
	challenge := c.QueryParam("hub.challenge")
	if mode != "subscribe" || challenge == "" {
		return c.NoContent(http.StatusForbidden)
	}
	tn, err := h.tenants.ResolveByVerifyToken(c.Request().Context(), token)
	if err != nil {
		h.logger.Warn("webhook verification rejected",
			slog.String("remote_ip", c.RealIP()),
			slog.Any("error", err))
		return c.NoContent(http.StatusForbidden)
	}
	h.logger.Info("webhook verified", slog.String("chatbot_id", tn.ChatbotID))
	return c.String(http.StatusOK, challenge)
}

// Receive acknowledges a callback batch and hands it to the processor in the
// background. Meta retries deliveries that miss a quick 2xx, so the ack never
// waits on the pipeline.
func (h *WebhookHandler) Receive(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, webhookMaxBodyBytes))
	if err != nil {
		h.metrics.ObserveWebhookEvent("malformed")
		return echo.NewHTTPError(http.StatusBadRequest, "read body failed")
	}

	if header := c.Request().Header.Get(signatureHeader); header != "" && len(h.appSecret) > 0 {
		if !signature.Verify(h.appSecret, body, header) {
			h.metrics.ObserveWebhookEvent("invalid_signature")
			h.logger.Warn("webhook signature mismatch", slog.String("remote_ip", c.RealIP()))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid signature"})
		}
	}

	var envelope whatsapp.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.metrics.ObserveWebhookEvent("malformed")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if envelope.Object != whatsapp.ObjectBusinessAccount {
		h.metrics.ObserveWebhookEvent("ignored")
		return c.JSON(http.StatusOK, AckResponse{Success: true, Message: "Not a WhatsApp webhook event"})
	}
	h.metrics.ObserveWebhookEvent("received")

	// The request context dies with the response; processing must outlive it.
	ctx := context.WithoutCancel(c.Request().Context())
	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("webhook processing panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
		}()
		h.processor.Process(ctx, envelope)
	}()

	return c.JSON(http.StatusOK, AckResponse{Success: true, Message: "Webhook received"})
}
