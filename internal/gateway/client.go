// Package gateway calls the external response gateway that generates AI
// replies for inbound WhatsApp messages.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/waroutehq/waroute/internal/config"
	"github.com/waroutehq/waroute/internal/conversation"
)

// ErrGatewayStatus indicates the gateway answered with a non-2xx status.
var ErrGatewayStatus = errors.New("gateway request failed")

// Request is one reply-generation call. The chatbot's API key is the
// credential the gateway uses to select the bot's knowledge base.
type Request struct {
	Query       string
	History     []conversation.HistoryEntry
	APIKey      string
	ChatbotID   string
	PhoneNumber string
	DisplayName string
}

// Reply is the gateway answer. Citations are kept opaque and stored
// alongside the assistant message as received.
type Reply struct {
	Answer    string          `json:"answer"`
	Citations json.RawMessage `json:"citations"`
	LatencyMS float64         `json:"latency_ms"`
}

type gatewayUser struct {
	UniqueClientID string `json:"unique_client_id"`
	Channel        string `json:"channel"`
	PhoneNumber    string `json:"phone_number"`
	DisplayName    string `json:"display_name"`
}

type gatewayRequest struct {
	Query   string                      `json:"query"`
	History []conversation.HistoryEntry `json:"history"`
	Stream  bool                        `json:"stream"`
	User    gatewayUser                 `json:"user"`
	APIKey  string                      `json:"api_key"`
}

// Client communicates with the response gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a gateway client.
func NewClient(log *slog.Logger, cfg config.GatewayConfig) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     log.With(slog.String("component", "gateway")),
	}
}

// Respond sends one user turn plus bounded history and returns the generated
// reply. A single attempt, no retry; callers decide what the end user sees
// on failure.
func (c *Client) Respond(ctx context.Context, req Request) (Reply, error) {
	if c.baseURL == "" {
		return Reply{}, fmt.Errorf("gateway base url not configured")
	}

	history := req.History
	if history == nil {
		history = []conversation.HistoryEntry{}
	}
	payload := gatewayRequest{
		Query:   req.Query,
		History: history,
		Stream:  false,
		User: gatewayUser{
			UniqueClientID: conversation.Marker(req.PhoneNumber, req.ChatbotID),
			Channel:        "whatsapp",
			PhoneNumber:    req.PhoneNumber,
			DisplayName:    req.DisplayName,
		},
		APIKey: req.APIKey,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Reply{}, fmt.Errorf("marshal gateway request: %w", err)
	}

	url := c.baseURL + "/response"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Reply{}, fmt.Errorf("build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Reply{}, fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("gateway error",
			slog.String("url", url),
			slog.Int("status", resp.StatusCode),
			slog.String("body_prefix", truncate(string(respBody), 300)))
		return Reply{}, fmt.Errorf("%w: status %d", ErrGatewayStatus, resp.StatusCode)
	}

	var reply Reply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return Reply{}, fmt.Errorf("parse gateway response: %w", err)
	}
	return reply, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
