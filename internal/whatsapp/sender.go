package whatsapp

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
	"unicode/utf8"

	"github.com/waroutehq/waroute/internal/config"
)

// ErrSendStatus marks Graph API responses outside the 2xx range.
var ErrSendStatus = errors.New("whatsapp send failed")

// The Graph API rejects text bodies longer than 4096 characters.
const maxTextBodyRunes = 4096

// SendResult carries the provider-assigned id of an accepted message.
type SendResult struct {
	MessageID string
}

type sendText struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             sendText `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// Sender posts text messages to the Graph API send endpoint of a business
// phone number.
type Sender struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSender builds a sender from the WhatsApp section of the configuration.
func NewSender(log *slog.Logger, cfg config.WhatsAppConfig) *Sender {
	if log == nil {
		log = slog.Default()
	}
	return &Sender{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.GraphBaseURL), "/"),
		apiVersion: strings.Trim(strings.TrimSpace(cfg.APIVersion), "/"),
		httpClient: &http.Client{Timeout: cfg.SendTimeout()},
		logger:     log.With(slog.String("component", "whatsapp")),
	}
}

// SendText delivers one text message to a recipient through the given
// business phone number. Credentials are tenant-scoped, so the access token
// travels per call rather than living on the sender.
func (s *Sender) SendText(ctx context.Context, phoneNumberID, accessToken, to, text string) (SendResult, error) {
	if s.baseURL == "" {
		return SendResult{}, fmt.Errorf("whatsapp graph base url not configured")
	}
	if strings.TrimSpace(phoneNumberID) == "" {
		return SendResult{}, fmt.Errorf("whatsapp phone number id is empty")
	}
	if strings.TrimSpace(accessToken) == "" {
		return SendResult{}, fmt.Errorf("whatsapp access token is empty")
	}

	payload := sendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             sendText{Body: clampBody(text)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{}, fmt.Errorf("marshal whatsapp send request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", s.baseURL, s.apiVersion, phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SendResult{}, fmt.Errorf("create whatsapp send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("post whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return SendResult{}, fmt.Errorf("read whatsapp response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		s.logger.Error("whatsapp send error",
			slog.String("phone_number_id", phoneNumberID),
			slog.Int("status", resp.StatusCode),
			slog.String("body_prefix", truncate(string(respBody), 300)),
		)
		return SendResult{}, fmt.Errorf("%w: status %d", ErrSendStatus, resp.StatusCode)
	}

	var parsed sendResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return SendResult{}, fmt.Errorf("decode whatsapp response: %w", err)
	}

	result := SendResult{}
	if len(parsed.Messages) > 0 {
		result.MessageID = parsed.Messages[0].ID
	}
	return result, nil
}

// clampBody cuts overlong replies down to the Graph API body limit. The cut
// happens on a rune boundary so a multi-byte character never splits.
func clampBody(s string) string {
	if utf8.RuneCountInString(s) <= maxTextBodyRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxTextBodyRunes-1]) + "…"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
