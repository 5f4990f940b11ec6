// Package conversation persists contacts and message history for chatbot
// conversations over WhatsApp.
package conversation

import (
	"encoding/json"
	"time"
)

// Message role constants.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Contact is one end user known to a chatbot, keyed by phone number.
type Contact struct {
	ID          string         `json:"id"`
	ChatbotID   string         `json:"chatbot_id"`
	PhoneNumber string         `json:"phone_number"`
	DisplayName string         `json:"display_name,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Message is one stored conversation turn. Rows are append-only; delivery
// status updates only touch Metadata.
type Message struct {
	ID             string          `json:"id"`
	ChatbotID      string          `json:"chatbot_id"`
	ConversationID string          `json:"conversation_id"`
	Role           string          `json:"role"`
	Content        string          `json:"content"`
	Citations      json.RawMessage `json:"citations,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// HistoryEntry is the reduced view of a turn handed to the response gateway.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UpsertContactParams captures what an inbound message tells us about the
// sender. SeenAt and MessageID refresh the contact's profile metadata.
type UpsertContactParams struct {
	ChatbotID   string
	PhoneNumber string
	DisplayName string
	SeenAt      time.Time
	MessageID   string
}

// AppendMessageParams describes a new conversation turn.
type AppendMessageParams struct {
	ChatbotID      string
	ConversationID string
	Role           string
	Content        string
	Citations      json.RawMessage
	Metadata       map[string]any
}

// ListMessagesResponse wraps the ops message listing payload.
type ListMessagesResponse struct {
	Items []Message `json:"items"`
}
