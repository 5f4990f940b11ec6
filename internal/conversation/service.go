package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	dbpkg "github.com/waroutehq/waroute/internal/db"
	"github.com/waroutehq/waroute/internal/db/sqlc"
)

const defaultHistoryLimit = 10

// Marker returns the deterministic thread identifier grouping all messages
// between one end user and one chatbot. Writes and later history reads must
// use the same derivation, and the response gateway receives it as the
// unique client id.
func Marker(phoneNumber, chatbotID string) string {
	return "whatsapp_" + phoneNumber + "_" + chatbotID
}

// Service persists contacts and conversation turns.
type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a conversation service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "conversation")),
	}
}

// UpsertContact creates the contact on first sight and refreshes display
// name and profile metadata afterwards. The metadata update is a mapping
// merge; keys written by other writers survive.
func (s *Service) UpsertContact(ctx context.Context, p UpsertContactParams) (Contact, error) {
	if s.queries == nil {
		return Contact{}, fmt.Errorf("conversation queries not configured")
	}
	pgChatbotID, err := dbpkg.ParseUUID(p.ChatbotID)
	if err != nil {
		return Contact{}, fmt.Errorf("invalid chatbot id: %w", err)
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		return Contact{}, fmt.Errorf("contact phone number is empty")
	}

	seenAt := p.SeenAt
	if seenAt.IsZero() {
		seenAt = time.Now()
	}
	meta := map[string]any{
		"source":    "whatsapp",
		"last_seen": seenAt.UTC().Format(time.RFC3339),
	}
	if strings.TrimSpace(p.MessageID) != "" {
		meta["last_message_id"] = p.MessageID
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return Contact{}, fmt.Errorf("marshal contact metadata: %w", err)
	}

	row, err := s.queries.UpsertContact(ctx, sqlc.UpsertContactParams{
		ChatbotID:   pgChatbotID,
		PhoneNumber: p.PhoneNumber,
		DisplayName: toPgText(p.DisplayName),
		Metadata:    metaBytes,
	})
	if err != nil {
		return Contact{}, err
	}
	return toContact(row), nil
}

// AppendMessage writes a single conversation turn.
func (s *Service) AppendMessage(ctx context.Context, p AppendMessageParams) (Message, error) {
	if s.queries == nil {
		return Message{}, fmt.Errorf("conversation queries not configured")
	}
	pgChatbotID, err := dbpkg.ParseUUID(p.ChatbotID)
	if err != nil {
		return Message{}, fmt.Errorf("invalid chatbot id: %w", err)
	}
	if p.Role != RoleUser && p.Role != RoleAssistant {
		return Message{}, fmt.Errorf("invalid message role %q", p.Role)
	}
	if strings.TrimSpace(p.ConversationID) == "" {
		return Message{}, fmt.Errorf("conversation id is empty")
	}

	metaBytes, err := json.Marshal(nonNilMap(p.Metadata))
	if err != nil {
		return Message{}, fmt.Errorf("marshal message metadata: %w", err)
	}
	var citations []byte
	if len(p.Citations) > 0 {
		citations = p.Citations
	}

	row, err := s.queries.CreateMessage(ctx, sqlc.CreateMessageParams{
		ChatbotID:      pgChatbotID,
		ConversationID: p.ConversationID,
		Role:           p.Role,
		Content:        p.Content,
		Citations:      citations,
		Metadata:       metaBytes,
	})
	if err != nil {
		return Message{}, err
	}
	return toMessage(row), nil
}

// RecentHistory returns up to limit turns for one conversation marker,
// oldest first. Rows are fetched newest-first and reversed so the window
// always covers the latest turns. Roles reduce to user or assistant.
func (s *Service) RecentHistory(ctx context.Context, chatbotID, conversationID string, limit int) ([]HistoryEntry, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("conversation queries not configured")
	}
	pgChatbotID, err := dbpkg.ParseUUID(chatbotID)
	if err != nil {
		return nil, fmt.Errorf("invalid chatbot id: %w", err)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := s.queries.ListRecentMessages(ctx, sqlc.ListRecentMessagesParams{
		ChatbotID:      pgChatbotID,
		ConversationID: conversationID,
		MaxCount:       int32(limit),
	})
	if err != nil {
		return nil, err
	}
	history := make([]HistoryEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		role := RoleAssistant
		if rows[i].Role == RoleUser {
			role = RoleUser
		}
		history = append(history, HistoryEntry{Role: role, Content: rows[i].Content})
	}
	return history, nil
}

// RecentByChatbot returns the newest limit messages across all of a
// chatbot's conversations, newest first. Used by the ops API for spot
// checks.
func (s *Service) RecentByChatbot(ctx context.Context, chatbotID string, limit int) ([]Message, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("conversation queries not configured")
	}
	pgChatbotID, err := dbpkg.ParseUUID(chatbotID)
	if err != nil {
		return nil, fmt.Errorf("invalid chatbot id: %w", err)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := s.queries.ListRecentMessagesByChatbot(ctx, sqlc.ListRecentMessagesByChatbotParams{
		ChatbotID: pgChatbotID,
		MaxCount:  int32(limit),
	})
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, toMessage(row))
	}
	return messages, nil
}

// UpdateDeliveryStatus merges the delivery status into the metadata of the
// most recent message referencing providerMessageID. Returns false when no
// row matches; status events may race ahead of message persistence, so an
// unmatched id is not an error.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, chatbotID, providerMessageID, status string) (bool, error) {
	if s.queries == nil {
		return false, fmt.Errorf("conversation queries not configured")
	}
	if strings.TrimSpace(providerMessageID) == "" {
		return false, nil
	}
	pgChatbotID, err := dbpkg.ParseUUID(chatbotID)
	if err != nil {
		return false, fmt.Errorf("invalid chatbot id: %w", err)
	}
	affected, err := s.queries.UpdateMessageDeliveryStatus(ctx, sqlc.UpdateMessageDeliveryStatusParams{
		Status:            status,
		ChatbotID:         pgChatbotID,
		WhatsappMessageID: providerMessageID,
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// PruneOlderThan deletes messages created before cutoff and returns the
// number of rows removed.
func (s *Service) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.queries == nil {
		return 0, fmt.Errorf("conversation queries not configured")
	}
	return s.queries.PruneMessagesBefore(ctx, pgtype.Timestamptz{Time: cutoff, Valid: true})
}

func toContact(row sqlc.Contact) Contact {
	c := Contact{
		ID:          row.ID.String(),
		ChatbotID:   row.ChatbotID.String(),
		PhoneNumber: row.PhoneNumber,
		DisplayName: dbpkg.TextToString(row.DisplayName),
		Metadata:    parseJSONMap(row.Metadata),
	}
	if row.CreatedAt.Valid {
		c.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		c.UpdatedAt = row.UpdatedAt.Time
	}
	return c
}

func toMessage(row sqlc.Message) Message {
	m := Message{
		ID:             row.ID.String(),
		ChatbotID:      row.ChatbotID.String(),
		ConversationID: row.ConversationID,
		Role:           row.Role,
		Content:        row.Content,
		Metadata:       parseJSONMap(row.Metadata),
	}
	if len(row.Citations) > 0 {
		m.Citations = json.RawMessage(row.Citations)
	}
	if row.CreatedAt.Valid {
		m.CreatedAt = row.CreatedAt.Time
	}
	return m
}

func toPgText(value string) pgtype.Text {
	value = strings.TrimSpace(value)
	if value == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: value, Valid: true}
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func parseJSONMap(data []byte) map[string]any {
	if len(data) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		slog.Warn("parseJSONMap: unmarshal failed", slog.Any("error", err))
	}
	return m
}
