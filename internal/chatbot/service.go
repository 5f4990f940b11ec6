package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/waroutehq/waroute/internal/db"
	"github.com/waroutehq/waroute/internal/db/sqlc"
)

var (
	ErrChatbotNotFound = errors.New("chatbot not found")
	ErrAPIKeyMissing   = errors.New("chatbot api key not set")
)

// Service reads chatbot records. Rows are provisioned out of band; the
// webhook pipeline only ever needs lookups.
type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a chatbot service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "chatbot")),
	}
}

// Get returns a chatbot by its ID.
func (s *Service) Get(ctx context.Context, chatbotID string) (Chatbot, error) {
	if s.queries == nil {
		return Chatbot{}, fmt.Errorf("chatbot queries not configured")
	}
	id, err := db.ParseUUID(chatbotID)
	if err != nil {
		return Chatbot{}, err
	}
	row, err := s.queries.GetChatbotByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Chatbot{}, ErrChatbotNotFound
		}
		return Chatbot{}, err
	}
	return toChatbot(row), nil
}

// List returns all chatbots.
func (s *Service) List(ctx context.Context) ([]Chatbot, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("chatbot queries not configured")
	}
	rows, err := s.queries.ListChatbots(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Chatbot, 0, len(rows))
	for _, row := range rows {
		items = append(items, toChatbot(row))
	}
	return items, nil
}

// APIKey returns the gateway credential for a chatbot. A row with a blank
// key is treated as unconfigured rather than usable.
func (s *Service) APIKey(ctx context.Context, chatbotID string) (string, error) {
	if s.queries == nil {
		return "", fmt.Errorf("chatbot queries not configured")
	}
	id, err := db.ParseUUID(chatbotID)
	if err != nil {
		return "", err
	}
	key, err := s.queries.GetChatbotAPIKey(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrChatbotNotFound
		}
		return "", err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrAPIKeyMissing
	}
	return key, nil
}

func toChatbot(row sqlc.Chatbot) Chatbot {
	createdAt := time.Time{}
	if row.CreatedAt.Valid {
		createdAt = row.CreatedAt.Time
	}
	updatedAt := time.Time{}
	if row.UpdatedAt.Valid {
		updatedAt = row.UpdatedAt.Time
	}
	return Chatbot{
		ID:        row.ID.String(),
		Name:      row.Name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}
