package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/waroutehq/waroute/internal/chatbot"
)

// ChatbotDirectory reads chatbot records for the ops surface.
// Used by ChatbotHandler.
type ChatbotDirectory interface {
	List(ctx context.Context) ([]chatbot.Chatbot, error)
	Get(ctx context.Context, chatbotID string) (chatbot.Chatbot, error)
}

// ChatbotHandler serves the ops view of the chatbot registry. API keys never
// appear here.
type ChatbotHandler struct {
	chatbots ChatbotDirectory
	logger   *slog.Logger
}

// NewChatbotHandler creates a ChatbotHandler.
func NewChatbotHandler(log *slog.Logger, chatbots ChatbotDirectory) *ChatbotHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ChatbotHandler{
		chatbots: chatbots,
		logger:   log.With(slog.String("handler", "chatbots")),
	}
}

// Register registers the chatbot ops routes.
func (h *ChatbotHandler) Register(e *echo.Echo) {
	e.GET("/chatbots", h.ListChatbots)
	e.GET("/chatbots/:id", h.GetChatbot)
}

// ListChatbots godoc
// @Summary List chatbots
// @Description List registered chatbots without credentials
// @Tags chatbots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} chatbot.ListChatbotsResponse
// @Failure 500 {object} ErrorResponse
// @Router /chatbots [get]
func (h *ChatbotHandler) ListChatbots(c echo.Context) error {
	items, err := h.chatbots.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chatbot.ListChatbotsResponse{Items: items})
}

// GetChatbot returns a single chatbot by ID.
func (h *ChatbotHandler) GetChatbot(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chatbot id is required")
	}
	bot, err := h.chatbots.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, chatbot.ErrChatbotNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chatbot not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bot)
}
