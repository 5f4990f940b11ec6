package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/waroutehq/waroute/internal/conversation"
	"github.com/waroutehq/waroute/internal/tenant"
)

// TenantDirectory reads tenant records for the ops surface.
// Used by TenantHandler.
type TenantDirectory interface {
	List(ctx context.Context) ([]tenant.Tenant, error)
	Get(ctx context.Context, tenantID string) (tenant.Tenant, error)
}

// MessageReader reads stored conversation turns for the ops surface.
// Used by TenantHandler.
type MessageReader interface {
	RecentByChatbot(ctx context.Context, chatbotID string, limit int) ([]conversation.Message, error)
}

// TenantHandler serves the ops view of tenant routing state.
type TenantHandler struct {
	tenants  TenantDirectory
	messages MessageReader
	logger   *slog.Logger
}

// NewTenantHandler creates a TenantHandler.
func NewTenantHandler(log *slog.Logger, tenants TenantDirectory, messages MessageReader) *TenantHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TenantHandler{
		tenants:  tenants,
		messages: messages,
		logger:   log.With(slog.String("handler", "tenants")),
	}
}

// Register registers the tenant ops routes.
func (h *TenantHandler) Register(e *echo.Echo) {
	e.GET("/tenants", h.ListTenants)
	e.GET("/tenants/:id/messages", h.ListTenantMessages)
}

// ListTenants godoc
// @Summary List tenants
// @Description List registered WhatsApp tenants with credentials redacted
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tenant.ListTenantsResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenants [get]
func (h *TenantHandler) ListTenants(c echo.Context) error {
	items, err := h.tenants.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tenant.ListTenantsResponse{Items: items})
}

// ListTenantMessages godoc
// @Summary List recent tenant messages
// @Description List the most recent stored conversation turns for a tenant's chatbot
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Param limit query int false "Limit"
// @Success 200 {object} conversation.ListMessagesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tenants/{id}/messages [get]
func (h *TenantHandler) ListTenantMessages(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}
	tn, err := h.tenants.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, tenant.ErrNoTenant) {
			return echo.NewHTTPError(http.StatusNotFound, "tenant not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	limit := 50
	if s := strings.TrimSpace(c.QueryParam("limit")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	items, err := h.messages.RecentByChatbot(c.Request().Context(), tn.ChatbotID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, conversation.ListMessagesResponse{Items: items})
}
