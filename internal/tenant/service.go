package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/waroutehq/waroute/internal/config"
	"github.com/waroutehq/waroute/internal/db"
	"github.com/waroutehq/waroute/internal/db/sqlc"
)

// ErrNoTenant indicates no active tenant matched the lookup.
var ErrNoTenant = errors.New("no matching tenant")

// Service resolves inbound traffic to tenant records. Tenant rows are
// provisioned out of band; this service only reads them.
type Service struct {
	queries     *sqlc.Queries
	verifyToken string
	fallback    config.FallbackTenantConfig
	logger      *slog.Logger
}

// NewService creates a tenant service. queries may be nil when the process
// runs without a database; resolution then relies solely on the configured
// fallback tenant and verify token.
func NewService(log *slog.Logger, queries *sqlc.Queries, cfg config.WhatsAppConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries:     queries,
		verifyToken: strings.TrimSpace(cfg.VerifyToken),
		fallback:    cfg.Fallback,
		logger:      log.With(slog.String("service", "tenant")),
	}
}

// ResolveByPhoneNumberID returns every active tenant whose routing key
// matches phoneNumberID, oldest first. An empty result is not an error; the
// caller logs and skips the event. When the database is unreachable and a
// fallback tenant is configured, exactly that one tenant is synthesized.
func (s *Service) ResolveByPhoneNumberID(ctx context.Context, phoneNumberID string) ([]Tenant, error) {
	if s.queries == nil {
		if s.fallback.Configured() {
			return []Tenant{s.fallbackTenant()}, nil
		}
		return nil, fmt.Errorf("tenant queries not configured")
	}
	rows, err := s.queries.ListActiveTenantsByPhoneNumberID(ctx, phoneNumberID)
	if err != nil {
		if s.fallback.Configured() {
			s.logger.Warn("tenant lookup failed, using fallback tenant",
				slog.String("phone_number_id", phoneNumberID),
				slog.Any("error", err))
			return []Tenant{s.fallbackTenant()}, nil
		}
		return nil, fmt.Errorf("list tenants by phone number id: %w", err)
	}
	tenants := make([]Tenant, 0, len(rows))
	for _, row := range rows {
		tenants = append(tenants, toTenant(row))
	}
	return tenants, nil
}

// ResolveByVerifyToken returns the active tenant registered with token. A
// database with no matching row fails with ErrNoTenant; only when the
// database itself is unreachable does the statically configured verify token
// stand in for a single implicit tenant.
func (s *Service) ResolveByVerifyToken(ctx context.Context, token string) (Tenant, error) {
	if token == "" {
		return Tenant{}, ErrNoTenant
	}
	if s.queries == nil {
		return s.staticTokenTenant(token)
	}
	row, err := s.queries.GetActiveTenantByVerifyToken(ctx, pgtype.Text{String: token, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tenant{}, ErrNoTenant
		}
		s.logger.Warn("verify token lookup failed, checking configured token", slog.Any("error", err))
		return s.staticTokenTenant(token)
	}
	return toTenant(row), nil
}

// Get returns a tenant by row ID.
func (s *Service) Get(ctx context.Context, tenantID string) (Tenant, error) {
	if s.queries == nil {
		return Tenant{}, fmt.Errorf("tenant queries not configured")
	}
	id, err := db.ParseUUID(tenantID)
	if err != nil {
		return Tenant{}, err
	}
	row, err := s.queries.GetTenantByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tenant{}, ErrNoTenant
		}
		return Tenant{}, err
	}
	return toTenant(row), nil
}

// List returns every tenant regardless of status, oldest first.
func (s *Service) List(ctx context.Context) ([]Tenant, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("tenant queries not configured")
	}
	rows, err := s.queries.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	tenants := make([]Tenant, 0, len(rows))
	for _, row := range rows {
		tenants = append(tenants, toTenant(row))
	}
	return tenants, nil
}

func (s *Service) staticTokenTenant(token string) (Tenant, error) {
	if s.verifyToken == "" || token != s.verifyToken {
		return Tenant{}, ErrNoTenant
	}
	return s.fallbackTenant(), nil
}

func (s *Service) fallbackTenant() Tenant {
	return Tenant{
		ChatbotID:         s.fallback.ChatbotID,
		PhoneNumberID:     s.fallback.PhoneNumberID,
		PhoneNumber:       s.fallback.PhoneNumber,
		VerifyToken:       s.verifyToken,
		AccessToken:       s.fallback.AccessToken,
		BusinessAccountID: s.fallback.BusinessAccountID,
		Status:            StatusActive,
		Fallback:          true,
	}
}

func toTenant(row sqlc.WhatsappTenant) Tenant {
	t := Tenant{
		ID:                row.ID.String(),
		ChatbotID:         row.ChatbotID.String(),
		PhoneNumberID:     row.PhoneNumberID,
		PhoneNumber:       db.TextToString(row.PhoneNumber),
		VerifyToken:       db.TextToString(row.VerifyToken),
		AccessToken:       row.AccessToken,
		BusinessAccountID: db.TextToString(row.BusinessAccountID),
		Status:            row.Status,
	}
	if row.CreatedAt.Valid {
		t.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		t.UpdatedAt = row.UpdatedAt.Time
	}
	return t
}
