package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	_ "github.com/waroutehq/waroute/docs"
	"github.com/waroutehq/waroute/internal/chatbot"
	"github.com/waroutehq/waroute/internal/config"
	"github.com/waroutehq/waroute/internal/conversation"
	"github.com/waroutehq/waroute/internal/db"
	"github.com/waroutehq/waroute/internal/db/sqlc"
	"github.com/waroutehq/waroute/internal/gateway"
	"github.com/waroutehq/waroute/internal/handlers"
	gatewaychecker "github.com/waroutehq/waroute/internal/healthcheck/checkers/gateway"
	postgreschecker "github.com/waroutehq/waroute/internal/healthcheck/checkers/postgres"
	"github.com/waroutehq/waroute/internal/logger"
	"github.com/waroutehq/waroute/internal/metrics"
	"github.com/waroutehq/waroute/internal/retention"
	"github.com/waroutehq/waroute/internal/server"
	"github.com/waroutehq/waroute/internal/tenant"
	"github.com/waroutehq/waroute/internal/version"
	"github.com/waroutehq/waroute/internal/webhook"
	"github.com/waroutehq/waroute/internal/whatsapp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook routing service",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideMetrics,
			provideDBConn,
			provideDBQueries,
			provideTenantService,
			provideChatbotService,
			provideConversationService,
			provideGatewayClient,
			provideSender,
			provideProcessor,
			provideSweeper,
			provideServerHandler(provideWebhookHandler),
			provideServerHandler(provideHealthHandler),
			provideServerHandler(provideTenantHandler),
			provideServerHandler(provideChatbotHandler),
			provideServerHandler(provideMetricsHandler),
			provideServerHandler(handlers.NewSwaggerHandler),
			provideServer,
		),
		fx.Invoke(
			startRetention,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	return loadConfig()
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideMetrics(cfg config.Config) *metrics.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New(cfg.Metrics)
}

// provideDBConn opens the Postgres pool. When the database is unreachable and
// a fallback tenant is configured the pool stays nil and the service serves
// that one tenant from environment credentials.
func provideDBConn(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) (*pgxpool.Pool, error) {
	pool, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		if cfg.WhatsApp.Fallback.Configured() {
			log.Warn("database unavailable, serving fallback tenant only", slog.Any("error", err))
			return nil, nil
		}
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { pool.Close(); return nil }})
	return pool, nil
}

func provideDBQueries(pool *pgxpool.Pool) *sqlc.Queries {
	if pool == nil {
		return nil
	}
	return sqlc.New(pool)
}

func provideTenantService(log *slog.Logger, queries *sqlc.Queries, cfg config.Config) *tenant.Service {
	return tenant.NewService(log, queries, cfg.WhatsApp)
}

func provideChatbotService(log *slog.Logger, queries *sqlc.Queries) *chatbot.Service {
	return chatbot.NewService(log, queries)
}

func provideConversationService(log *slog.Logger, queries *sqlc.Queries) *conversation.Service {
	return conversation.NewService(log, queries)
}

func provideGatewayClient(log *slog.Logger, cfg config.Config) *gateway.Client {
	return gateway.NewClient(log, cfg.Gateway)
}

func provideSender(log *slog.Logger, cfg config.Config) *whatsapp.Sender {
	return whatsapp.NewSender(log, cfg.WhatsApp)
}

func provideProcessor(
	log *slog.Logger,
	cfg config.Config,
	tenants *tenant.Service,
	store *conversation.Service,
	gatewayClient *gateway.Client,
	sender *whatsapp.Sender,
	chatbots *chatbot.Service,
	m *metrics.Metrics,
) *webhook.Processor {
	return webhook.NewProcessor(log, tenants, store, gatewayClient, sender, chatbots, m, cfg.Gateway.HistoryLimit)
}

func provideSweeper(log *slog.Logger, cfg config.Config, store *conversation.Service) *retention.Sweeper {
	return retention.NewSweeper(log, cfg.Retention, store)
}

func provideWebhookHandler(
	log *slog.Logger,
	cfg config.Config,
	tenants *tenant.Service,
	processor *webhook.Processor,
	m *metrics.Metrics,
) *handlers.WebhookHandler {
	return handlers.NewWebhookHandler(log, tenants, processor, cfg.WhatsApp.AppSecret, m)
}

func provideHealthHandler(log *slog.Logger, cfg config.Config, pool *pgxpool.Pool) *handlers.HealthHandler {
	return handlers.NewHealthHandler(log,
		postgreschecker.NewChecker(log, pool),
		gatewaychecker.NewChecker(log, cfg.Gateway),
	)
}

func provideTenantHandler(log *slog.Logger, tenants *tenant.Service, store *conversation.Service) *handlers.TenantHandler {
	return handlers.NewTenantHandler(log, tenants, store)
}

func provideChatbotHandler(log *slog.Logger, chatbots *chatbot.Service) *handlers.ChatbotHandler {
	return handlers.NewChatbotHandler(log, chatbots)
}

func provideMetricsHandler(m *metrics.Metrics) *handlers.MetricsHandler {
	return handlers.NewMetricsHandler(m)
}

type serverParams struct {
	fx.In
	Logger         *slog.Logger
	Config         config.Config
	Metrics        *metrics.Metrics
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(
		params.Logger,
		params.Config.Server.Addr,
		params.Config.Auth.JWTSecret,
		params.Metrics,
		params.ServerHandlers...,
	)
}

func startRetention(lc fx.Lifecycle, sweeper *retention.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return sweeper.Start() },
		OnStop:  func(ctx context.Context) error { return sweeper.Stop(ctx) },
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting waroute %s\n", version.GetInfo())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
