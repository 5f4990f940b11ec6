package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultConfigPath        = "config.toml"
	DefaultHTTPAddr          = ":8080"
	DefaultJWTExpiresIn      = "24h"
	DefaultPGHost            = "127.0.0.1"
	DefaultPGPort            = 5432
	DefaultPGUser            = "postgres"
	DefaultPGDatabase        = "waroute"
	DefaultPGSSLMode         = "disable"
	DefaultGraphBaseURL      = "https://graph.facebook.com"
	DefaultGraphAPIVersion   = "v20.0"
	DefaultGatewayTimeout    = 30
	DefaultSendTimeout       = 30
	DefaultHistoryLimit      = 10
	DefaultMetricsPrefix     = "waroute"
	DefaultRetentionSchedule = "0 3 * * *"
)

type Config struct {
	Log       LogConfig       `toml:"log" validate:"required"`
	Server    ServerConfig    `toml:"server" validate:"required"`
	Auth      AuthConfig      `toml:"auth"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Gateway   GatewayConfig   `toml:"gateway" validate:"required"`
	WhatsApp  WhatsAppConfig  `toml:"whatsapp" validate:"required"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Retention RetentionConfig `toml:"retention"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// ExpiresIn parses the configured token lifetime, falling back to 24h on
// empty or malformed values.
func (c AuthConfig) ExpiresIn() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.JWTExpiresIn))
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

type PostgresConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL      string `toml:"url"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
	MaxConns int32  `toml:"max_conns" validate:"gte=0"`
}

type GatewayConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=0"`
	HistoryLimit   int    `toml:"history_limit" validate:"gte=0"`
}

func (c GatewayConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultGatewayTimeout * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type WhatsAppConfig struct {
	GraphBaseURL       string               `toml:"graph_base_url" validate:"required,url"`
	APIVersion         string               `toml:"api_version" validate:"required"`
	SendTimeoutSeconds int                  `toml:"send_timeout_seconds" validate:"gte=0"`
	AppSecret          string               `toml:"app_secret"`
	VerifyToken        string               `toml:"verify_token"`
	Fallback           FallbackTenantConfig `toml:"fallback"`
}

func (c WhatsAppConfig) SendTimeout() time.Duration {
	if c.SendTimeoutSeconds <= 0 {
		return DefaultSendTimeout * time.Second
	}
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

// FallbackTenantConfig describes the single tenant assembled from the
// environment when the database holds no matching row. It only takes effect
// when both PhoneNumberID and AccessToken are non-empty.
type FallbackTenantConfig struct {
	ChatbotID         string `toml:"chatbot_id"`
	PhoneNumberID     string `toml:"phone_number_id"`
	PhoneNumber       string `toml:"phone_number"`
	AccessToken       string `toml:"access_token"`
	BusinessAccountID string `toml:"business_account_id"`
}

func (c FallbackTenantConfig) Configured() bool {
	return strings.TrimSpace(c.PhoneNumberID) != "" && strings.TrimSpace(c.AccessToken) != ""
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Prefix  string `toml:"prefix"`
}

type RetentionConfig struct {
	Enabled    bool   `toml:"enabled"`
	Schedule   string `toml:"schedule"`
	MaxAgeDays int    `toml:"max_age_days" validate:"gte=0"`
}

// MaxAge converts the retention window to a duration. Zero disables
// deletion even when the sweeper is enabled.
func (c RetentionConfig) MaxAge() time.Duration {
	if c.MaxAgeDays <= 0 {
		return 0
	}
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Gateway: GatewayConfig{
			TimeoutSeconds: DefaultGatewayTimeout,
			HistoryLimit:   DefaultHistoryLimit,
		},
		WhatsApp: WhatsAppConfig{
			GraphBaseURL:       DefaultGraphBaseURL,
			APIVersion:         DefaultGraphAPIVersion,
			SendTimeoutSeconds: DefaultSendTimeout,
		},
		Metrics: MetricsConfig{
			Prefix: DefaultMetricsPrefix,
		},
		Retention: RetentionConfig{
			Schedule:   DefaultRetentionSchedule,
			MaxAgeDays: 0,
		},
	}

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv lets environment variables win over file values. The variable
// names follow the deployment convention of the upstream chatbot platform.
func applyEnv(cfg *Config) {
	cfg.WhatsApp.AppSecret = getEnv("FACEBOOK_APP_SECRET", cfg.WhatsApp.AppSecret)
	cfg.WhatsApp.VerifyToken = getEnv("WHATSAPP_VERIFY_TOKEN", cfg.WhatsApp.VerifyToken)
	cfg.Gateway.BaseURL = getEnv("RESPONSE_API_BASE_URL", cfg.Gateway.BaseURL)
	cfg.WhatsApp.Fallback.ChatbotID = getEnv("CHATBOT_ID", cfg.WhatsApp.Fallback.ChatbotID)
	cfg.WhatsApp.Fallback.PhoneNumberID = getEnv("WHATSAPP_PHONE_NUMBER_ID", cfg.WhatsApp.Fallback.PhoneNumberID)
	cfg.WhatsApp.Fallback.AccessToken = getEnv("WHATSAPP_ACCESS_TOKEN", cfg.WhatsApp.Fallback.AccessToken)
	cfg.WhatsApp.Fallback.BusinessAccountID = getEnv("WHATSAPP_BUSINESS_ACCOUNT_ID", cfg.WhatsApp.Fallback.BusinessAccountID)
	cfg.WhatsApp.Fallback.PhoneNumber = getEnv("WHATSAPP_PHONE_NUMBER", cfg.WhatsApp.Fallback.PhoneNumber)
	cfg.Postgres.URL = getEnv("DATABASE_URL", cfg.Postgres.URL)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.Addr = ":" + port
	}
}

func getEnv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
