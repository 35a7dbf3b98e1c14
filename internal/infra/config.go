package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"fielbet"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"fielbet"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"fielbet"`

	// Redis
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// JWT
	JWTSecret       string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTPlayerExpiry time.Duration `env:"JWT_PLAYER_EXPIRY" envDefault:"24h"`
	JWTAdminExpiry  time.Duration `env:"JWT_ADMIN_EXPIRY" envDefault:"8h"`

	// Server ports
	APIPort     int `env:"API_PORT" envDefault:"3100"`
	MetricsPort int `env:"METRICS_PORT" envDefault:"9091"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`

	// Scheduler
	SettlementInterval time.Duration `env:"SETTLEMENT_INTERVAL" envDefault:"5m"`
	MvpInterval        time.Duration `env:"MVP_INTERVAL" envDefault:"1m"`
	NoticeInterval     time.Duration `env:"NOTICE_INTERVAL" envDefault:"2m"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`

	// External services
	SiteBaseURL           string `env:"SITE_BASE_URL" envDefault:"https://fielbet.app"`
	FootballAPIKey        string `env:"FOOTBALL_API_KEY"`
	DiscordBotToken       string `env:"DISCORD_BOT_TOKEN"`
	DiscordGuildID        string `env:"DISCORD_GUILD_ID"`
	DiscordAnnounceChanID string `env:"DISCORD_ANNOUNCE_CHANNEL_ID"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure configuration that must not run in production.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass (local dev only).
func (c *Config) Validate() error {
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	if c.FootballAPIKey == "" {
		return fmt.Errorf("FOOTBALL_API_KEY is required; settlement cannot fetch results without it")
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
