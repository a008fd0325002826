// Package config provides configuration management for the bot.
// Values come from the process environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string `env:"TOKEN"`
	ClientID   string `env:"CLIENT_ID"`
	DevGuildID string `env:"GUILD_ID"`

	// MongoDB (optional, moderation audit trail)
	MongoDBURL string `env:"MONGODB_URL"`
	DBName     string `env:"DB_NAME" envDefault:"sentrybot"`

	// MQTT (optional)
	MQTTHost     string `env:"MQTT_HOST"`
	MQTTPort     string `env:"MQTT_PORT" envDefault:"1883"`
	MQTTUser     string `env:"MQTT_USER"`
	MQTTPassword string `env:"MQTT_PASSWORD"`

	// Web Server
	Port         string  `env:"PORT" envDefault:"3000"`
	APIToken     string  `env:"API_TOKEN"`
	APIRateLimit float64 `env:"API_RATE_LIMIT" envDefault:"5"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogDir      string `env:"LOG_DIR" envDefault:"logs"`

	// Webhooks
	ErrorWebhook string `env:"ERROR_WEBHOOK"`
	LogsWebhook  string `env:"LOGS_WEBHOOK"`

	// Lavalink
	LavalinkHost      string `env:"LAVALINK_HOST"`
	LavalinkPort      int    `env:"LAVALINK_PORT" envDefault:"2333"`
	LavalinkPassword  string `env:"LAVALINK_PASSWORD" envDefault:"youshallnotpass"`
	LavalinkSecure    bool   `env:"LAVALINK_SECURE" envDefault:"false"`
	SearchPrefix      string `env:"SEARCH_PREFIX" envDefault:"ytsearch"`
	PlayerIdleMinutes int    `env:"PLAYER_IDLE_MINUTES" envDefault:"10"`

	// Moderation
	ModLogChannel string `env:"MOD_LOG_CHANNEL" envDefault:"mod-logs"`
}

var (
	Version   = "Dev-Local"
	BuildTime = "unknown"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgErr = nil
	cfgOnce = sync.Once{}
}

func loadConfig() {
	// A missing .env is fine, the process environment may already be populated.
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	c := &Config{}
	if err := env.Parse(c); err != nil {
		cfgErr = fmt.Errorf("parse environment: %w", err)
		cfg = &Config{}
		return
	}
	cfg = c
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Get returns the current configuration
func Get() *Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate reports the variables the bot cannot start without.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("missing required environment variable: TOKEN")
	}
	if c.PlayerIdleMinutes <= 0 {
		return fmt.Errorf("PLAYER_IDLE_MINUTES must be positive, got %d", c.PlayerIdleMinutes)
	}
	return nil
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// MongoEnabled reports whether an audit trail database was configured.
func (c *Config) MongoEnabled() bool { return c.MongoDBURL != "" }

// MQTTEnabled reports whether a broker was configured.
func (c *Config) MQTTEnabled() bool { return c.MQTTHost != "" }

// LavalinkEnabled reports whether a Lavalink node was configured.
func (c *Config) LavalinkEnabled() bool { return c.LavalinkHost != "" }
