// Package config provides configuration management for the bot.
// It loads environment variables (and an optional .env file) into a typed Config.
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Telegram
	BotToken    string  `env:"BOT_TOKEN,required"`
	AdminIDs    []int64 `env:"ADMIN_IDS" envSeparator:","`
	SupportLink string  `env:"SUPPORT_LINK" envDefault:""`

	// Paging
	EpisodesPerPage      int `env:"EPISODES_PER_PAGE" envDefault:"5"`
	SearchResultsPerPage int `env:"SEARCH_RESULTS_PER_PAGE" envDefault:"5"`

	// VIP
	VipCardNumber string `env:"VIP_CARD_NUMBER" envDefault:"8600 0000 0000 0000"`
	VipCardName   string `env:"VIP_CARD_NAME" envDefault:""`

	// Relational store
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"anime_bot.db"`

	// Conversation state
	StateBackend    string        `env:"STATE_BACKEND" envDefault:"memory"`
	ConversationTTL time.Duration `env:"CONVERSATION_TTL" envDefault:"30m"`
	WizardPolicy    string        `env:"WIZARD_POLICY" envDefault:"replace"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// MongoDB
	MongoDBURL string `env:"MONGODB_URL" envDefault:"mongodb://localhost:27017"`
	DBName     string `env:"DB_NAME" envDefault:"AnimeBot"`

	// MQTT
	MQTTEnabled  bool   `env:"MQTT_ENABLED" envDefault:"false"`
	MQTTHost     string `env:"MQTT_HOST" envDefault:"localhost"`
	MQTTPort     string `env:"MQTT_PORT" envDefault:"1883"`
	MQTTUser     string `env:"MQTT_USER" envDefault:""`
	MQTTPassword string `env:"MQTT_PASSWORD" envDefault:""`

	// Web Server
	Port string `env:"PORT" envDefault:"3000"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`

	// Webhooks
	ErrorWebhook string `env:"ERROR_WEBHOOK" envDefault:""`
	LogsWebhook  string `env:"LOGS_WEBHOOK" envDefault:""`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"debug"`

	// Anti-flood
	ThrottleRate time.Duration `env:"THROTTLE_RATE" envDefault:"500ms"`
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
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

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	c := &Config{}
	if err := env.Parse(c); err != nil {
		cfgErr = fmt.Errorf("config: %w", err)
		cfg = c
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

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsOwner reports whether id is one of the configured owner admins.
func (c *Config) IsOwner(id int64) bool {
	for _, owner := range c.AdminIDs {
		if owner == id {
			return true
		}
	}
	return false
}
