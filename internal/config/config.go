package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds server configuration
type Config struct {
	Port    int    // Port to listen on
	Env     string // Environment (development | production)
	BaseURL string // Base URL used when generating permanent links

	Telegram TelegramConfig
	Registry RegistryConfig

	CacheMaxAge time.Duration // Cache-Control max-age for served files
}

// TelegramConfig holds the bot credentials and the monitored channel.
type TelegramConfig struct {
	BotToken  string
	ChannelID int64
	APIURL    string
}

// RegistryConfig selects and configures the registry backend.
type RegistryConfig struct {
	// Provider type ("postgres" or "redis")
	Provider string `json:"provider"`

	// Redis config
	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`
}

func (c *Config) Log() {
	log.Info().
		Int("port", c.Port).
		Str("env", c.Env).
		Str("base_url", c.BaseURL).
		Int64("channel_id", c.Telegram.ChannelID).
		Str("registry_provider", c.Registry.Provider).
		Dur("cache_max_age", c.CacheMaxAge).
		Msg("server configuration")
}

// NewConfig creates a server configuration from environment variables
func NewConfig() (*Config, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		log.Error().Err(err).Msg("invalid PORT environment variable")
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "production"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost"
	}

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Error().Msg("TELEGRAM_BOT_TOKEN environment variable is required")
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	channelIDStr := os.Getenv("TELEGRAM_CHANNEL_ID")
	channelID, err := strconv.ParseInt(channelIDStr, 10, 64)
	if err != nil {
		log.Error().Err(err).Msg("invalid TELEGRAM_CHANNEL_ID environment variable")
		return nil, fmt.Errorf("invalid TELEGRAM_CHANNEL_ID: %w", err)
	}

	apiURL := os.Getenv("TELEGRAM_API_URL")
	if apiURL == "" {
		apiURL = "https://api.telegram.org"
	}

	cacheMaxAgeStr := os.Getenv("CACHE_MAX_AGE")
	if cacheMaxAgeStr == "" {
		cacheMaxAgeStr = "1h"
	}
	cacheMaxAge, err := time.ParseDuration(cacheMaxAgeStr)
	if err != nil || cacheMaxAge <= 0 {
		log.Error().Err(err).Msg("invalid CACHE_MAX_AGE environment variable")
		return nil, fmt.Errorf("invalid CACHE_MAX_AGE: %w", err)
	}

	registryProvider := os.Getenv("REGISTRY_PROVIDER")
	if registryProvider == "" {
		registryProvider = "postgres"
	}

	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		redisDB, err = strconv.Atoi(redisDBStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	}

	registryConfig := RegistryConfig{
		Provider:      registryProvider,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
	}

	if err := validateRegistryConfig(registryConfig); err != nil {
		return nil, fmt.Errorf("invalid registry configuration: %w", err)
	}

	return &Config{
		Port:    port,
		Env:     env,
		BaseURL: baseURL,
		Telegram: TelegramConfig{
			BotToken:  botToken,
			ChannelID: channelID,
			APIURL:    apiURL,
		},
		Registry:    registryConfig,
		CacheMaxAge: cacheMaxAge,
	}, nil
}

// validateRegistryConfig ensures the registry configuration is valid
func validateRegistryConfig(cfg RegistryConfig) error {
	switch cfg.Provider {
	case "postgres":
		// Connection details are read by the database package from DB_* variables.
		return nil
	case "redis":
		if cfg.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for redis registry")
		}
		return nil
	default:
		return fmt.Errorf("unsupported registry provider: %s", cfg.Provider)
	}
}
