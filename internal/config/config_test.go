package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "Valid configuration",
			envVars: map[string]string{
				"PORT":                "8080",
				"APP_ENV":             "development",
				"BASE_URL":            "https://files.example.com",
				"TELEGRAM_BOT_TOKEN":  "123456:secret",
				"TELEGRAM_CHANNEL_ID": "-1001234567890",
				"REGISTRY_PROVIDER":   "postgres",
				"CACHE_MAX_AGE":       "30m",
			},
			want: &Config{
				Port:    8080,
				Env:     "development",
				BaseURL: "https://files.example.com",
				Telegram: TelegramConfig{
					BotToken:  "123456:secret",
					ChannelID: -1001234567890,
					APIURL:    "https://api.telegram.org",
				},
				Registry:    RegistryConfig{Provider: "postgres"},
				CacheMaxAge: 30 * time.Minute,
			},
			wantErr: false,
		},
		{
			name: "Defaults applied",
			envVars: map[string]string{
				"PORT":                "9000",
				"TELEGRAM_BOT_TOKEN":  "123456:secret",
				"TELEGRAM_CHANNEL_ID": "42",
			},
			want: &Config{
				Port:    9000,
				Env:     "production",
				BaseURL: "http://localhost",
				Telegram: TelegramConfig{
					BotToken:  "123456:secret",
					ChannelID: 42,
					APIURL:    "https://api.telegram.org",
				},
				Registry:    RegistryConfig{Provider: "postgres"},
				CacheMaxAge: time.Hour,
			},
			wantErr: false,
		},
		{
			name: "Missing PORT",
			envVars: map[string]string{
				"TELEGRAM_BOT_TOKEN":  "123456:secret",
				"TELEGRAM_CHANNEL_ID": "42",
			},
			want:    nil,
			wantErr: true,
		},
		{
			name: "Missing bot token",
			envVars: map[string]string{
				"PORT":                "8080",
				"TELEGRAM_CHANNEL_ID": "42",
			},
			want:    nil,
			wantErr: true,
		},
		{
			name: "Invalid channel id",
			envVars: map[string]string{
				"PORT":                "8080",
				"TELEGRAM_BOT_TOKEN":  "123456:secret",
				"TELEGRAM_CHANNEL_ID": "not-a-number",
			},
			want:    nil,
			wantErr: true,
		},
		{
			name: "Redis registry without address",
			envVars: map[string]string{
				"PORT":                "8080",
				"TELEGRAM_BOT_TOKEN":  "123456:secret",
				"TELEGRAM_CHANNEL_ID": "42",
				"REGISTRY_PROVIDER":   "redis",
			},
			want:    nil,
			wantErr: true,
		},
		{
			name: "Redis registry with address",
			envVars: map[string]string{
				"PORT":                "8080",
				"TELEGRAM_BOT_TOKEN":  "123456:secret",
				"TELEGRAM_CHANNEL_ID": "42",
				"REGISTRY_PROVIDER":   "redis",
				"REDIS_ADDR":          "localhost:6379",
			},
			want: &Config{
				Port:    8080,
				Env:     "production",
				BaseURL: "http://localhost",
				Telegram: TelegramConfig{
					BotToken:  "123456:secret",
					ChannelID: 42,
					APIURL:    "https://api.telegram.org",
				},
				Registry: RegistryConfig{
					Provider:  "redis",
					RedisAddr: "localhost:6379",
				},
				CacheMaxAge: time.Hour,
			},
			wantErr: false,
		},
		{
			name: "Unsupported registry provider",
			envVars: map[string]string{
				"PORT":                "8080",
				"TELEGRAM_BOT_TOKEN":  "123456:secret",
				"TELEGRAM_CHANNEL_ID": "42",
				"REGISTRY_PROVIDER":   "dynamo",
			},
			want:    nil,
			wantErr: true,
		},
		{
			name: "Invalid CACHE_MAX_AGE",
			envVars: map[string]string{
				"PORT":                "8080",
				"TELEGRAM_BOT_TOKEN":  "123456:secret",
				"TELEGRAM_CHANNEL_ID": "42",
				"CACHE_MAX_AGE":       "soon",
			},
			want:    nil,
			wantErr: true,
		},
	}

	envKeys := []string{
		"PORT", "APP_ENV", "BASE_URL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHANNEL_ID", "TELEGRAM_API_URL",
		"REGISTRY_PROVIDER", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"CACHE_MAX_AGE",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envKeys {
				os.Unsetenv(key)
			}
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}
			defer func() {
				for _, key := range envKeys {
					os.Unsetenv(key)
				}
			}()

			got, err := NewConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("NewConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
