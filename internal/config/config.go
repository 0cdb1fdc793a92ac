package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram
	BotToken string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Geocoder
	GeocoderURL        string
	GeocoderAPIKey     string
	GeocoderTimeoutSec int
	GeocoderRetries    int

	// Application
	AppEnv   string
	LogLevel string

	// Rate limiting
	RateLimitPerUser int

	// Game
	DefaultVariants int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "geobot"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "geobot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		GeocoderURL:        getEnv("GEOCODER_URL", "https://geocode-maps.yandex.ru/1.x/"),
		GeocoderAPIKey:     getEnv("GEOCODER_API_KEY", ""),
		GeocoderTimeoutSec: getEnvInt("GEOCODER_TIMEOUT_SECONDS", 5),
		GeocoderRetries:    getEnvInt("GEOCODER_RETRIES", 2),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),

		DefaultVariants: getEnvInt("DEFAULT_VARIANTS", 4),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.GeocoderTimeoutSec <= 0 {
		return fmt.Errorf("GEOCODER_TIMEOUT_SECONDS must be positive")
	}
	if c.GeocoderRetries < 0 {
		return fmt.Errorf("GEOCODER_RETRIES must not be negative")
	}
	if c.DefaultVariants < 0 || c.DefaultVariants > 8 || c.DefaultVariants == 1 {
		return fmt.Errorf("DEFAULT_VARIANTS must be 0 or 2-8")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.GeocoderAPIKey == "" {
		return fmt.Errorf("GEOCODER_API_KEY must be set in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetGeocoderTimeout() time.Duration {
	return time.Duration(c.GeocoderTimeoutSec) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
