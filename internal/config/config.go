package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Redis       RedisConfig
	WhatsApp    WhatsAppConfig
	Catalog     CatalogConfig
	Notify      NotifyConfig
	JWT         JWTConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// SessionTTL bounds how long abandoned carts and guest favorites live.
	SessionTTL time.Duration
}

// WhatsAppConfig describes the outbound delivery channel. StorePhone is the
// recipient in international format without "+" (e.g. 51999888777).
type WhatsAppConfig struct {
	StorePhone    string
	BaseURL       string // must stay on the trusted web form, never a native scheme
	FallbackDelay time.Duration
	RedirectDelay time.Duration
}

// CatalogConfig is used to call the destination-catalog service; empty BaseURL
// means destinations are served from the database / hardcoded fallback only.
type CatalogConfig struct {
	BaseURL    string
	ServiceKey string
}

// NotifyConfig is the staff notification gateway for composed order messages.
// Empty BaseURL disables notifications.
type NotifyConfig struct {
	BaseURL string
	Secret  string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

func Load() (*Config, error) {
	// Load .env into the process environment first so the os.Getenv path
	// sees it too; missing file is fine.
	_ = godotenv.Load()

	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "ferrejmg"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:       getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password:   getEnvOrViper("REDIS_PASSWORD", ""),
			DB:         viper.GetInt("REDIS_DB"),
			SessionTTL: getDurationOrViper("SESSION_TTL", 7*24*time.Hour),
		},
		WhatsApp: WhatsAppConfig{
			StorePhone:    strings.TrimSpace(getEnvOrViper("WHATSAPP_STORE_PHONE", "")),
			BaseURL:       getEnvOrViper("WHATSAPP_BASE_URL", "https://wa.me/"),
			FallbackDelay: getDurationOrViper("WHATSAPP_FALLBACK_DELAY", 400*time.Millisecond),
			RedirectDelay: getDurationOrViper("WHATSAPP_REDIRECT_DELAY", 1500*time.Millisecond),
		},
		Catalog: CatalogConfig{
			BaseURL:    strings.TrimSpace(getEnvOrViper("CATALOG_URL", "")),
			ServiceKey: strings.TrimSpace(getEnvOrViper("CATALOG_SERVICE_KEY", "")),
		},
		Notify: NotifyConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("NOTIFY_GATEWAY_URL", "")),
			Secret:  strings.TrimSpace(getEnvOrViper("NOTIFY_GATEWAY_SECRET", "")),
		},
		JWT: JWTConfig{
			Secret: getEnvOrViper("JWT_SECRET", ""),
			Expiry: getDurationOrViper("JWT_EXPIRY", 24*time.Hour),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.WhatsApp.StorePhone == "" {
		return nil, fmt.Errorf("WHATSAPP_STORE_PHONE is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if !strings.HasPrefix(cfg.WhatsApp.BaseURL, "https://wa.me/") {
		return nil, fmt.Errorf("WHATSAPP_BASE_URL must use the trusted https://wa.me/ form")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getDurationOrViper(key string, defaultValue time.Duration) time.Duration {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
