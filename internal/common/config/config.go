package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/common/database"
)

// ListingSource の指定値
const (
	ListingSourceAuto    = "auto"
	ListingSourceLive    = "live"
	ListingSourceFixture = "fixture"
)

type Config struct {
	DB     database.Config
	Server struct {
		Port           string
		RequestTimeout time.Duration
		AllowedOrigins []string
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		CacheTTL time.Duration
	}
	SFN struct {
		BookingStateMachineArn string
	}
	Log struct {
		Level string
		File  string
	}
	ListingSource string
	Local         bool
	EnableTracing bool
}

// LoadConfig は設定を読み込みます
func LoadConfig() (*Config, error) {
	// .envが無い環境(本番)では環境変数のみを使う
	if err := godotenv.Load(); err != nil && os.Getenv("ENV") == "LOCAL" {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		DB: database.Config{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvAsIntOrDefault("DB_PORT", 5432),
			UserName: getEnvOrDefault("DB_USERNAME", "sbcntrapp"),
			Password: getEnvOrDefault("DB_PASSWORD", "password"),
			DBName:   getEnvOrDefault("DB_NAME", "sbcntrstay"),
		},
		ListingSource: strings.ToLower(getEnvOrDefault("LISTING_SOURCE", ListingSourceAuto)),
		Local:         os.Getenv("ENV") == "LOCAL",
		EnableTracing: false,
	}

	cfg.Server.Port = getEnvOrDefault("PORT", "8080")
	cfg.Server.RequestTimeout = getEnvAsDurationOrDefault("REQUEST_TIMEOUT", 10*time.Second)
	cfg.Server.AllowedOrigins = strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"), ",")

	cfg.Auth.JWTSecret = getEnvOrDefault("JWT_SECRET", "your-secret-key")
	cfg.Auth.TokenTTL = getEnvAsDurationOrDefault("JWT_TTL", 7*24*time.Hour)

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = getEnvAsIntOrDefault("REDIS_DB", 0)
	cfg.Redis.CacheTTL = getEnvAsDurationOrDefault("SEARCH_CACHE_TTL", 10*time.Minute)

	cfg.SFN.BookingStateMachineArn = os.Getenv("BOOKING_STATE_MACHINE_ARN")

	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.Log.File = os.Getenv("LOG_FILE")

	switch cfg.ListingSource {
	case ListingSourceAuto, ListingSourceLive, ListingSourceFixture:
	default:
		log.Printf("Unknown LISTING_SOURCE %q, falling back to %q", cfg.ListingSource, ListingSourceAuto)
		cfg.ListingSource = ListingSourceAuto
	}

	// 環境変数[SBCNTR_ENABLE_TRACING]を見てトレースを有効にする。対応しているTracingはAWS_XRAYのみ。
	// 環境変数[AWS_XRAY_SDK_DISABLED]がtrueの場合は必ずトレースを無効にする。
	enableKey := os.Getenv("SBCNTR_ENABLE_TRACING")
	if !sdkDisabled() && (strings.ToLower(enableKey) == "true" || enableKey == "1") {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "FALSE")
		cfg.EnableTracing = true
	} else {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
		cfg.EnableTracing = false
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Printf("Environment variable %s is not set, using default value", key)
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Environment variable %s has invalid duration %q, using default value", key, value)
	}
	return defaultValue
}

// Check if SDK is disabled
func sdkDisabled() bool {
	disableKey := os.Getenv("AWS_XRAY_SDK_DISABLED")
	return strings.ToLower(disableKey) == "true"
}
