package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Paystack PaystackConfig
	Telegram TelegramConfig
	Catalog  CatalogConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Port string
	Env  string
	// AppURL is the public base URL of the app, used to build the
	// payment callback URL.
	AppURL string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	URL string
}

type PaystackConfig struct {
	SecretKey string
	PublicKey string
	BaseURL   string
	Currency  string
}

// Enabled reports whether gateway credentials were provided. When they
// are absent the payment endpoints return an explicit configuration
// error instead of crashing.
func (c PaystackConfig) Enabled() bool { return c.SecretKey != "" }

type TelegramConfig struct {
	BotToken  string
	ChannelID int64
}

func (c TelegramConfig) Enabled() bool { return c.BotToken != "" && c.ChannelID != 0 }

type CatalogConfig struct {
	StorageBaseURL   string
	PlaceholderImage string
	CacheTTL         time.Duration
}

type BookingConfig struct {
	// SettlementMode is "manual" (bookings are recorded paid at
	// creation, settled by an operator elsewhere) or "gateway"
	// (bookings stay pending until the gateway confirms payment).
	SettlementMode string
}

func Load() *Config {
	_ = godotenv.Load()

	cacheTTL, _ := strconv.Atoi(getEnv("CATALOG_CACHE_TTL_SECONDS", "60"))
	channelID := getEnvAsInt64("TELEGRAM_CHANNEL_ID", 0)

	cfg := &Config{
		Server: ServerConfig{
			Port:   getEnv("PORT", "8080"),
			Env:    getEnv("ENV", "development"),
			AppURL: getEnv("APP_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Paystack: PaystackConfig{
			SecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
			PublicKey: os.Getenv("PAYSTACK_PUBLIC_KEY"),
			BaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			Currency:  getEnv("PAYSTACK_CURRENCY", "NGN"),
		},
		Telegram: TelegramConfig{
			BotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChannelID: channelID,
		},
		Catalog: CatalogConfig{
			StorageBaseURL:   os.Getenv("STORAGE_BASE_URL"),
			PlaceholderImage: getEnv("PLACEHOLDER_IMAGE_URL", "/static/img/car-placeholder.png"),
			CacheTTL:         time.Duration(cacheTTL) * time.Second,
		},
		Booking: BookingConfig{
			SettlementMode: getEnv("SETTLEMENT_MODE", "manual"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, settlement=%s", cfg.Server.Env, cfg.Server.Port, cfg.Booking.SettlementMode)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if num, err := strconv.ParseInt(val, 10, 64); err == nil {
			return num
		}
	}
	return defaultVal
}
