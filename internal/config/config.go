package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port            string
	DBConn          string
	DBSchema        string
	LogLevel        string
	InsertBatchSize int

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	StartingCashBalance decimal.Decimal
	WeeklyRevenue       decimal.Decimal
	BankAccountID       string
	Currency            string
	ForecastWeeks       int
	LookbackWeeks       int

	ForecastCron string
	ReminderCron string
	ReminderDays int

	RateFeedURL  string
	RateFeedPath string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	AlertEmail   string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBConn:        getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=finance sslmode=disable"),
		DBSchema:      getEnv("DB_SCHEMA", "revrec"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		BankAccountID: getEnv("BANK_ACCOUNT_ID", "operating"),
		Currency:      getEnv("CURRENCY", "USD"),
		ForecastCron:  getEnv("FORECAST_CRON", "0 6 * * 1"),
		ReminderCron:  getEnv("REMINDER_CRON", "0 8 * * *"),
		RateFeedURL:   getEnv("RATE_FEED_URL", ""),
		RateFeedPath:  getEnv("RATE_FEED_PATH", "//Rates/Rate"),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnv("SMTP_PORT", "1025"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", "treasury@localhost"),
		AlertEmail:    getEnv("ALERT_EMAIL", ""),
	}

	var err error
	if cfg.StartingCashBalance, err = decimal.NewFromString(getEnv("STARTING_CASH_BALANCE", "0")); err != nil {
		return nil, fmt.Errorf("STARTING_CASH_BALANCE must be a decimal: %w", err)
	}
	if cfg.WeeklyRevenue, err = decimal.NewFromString(getEnv("WEEKLY_REVENUE", "0")); err != nil {
		return nil, fmt.Errorf("WEEKLY_REVENUE must be a decimal: %w", err)
	}
	if cfg.ForecastWeeks, err = getEnvInt("FORECAST_WEEKS", 13); err != nil {
		return nil, err
	}
	if cfg.LookbackWeeks, err = getEnvInt("LOOKBACK_WEEKS", 12); err != nil {
		return nil, err
	}
	if cfg.ReminderDays, err = getEnvInt("REMINDER_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.InsertBatchSize, err = getEnvInt("INSERT_BATCH_SIZE", 500); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL must be a duration: %w", err)
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.ForecastWeeks < 0 {
		return nil, fmt.Errorf("FORECAST_WEEKS must not be negative")
	}
	if cfg.LookbackWeeks < 1 {
		return nil, fmt.Errorf("LOOKBACK_WEEKS must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
