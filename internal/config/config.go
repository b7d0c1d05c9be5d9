package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Redis configuration (asynq)
	RedisURL string

	// SMS gateway configuration
	SMSBaseURL string
	SMSAPIKey  string
	SMSSender  string

	// Staff API access
	StaffAPIKey string

	// Callback archival
	CallbackRetentionDays int
}

var AppConfig *Config

func InitConfig() {
	// Load .env file; ignore if it doesn't exist
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../.env")
	}

	AppConfig = &Config{
		Port:                  getEnv("PORT", "8080"),
		Mode:                  getEnv("GIN_MODE", "debug"),
		DBUser:                getEnv("DB_USER", ""),
		DBPassword:            getEnv("DB_PASSWORD", ""),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "3306"),
		DBName:                getEnv("DB_NAME", "contributions"),
		RedisURL:              getEnv("REDIS_URL", "localhost:6379"),
		SMSBaseURL:            getEnv("SMS_BASE_URL", ""),
		SMSAPIKey:             getEnv("SMS_API_KEY", ""),
		SMSSender:             getEnv("SMS_SENDER", "CHURCH"),
		StaffAPIKey:           getEnv("STAFF_API_KEY", ""),
		CallbackRetentionDays: getEnvInt("CALLBACK_RETENTION_DAYS", 90),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
