package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	AppEnv         string
	Port           string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	ClientURL    string
	FeedbackURL  string
	FeedbackCron string

	FlightAPIBaseURL      string
	FlightAPIClientID     string
	FlightAPIClientSecret string

	MetricsPrefix string
}

// Load reads the environment (plus an optional .env file) into a Config.
// The result is passed down from main; nothing is kept as package state.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	return Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "travelops"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 24, time.Hour),
		AppEnv:         getEnvOrDefault("APP_ENV", "development"),
		Port:           getEnvOrDefault("PORT", "8080"),

		SMTPHost:     getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:     getIntEnv("SMTP_PORT", 587),
		SMTPUser:     getEnvOrDefault("SMTP_USER", ""),
		SMTPPassword: getEnvOrDefault("SMTP_PASSWORD", ""),

		ClientURL:    getEnvOrDefault("CLIENT_URL", "http://localhost:5173"),
		FeedbackURL:  getEnvOrDefault("FEEDBACK_URL", ""),
		FeedbackCron: getEnvOrDefault("FEEDBACK_CRON", "0 9 * * *"),

		FlightAPIBaseURL:      getEnvOrDefault("FLIGHT_API_BASE_URL", ""),
		FlightAPIClientID:     getEnvOrDefault("FLIGHT_API_CLIENT_ID", ""),
		FlightAPIClientSecret: getEnvOrDefault("FLIGHT_API_CLIENT_SECRET", ""),

		MetricsPrefix: getEnvOrDefault("METRICS_PREFIX", "travelops"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
