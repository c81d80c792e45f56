package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Notification backend selectors.
const (
	NotificationsLocal   = "local"
	NotificationsNudging = "nudging"
)

type Config struct {
	Port string

	// DB
	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string

	// Auth: the reverse-proxy forwards an already-validated JWT in this header.
	AuthHeaderName string

	// Policy
	PolicyVersion string

	// Web push
	VapidPublicKey string

	// CORS
	AllowedOrigins []string

	// Upstreams. Empty URLs degrade the dependent feature, never the process.
	NotificationsBackend string
	DigitalTwinAPIURL    string
	NudgingAPIURL        string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnv("DB_USER", "postgres"),
		DBPass:    getEnv("DB_PASS", "postgres"),
		DBName:    getEnv("DB_NAME", "rec_webapp"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		AuthHeaderName: getEnv("AUTH_HEADER_NAME", "x-auth-request-access-token"),

		PolicyVersion: getEnv("POLICY_VERSION", "2024-01-01"),

		VapidPublicKey: getEnv("VAPID_PUBLIC_KEY", ""),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),

		NotificationsBackend: getEnv("NOTIFICATIONS_BACKEND", NotificationsLocal),
		DigitalTwinAPIURL:    getEnv("DIGITAL_TWIN_API_URL", ""),
		NudgingAPIURL:        getEnv("NUDGING_API_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
