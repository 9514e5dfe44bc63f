package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port               string
	Env                string
	CORSAllowedOrigins []string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT; JWTExpirationDur is the access token lifetime
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Snapshot cache; empty RedisURL keeps it in process
	RedisURL         string
	SnapshotCacheTTL time.Duration

	// Expense events; empty AMQPURL disables publishing
	AMQPURL      string
	AMQPExchange string

	// Export
	CurrencySymbol         string
	CurrencyFallbackSymbol string
	ExportLocale           string
	PDFFontURL             string
	ExportTimeout          time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "buildcost"),
		DBPassword: getEnv("DB_PASSWORD", "buildcost"),
		DBName:     getEnv("DB_NAME", "buildcost"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		RedisURL: getEnv("REDIS_URL", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "buildcost.expenses"),

		CurrencySymbol:         getEnv("CURRENCY_SYMBOL", "₹"),
		CurrencyFallbackSymbol: getEnv("CURRENCY_FALLBACK_SYMBOL", "Rs."),
		ExportLocale:           getEnv("EXPORT_LOCALE", "en-IN"),
		PDFFontURL:             getEnv("PDF_FONT_URL", ""),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 15*time.Minute)
	config.SnapshotCacheTTL = getDuration("SNAPSHOT_CACHE_TTL", 5*time.Minute)
	config.ExportTimeout = getDuration("EXPORT_TIMEOUT", 30*time.Second)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
