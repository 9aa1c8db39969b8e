package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string
	OnCallEmail  string
	Domain       string
	DomainTLS    bool

	GatewayWSURL string
	FacilityID   string
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "afyalink-exports"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
		OnCallEmail:  getEnv("ONCALL_EMAIL", ""),
		Domain:       getEnv("DOMAIN", "localhost:5173"),
		DomainTLS:    getBoolEnv("DOMAIN_TLS", true),

		GatewayWSURL: getEnv("GATEWAY_WS_URL", ""),
		FacilityID:   getEnv("FACILITY_ID", ""),
	}

	if cfg.GatewayWSURL == "" {
		cfg.GatewayWSURL = resolveGatewayURL(cfg)
	}

	return cfg
}

// resolveGatewayURL picks the dispatch gateway endpoint when no explicit
// override is set: a fixed local endpoint in development, otherwise the
// deployment domain with a scheme matching its TLS setting.
func resolveGatewayURL(cfg *Config) string {
	if cfg.Environment == "development" {
		return "ws://localhost:8081/ws"
	}
	scheme := "wss"
	if !cfg.DomainTLS {
		scheme = "ws"
	}
	return fmt.Sprintf("%s://%s/ws", scheme, cfg.Domain)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
