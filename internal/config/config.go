package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort  string
	LogLevel string

	WorkbookPath string
	DataSheet    string
	CredSheet    string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryBaseURL   string

	SessionSecret   string
	SessionTTLHours int

	CacheTTLSeconds    int
	LoginRatePerMinute int
	MaxConns           int

	UpstreamTimeoutSeconds int

	AuditDSN string

	NATSURL     string
	NATSSubject string

	ChoicesPath string
}

func Load() Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		WorkbookPath: mustEnv("WORKBOOK_PATH", "./data/registry.xlsx"),
		DataSheet:    mustEnv("DATA_SHEET", ""),
		CredSheet:    mustEnv("CRED_SHEET", "cred"),

		CloudinaryCloudName: mustEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    mustEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: mustEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryBaseURL:   mustEnv("CLOUDINARY_BASE_URL", ""),

		SessionSecret:   mustEnv("SESSION_SECRET", ""),
		SessionTTLHours: mustEnvInt("SESSION_TTL_HOURS", 24),

		CacheTTLSeconds:    mustEnvInt("CACHE_TTL_SECONDS", 300),
		LoginRatePerMinute: mustEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		MaxConns:           mustEnvInt("MAX_CONNS", 256),

		UpstreamTimeoutSeconds: mustEnvInt("UPSTREAM_TIMEOUT_SECONDS", 30),

		AuditDSN: mustEnv("AUDIT_DSN", ""),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "records.changed"),

		ChoicesPath: mustEnv("CHOICES_PATH", ""),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
