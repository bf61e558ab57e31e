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
	Port        string
	DBUrl       string
	FrontendURL string
	// Extra origins allowed by CORS besides FrontendURL. Entries may use a
	// leading wildcard such as https://*.example.com.
	CORSOrigins []string
	LogLevel    string

	// Auth
	JWTSecret  string
	JWKSURL    string
	AuthIssuer string

	// Regions
	APIRegion           string
	SyncRegions         string // EU=dsn;US=dsn
	SyncRegionCountries string // US=US,CA;IN=IN

	// RabbitMQ
	RabbitMQURL           string
	SyncQueueName         string
	SyncWorkerConcurrency int
	SyncWorkerMetricsPort string

	// Redis
	RedisURL         string
	RedisPassword    string
	UploadsPerMinute int
	UploadsPerDay    int

	// Object storage
	StorageBackend    string // s3 or minio
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOBucket       string
	MinIOUseSSL       bool
	MinIORegion       string

	// LLM
	LLMProvider  string
	LLMModel     string
	GeminiAPIKey string
	OpenAIAPIKey string

	ClamAVAddress  string
	ClamAVTimeout  time.Duration
	MetricsEnabled bool
}

func LoadConfig() (*Config, error) {
	// Only effective locally; production injects the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSOrigins: getEnvList("CORS_ORIGINS"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWKSURL:    getEnv("JWKS_URL", ""),
		AuthIssuer: getEnv("AUTH_ISSUER", ""),

		APIRegion:           strings.ToUpper(getEnv("API_REGION", "EU")),
		SyncRegions:         getEnv("SYNC_REGIONS", ""),
		SyncRegionCountries: getEnv("SYNC_REGION_COUNTRIES", ""),

		RabbitMQURL:           getEnv("RABBITMQ_URL", ""),
		SyncQueueName:         getEnv("SYNC_QUEUE_NAME", "syncing-queue"),
		SyncWorkerConcurrency: getEnvInt("SYNC_WORKER_CONCURRENCY", 4),
		SyncWorkerMetricsPort: getEnv("SYNC_WORKER_METRICS_PORT", "9091"),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		UploadsPerMinute: getEnvInt("UPLOADS_PER_MINUTE", 10),
		UploadsPerDay:    getEnvInt("UPLOADS_PER_DAY", 50),

		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", "s3")),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "eu-central-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		MinIOEndpoint:     getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:    getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:    getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:       getEnv("MINIO_BUCKET", ""),
		MinIOUseSSL:       getEnvBool("MINIO_USE_SSL", false),
		MinIORegion:       getEnv("MINIO_REGION", ""),

		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:     getEnv("LLM_MODEL", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		ClamAVAddress:  getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeout:  getEnvDuration("CLAMAV_TIMEOUT", 30*time.Second),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if cfg.JWTSecret == "" && cfg.JWKSURL == "" {
		log.Println("WARNING: neither JWT_SECRET nor JWKS_URL is set. Every token will be rejected.")
	}

	return cfg, nil
}

// AllowedOrigins is FrontendURL followed by CORSOrigins.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, len(c.CORSOrigins)+1)
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return append(origins, c.CORSOrigins...)
}

// LLMAPIKey returns the key of the selected provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(strings.TrimRight(part, "/")); part != "" {
			out = append(out, part)
		}
	}
	return out
}
