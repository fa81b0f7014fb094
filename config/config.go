package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Platform PlatformConfig
	Redis    RedisConfig
	AWS      AWSConfig
	Catalog  CatalogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
	LoginPath          string // where unauthenticated staff requests are pointed
}

// PlatformConfig holds connection settings for the managed data platform:
// its Postgres surface (catalog reads, RPC), its auth service, and the
// public storage URL used to derive cover-image links.
type PlatformConfig struct {
	DatabaseURL      string // postgres://... connection string for the platform pooler
	AuthBaseURL      string // e.g. https://<project>.example.co/auth/v1
	AnonKey          string // public API key sent with auth requests
	JWTSecret        string // shared secret the platform signs access tokens with
	StoragePublicURL string // e.g. https://<project>.example.co/storage/v1/object/public
	CoversBucket     string // bucket holding event cover images
	DBMaxConns       int    // local pool size; the platform pooler sits behind it
	DBConnLifetime   int    // minutes before a pooled connection is recycled
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AWSConfig holds credentials and the staff documents bucket.
type AWSConfig struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	DocumentsBucket      string
	PresignExpireMinutes int
}

// CatalogConfig holds tuning knobs for event/count reads.
type CatalogConfig struct {
	UpcomingLimit   int // default page size for upcoming events
	PastLimit       int // default page size for past events
	CountCacheTTLMs int // registration-count cache TTL; 0 disables caching
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			LoginPath:          getEnv("STAFF_LOGIN_PATH", "/admin/login"),
		},
		Platform: PlatformConfig{
			DatabaseURL:      getEnv("PLATFORM_DATABASE_URL", "postgres://localhost:5432/circle?sslmode=disable"),
			AuthBaseURL:      strings.TrimRight(getEnv("PLATFORM_AUTH_URL", "http://localhost:9999/auth/v1"), "/"),
			AnonKey:          getEnv("PLATFORM_ANON_KEY", ""),
			JWTSecret:        getEnv("PLATFORM_JWT_SECRET", ""),
			StoragePublicURL: strings.TrimRight(getEnv("PLATFORM_STORAGE_PUBLIC_URL", "http://localhost:8000/storage/v1/object/public"), "/"),
			CoversBucket:     getEnv("PLATFORM_COVERS_BUCKET", "event-covers"),
			DBMaxConns:       getEnvInt("PLATFORM_DB_MAX_CONNS", 8),
			DBConnLifetime:   getEnvInt("PLATFORM_DB_CONN_LIFETIME_MIN", 30),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		AWS: AWSConfig{
			Region:               getEnv("AWS_REGION", ""),
			AccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			DocumentsBucket:      getEnv("AWS_S3_DOCUMENTS_BUCKET", "circle-staff-documents"),
			PresignExpireMinutes: getEnvInt("AWS_PRESIGN_EXPIRE_MINUTES", 15),
		},
		Catalog: CatalogConfig{
			UpcomingLimit:   getEnvInt("CATALOG_UPCOMING_LIMIT", 10),
			PastLimit:       getEnvInt("CATALOG_PAST_LIMIT", 24),
			CountCacheTTLMs: getEnvInt("COUNT_CACHE_TTL_MS", 5000),
		},
	}

	if cfg.Platform.JWTSecret == "" {
		return nil, fmt.Errorf("PLATFORM_JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
