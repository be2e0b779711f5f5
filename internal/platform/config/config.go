package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the banner CMS server.
type Config struct {
	DBDriver      string
	DBPath        string
	DatabaseURL   string
	ServerPort    int
	LogLevel      string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration

	MediaURL         string
	MediaRoot        string
	ThumbnailBackend string
	ThumbnailPrefix  string
	CloudinaryURL    string

	DefaultLanguage string
	GlimpseVariants []string

	RateLimit RateLimitConfig
}

// RateLimitConfig configures the per-client token bucket applied to HTTP requests.
type RateLimitConfig struct {
	Burst             int
	RequestsPerSecond float64
	ClientTTL         time.Duration
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ThumbnailBackendFileSystem = "filesystem"
	ThumbnailBackendCloudinary = "cloudinary"
)

const (
	defaultDBDriver         = DriverSQLite
	defaultDBPath           = "./data/bannercms.db"
	defaultServerPort       = 8080
	defaultLogLevel         = "info"
	defaultEnvironment      = "development"
	defaultShutdownGrace    = 10 * time.Second
	defaultMediaURL         = "/media/"
	defaultThumbnailBackend = ThumbnailBackendFileSystem
	defaultThumbnailPrefix  = "filer_public_thumbnails"
	defaultLanguage         = "en"
	defaultRateLimitBurst   = 30
	defaultRateLimitRPS     = 10
	defaultRateLimitTTL     = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", defaultDBDriver)),
		DBPath:           getEnv("DB_PATH", defaultDBPath),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		LogLevel:         getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		Environment:      getEnv("ENV", defaultEnvironment),
		ShutdownGrace:    defaultShutdownGrace,
		MediaURL:         normaliseMediaURL(getEnv("MEDIA_URL", defaultMediaURL)),
		MediaRoot:        os.Getenv("MEDIA_ROOT"),
		ThumbnailBackend: strings.ToLower(getEnv("THUMBNAIL_BACKEND", defaultThumbnailBackend)),
		ThumbnailPrefix:  strings.Trim(getEnv("THUMBNAIL_PREFIX", defaultThumbnailPrefix), "/"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		DefaultLanguage:  getEnv("DEFAULT_LANGUAGE", defaultLanguage),
		GlimpseVariants:  splitList(os.Getenv("GLIMPSE_VARIANTS")),
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, eris.New("DATABASE_URL is required when DB_DRIVER is postgres")
		}
	default:
		return nil, eris.Errorf("unsupported DB_DRIVER value: %s", cfg.DBDriver)
	}

	switch cfg.ThumbnailBackend {
	case ThumbnailBackendFileSystem:
	case ThumbnailBackendCloudinary:
		if cfg.CloudinaryURL == "" {
			return nil, eris.New("CLOUDINARY_URL is required when THUMBNAIL_BACKEND is cloudinary")
		}
	default:
		return nil, eris.Errorf("unsupported THUMBNAIL_BACKEND value: %s", cfg.ThumbnailBackend)
	}

	rateLimit, err := loadRateLimit()
	if err != nil {
		return nil, err
	}
	cfg.RateLimit = rateLimit

	return cfg, nil
}

func loadRateLimit() (RateLimitConfig, error) {
	limits := RateLimitConfig{
		Burst:             defaultRateLimitBurst,
		RequestsPerSecond: defaultRateLimitRPS,
		ClientTTL:         defaultRateLimitTTL,
	}

	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst <= 0 {
			return RateLimitConfig{}, eris.Errorf("invalid RATE_LIMIT_BURST value: %s", raw)
		}
		limits.Burst = burst
	}

	if raw := os.Getenv("RATE_LIMIT_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return RateLimitConfig{}, eris.Errorf("invalid RATE_LIMIT_RPS value: %s", raw)
		}
		limits.RequestsPerSecond = rps
	}

	if raw := os.Getenv("RATE_LIMIT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return RateLimitConfig{}, eris.Errorf("invalid RATE_LIMIT_TTL value: %s", raw)
		}
		limits.ClientTTL = ttl
	}

	return limits, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func normaliseMediaURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	return trimmed
}

// splitList accepts a comma separated list and drops blank entries.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
