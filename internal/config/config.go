package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config содержит все параметры приложения
type Config struct {
	Server struct {
		Port        string
		GinMode     string
		CORSOrigins []string
		FrontendURL string
	}
	Database struct {
		URL string
	}
	Redis struct {
		URL string // пусто = хранилища в памяти
	}
	JWT struct {
		Secret    string
		ExpiresIn time.Duration
	}
	Google struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	Apple struct {
		ClientID    string
		TeamID      string
		KeyID       string
		PrivateKey  string
		RedirectURL string
	}
	S3 struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		PublicURL string
	}
	Telemetry struct {
		OTLPEndpoint string
		ServiceName  string
	}
	RateLimit struct {
		RPS   float64
		Burst int
	}
	LogLevel string
}

// Load читает .env.local, затем .env, затем переменные окружения
func Load() *Config {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			logrus.Info(".env not found, using environment variables")
		}
	}

	cfg := &Config{}

	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Server.GinMode = getEnv("GIN_MODE", "release")
	cfg.Server.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "*"))
	cfg.Server.FrontendURL = strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5000"), "/")

	cfg.Database.URL = getEnv("DATABASE_URL", "")
	cfg.Redis.URL = getEnv("REDIS_URL", "")

	cfg.JWT.Secret = getEnv("JWT_SECRET", "")
	cfg.JWT.ExpiresIn = getDuration("JWT_EXPIRES_IN", 7*24*time.Hour)

	cfg.Google.ClientID = getEnv("GOOGLE_CLIENT_ID", "")
	cfg.Google.ClientSecret = getEnv("GOOGLE_CLIENT_SECRET", "")
	cfg.Google.RedirectURL = getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback")

	cfg.Apple.ClientID = getEnv("APPLE_CLIENT_ID", "")
	cfg.Apple.TeamID = getEnv("APPLE_TEAM_ID", "")
	cfg.Apple.KeyID = getEnv("APPLE_KEY_ID", "")
	cfg.Apple.PrivateKey = strings.ReplaceAll(getEnv("APPLE_PRIVATE_KEY", ""), `\n`, "\n")
	cfg.Apple.RedirectURL = getEnv("APPLE_REDIRECT_URL", "http://localhost:8080/api/auth/apple/callback")

	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", "")
	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", "")
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", "")
	cfg.S3.Bucket = getEnv("S3_BUCKET", "noticeboard")
	cfg.S3.UseSSL = getEnv("S3_USE_SSL", "false") == "true"
	cfg.S3.PublicURL = strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/")

	cfg.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg.Telemetry.ServiceName = getEnv("OTEL_SERVICE_NAME", "noticeboard")

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		logrus.Warnf("invalid RATE_LIMIT_RPS, using 5: %v", err)
		rps = 5
	}
	cfg.RateLimit.RPS = rps
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		logrus.Warnf("invalid RATE_LIMIT_BURST, using 10: %v", err)
		burst = 10
	}
	cfg.RateLimit.Burst = burst

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	return errors.Join(errs...)
}

func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}

func (c *Config) AppleEnabled() bool {
	return c.Apple.ClientID != "" && c.Apple.TeamID != "" && c.Apple.KeyID != "" && c.Apple.PrivateKey != ""
}

func (c *Config) S3Enabled() bool {
	return c.S3.Endpoint != "" && c.S3.AccessKey != "" && c.S3.SecretKey != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	// "7d": формат, привычный фронтенду
	if strings.HasSuffix(raw, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(raw, "d")); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logrus.Warnf("invalid %s, using %s: %v", key, fallback, err)
		return fallback
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
