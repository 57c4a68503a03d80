package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database (remote data gateway)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret      string
	JWTTokenExpiry time.Duration

	// Generative endpoint
	GeminiAPIKey string
	GeminiAPIURL string
	GeminiModel  string
	AITimeout    time.Duration

	// Weather endpoint
	WeatherAPIKey   string
	WeatherAPIURL   string
	WeatherCacheTTL time.Duration

	// Redis (weather cache, notification outbox)
	RedisURL string

	// MongoDB (chat transcripts)
	MongoURI string
	MongoDB  string

	// Cloudinary (forum photos, avatars)
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	// Reminders and workspaces
	ReminderPollInterval time.Duration
	ReminderTolerance    time.Duration
	NotificationLifetime time.Duration
	WorkspaceIdleTTL     time.Duration

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port         string
	CORSOrigins  string
	RateLimitMax int
	SentryDSN    string
	Environment  string
	SupportEmail string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "adoptd"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTokenExpiry: parseDuration(getEnv("JWT_TOKEN_EXPIRY", "24h"), 24*time.Hour),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		AITimeout:    parseDuration(getEnv("AI_TIMEOUT", "60s"), time.Minute),

		WeatherAPIKey:   getEnv("WEATHER_API_KEY", ""),
		WeatherAPIURL:   getEnv("WEATHER_API_URL", "https://api.weatherapi.com/v1"),
		WeatherCacheTTL: parseDuration(getEnv("WEATHER_CACHE_TTL", "10m"), 10*time.Minute),

		RedisURL: getEnv("REDIS_URL", ""),

		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "adoptd"),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "adoptd"),

		ReminderPollInterval: parseDuration(getEnv("REMINDER_POLL_INTERVAL", "30s"), 30*time.Second),
		ReminderTolerance:    parseDuration(getEnv("REMINDER_TOLERANCE", "60s"), time.Minute),
		NotificationLifetime: parseDuration(getEnv("NOTIFICATION_LIFETIME", "5m"), 5*time.Minute),
		WorkspaceIdleTTL:     parseDuration(getEnv("WORKSPACE_IDLE_TTL", "30m"), 30*time.Minute),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:         getEnv("PORT", "8080"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		RateLimitMax: parseInt(getEnv("RATE_LIMIT_MAX", "60"), 60),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		Environment:  getEnv("APP_ENV", "development"),
		SupportEmail: getEnv("SUPPORT_EMAIL", "support@adoptd.app"),
	}
}

// ErrShortLifetime means a due reminder could expire before the next poll
// re-announces it.
var ErrShortLifetime = errors.New("NOTIFICATION_LIFETIME must be at least twice REMINDER_TOLERANCE")

// Validate reports the first missing secret or inconsistent timing. The
// server refuses to start without a generative endpoint key.
func (c *Config) Validate() error {
	switch {
	case c.GeminiAPIKey == "":
		return &MissingError{Key: "GEMINI_API_KEY"}
	case c.JWTSecret == "":
		return &MissingError{Key: "JWT_SECRET"}
	case c.DBPassword == "":
		return &MissingError{Key: "DB_PASSWORD"}
	case c.NotificationLifetime < 2*c.ReminderTolerance:
		return fmt.Errorf("%w: got %s and %s", ErrShortLifetime, c.NotificationLifetime, c.ReminderTolerance)
	}
	return nil
}

// CloudinaryEnabled reports whether file storage credentials are present.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return e.Key + " environment variable is required"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
