package app

import (
	"os"
	"strconv"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/sms"
	"github.com/sautiyetu/sauti/pkg/jwtx"
)

const (
	LimiterBackendSQLite = "sqlite"
	LimiterBackendRedis  = "redis"
)

type Config struct {
	Issuer         string        // issuer claim for tokens (default: sauti-auth)
	TOTPIssuer     string        // label shown in authenticator apps (default: Sauti)
	DatabaseFile   string        // path to SQLite database file (default: ./auth.db)
	PepperFile     string        // path to the password pepper (default: ./pepper)
	SigningKeyFile string        // Ed25519 PEM, created on first start (default: ./signing.pem)
	TokenTTL       time.Duration // bearer token lifetime (default: 30 days)
	OTPTTL         time.Duration // OTP lifetime, clamped to 5-10 minutes (default: 10m)

	RateLimitBackend string // sqlite or redis (default: sqlite)
	RedisURL         string // required for the redis backend, optional otherwise

	SMS sms.Config

	BootstrapAdminName     string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapAdminPhone    string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "sauti-auth"),
		TOTPIssuer:     getEnvOrDefault("AUTH_TOTP_ISSUER", "Sauti"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		SigningKeyFile: getEnvOrDefault("AUTH_SIGNING_KEY_FILE", "signing.pem"),
		TokenTTL:       getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		OTPTTL:         getEnvDurationOrDefault("AUTH_OTP_TTL", 10*time.Minute),

		RateLimitBackend: getEnvOrDefault("RATE_LIMIT_BACKEND", LimiterBackendSQLite),
		RedisURL:         os.Getenv("REDIS_URL"),

		SMS: sms.Config{
			Driver:   getEnvOrDefault("SMS_DRIVER", sms.DriverLog),
			APIURL:   getEnvOrDefault("SMS_API_URL", sms.DefaultHostPinnacleURL),
			APIKey:   os.Getenv("SMS_API_KEY"),
			SenderID: getEnvOrDefault("SMS_SENDER_ID", sms.DefaultSenderID),
			Timeout:  getEnvDurationOrDefault("SMS_TIMEOUT", 10*time.Second),
		},

		BootstrapAdminName:     os.Getenv("BOOTSTRAP_ADMIN_NAME"),
		BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		BootstrapAdminPhone:    os.Getenv("BOOTSTRAP_ADMIN_PHONE"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
