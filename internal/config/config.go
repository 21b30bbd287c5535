package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Sweep        SweepConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token and password parameters.
//
// Access and refresh tokens are signed with independent secrets so that a
// leaked key of one family cannot forge tokens of the other.
type AuthConfig struct {
	SecretKeyAccess         string
	SecretKeyRefresh        string
	JWTSigningAlgorithm     string
	AccessTokenTTLMinutes   int
	LoginTimeDays           int
	ActivationTTLHours      int
	PasswordResetTTLMinutes int
	BcryptCost              int
	LoginMaxAttempts        int
	LoginAttemptWindowSec   int
}

// NotificationConfig holds email notification settings.
type NotificationConfig struct {
	EmailFrom      string
	ActivationLink string
	LoginLink      string
	ResetLink      string
}

// SweepConfig controls the expired-token sweeper.
type SweepConfig struct {
	Enabled         bool
	IntervalMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "cinema-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SecretKeyAccess:         getEnv("SECRET_KEY_ACCESS", "dev-access-secret"),
			SecretKeyRefresh:        getEnv("SECRET_KEY_REFRESH", "dev-refresh-secret"),
			JWTSigningAlgorithm:     getEnv("JWT_SIGNING_ALGORITHM", "HS256"),
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 10),
			LoginTimeDays:           getEnvAsInt("LOGIN_TIME_DAYS", 7),
			ActivationTTLHours:      getEnvAsInt("AUTH_ACTIVATION_TTL_HOURS", 24),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 60),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 14),
			LoginMaxAttempts:        getEnvAsInt("AUTH_LOGIN_MAX_ATTEMPTS", 10),
			LoginAttemptWindowSec:   getEnvAsInt("AUTH_LOGIN_ATTEMPT_WINDOW_SECONDS", 300),
		},
		Notification: NotificationConfig{
			EmailFrom:      getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			ActivationLink: getEnv("NOTIFY_ACTIVATION_LINK", "http://127.0.0.1/accounts/activate/"),
			LoginLink:      getEnv("NOTIFY_LOGIN_LINK", "http://127.0.0.1/accounts/login/"),
			ResetLink:      getEnv("NOTIFY_RESET_LINK", "http://127.0.0.1/accounts/password-reset/complete/"),
		},
		Sweep: SweepConfig{
			Enabled:         getEnvAsBool("SWEEP_ENABLED", true),
			IntervalMinutes: getEnvAsInt("SWEEP_INTERVAL_MINUTES", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the access token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime (login duration).
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.LoginTimeDays) * 24 * time.Hour
}

// ActivationTTL returns the activation token lifetime.
func (a AuthConfig) ActivationTTL() time.Duration {
	return time.Duration(a.ActivationTTLHours) * time.Hour
}

// PasswordResetTTL returns the password reset token lifetime.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// LoginAttemptWindow returns the login limiter window.
func (a AuthConfig) LoginAttemptWindow() time.Duration {
	return time.Duration(a.LoginAttemptWindowSec) * time.Second
}

// Interval returns the sweeper tick period.
func (s SweepConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
