package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Server     ServerConfig
	Billing    BillingConfig
	DocQA      DocQAConfig
	Google     GoogleConfig
	Usage      UsageConfig
	SelfHosted bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret   string //nolint:gosec // G117: JWT signing secret config
	TokenTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// BillingConfig holds the external billing collaborator settings.
type BillingConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DocQAConfig holds the external document-answering service settings.
type DocQAConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GoogleConfig holds Google sign-in settings. Empty ClientID disables OAuth.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// UsageConfig holds API metering settings.
type UsageConfig struct {
	FlushInterval time.Duration
	WindowDays    int
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("CAMPUS_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("CAMPUS_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("CAMPUS_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	tokenTTL, err := getEnvDuration("CAMPUS_JWT_TOKEN_TTL", 12*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("CAMPUS_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("CAMPUS_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	billingTimeout, err := getEnvDuration("CAMPUS_BILLING_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	docqaTimeout, err := getEnvDuration("CAMPUS_DOCQA_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	flushInterval, err := getEnvDuration("CAMPUS_USAGE_FLUSH_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	windowDays, err := getEnvInt("CAMPUS_USAGE_WINDOW_DAYS", 7)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("CAMPUS_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("CAMPUS_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("CAMPUS_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("CAMPUS_DB_USER", "campus"),
			Password: getEnv("CAMPUS_DB_PASSWORD", ""),
			DBName:   getEnv("CAMPUS_DB_NAME", "campus_dev"),
			SSLMode:  getEnv("CAMPUS_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("CAMPUS_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("CAMPUS_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:   getEnv("CAMPUS_JWT_SECRET", ""),
			TokenTTL: tokenTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("CAMPUS_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Billing: BillingConfig{
			BaseURL: getEnv("CAMPUS_BILLING_URL", "http://localhost:9090"),
			Timeout: billingTimeout,
		},
		DocQA: DocQAConfig{
			BaseURL: getEnv("CAMPUS_DOCQA_URL", ""),
			Timeout: docqaTimeout,
		},
		Google: GoogleConfig{
			ClientID:     getEnv("CAMPUS_GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("CAMPUS_GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("CAMPUS_GOOGLE_REDIRECT_URL", ""),
		},
		Usage: UsageConfig{
			FlushInterval: flushInterval,
			WindowDays:    windowDays,
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("CAMPUS_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("CAMPUS_JWT_SECRET must be at least 32 characters")
	}

	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("CAMPUS_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("CAMPUS_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("CAMPUS_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.JWT.TokenTTL <= 0 {
		return fmt.Errorf("CAMPUS_JWT_TOKEN_TTL must be positive, got %s", c.JWT.TokenTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("CAMPUS_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("CAMPUS_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Usage.FlushInterval <= 0 {
		return fmt.Errorf("CAMPUS_USAGE_FLUSH_INTERVAL must be positive, got %s", c.Usage.FlushInterval)
	}
	if c.Usage.WindowDays < 1 {
		return fmt.Errorf("CAMPUS_USAGE_WINDOW_DAYS must be >= 1, got %d", c.Usage.WindowDays)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
