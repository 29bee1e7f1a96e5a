// Package config loads application configuration from BV_-prefixed
// environment variables.
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
	Storage    StorageConfig
	Slack      SlackConfig
	TSA        TSAConfig
	Vault      VaultConfig
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

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret     string //nolint:gosec // G117: JWT signing secret config
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// StorageConfig holds S3-compatible object storage settings for document
// blobs.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string //nolint:gosec // G117: object storage credential config
	Bucket    string
	UseSSL    bool
}

// SlackConfig holds Slack notification settings.
type SlackConfig struct {
	BotToken  string
	ChannelID string
}

// TSAConfig holds RFC 3161 timestamp authority settings. An empty URL
// disables trust timestamps; seals then carry only the SHA-256 hash.
type TSAConfig struct {
	URL     string
	Timeout time.Duration
}

// VaultConfig holds the at-rest encryption key for secret content.
type VaultConfig struct {
	Key string //nolint:gosec // G117: encryption key config
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password, vault key) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("BV_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("BV_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("BV_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	accessTTL, err := getEnvDuration("BV_JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	refreshTTL, err := getEnvDuration("BV_JWT_REFRESH_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("BV_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("BV_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	tsaTimeout, err := getEnvDuration("BV_TSA_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	storageSSL, err := getEnvBool("BV_STORAGE_USE_SSL", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("BV_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("BV_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("BV_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("BV_DB_USER", "boardvault"),
			Password: getEnv("BV_DB_PASSWORD", ""),
			DBName:   getEnv("BV_DB_NAME", "boardvault_dev"),
			SSLMode:  getEnv("BV_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("BV_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("BV_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:     getEnv("BV_JWT_SECRET", ""),
			AccessTTL:  accessTTL,
			RefreshTTL: refreshTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("BV_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("BV_STORAGE_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("BV_STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("BV_STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("BV_STORAGE_BUCKET", "boardvault-documents"),
			UseSSL:    storageSSL,
		},
		Slack: SlackConfig{
			BotToken:  getEnv("BV_SLACK_BOT_TOKEN", ""),
			ChannelID: getEnv("BV_SLACK_CHANNEL_ID", ""),
		},
		TSA: TSAConfig{
			URL:     getEnv("BV_TSA_URL", ""),
			Timeout: tsaTimeout,
		},
		Vault: VaultConfig{
			Key: getEnv("BV_VAULT_KEY", ""),
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
		return errors.New("BV_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("BV_JWT_SECRET must be at least 32 characters")
	}

	// Vault key gates at-rest encryption of secret content. 32 bytes for
	// AES-256; empty disables encryption, which only makes sense locally.
	if c.Vault.Key != "" && len(c.Vault.Key) != 32 {
		return fmt.Errorf("BV_VAULT_KEY must be exactly 32 bytes, got %d", len(c.Vault.Key))
	}
	if c.Vault.Key == "" && !c.SelfHosted {
		log.Warn().Msg("BV_VAULT_KEY is empty; secret content will be stored unencrypted")
	}

	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("BV_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("BV_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("BV_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("BV_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("BV_JWT_REFRESH_TTL must be positive, got %s", c.JWT.RefreshTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("BV_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("BV_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.TSA.Timeout <= 0 {
		return fmt.Errorf("BV_TSA_TIMEOUT must be positive, got %s", c.TSA.Timeout)
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
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
