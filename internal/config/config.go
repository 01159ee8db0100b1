package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Token strategies.
const (
	TokenJWT    = "jwt"
	TokenPaseto = "paseto"
)

// Password hashers.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins
	StaticDir       string   // built web UI, served when present
}

type AuthConfig struct {
	TokenStrategy string
	// HMAC secret for HS256 tokens
	JWTSecret []byte
	// PASETO symmetric key (must be 32 bytes for v4.local)
	PasetoKey      []byte
	TokenDuration  time.Duration
	PasswordHasher string
	BcryptCost     int
}

type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3003"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"*"}),
			StaticDir:       getEnv("STATIC_DIR", "dist"),
		},
		Auth: AuthConfig{
			TokenStrategy:  strings.ToLower(getEnv("AUTH_TOKEN_STRATEGY", TokenJWT)),
			JWTSecret:      []byte(getEnv("JWT_SECRET", "")),
			PasetoKey:      []byte(getEnv("PASETO_KEY", "")),
			TokenDuration:  getDurationEnv("TOKEN_DURATION", 24*time.Hour),
			PasswordHasher: strings.ToLower(getEnv("PASSWORD_HASHER", HasherBcrypt)),
			BcryptCost:     getIntEnv("BCRYPT_COST", 10),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taskboard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks option values and their combinations.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Auth.PasswordHasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		return fmt.Errorf("unsupported PASSWORD_HASHER %q", c.Auth.PasswordHasher)
	}

	if c.Auth.TokenDuration <= 0 {
		return errors.New("TOKEN_DURATION must be positive")
	}

	switch c.Auth.TokenStrategy {
	case TokenJWT:
		if len(c.Auth.JWTSecret) == 0 && !c.Server.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
	case TokenPaseto:
		// Validate PASETO key length (must be 32 bytes for v4.local)
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	default:
		return fmt.Errorf("unsupported AUTH_TOKEN_STRATEGY %q", c.Auth.TokenStrategy)
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getDurationEnv reads a whole number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Split by comma and trim whitespace
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
