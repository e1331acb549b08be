package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is wrapped by every configuration failure
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port            string `validate:"required,numeric"`
	Env             string
	Mongo           MongoConfig
	PostgresUrl     string
	RedisURL        string
	LookbackMinutes int           `validate:"min=0"`
	RunLockTTL      time.Duration `validate:"min=0"`
	ConnectAttempts uint          `validate:"min=1"`
}

// MongoConfig holds the discrete connection fields the URI is built from
type MongoConfig struct {
	URI         string
	Protocol    string `validate:"required,oneof=mongodb mongodb+srv"`
	Host        string `validate:"required"`
	Port        int    `validate:"min=0,max=65535"`
	User        string
	Password    string `validate:"required_with=User"`
	Database    string `validate:"required"`
	ReplicaSafe bool
}

// Lookback is the staleness threshold for instant messages and notifications
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.LookbackMinutes) * time.Minute
}

// Load reads configuration from the environment, after loading .env if present
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		PostgresUrl: getEnv("POSTGRES_CONN_STR", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Protocol: getEnv("MONGO_PROTOCOL", "mongodb"),
			Host:     getEnv("MONGO_HOST", "localhost"),
			User:     getEnv("MONGO_USER", ""),
			Password: getEnv("MONGO_PASSWORD", ""),
			Database: getEnv("MONGO_DATABASE", "socialhelp"),
		},
	}

	var err error
	if cfg.Mongo.Port, err = getEnvInt("MONGO_PORT", 27017); err != nil {
		return nil, err
	}
	if cfg.Mongo.ReplicaSafe, err = getEnvBool("MONGO_REPLICA_SAFE", false); err != nil {
		return nil, err
	}
	if cfg.LookbackMinutes, err = getEnvInt("LOOKBACK_MINUTES", 15); err != nil {
		return nil, err
	}
	if cfg.RunLockTTL, err = getEnvDuration("RUN_LOCK_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	attempts, err := getEnvInt("CONNECT_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	if attempts < 1 {
		return nil, fmt.Errorf("%w: CONNECT_ATTEMPTS must be at least 1, got %d", ErrInvalidConfig, attempts)
	}
	cfg.ConnectAttempts = uint(attempts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, value)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, value)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidConfig, key, value)
	}
	return d, nil
}
