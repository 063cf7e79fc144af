// Package config provides configuration management for the record gateway.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultServerPort      = 3000
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsEnabled  = true
	DefaultStoreBackend    = "mongo"
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "shop"
	DefaultMongoCollection = "records"
	DefaultResource        = "items"
)

// Environment variable names.
const (
	EnvServerPort      = "APP_SERVER_PORT"
	EnvLogLevel        = "APP_LOG_LEVEL"
	EnvShutdownTimeout = "APP_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled  = "APP_METRICS_ENABLED"
	EnvStoreBackend    = "APP_STORE_BACKEND"
	EnvMongoURI        = "APP_MONGO_URI"
	EnvMongoDatabase   = "APP_MONGO_DATABASE"
	EnvMongoCollection = "APP_MONGO_COLLECTION"
	EnvResource        = "APP_RESOURCE"
	EnvAPIKeys         = "APP_API_KEYS" //nolint:gosec // env var name, not a credential
)

// Config holds the application configuration.
type Config struct {
	// Server settings.
	ServerPort      int
	LogLevel        string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool

	// Store backend: mongo or memory.
	StoreBackend string

	// MongoDB settings.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Resource is the collection's route segment under /api.
	Resource string

	// API key settings (format: "key1:name1,key2:name2"). Empty leaves
	// mutating routes ungated.
	APIKeys string
}

// Validation errors.
var (
	ErrInvalidServerPort = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel   = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdown   = errors.New("shutdown timeout must be positive")
	ErrInvalidBackend    = errors.New("store backend must be one of: mongo, memory")
	ErrMissingMongoURI   = errors.New("mongo URI must be set when store backend is mongo")
	ErrInvalidResource   = errors.New("resource must be a non-empty path segment")
)

// Load reads configuration from environment variables with defaults.
// Environment variables have priority over default values.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      DefaultServerPort,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsEnabled:  DefaultMetricsEnabled,
		StoreBackend:    DefaultStoreBackend,
		MongoURI:        DefaultMongoURI,
		MongoDatabase:   DefaultMongoDatabase,
		MongoCollection: DefaultMongoCollection,
		Resource:        DefaultResource,
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration values from environment variables.
func (c *Config) loadFromEnv() error {
	if val := os.Getenv(EnvServerPort); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvServerPort, err)
		}
		c.ServerPort = port
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv(EnvShutdownTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvShutdownTimeout, err)
		}
		c.ShutdownTimeout = timeout
	}

	if val := os.Getenv(EnvMetricsEnabled); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMetricsEnabled, err)
		}
		c.MetricsEnabled = enabled
	}

	if val := os.Getenv(EnvStoreBackend); val != "" {
		c.StoreBackend = val
	}

	if val := os.Getenv(EnvMongoURI); val != "" {
		c.MongoURI = val
	}

	if val := os.Getenv(EnvMongoDatabase); val != "" {
		c.MongoDatabase = val
	}

	if val := os.Getenv(EnvMongoCollection); val != "" {
		c.MongoCollection = val
	}

	if val := os.Getenv(EnvResource); val != "" {
		c.Resource = val
	}

	if val := os.Getenv(EnvAPIKeys); val != "" {
		c.APIKeys = val
	}

	return nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdown
	}

	switch c.StoreBackend {
	case "mongo":
		if c.MongoURI == "" {
			return ErrMissingMongoURI
		}
	case "memory":
	default:
		return ErrInvalidBackend
	}

	if c.Resource == "" || strings.ContainsAny(c.Resource, "/ ") {
		return ErrInvalidResource
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
