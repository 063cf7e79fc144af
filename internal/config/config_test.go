package config

import (
	"errors"
	"testing"
	"time"
)

// clearEnv unsets every gateway environment variable for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvServerPort,
		EnvLogLevel,
		EnvShutdownTimeout,
		EnvMetricsEnabled,
		EnvStoreBackend,
		EnvMongoURI,
		EnvMongoDatabase,
		EnvMongoCollection,
		EnvResource,
		EnvAPIKeys,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Arrange
	clearEnv(t)

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.ServerPort != DefaultServerPort {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, DefaultServerPort)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %s, want %s", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled should default to true")
	}
	if cfg.StoreBackend != DefaultStoreBackend {
		t.Errorf("StoreBackend = %s, want %s", cfg.StoreBackend, DefaultStoreBackend)
	}
	if cfg.MongoURI != DefaultMongoURI {
		t.Errorf("MongoURI = %s, want %s", cfg.MongoURI, DefaultMongoURI)
	}
	if cfg.MongoDatabase != DefaultMongoDatabase {
		t.Errorf("MongoDatabase = %s, want %s", cfg.MongoDatabase, DefaultMongoDatabase)
	}
	if cfg.Resource != DefaultResource {
		t.Errorf("Resource = %s, want %s", cfg.Resource, DefaultResource)
	}
	if cfg.APIKeys != "" {
		t.Errorf("APIKeys = %q, want empty", cfg.APIKeys)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv(EnvServerPort, "8081")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvShutdownTimeout, "5s")
	t.Setenv(EnvMetricsEnabled, "false")
	t.Setenv(EnvStoreBackend, "memory")
	t.Setenv(EnvResource, "products")
	t.Setenv(EnvAPIKeys, "secret:deployer")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.ServerPort != 8081 {
		t.Errorf("ServerPort = %d, want 8081", cfg.ServerPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled should be false")
	}
	if cfg.StoreBackend != "memory" {
		t.Errorf("StoreBackend = %s, want memory", cfg.StoreBackend)
	}
	if cfg.Resource != "products" {
		t.Errorf("Resource = %s, want products", cfg.Resource)
	}
	if cfg.APIKeys != "secret:deployer" {
		t.Errorf("APIKeys = %q, want secret:deployer", cfg.APIKeys)
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", EnvServerPort, "not-a-port"},
		{"bad shutdown timeout", EnvShutdownTimeout, "soon"},
		{"bad metrics flag", EnvMetricsEnabled, "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			// Act
			cfg, err := Load()

			// Assert
			if err == nil {
				t.Error("Load() expected error, got nil")
			}
			if cfg != nil {
				t.Error("Load() returned non-nil config on error")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerPort:      3000,
			LogLevel:        "info",
			ShutdownTimeout: 30 * time.Second,
			StoreBackend:    "mongo",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "shop",
			MongoCollection: "records",
			Resource:        "items",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.ServerPort = 0 },
			wantErr: ErrInvalidServerPort,
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.ServerPort = 70000 },
			wantErr: ErrInvalidServerPort,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.ShutdownTimeout = 0 },
			wantErr: ErrInvalidShutdown,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StoreBackend = "postgres" },
			wantErr: ErrInvalidBackend,
		},
		{
			name: "mongo backend without URI",
			mutate: func(c *Config) {
				c.MongoURI = ""
			},
			wantErr: ErrMissingMongoURI,
		},
		{
			name: "memory backend allows empty URI",
			mutate: func(c *Config) {
				c.StoreBackend = "memory"
				c.MongoURI = ""
			},
		},
		{
			name:    "empty resource",
			mutate:  func(c *Config) { c.Resource = "" },
			wantErr: ErrInvalidResource,
		},
		{
			name:    "resource with slash",
			mutate:  func(c *Config) { c.Resource = "items/sub" },
			wantErr: ErrInvalidResource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := valid()
			tt.mutate(cfg)

			// Act
			err := cfg.Validate()

			// Assert
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Address(t *testing.T) {
	cfg := &Config{ServerPort: 3000}
	if got := cfg.Address(); got != ":3000" {
		t.Errorf("Address() = %q, want :3000", got)
	}
}
