package main

import (
	"testing"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/catalog-gateway/internal/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{"debug level", "debug", false},
		{"info level", "info", false},
		{"warn level", "warn", false},
		{"error level", "error", false},
		{"invalid level defaults to info", "invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			logger, err := initLogger(tt.level)

			// Assert
			if tt.wantErr {
				if err == nil {
					t.Error("initLogger() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("initLogger() error = %v", err)
			}
			if logger == nil {
				t.Error("initLogger() returned nil logger")
			}
		})
	}
}

func TestCreateAuthenticator_NoKeys(t *testing.T) {
	// Arrange
	cfg := &config.Config{}
	logger := zap.NewNop()

	// Act
	authenticator, err := createAuthenticator(cfg, logger)

	// Assert
	if err != nil {
		t.Fatalf("createAuthenticator() error = %v", err)
	}
	if authenticator != nil {
		t.Error("createAuthenticator() should return nil when no keys are configured")
	}
}

func TestCreateAuthenticator_WithKeys(t *testing.T) {
	// Arrange
	cfg := &config.Config{APIKeys: "secret:deployer"}
	logger := zap.NewNop()

	// Act
	authenticator, err := createAuthenticator(cfg, logger)

	// Assert
	if err != nil {
		t.Fatalf("createAuthenticator() error = %v", err)
	}
	if authenticator == nil {
		t.Error("createAuthenticator() returned nil, want non-nil")
	}
}

func TestCreateAuthenticator_InvalidKeys(t *testing.T) {
	// Arrange
	cfg := &config.Config{APIKeys: "missing-name-part"}
	logger := zap.NewNop()

	// Act
	_, err := createAuthenticator(cfg, logger)

	// Assert
	if err == nil {
		t.Error("createAuthenticator() expected error for malformed keys config")
	}
}

func TestCreateStore_Memory(t *testing.T) {
	// Arrange
	cfg := &config.Config{StoreBackend: "memory"}
	logger := zap.NewNop()

	// Act
	recordStore, closeStore, err := createStore(cfg, logger)

	// Assert
	if err != nil {
		t.Fatalf("createStore() error = %v", err)
	}
	if recordStore == nil {
		t.Error("createStore() returned nil store")
	}
	closeStore()
}
