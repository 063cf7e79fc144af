// Package main is the entry point for the record gateway server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/catalog-gateway/internal/auth"
	"github.com/vyrodovalexey/catalog-gateway/internal/config"
	"github.com/vyrodovalexey/catalog-gateway/internal/server"
	"github.com/vyrodovalexey/catalog-gateway/internal/store"
)

// connectTimeout bounds the startup connection to the store.
const connectTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env file is fine; the environment alone is enough.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to load .env file", zap.Error(err))
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use a basic logger for startup errors
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.Int("server_port", cfg.ServerPort),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("resource", cfg.Resource),
		zap.Bool("gate_enabled", cfg.APIKeys != ""),
	)

	// Create the record store; a store that cannot be reached at startup
	// is fatal to the process.
	recordStore, closeStore, err := createStore(cfg, logger)
	if err != nil {
		logger.Error("failed to create store", zap.Error(err))
		return 1
	}
	defer closeStore()

	// Create the access gate authenticator when keys are configured
	authenticator, err := createAuthenticator(cfg, logger)
	if err != nil {
		logger.Error("failed to create authenticator", zap.Error(err))
		return 1
	}

	// Create and start server
	srv := server.New(cfg, logger, recordStore, authenticator)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", zap.Error(err))
		return 1
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Graceful shutdown
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}

// initLogger initializes a zap logger with the specified log level.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}

// createStore creates the configured store backend. The returned close
// function releases the backend's resources.
func createStore(cfg *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		logger.Info("store backend: memory")
		return store.NewMemoryStore(), func() {}, nil
	default:
		logger.Info("store backend: mongo",
			zap.String("database", cfg.MongoDatabase),
			zap.String("collection", cfg.MongoCollection),
		)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		mongoStore, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, nil, err
		}

		closeStore := func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), connectTimeout)
			defer closeCancel()
			if err := mongoStore.Close(closeCtx); err != nil {
				logger.Warn("failed to close store", zap.Error(err))
			}
		}

		return mongoStore, closeStore, nil
	}
}

// createAuthenticator creates the shared-secret authenticator, or nil
// when no keys are configured and mutating routes stay open.
func createAuthenticator(cfg *config.Config, logger *zap.Logger) (auth.Authenticator, error) {
	if cfg.APIKeys == "" {
		logger.Info("access gate disabled")
		return nil, nil
	}

	logger.Info("access gate enabled")
	return auth.NewAPIKeyAuthenticator(cfg.APIKeys)
}
