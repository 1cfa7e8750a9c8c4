package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"treasury_checker/internal/app/bootstrap"
	"treasury_checker/internal/infrastructure/configloader"
	"treasury_checker/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newZapLogger(cfg configloader.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func main() {
	configPath := configloader.PathFromEnv()
	cfg, err := configloader.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load config %s: %v\n", configPath, err)
		os.Exit(1)
	}

	zapLogger, err := newZapLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() //nolint:errcheck

	slogLevel, _ := logger.ParseLevel(cfg.Logging.Level)
	slogHandler := slogzap.Option{Level: slogLevel, Logger: zapLogger}.NewZapHandler()
	logger.SetLogger(slog.New(slogHandler))

	logger.Info("Treasury checker starting", "config", configPath, "port", cfg.Server.Port)
	appLogger := logger.NewSlogAdapter()

	app, err := bootstrap.Build(cfg, zapLogger, appLogger)
	if err != nil {
		logger.Fatal("Failed to wire application", "error", err)
	}
	defer app.Close()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := app.Router()
	if cfg.Swagger.Enabled {
		logger.Info("Swagger UI enabled", "spec", cfg.Swagger.SpecFile, "url", "/swagger/index.html")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	logger.Info("Shutdown signal received, stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), configloader.Duration(cfg.Server.ShutdownTimeoutMs))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	} else {
		logger.Info("HTTP server stopped")
	}
}
