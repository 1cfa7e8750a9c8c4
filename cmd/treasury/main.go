package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"treasury_checker/internal/app/bootstrap"
	"treasury_checker/internal/infrastructure/configloader"
	"treasury_checker/internal/pkg/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "treasury",
		Short:        "One-shot treasury queries printed as JSON",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file path (default $CONFIG_PATH or config/config.yml)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newPricesCmd(), newWalletsCmd(), newHoldingsCmd(), newMarketCmd(), newTreasuryCmd())
	return root
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// runApp loads config, wires the application and prints whatever fn returns.
func runApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) (any, error)) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile == "" {
		cfgFile = configloader.PathFromEnv()
	}
	logLevel, _ := cmd.Flags().GetString("log-level")

	zapLogger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer zapLogger.Sync() //nolint:errcheck
	logger.SetLogger(slog.New(zapslog.NewHandler(zapLogger.Core())))

	cfg, err := configloader.Load(cfgFile)
	if err != nil {
		return err
	}
	app, err := bootstrap.Build(cfg, zapLogger, logger.NewSlogAdapter())
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	payload, err := fn(ctx, app)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), payload)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
