package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/incentive_wallet_app/internal/platform/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "iwa_backend",
	Short:         "Incentive wallet backend",
	Long:          `Serves the credit request, wallet and redemption API and manages its database schema.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// newLogger builds the process logger: text in development, JSON everywhere else.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// loadRuntime reads config and sets up logging, shared by every subcommand.
func loadRuntime() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cfg), nil
}
