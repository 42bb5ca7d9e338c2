package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iTrooz/cryo-dash/internal/config"
	"github.com/iTrooz/cryo-dash/internal/logging"
)

// app is the state shared by every command
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "cryodash",
		Short: "Cryptocurrency market dashboard and trading-signal client",
		Long: `cryodash shows live market data for a fixed set of crypto pairs, asks an
analysis backend for trading signals, and serves both through a JSON API.

Market data goes through a freshness-gated cache: values younger than the
TTL are served directly, and the last known value is shown (flagged stale)
when the market API fails or rate-limits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.init(cmd.Flags().Changed("config"))
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Path to the YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newServeCmd(a),
		newGatewayCmd(a),
		newCoinCmd(a),
		newWatchCmd(a),
		newAnalyzeCmd(a),
		newSymbolsCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

func (a *app) init(explicit bool) error {
	cfg, err := loadConfig(a.configPath, explicit)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, a.verbose); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// loadConfig reads path. A missing file is only an error when the path was given explicitly.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		logrus.Debugf("Loaded configuration from %s", path)
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("failed to load config: %w", err)
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}
