package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"relay-hq/relay/pkg/accounts"
	"relay-hq/relay/pkg/config"
	"relay-hq/relay/pkg/monitor"
	"relay-hq/relay/pkg/pool"
	"relay-hq/relay/pkg/proxy"
	"relay-hq/relay/pkg/server"
	"relay-hq/relay/pkg/telemetry/logging"
	"relay-hq/relay/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	watchConfig   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay proxy server",
	Long: `Start the relay proxy server with the specified configuration.

The server proxies /claude/* and /gemini/* to the matching upstream through
an account chosen from the pool, and serves the reporting API under /api/.

Examples:
  # Start with default config
  relay run

  # Start with custom config
  relay run --config /etc/relay/relay.yaml

  # Override listen address
  relay run --listen 0.0.0.0:8080

  # Hot-reload log level and backoff on config changes
  relay run --watch`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watchConfig, "watch", false, "watch config file and hot-reload operational settings")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger := logging.Setup(cfg.Telemetry.Logging, os.Stdout)

	seeds := make([]accounts.Seed, 0, len(cfg.Accounts))
	for _, ac := range cfg.Accounts {
		seeds = append(seeds, accounts.Seed{
			ID:       ac.ID,
			Email:    ac.Email,
			Provider: accounts.ParseProvider(ac.Provider),
		})
	}

	registry := accounts.NewRegistry(seeds, logger)
	poolManager := pool.NewManager(registry, cfg.Pool.DefaultBackoff, logger)
	requestMonitor := monitor.New(cfg.Monitor.LogCapacity)

	var promRegistry *prometheus.Registry
	var requestMetrics *metrics.RequestMetrics
	if cfg.Telemetry.Metrics.Enabled {
		promRegistry = prometheus.NewRegistry()
		requestMetrics = metrics.NewRequestMetrics(cfg.Telemetry.Metrics.Namespace, promRegistry)
		metrics.NewPoolCollector(cfg.Telemetry.Metrics.Namespace, poolManager, promRegistry)
	}

	// Assign through an interface variable only when metrics are enabled,
	// so a disabled recorder stays a nil interface inside the router.
	var recorder proxy.MetricsRecorder
	if requestMetrics != nil {
		recorder = requestMetrics
	}

	router := proxy.NewRouter(poolManager, requestMonitor, recorder,
		cfg.Upstream, cfg.Accounts, nil, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sweeper := pool.NewSweeper(poolManager, cfg.Pool.SweepSchedule, logger)
	if err := sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start expiry sweeper: %w", err)
	}
	defer sweeper.Stop()

	if runFlags.watchConfig {
		watcher, err := config.NewWatcher(cfgFile, func(newCfg *config.Config) {
			logging.SetLevel(newCfg.Telemetry.Logging.Level)
			poolManager.SetBackoff(newCfg.Pool.DefaultBackoff)
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to start config watcher: %w", err)
		}
		defer watcher.Stop()
	}

	srv := server.New(cfg, poolManager, requestMonitor, router, promRegistry, Version)
	return srv.Start(ctx)
}
