package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/internal/telemetry"
	"github.com/marmos91/dsomm/pkg/api"
	"github.com/marmos91/dsomm/pkg/config"
	"github.com/marmos91/dsomm/pkg/loader"
	"github.com/marmos91/dsomm/pkg/metrics"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/dsomm/pkg/metrics/prometheus"
)

var (
	pidFile  string
	dataPath string
	watch    bool
	port     int
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Start the dsomm server",
	Long: `Start the dsomm REST API server in the foreground.

The data files are loaded on startup. With data.watch enabled (or --watch)
the files are reloaded whenever they change on disk.

Examples:
  # Start with the default config
  dsomm serve

  # Serve a checkout of the DSOMM data repository
  dsomm serve --data ./DevSecOps-MaturityModel-data/src/assets/YAML --watch

  # Start with environment variable overrides
  DSOMM_LOGGING_LEVEL=DEBUG dsomm serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file")
	serveCmd.Flags().StringVar(&dataPath, "data", "", "Data directory (overrides data.path and selects the fs source)")
	serveCmd.Flags().BoolVar(&watch, "watch", false, "Reload the data when files change")
	serveCmd.Flags().IntVar(&port, "port", 0, "API port (overrides api.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	if dataPath != "" {
		cfg.Data.Source = config.SourceFS
		cfg.Data.Path = dataPath
	}
	if watch {
		cfg.Data.Watch = true
	}
	if port != 0 {
		cfg.API.Port = port
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deployment := telemetry.DeploymentTags(cfg.Data.Source, string(cfg.Database.Type))
	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "dsomm",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
		Deployment:     deployment,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "dsomm",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
		Tags:           deployment,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	// Constructors return nil until the registry exists.
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		logger.Info("Metrics enabled", "path", "/metrics")
	} else {
		logger.Info("Metrics collection disabled")
	}

	svc, closeStore, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("State store opened", "store", storeDescription(&cfg.Database))

	// A broken data set is reported, not fatal: the readiness probe stays
	// red and a reload can pick up fixed files.
	if _, err := svc.Load(ctx); err != nil {
		logger.Error("Initial data load failed", logger.Err(err))
	}

	if cfg.Data.Watch {
		go func() {
			err := svc.Watch(ctx, cfg.Data.WatchDebounce)
			if err != nil && !errors.Is(err, context.Canceled) {
				if errors.Is(err, loader.ErrNotWatchable) {
					logger.Warn("Data source cannot be watched", "source", cfg.Data.Source)
					return
				}
				logger.Error("Data watcher stopped", logger.Err(err))
			}
		}()
		logger.Info("Watching data files", "path", cfg.Data.Path, "debounce", cfg.Data.WatchDebounce)
	}

	apiServer, err := api.NewServer(cfg.API, svc)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.", "port", apiServer.Port())

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		select {
		case err := <-serverDone:
			if err != nil {
				logger.Error("Server shutdown error", logger.Err(err))
				return err
			}
		case <-time.After(cfg.ShutdownTimeout):
			logger.Warn("Shutdown timeout exceeded", "timeout", cfg.ShutdownTimeout)
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", logger.Err(err))
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}
