package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onthisday/server/internal/api"
	"github.com/onthisday/server/internal/cache"
	"github.com/onthisday/server/internal/config"
	"github.com/onthisday/server/internal/domain/history"
	"github.com/onthisday/server/internal/metrics"
	"github.com/onthisday/server/internal/telemetry"
)

var (
	// Server flags (override config/env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the OnThisDay HTTP server",
	Long: `Start the OnThisDay HTTP server and begin accepting requests.

The server will:
- Load configuration from environment variables (or --config file if provided)
- Load the embedded history dataset
- Start the HTTP server with API, SSR, and SEO endpoints
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Msg("starting OnThisDay server")

	metrics.Init(Version, GitCommit, BuildDate)

	shutdownTracing, err := telemetry.InitTracing(context.Background(), cfg.Tracing, Version)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing init failed, continuing without tracing")
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	store, err := history.NewStore()
	if err != nil {
		return fmt.Errorf("load history dataset: %w", err)
	}
	metrics.DatasetDates.Set(float64(store.Len()))
	logger.Info().Int("dates", store.Len()).Msg("history dataset loaded")

	pageCache, closeCache, err := newCache(cfg, logger)
	if err != nil {
		return fmt.Errorf("cache init: %w", err)
	}
	defer closeCache()

	deps := api.Deps{
		Service:   history.NewService(store),
		Cache:     pageCache,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(cfg, deps, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	return gracefulShutdown(server, logger)
}

func newCache(cfg config.Config, logger zerolog.Logger) (cache.Cache, func(), error) {
	switch cfg.Cache.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rc := cache.NewRedis(rdb, "otd")
		if err := rc.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Cache.RedisAddr, err)
		}
		logger.Info().Str("addr", cfg.Cache.RedisAddr).Msg("redis page cache connected")
		return rc, func() { _ = rdb.Close() }, nil
	default:
		mem := cache.NewMemory()
		logger.Info().Msg("in-memory page cache initialized")
		return mem, mem.Close, nil
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	// Override logging from flags if provided
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	return cfg, nil
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
