package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/downwatch/downwatch/internal/browser/bridge"
	"github.com/downwatch/downwatch/internal/config"
	"github.com/downwatch/downwatch/internal/http/rest"
	"github.com/downwatch/downwatch/internal/logctx"
	"github.com/downwatch/downwatch/internal/notify"
	"github.com/downwatch/downwatch/internal/settings"
	"github.com/downwatch/downwatch/internal/storage/sqlite"
	"github.com/downwatch/downwatch/internal/telemetry"
	"github.com/go-chi/chi"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logger := slog.New(logctx.NewTraceHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}),
	))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("download watcher starting...", "log_level", cfg.LogLevel)

	if err := run(logctx.WithLogger(ctx, logger), cfg); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logctx.LoggerFromContext(ctx)

	// =========================================================================
	// Start Telemetry
	tel, err := telemetry.New(ctx, telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		ServiceName:  "downwatch",
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown telemetry", "err", err)
		}
	}()

	// =========================================================================
	// Start Database
	database, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		logger.Error("DB error", "err", err)

		return err
	}
	defer database.Close()

	store := settings.NewStore(sqlite.NewInstrumentedBlobRepository(database, tel))

	// warm the cache so the first delta doesn't pay for hydration
	if _, err := store.Load(ctx); err != nil {
		logger.Error("failed to hydrate settings, continuing with defaults", "err", err)
	}

	// =========================================================================
	// Start Browser Bridge
	opts := []bridge.Option{
		bridge.WithTimeout(cfg.BridgeTimeout),
		bridge.WithTelemetry(tel),
	}

	if cfg.BridgeToken != "" {
		opts = append(opts, bridge.WithToken(cfg.BridgeToken))
	}

	if cfg.BridgeInsecure {
		opts = append(opts, bridge.WithInsecure())
	}

	br := bridge.NewClient(cfg.BridgeBaseURL, cfg.BridgeAPIPath, opts...)

	// =========================================================================
	// Start Watcher
	tracker := notify.NewTracker(br, cfg.GraceDelay)
	watcher := notify.NewWatcher(br, br, store, tracker, tel, cfg.CreatedDelay, cfg.ChangedDelay)

	// =========================================================================
	// Start API Service

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	server := setupServer(ctx, cfg, store, watcher, tel)

	go func() {
		logger.Info("initializing message endpoint", "host", cfg.Web.BindAddress)
		serverErrors <- server.ListenAndServe()
	}()

	logger.Info("waiting for download events...",
		"bridge", cfg.BridgeBaseURL,
		"created_delay", cfg.CreatedDelay.String(),
		"changed_delay", cfg.ChangedDelay.String(),
		"grace_delay", cfg.GraceDelay.String(),
	)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("start shutdown")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("failed to gracefully shutdown the server", "err", err)

			if err = server.Close(); err != nil {
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
		}

		return nil
	}
}

// setupServer prepares the handlers and middleware for the http server.
func setupServer(ctx context.Context, cfg *config.Config, store *settings.Store, watcher *notify.Watcher, tel *telemetry.Telemetry) *http.Server {
	mHandler := rest.NewMessageHandler(cfg.Message.Username, cfg.Message.Password, store, watcher)

	r := chi.NewRouter()
	r.Use(telemetry.RequestID)
	r.Use(telemetry.HTTPLogging)
	r.Use(telemetry.NewHTTPMiddleware(tel).Middleware)

	r.Handle("/metrics", tel.Handler())
	r.Mount("/", mHandler.Routes())

	return &http.Server{
		Addr:         cfg.Web.BindAddress,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		Handler:      r,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}
