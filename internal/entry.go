// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/daycal/internal/api"
	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/calservice"
	"github.com/starford/daycal/internal/daydb"
	"github.com/starford/daycal/internal/mcpserver"
	"github.com/starford/daycal/internal/render"
	"github.com/starford/daycal/internal/sse"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// newLogger builds the structured JSON logger. Commands that own stdout log
// to stderr.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

func serviceConfig(cfg *Config, store *dayStore, pub calservice.Publisher, logger *slog.Logger) calservice.Config {
	return calservice.Config{
		Repo:           store.repo,
		Initial:        cfg.Calendar.Initial(),
		FirstDayOfWeek: cfg.Calendar.Weekday(),
		Locale:         cfg.Calendar.Locale,
		ClickInterval:  cfg.Calendar.DoubleClickInterval,
		Publisher:      pub,
		Logger:         logger,
	}
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("days_dir", cfg.Store.DaysDir),
		slog.String("locale", cfg.Calendar.Locale),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	if _, err := store.importDays(ctx, logger); err != nil {
		logger.Warn("initial import failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc, err := calservice.New(ctx, serviceConfig(cfg, store, broker, logger))
	if err != nil {
		return fmt.Errorf("init calendar: %w", err)
	}
	defer svc.Close()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api; the SSE stream is /api/events.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload months edited outside the process.
	if cfg.Store.Watch {
		g.Go(func() error {
			err := store.watch(gCtx, logger, func(ym caldate.YearMonth) {
				svc.Invalidate(ym)
			})
			if err != nil {
				logger.Warn("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the calendar tools over stdio. Logs go to stderr.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	if _, err := store.importDays(ctx, logger); err != nil {
		logger.Warn("initial import failed", slog.String("error", err.Error()))
	}

	svc, err := calservice.New(ctx, serviceConfig(cfg, store, nil, logger))
	if err != nil {
		return fmt.Errorf("init calendar: %w", err)
	}
	defer svc.Close()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}

// Render prints the month (or, with WithYearView, the year) around the
// configured initial date.
func Render(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg, os.Stderr)

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	if _, err := store.importDays(ctx, logger); err != nil {
		logger.Warn("initial import failed", slog.String("error", err.Error()))
	}

	sc := serviceConfig(cfg, store, nil, logger)
	sc.NoMidnight = true
	svc, err := calservice.New(ctx, sc)
	if err != nil {
		return fmt.Errorf("init calendar: %w", err)
	}
	defer svc.Close()

	var out string
	if app.year {
		snap, err := svc.Year(ctx)
		if err != nil {
			return err
		}
		out = render.Year(snap, svc.Names(), cfg.Calendar.Weekday(), render.DefaultStyles())
	} else {
		snap, err := svc.Month(ctx)
		if err != nil {
			return err
		}
		out = render.Month(snap, render.DefaultStyles())
	}
	_, err = fmt.Fprintln(app.out, out)
	return err
}

// Sync imports the days directory into the SQLite database and prints the
// import statistics as JSON.
func Sync(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	if cfg.Store.Driver != DriverSQLite {
		return fmt.Errorf("sync: store driver is %q, want %q", cfg.Store.Driver, DriverSQLite)
	}
	if cfg.Store.DaysDir == "" {
		return fmt.Errorf("sync: days_dir is not configured")
	}
	logger := newLogger(cfg, os.Stderr)

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.importDays(ctx, logger)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	count, err := store.db.Count(ctx)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		daydb.ImportStats
		Days int `json:"days"`
	}{stats, count})
}
