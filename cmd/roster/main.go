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

	"github.com/example/liturgy-roster/internal/application"
	"github.com/example/liturgy-roster/internal/config"
	"github.com/example/liturgy-roster/internal/engine"
	httptransport "github.com/example/liturgy-roster/internal/http"
	"github.com/example/liturgy-roster/internal/persistence"
	"github.com/example/liturgy-roster/internal/persistence/sqlite"
	"github.com/example/liturgy-roster/internal/roster"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	snapshots, closeSnapshots, err := openSnapshotStore(cfg.Snapshot)
	if err != nil {
		logger.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := closeSnapshots(); cerr != nil {
			logger.Error("failed to close snapshot store", "error", cerr)
		}
	}()

	store := roster.NewStore(time.Now)
	eng, err := engine.New(cfg)
	if err != nil {
		logger.Error("failed to build engine", "error", err)
		os.Exit(1)
	}
	service, err := application.NewRosterService(store, eng, cfg, snapshots, nil, nil, logger)
	if err != nil {
		logger.Error("failed to build service", "error", err)
		os.Exit(1)
	}
	if err := service.LoadState(); err != nil {
		logger.Error("failed to load persisted state", "error", err)
		os.Exit(1)
	}

	metrics := httptransport.NewMetrics()
	router := httptransport.NewRouter(httptransport.RouterConfig{
		People:  httptransport.NewPeopleHandler(service, logger),
		Events:  httptransport.NewEventHandler(service, logger),
		Series:  httptransport.NewSeriesHandler(service, logger),
		Roster:  httptransport.NewRosterHandler(service, logger),
		Metrics: metrics,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			metrics.Middleware(),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
		if err := service.SaveState(); err != nil {
			logger.Error("failed to save state on shutdown", "error", err)
		}
	}()

	logger.Info("roster API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func openSnapshotStore(cfg config.SnapshotConfig) (application.SnapshotStore, func() error, error) {
	switch cfg.Backend {
	case "sqlite":
		store, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return persistence.NewFileStore(cfg.Path), func() error { return nil }, nil
	}
}
