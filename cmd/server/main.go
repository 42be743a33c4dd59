package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhp-platform/catalog/internal/categories"
	"github.com/nhp-platform/catalog/internal/config"
	"github.com/nhp-platform/catalog/internal/database"
	"github.com/nhp-platform/catalog/internal/storage"
	"github.com/nhp-platform/catalog/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(&logging.Config{}).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.Finalize(); err != nil {
		logging.New(&logging.Config{}).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	categorySystem := categories.New(
		categories.NewRepository(db),
		storage.NewAssetStore(store),
		categories.NewValidator(),
		logger,
		cfg.Pagination,
		cfg.Categories.ImageExtension,
		cfg.Storage.MaxUploadSizeBytes(),
	)

	app := &Application{
		config:     cfg,
		logger:     logger,
		categories: categorySystem,
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.routes(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", srv.Addr)

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	err = <-shutdownError
	if err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
