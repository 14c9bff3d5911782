// Package server wires configuration, the event log, the query engine and
// the HTTP API into a running service.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plantops/eventlens/internal/api"
	"github.com/plantops/eventlens/internal/cache"
	"github.com/plantops/eventlens/internal/config"
	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/filters"
	"github.com/plantops/eventlens/internal/llm"
	"github.com/plantops/eventlens/internal/logging"
	"github.com/plantops/eventlens/internal/router"
	"github.com/plantops/eventlens/internal/telemetry"
)

// defaultWriteHeadroom pads the HTTP write timeout past the LLM timeout
// so a slow model answer is not cut off mid-response.
const defaultWriteHeadroom = 30 * time.Second

// Run starts the HTTP server and blocks until shutdown.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting eventlens",
		"version", cfg.Service.Version,
		"port", cfg.Service.Port,
		"csv_path", cfg.Data.CSVPath,
		"model", cfg.LLM.Model,
	)

	table, keys, err := dataset.Load(cfg.Data.CSVPath)
	if err != nil {
		return fmt.Errorf("load event log: %w", err)
	}
	profile := dataset.BuildProfile(table, keys)
	logger.Info("Event log loaded",
		"rows", table.Len(),
		"columns", len(table.Headers()),
		"identifier_column", keys.Identifier,
		"date_column", keys.Date,
	)

	tp := telemetry.NewProvider()
	store := cache.New(cfg.Cache.MaxSize, cfg.Cache.Expiry)
	llmClient := llm.NewClient(llm.Config{
		URL:           cfg.LLM.URL,
		Model:         cfg.LLM.Model,
		Timeout:       cfg.LLM.Timeout,
		RatePerSecond: cfg.LLM.RatePerSecond,
		Burst:         cfg.LLM.Burst,
	}, logger)

	engine := router.New(filters.NewResolver(table, keys), llmClient, store, tp, logger)

	handler := api.NewHandler(
		engine,
		table,
		keys,
		profile,
		store,
		api.Info{
			Service: cfg.Service.Name,
			Version: cfg.Service.Version,
			Model:   cfg.LLM.Model,
		},
		logger,
	)

	srv := api.NewServer(handler, tp.Handler(), api.ServerConfig{
		Port:         cfg.Service.Port,
		WriteTimeout: cfg.LLM.Timeout + defaultWriteHeadroom,
		Debug:        cfg.Service.Debug,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		logger.Info("Server stopped gracefully")
	}
	return nil
}
