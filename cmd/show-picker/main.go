// Package main is the entry point for the show picker server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kzfr/show-picker/internal/api"
	"github.com/kzfr/show-picker/internal/archive"
	"github.com/kzfr/show-picker/internal/config"
	"github.com/kzfr/show-picker/internal/creek"
	"github.com/kzfr/show-picker/internal/overrides"
	"github.com/kzfr/show-picker/internal/resolver"
	"github.com/kzfr/show-picker/pkg/logger"
	"github.com/kzfr/show-picker/pkg/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Archive config: BaseURL=%s, CacheTTL=%s, Timezone=%s",
		cfg.Archive.BaseURL, cfg.Cache.TTL, cfg.Station.Timezone)
	log.Printf("Server config: Address=%s", cfg.Server.Address)

	// Initialize logger
	logLevel := "info"
	if cfg.Environment == "development" {
		logLevel = "debug"
	}

	if err := logger.Initialize(logLevel, cfg.Environment == "development"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Resolve the station time zone
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Failed to resolve station timezone: %v", err)
	}

	// Build the historical override table; an asymmetric edit fails here
	overrideTable, err := overrides.Load()
	if err != nil {
		logger.Fatal("Failed to load override table: %v", err)
	}

	// Open the snapshot store if persistence is enabled
	var store *archive.Store
	if cfg.Cache.SnapshotPath != "" {
		store, err = archive.OpenStore(cfg.Cache.SnapshotPath, loc)
		if err != nil {
			logger.Fatal("Failed to open snapshot store: %v", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close snapshot store: %v", err)
			}
		}()
	}

	// Archive client, cache, resolver
	client := creek.NewClient(&cfg.Archive, loc)
	cache := archive.NewCache(client.FetchCatalogAndEpisodes, store, cfg.Cache.TTL)
	res := resolver.New(cache, client, overrideTable, cfg.Media.BaseURL, loc)

	// Setup router
	router := api.SetupRouter(res, cfg, loc)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting show picker %s on %s", version.Version, cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
