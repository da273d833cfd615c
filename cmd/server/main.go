// Package main is the entry point for the statistical-arbitrage screening API.
// The application fetches daily prices, screens ticker pairs for cointegration,
// simulates the resulting spread trades, and serves risk metrics over HTTP.
//
// Startup sequence:
// 1. Load configuration from environment variables
// 2. Initialize structured logging
// 3. Open the price cache database
// 4. Wire the Yahoo client, universe service, and pair-screening service
// 5. Start the cron scheduler with the cache cleanup job
// 6. Start the HTTP server and wait for a shutdown signal
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/statarb/internal/clientdata"
	"github.com/aristath/statarb/internal/clients/yahoo"
	"github.com/aristath/statarb/internal/config"
	"github.com/aristath/statarb/internal/database"
	"github.com/aristath/statarb/internal/pairs"
	pairshandlers "github.com/aristath/statarb/internal/pairs/handlers"
	"github.com/aristath/statarb/internal/scheduler"
	"github.com/aristath/statarb/internal/server"
	"github.com/aristath/statarb/internal/universe"
	universehandlers "github.com/aristath/statarb/internal/universe/handlers"
	"github.com/aristath/statarb/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting statarb")

	// Price cache database
	cacheDB, err := database.New(database.Config{
		Path: filepath.Join(cfg.DataDir, "client_data.db"),
		Name: "client_data",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open price cache database")
	}
	defer cacheDB.Close()

	priceCache, err := clientdata.NewRepository(cacheDB.Conn())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize price cache repository")
	}

	// Market data client and services
	yahooClient := yahoo.NewClient(log)
	universeService := universe.NewService(yahooClient, priceCache, cfg.PriceCacheTTL, log)
	pairsService := pairs.NewService(universeService, cfg.ScreeningWorkers, log)

	// HTTP handlers
	pairsHandlers := pairshandlers.NewHandler(pairsService, cfg.DefaultStartDate, log)
	universeHandlers := universehandlers.NewHandler(universeService, log)

	// Scheduler with daily cache cleanup
	sched := scheduler.New(log)
	cleanupJob := clientdata.NewCleanupJob(priceCache, log)
	if err := sched.AddJob("0 3 * * *", cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule cache cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:              log,
		Config:           cfg,
		PairsHandlers:    pairsHandlers,
		UniverseHandlers: universeHandlers,
		PriceCache:       priceCache,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
