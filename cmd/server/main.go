package main

import (
	"context"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fxdesk/swapbook-backend/internal/adapter/http"
	"github.com/fxdesk/swapbook-backend/internal/adapter/repository/postgres"
	"github.com/fxdesk/swapbook-backend/internal/config"
	"github.com/fxdesk/swapbook-backend/internal/usecase/cashflow"
	"github.com/fxdesk/swapbook-backend/internal/usecase/refdata"
	"github.com/fxdesk/swapbook-backend/internal/usecase/seeder"
	"github.com/fxdesk/swapbook-backend/internal/usecase/trade"
	"github.com/fxdesk/swapbook-backend/pkg/logger"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		errLog := logger.New(logger.Config{Level: "error"})
		errLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	// 2. Database
	// Short delay so a freshly started Postgres container is accepting connections.
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// 3. Repositories (Postgres)
	bookRepo := postgres.NewBookRepository(db)
	counterpartyRepo := postgres.NewCounterpartyRepository(db)
	statusRepo := postgres.NewTradeStatusRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	tradeRepo := postgres.NewTradeRepository(db)
	legRepo := postgres.NewTradeLegRepository(db)
	cashflowRepo := postgres.NewCashflowRepository(db)
	additionalInfoRepo := postgres.NewAdditionalInfoRepository(db)

	// 4. Use cases
	resolver := refdata.NewResolver(bookRepo, counterpartyRepo, statusRepo, scheduleRepo)
	generator := cashflow.NewGenerator(cfg.DayCount)
	tradeService := trade.NewTradeService(tradeRepo, legRepo, cashflowRepo, resolver, generator, additionalInfoRepo, log)

	// Seed reference data (schedules and trade statuses) and run it
	refDataSeeder := seeder.NewRefDataSeeder(scheduleRepo, statusRepo)
	ctx := context.Background()
	if err := refDataSeeder.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed reference data")
	}
	log.Info().Msg("Reference data seeded successfully")

	// 5. HTTP server
	handlers := http.NewTradeHandlers(tradeService, log)
	server := http.New(http.Config{
		Port:     cfg.Port,
		APIToken: cfg.APIToken,
		Log:      log,
		Handlers: handlers,
	})

	go func() {
		log.Info().Int("port", cfg.Port).Msg("HTTP server listening")
		if err := server.Start(); err != nil && err != nethttp.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to serve HTTP server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(server, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return
	}
	log.Info().Msg("HTTP server stopped")
}
