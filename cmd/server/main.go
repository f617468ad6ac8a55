package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanhanxue/260110-personal-budget/internal/api"
	"github.com/hanhanxue/260110-personal-budget/internal/config"
	"github.com/hanhanxue/260110-personal-budget/internal/exchange"
	"github.com/hanhanxue/260110-personal-budget/internal/logger"
	"github.com/hanhanxue/260110-personal-budget/internal/receipts"
	"github.com/hanhanxue/260110-personal-budget/internal/sheets"
)

func main() {
	// Initialize logger
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.AppPassword == "" {
		log.Warn().Msg("No APP_PASSWORD configured - write endpoints are open in development mode")
	}
	if cfg.ReceiptsBucket == "" {
		log.Warn().Msg("No receipts bucket configured - receipt uploads will be disabled")
	}

	ctx := context.Background()

	store, err := sheets.New(ctx, sheets.Config{
		PersonalSpreadsheetID: cfg.PersonalSpreadsheetID,
		BusinessSpreadsheetID: cfg.BusinessSpreadsheetID,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create spreadsheet store")
	}

	rates := exchange.NewClient(cfg.ExchangeRateAPIKey, log)
	uploader := receipts.NewUploader(cfg.ReceiptsBucket, cfg.ReceiptsPublicURL, log)

	handler := api.NewRouter(api.Deps{
		Store:      store,
		Rates:      rates,
		Uploader:   uploader,
		Password:   cfg.AppPassword,
		Production: cfg.Production(),
		Log:        log,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
