package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bankledger/internal/auth"
	"bankledger/internal/config"
	"bankledger/internal/handlers"
	"bankledger/internal/service"
	"bankledger/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting bank ledger",
		"port", cfg.Server.Port,
		"data_dir", cfg.Store.Dir,
		"log_level", cfg.Logger.Level,
	)

	st, err := store.Open(cfg.Store.Dir, cfg.Store.LockWait, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	// Finish any transfer interrupted by a previous crash before taking
	// traffic.
	if err := st.Recover(); err != nil {
		logger.Error("failed to recover transfer journal", "error", err)
		os.Exit(1)
	}

	authenticator, err := auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Error("failed to initialize auth", "error", err)
		os.Exit(1)
	}

	fee, err := cfg.Fees.FeeCents()
	if err != nil {
		logger.Error("invalid external fee", "error", err)
		os.Exit(1)
	}

	ledger := service.NewLedger(st, fee, logger)
	router := handlers.NewRouter(handlers.NewHandler(ledger, authenticator, logger))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
