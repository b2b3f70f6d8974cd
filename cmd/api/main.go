package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gzmliang/finbook/internal/balance"
	"github.com/gzmliang/finbook/internal/coa"
	"github.com/gzmliang/finbook/internal/infra/postgres"
	"github.com/gzmliang/finbook/internal/statement"
	"github.com/gzmliang/finbook/internal/transport/httpapi"
	"github.com/gzmliang/finbook/internal/transport/httpapi/handler"
	"github.com/gzmliang/finbook/internal/voucher"
	"github.com/gzmliang/finbook/pkg/config"
	"github.com/gzmliang/finbook/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting finbook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(db.Pool)
	voucherRepo := postgres.NewVoucherRepository(db.Pool)
	balanceRepo := postgres.NewBalanceRepository(db.Pool)

	// Initialize services
	accountSvc := coa.NewService(accountRepo)
	voucherSvc := voucher.NewService(voucherRepo, accountSvc)
	balanceSvc := balance.NewService(balanceRepo, accountSvc)
	statementSvc := statement.NewService(accountSvc, balanceSvc, voucherRepo)

	// Initialize HTTP handlers
	accountHandler := handler.NewAccountHandler(accountSvc)
	voucherHandler := handler.NewVoucherHandler(voucherSvc)
	balanceHandler := handler.NewBalanceHandler(balanceSvc)
	reportHandler := handler.NewReportHandler(statementSvc, balanceSvc)
	healthHandler := handler.NewHealthHandler(db)

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AccountHandler: accountHandler,
		VoucherHandler: voucherHandler,
		BalanceHandler: balanceHandler,
		ReportHandler:  reportHandler,
		HealthHandler:  healthHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
