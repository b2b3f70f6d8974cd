package httpapi

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/gzmliang/finbook/internal/transport/httpapi/handler"
	"github.com/gzmliang/finbook/internal/transport/httpapi/middleware"
	"github.com/gzmliang/finbook/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger         *logger.Logger
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	AccountHandler *handler.AccountHandler
	VoucherHandler *handler.VoucherHandler
	BalanceHandler *handler.BalanceHandler
	ReportHandler  *handler.ReportHandler
	HealthHandler  *handler.HealthHandler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
		r.Use(limiter.Middleware)
	}

	// Health check endpoints
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		if cfg.AccountHandler != nil {
			r.Post("/accounts", cfg.AccountHandler.CreateAccount)
			r.Get("/accounts", cfg.AccountHandler.GetAccounts)
			// leaf must be registered before the {code} route
			r.Get("/accounts/leaf", cfg.AccountHandler.GetLeafAccounts)
			r.Get("/accounts/{code}", cfg.AccountHandler.GetAccount)
			r.Put("/accounts/{code}", cfg.AccountHandler.UpdateAccount)
			r.Delete("/accounts/{code}", cfg.AccountHandler.DeleteAccount)
		}

		if cfg.VoucherHandler != nil {
			// next_number must be registered before the {id} route
			r.Get("/vouchers/next_number", cfg.VoucherHandler.GetNextNumber)
			r.Post("/vouchers", cfg.VoucherHandler.CreateVoucher)
			r.Get("/vouchers", cfg.VoucherHandler.GetVouchers)
			r.Get("/vouchers/{id}", cfg.VoucherHandler.GetVoucher)
			r.Delete("/vouchers/{id}", cfg.VoucherHandler.DeleteVoucher)
		}

		if cfg.BalanceHandler != nil {
			r.Get("/balances/opening", cfg.BalanceHandler.GetOpeningBalances)
			r.Put("/balances/opening", cfg.BalanceHandler.SaveOpeningBalances)
		}

		if cfg.ReportHandler != nil {
			r.Post("/reports/generate_summary", cfg.ReportHandler.GenerateSummary)
			r.Get("/reports/account_summary", cfg.ReportHandler.GetAccountSummary)
			r.Get("/reports/balance_sheet", cfg.ReportHandler.GetBalanceSheet)
			r.Get("/reports/income_statement", cfg.ReportHandler.GetIncomeStatement)
			r.Get("/reports/cash_flow_statement", cfg.ReportHandler.GetCashFlowStatement)
		}
	})

	return r
}
