package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gzmliang/finbook/internal/statement"
)

// StatementServiceInterface defines the statement generator operations
type StatementServiceInterface interface {
	TrialBalance(ctx context.Context, year int) (*statement.TrialBalance, error)
	BalanceSheet(ctx context.Context, year int) ([]statement.BalanceSheetLine, error)
	IncomeStatement(ctx context.Context, year int) ([]statement.Line, error)
	CashFlow(ctx context.Context, year int) ([]statement.Line, error)
}

// ReportHandler handles financial report HTTP requests
type ReportHandler struct {
	statements StatementServiceInterface
	balances   BalanceServiceInterface
}

// NewReportHandler creates a new report handler
func NewReportHandler(statements StatementServiceInterface, balances BalanceServiceInterface) *ReportHandler {
	return &ReportHandler{statements: statements, balances: balances}
}

// GenerateSummaryRequest triggers a year's balance recompute
type GenerateSummaryRequest struct {
	Year int `json:"year"`
}

// GenerateSummary handles POST /api/reports/generate_summary
func (h *ReportHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req GenerateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.balances.RecomputeYear(r.Context(), req.Year); err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "account summary generated",
		"year":    req.Year,
	})
}

// GetAccountSummary handles GET /api/reports/account_summary?year=2024
func (h *ReportHandler) GetAccountSummary(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	tb, err := h.statements.TrialBalance(r.Context(), year)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tb)
}

// GetBalanceSheet handles GET /api/reports/balance_sheet?year=2024
func (h *ReportHandler) GetBalanceSheet(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	lines, err := h.statements.BalanceSheet(r.Context(), year)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if lines == nil {
		lines = []statement.BalanceSheetLine{}
	}

	respondWithJSON(w, http.StatusOK, lines)
}

// GetIncomeStatement handles GET /api/reports/income_statement?year=2024
func (h *ReportHandler) GetIncomeStatement(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	lines, err := h.statements.IncomeStatement(r.Context(), year)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, lines)
}

// GetCashFlowStatement handles GET /api/reports/cash_flow_statement?year=2024
func (h *ReportHandler) GetCashFlowStatement(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	lines, err := h.statements.CashFlow(r.Context(), year)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, lines)
}
