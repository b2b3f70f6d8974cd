package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gzmliang/finbook/internal/balance"
)

// BalanceServiceInterface defines the balance aggregator operations
type BalanceServiceInterface interface {
	OpeningBalances(ctx context.Context, year int) (*balance.OpeningBalances, error)
	SaveOpeningBalances(ctx context.Context, year int, rows []balance.OpeningRow) error
	RecomputeYear(ctx context.Context, year int) error
}

// BalanceHandler handles opening-balance HTTP requests
type BalanceHandler struct {
	balances BalanceServiceInterface
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(balances BalanceServiceInterface) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// GetOpeningBalances handles GET /api/balances/opening?year=2024
func (h *BalanceHandler) GetOpeningBalances(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	result, err := h.balances.OpeningBalances(r.Context(), year)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// SaveOpeningBalancesRequest is the opening-balance batch upsert payload
type SaveOpeningBalancesRequest struct {
	FiscalYear int                  `json:"fiscal_year"`
	Rows       []balance.OpeningRow `json:"rows"`
}

// SaveOpeningBalances handles PUT /api/balances/opening
func (h *BalanceHandler) SaveOpeningBalances(w http.ResponseWriter, r *http.Request) {
	var req SaveOpeningBalancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.balances.SaveOpeningBalances(r.Context(), req.FiscalYear, req.Rows); err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "opening balances saved"})
}

// yearParam parses and validates the year query parameter.
func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	yearStr := r.URL.Query().Get("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil || year <= 0 {
		respondWithError(w, http.StatusBadRequest, "year must be a positive integer")
		return 0, false
	}
	return year, true
}
