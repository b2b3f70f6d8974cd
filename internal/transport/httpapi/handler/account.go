package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gzmliang/finbook/internal/coa"
)

// AccountServiceInterface defines the chart-of-accounts operations
type AccountServiceInterface interface {
	Create(ctx context.Context, account *coa.Account) (*coa.Account, error)
	Get(ctx context.Context, code string) (*coa.Account, error)
	List(ctx context.Context) ([]*coa.Account, error)
	Update(ctx context.Context, code string, patch coa.Patch) (*coa.Account, error)
	Delete(ctx context.Context, code string) error
}

// AccountHandler handles chart-of-accounts HTTP requests
type AccountHandler struct {
	accounts AccountServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountServiceInterface) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// CreateAccountRequest represents the account creation request
type CreateAccountRequest struct {
	Code       string  `json:"account_code"`
	Name       string  `json:"account_name"`
	Direction  string  `json:"balance_direction"`
	ParentCode *string `json:"parent_code,omitempty"`
	Enabled    *bool   `json:"is_enabled,omitempty"`
}

// CreateAccount handles POST /api/accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account := &coa.Account{
		Code:       req.Code,
		Name:       req.Name,
		Direction:  coa.Direction(req.Direction),
		ParentCode: req.ParentCode,
		Enabled:    true,
	}
	if req.Enabled != nil {
		account.Enabled = *req.Enabled
	}

	created, err := h.accounts.Create(r.Context(), account)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetAccounts handles GET /api/accounts
func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []*coa.Account{}
	}
	respondWithJSON(w, http.StatusOK, accounts)
}

// GetLeafAccounts handles GET /api/accounts/leaf. It returns only the
// accounts vouchers may post to: enabled leaves of the chart.
func (h *AccountHandler) GetLeafAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	leaves := []*coa.Account{}
	for _, a := range accounts {
		if a.IsLeaf && a.Enabled {
			leaves = append(leaves, a)
		}
	}
	respondWithJSON(w, http.StatusOK, leaves)
}

// GetAccount handles GET /api/accounts/{code}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	account, err := h.accounts.Get(r.Context(), code)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

// UpdateAccount handles PUT /api/accounts/{code}
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var patch coa.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.accounts.Update(r.Context(), code, patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteAccount handles DELETE /api/accounts/{code}
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.accounts.Delete(r.Context(), code); err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}
