package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gzmliang/finbook/internal/voucher"
)

// VoucherServiceInterface defines the voucher ledger operations
type VoucherServiceInterface interface {
	NextNumber(ctx context.Context, vtype string, date time.Time) (int, error)
	Create(ctx context.Context, v *voucher.Voucher) (*voucher.Voucher, error)
	Get(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error)
	List(ctx context.Context) ([]*voucher.ListItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VoucherHandler handles voucher HTTP requests
type VoucherHandler struct {
	vouchers VoucherServiceInterface
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(vouchers VoucherServiceInterface) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers}
}

// CreateVoucherRequest mirrors the posting form: a header plus entries.
type CreateVoucherRequest struct {
	Header struct {
		Date    string `json:"date"`
		Type    string `json:"type"`
		Number  int    `json:"number"`
		Summary string `json:"summary"`
	} `json:"header"`
	Entries []struct {
		AccountCode string          `json:"account_code"`
		Summary     string          `json:"summary"`
		Debit       decimal.Decimal `json:"debit"`
		Credit      decimal.Decimal `json:"credit"`
	} `json:"entries"`
}

// CreateVoucher handles POST /api/vouchers
func (h *VoucherHandler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	var req CreateVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Header.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid voucher date, expected YYYY-MM-DD")
		return
	}

	v := &voucher.Voucher{
		Date:    date,
		Type:    req.Header.Type,
		Number:  req.Header.Number,
		Summary: req.Header.Summary,
	}
	for _, e := range req.Entries {
		v.Entries = append(v.Entries, voucher.Entry{
			AccountCode: e.AccountCode,
			Summary:     e.Summary,
			Debit:       e.Debit,
			Credit:      e.Credit,
		})
	}

	created, err := h.vouchers.Create(r.Context(), v)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetVouchers handles GET /api/vouchers
func (h *VoucherHandler) GetVouchers(w http.ResponseWriter, r *http.Request) {
	items, err := h.vouchers.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if items == nil {
		items = []*voucher.ListItem{}
	}
	respondWithJSON(w, http.StatusOK, items)
}

// GetVoucher handles GET /api/vouchers/{id}
func (h *VoucherHandler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid voucher ID")
		return
	}

	v, err := h.vouchers.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, v)
}

// DeleteVoucher handles DELETE /api/vouchers/{id}
func (h *VoucherHandler) DeleteVoucher(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid voucher ID")
		return
	}

	if err := h.vouchers.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "voucher deleted"})
}

// NextNumberResponse carries the advisory next voucher number
type NextNumberResponse struct {
	NextNumber int `json:"next_number"`
}

// GetNextNumber handles GET /api/vouchers/next_number?date=YYYY-MM-DD&type=记
func (h *VoucherHandler) GetNextNumber(w http.ResponseWriter, r *http.Request) {
	vtype := r.URL.Query().Get("type")
	dateStr := r.URL.Query().Get("date")

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	next, err := h.vouchers.NextNumber(r.Context(), vtype, date)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NextNumberResponse{NextNumber: next})
}
