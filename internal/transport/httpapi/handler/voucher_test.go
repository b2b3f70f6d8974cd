package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gzmliang/finbook/internal/transport/httpapi/handler"
	"github.com/gzmliang/finbook/internal/voucher"
)

// MockVoucherService is a mock implementation of VoucherServiceInterface
type MockVoucherService struct {
	mock.Mock
}

func (m *MockVoucherService) NextNumber(ctx context.Context, vtype string, date time.Time) (int, error) {
	args := m.Called(ctx, vtype, date)
	return args.Int(0), args.Error(1)
}

func (m *MockVoucherService) Create(ctx context.Context, v *voucher.Voucher) (*voucher.Voucher, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockVoucherService) Get(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockVoucherService) List(ctx context.Context) ([]*voucher.ListItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*voucher.ListItem), args.Error(1)
}

func (m *MockVoucherService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupVoucherRouter(svc *MockVoucherService) http.Handler {
	h := handler.NewVoucherHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/vouchers", h.CreateVoucher)
	r.Get("/api/vouchers", h.GetVouchers)
	r.Get("/api/vouchers/next_number", h.GetNextNumber)
	r.Get("/api/vouchers/{id}", h.GetVoucher)
	r.Delete("/api/vouchers/{id}", h.DeleteVoucher)
	return r
}

func voucherRequestBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"header": map[string]any{
			"date":    "2024-03-15",
			"type":    "记",
			"number":  1,
			"summary": "提现",
		},
		"entries": []map[string]any{
			{"account_code": "1001", "summary": "提现", "debit": "500.00", "credit": "0"},
			{"account_code": "1002", "summary": "提现", "debit": "0", "credit": "500.00"},
		},
	})
	return body
}

func TestVoucherHandler_CreateVoucher(t *testing.T) {
	t.Run("posts voucher", func(t *testing.T) {
		svc := new(MockVoucherService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(v *voucher.Voucher) bool {
			return v.Type == "记" && v.Number == 1 && len(v.Entries) == 2 &&
				v.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
		})).Return(&voucher.Voucher{ID: uuid.New(), Type: "记", Number: 1}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/vouchers", bytes.NewReader(voucherRequestBody()))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		setupVoucherRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad date", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"header": map[string]any{"date": "15/03/2024", "type": "记", "number": 1},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/vouchers", bytes.NewReader(body))
		w := httptest.NewRecorder()

		setupVoucherRouter(new(MockVoucherService)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unbalanced maps to bad request", func(t *testing.T) {
		svc := new(MockVoucherService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, voucher.ErrUnbalanced)

		req := httptest.NewRequest(http.MethodPost, "/api/vouchers", bytes.NewReader(voucherRequestBody()))
		w := httptest.NewRecorder()

		setupVoucherRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("number collision maps to conflict", func(t *testing.T) {
		svc := new(MockVoucherService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, voucher.ErrNumberTaken)

		req := httptest.NewRequest(http.MethodPost, "/api/vouchers", bytes.NewReader(voucherRequestBody()))
		w := httptest.NewRecorder()

		setupVoucherRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestVoucherHandler_GetVoucher(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/vouchers/not-a-uuid", nil)
		w := httptest.NewRecorder()

		setupVoucherRouter(new(MockVoucherService)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		svc := new(MockVoucherService)
		svc.On("Get", mock.Anything, id).Return(nil, voucher.ErrVoucherNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/vouchers/"+id.String(), nil)
		w := httptest.NewRecorder()

		setupVoucherRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestVoucherHandler_GetNextNumber(t *testing.T) {
	t.Run("returns suggestion", func(t *testing.T) {
		svc := new(MockVoucherService)
		svc.On("NextNumber", mock.Anything, "记", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)).Return(8, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/vouchers/next_number?type=记&date=2024-03-15", nil)
		w := httptest.NewRecorder()

		setupVoucherRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp handler.NextNumberResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 8, resp.NextNumber)
	})

	t.Run("missing date", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/vouchers/next_number?type=记", nil)
		w := httptest.NewRecorder()

		setupVoucherRouter(new(MockVoucherService)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
