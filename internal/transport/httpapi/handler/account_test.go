package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gzmliang/finbook/internal/coa"
	"github.com/gzmliang/finbook/internal/transport/httpapi/handler"
)

// MockAccountService is a mock implementation of AccountServiceInterface
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Create(ctx context.Context, account *coa.Account) (*coa.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coa.Account), args.Error(1)
}

func (m *MockAccountService) Get(ctx context.Context, code string) (*coa.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coa.Account), args.Error(1)
}

func (m *MockAccountService) List(ctx context.Context) ([]*coa.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*coa.Account), args.Error(1)
}

func (m *MockAccountService) Update(ctx context.Context, code string, patch coa.Patch) (*coa.Account, error) {
	args := m.Called(ctx, code, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coa.Account), args.Error(1)
}

func (m *MockAccountService) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func setupAccountRouter(svc *MockAccountService) http.Handler {
	h := handler.NewAccountHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/accounts", h.CreateAccount)
	r.Get("/api/accounts", h.GetAccounts)
	r.Get("/api/accounts/leaf", h.GetLeafAccounts)
	r.Get("/api/accounts/{code}", h.GetAccount)
	r.Put("/api/accounts/{code}", h.UpdateAccount)
	r.Delete("/api/accounts/{code}", h.DeleteAccount)
	return r
}

func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("creates account", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(a *coa.Account) bool {
			return a.Code == "1001" && a.Enabled
		})).Return(&coa.Account{Code: "1001", Name: "库存现金", Direction: coa.DirectionDebit, Enabled: true, IsLeaf: true}, nil)

		body, _ := json.Marshal(map[string]any{
			"account_code":      "1001",
			"account_name":      "库存现金",
			"balance_direction": "debit",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		setupAccountRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp coa.Account
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "1001", resp.Code)
		assert.True(t, resp.IsLeaf)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader([]byte("{")))
		w := httptest.NewRecorder()

		setupAccountRouter(new(MockAccountService)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate code maps to conflict", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, coa.ErrDuplicateCode)

		body, _ := json.Marshal(map[string]any{
			"account_code":      "1001",
			"account_name":      "库存现金",
			"balance_direction": "debit",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
		w := httptest.NewRecorder()

		setupAccountRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation failure maps to bad request", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, coa.ErrEmptyName)

		body, _ := json.Marshal(map[string]any{
			"account_code":      "1001",
			"balance_direction": "debit",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
		w := httptest.NewRecorder()

		setupAccountRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccountHandler_GetAccount(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Get", mock.Anything, "1001").Return(&coa.Account{Code: "1001", Name: "库存现金", Direction: coa.DirectionDebit}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/accounts/1001", nil)
		w := httptest.NewRecorder()

		setupAccountRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Get", mock.Anything, "9999").Return(nil, coa.ErrAccountNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/accounts/9999", nil)
		w := httptest.NewRecorder()

		setupAccountRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAccountHandler_GetAccounts_EmptyList(t *testing.T) {
	svc := new(MockAccountService)
	svc.On("List", mock.Anything).Return([]*coa.Account(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	w := httptest.NewRecorder()

	setupAccountRouter(svc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAccountHandler_GetLeafAccounts(t *testing.T) {
	t.Run("returns enabled leaves only", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("List", mock.Anything).Return([]*coa.Account{
			{Code: "1000", Name: "流动资产", Direction: coa.DirectionDebit, Enabled: true, IsLeaf: false},
			{Code: "1001", Name: "库存现金", Direction: coa.DirectionDebit, Enabled: true, IsLeaf: true},
			{Code: "1009", Name: "停用科目", Direction: coa.DirectionDebit, Enabled: false, IsLeaf: true},
			{Code: "2001", Name: "短期借款", Direction: coa.DirectionCredit, Enabled: true, IsLeaf: true},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/accounts/leaf", nil)
		w := httptest.NewRecorder()

		setupAccountRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var got []coa.Account
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "1001", got[0].Code)
		assert.Equal(t, "2001", got[1].Code)
	})

	t.Run("no leaves yields empty array", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("List", mock.Anything).Return([]*coa.Account(nil), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/accounts/leaf", nil)
		w := httptest.NewRecorder()

		setupAccountRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestAccountHandler_DeleteAccount(t *testing.T) {
	t.Run("account in use maps to conflict", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Delete", mock.Anything, "1001").Return(coa.ErrAccountInUse)

		req := httptest.NewRequest(http.MethodDelete, "/api/accounts/1001", nil)
		w := httptest.NewRecorder()

		setupAccountRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("deleted", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Delete", mock.Anything, "1001").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/accounts/1001", nil)
		w := httptest.NewRecorder()

		setupAccountRouter(svc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAccountHandler_UpdateAccount(t *testing.T) {
	svc := new(MockAccountService)
	svc.On("Update", mock.Anything, "1001", mock.MatchedBy(func(p coa.Patch) bool {
		return p.Name != nil && *p.Name == "现金"
	})).Return(&coa.Account{Code: "1001", Name: "现金", Direction: coa.DirectionDebit}, nil)

	body, _ := json.Marshal(map[string]any{"account_name": "现金"})
	req := httptest.NewRequest(http.MethodPut, "/api/accounts/1001", bytes.NewReader(body))
	w := httptest.NewRecorder()

	setupAccountRouter(svc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
