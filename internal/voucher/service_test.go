package voucher_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gzmliang/finbook/internal/coa"
	"github.com/gzmliang/finbook/internal/voucher"
)

// MockRepository is a mock implementation of voucher.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) NextNumber(ctx context.Context, vtype string, year int, month time.Month) (int, error) {
	args := m.Called(ctx, vtype, year, month)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, v *voucher.Voucher) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockRepository) Get(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]*voucher.ListItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*voucher.ListItem), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) BeginTx(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *MockRepository) CommitTx(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) RollbackTx(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAccountResolver is a mock implementation of voucher.AccountResolver
type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) Get(ctx context.Context, code string) (*coa.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coa.Account), args.Error(1)
}

func leafAccount(code string) *coa.Account {
	return &coa.Account{Code: code, Name: code, Direction: coa.DirectionDebit, Enabled: true, IsLeaf: true}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("posts balanced voucher atomically", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockAccounts := new(MockAccountResolver)

		mockAccounts.On("Get", ctx, "1001").Return(leafAccount("1001"), nil)
		mockAccounts.On("Get", ctx, "1002").Return(leafAccount("1002"), nil)
		mockRepo.On("BeginTx", ctx).Return(ctx, nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*voucher.Voucher")).Return(nil)
		mockRepo.On("CommitTx", ctx).Return(nil)

		svc := voucher.NewService(mockRepo, mockAccounts)
		created, err := svc.Create(ctx, validVoucher())

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "RollbackTx", mock.Anything)
	})

	t.Run("unbalanced voucher never reaches storage", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockAccounts := new(MockAccountResolver)

		v := validVoucher()
		v.Entries[1].Credit = dec("400.00")

		svc := voucher.NewService(mockRepo, mockAccounts)
		_, err := svc.Create(ctx, v)

		assert.ErrorIs(t, err, voucher.ErrUnbalanced)
		mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown account", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockAccounts := new(MockAccountResolver)
		mockAccounts.On("Get", ctx, "1001").Return(nil, coa.ErrAccountNotFound)

		svc := voucher.NewService(mockRepo, mockAccounts)
		_, err := svc.Create(ctx, validVoucher())

		assert.ErrorIs(t, err, voucher.ErrUnknownAccount)
		mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("non-leaf account rejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockAccounts := new(MockAccountResolver)

		parent := leafAccount("1001")
		parent.IsLeaf = false
		mockAccounts.On("Get", ctx, "1001").Return(parent, nil)

		svc := voucher.NewService(mockRepo, mockAccounts)
		_, err := svc.Create(ctx, validVoucher())

		assert.ErrorIs(t, err, voucher.ErrNonLeafAccount)
		mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("disabled account rejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockAccounts := new(MockAccountResolver)

		disabled := leafAccount("1001")
		disabled.Enabled = false
		mockAccounts.On("Get", ctx, "1001").Return(disabled, nil)

		svc := voucher.NewService(mockRepo, mockAccounts)
		_, err := svc.Create(ctx, validVoucher())

		assert.ErrorIs(t, err, voucher.ErrDisabledAccount)
		mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("number collision rolls back", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockAccounts := new(MockAccountResolver)

		mockAccounts.On("Get", ctx, "1001").Return(leafAccount("1001"), nil)
		mockAccounts.On("Get", ctx, "1002").Return(leafAccount("1002"), nil)
		mockRepo.On("BeginTx", ctx).Return(ctx, nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*voucher.Voucher")).Return(voucher.ErrNumberTaken)
		mockRepo.On("RollbackTx", ctx).Return(nil)

		svc := voucher.NewService(mockRepo, mockAccounts)
		_, err := svc.Create(ctx, validVoucher())

		assert.ErrorIs(t, err, voucher.ErrNumberTaken)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "CommitTx", mock.Anything)
	})
}

func TestService_NextNumber(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("delegates with year and month", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("NextNumber", ctx, "记", 2024, time.March).Return(8, nil)

		svc := voucher.NewService(mockRepo, new(MockAccountResolver))
		n, err := svc.NextNumber(ctx, "记", date)

		require.NoError(t, err)
		assert.Equal(t, 8, n)
	})

	t.Run("missing type", func(t *testing.T) {
		svc := voucher.NewService(new(MockRepository), new(MockAccountResolver))
		_, err := svc.NextNumber(ctx, "", date)
		assert.ErrorIs(t, err, voucher.ErrMissingType)
	})

	t.Run("missing date", func(t *testing.T) {
		svc := voucher.NewService(new(MockRepository), new(MockAccountResolver))
		_, err := svc.NextNumber(ctx, "记", time.Time{})
		assert.ErrorIs(t, err, voucher.ErrMissingDate)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("deletes voucher in a transaction", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("BeginTx", ctx).Return(ctx, nil)
		mockRepo.On("Delete", ctx, id).Return(nil)
		mockRepo.On("CommitTx", ctx).Return(nil)

		svc := voucher.NewService(mockRepo, new(MockAccountResolver))
		require.NoError(t, svc.Delete(ctx, id))
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown voucher", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("BeginTx", ctx).Return(ctx, nil)
		mockRepo.On("Delete", ctx, id).Return(voucher.ErrVoucherNotFound)
		mockRepo.On("RollbackTx", ctx).Return(nil)

		svc := voucher.NewService(mockRepo, new(MockAccountResolver))
		err := svc.Delete(ctx, id)
		assert.ErrorIs(t, err, voucher.ErrVoucherNotFound)
		mockRepo.AssertNotCalled(t, "CommitTx", mock.Anything)
	})
}
