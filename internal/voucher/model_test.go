package voucher_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gzmliang/finbook/internal/voucher"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validVoucher() *voucher.Voucher {
	return &voucher.Voucher{
		Date:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:    "记",
		Number:  1,
		Summary: "提现",
		Entries: []voucher.Entry{
			{AccountCode: "1001", Summary: "提现", Debit: dec("500.00")},
			{AccountCode: "1002", Summary: "提现", Credit: dec("500.00")},
		},
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   voucher.Entry
		wantErr error
	}{
		{
			name:  "debit only",
			entry: voucher.Entry{AccountCode: "1001", Debit: dec("100")},
		},
		{
			name:  "credit only",
			entry: voucher.Entry{AccountCode: "1001", Credit: dec("100")},
		},
		{
			name:    "missing account code",
			entry:   voucher.Entry{Debit: dec("100")},
			wantErr: voucher.ErrMissingAccountCode,
		},
		{
			name:    "both sides zero",
			entry:   voucher.Entry{AccountCode: "1001"},
			wantErr: voucher.ErrOneSideRequired,
		},
		{
			name:    "both sides positive",
			entry:   voucher.Entry{AccountCode: "1001", Debit: dec("100"), Credit: dec("100")},
			wantErr: voucher.ErrOneSideRequired,
		},
		{
			name:    "negative debit",
			entry:   voucher.Entry{AccountCode: "1001", Debit: dec("-100")},
			wantErr: voucher.ErrNegativeAmount,
		},
		{
			name:    "sub-cent precision",
			entry:   voucher.Entry{AccountCode: "1001", Debit: dec("100.005")},
			wantErr: voucher.ErrTooManyDecimals,
		},
		{
			name:  "two decimal places",
			entry: voucher.Entry{AccountCode: "1001", Debit: dec("100.05")},
		},
		{
			name:  "trailing zero past two places",
			entry: voucher.Entry{AccountCode: "1001", Credit: dec("1.500")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVoucher_Validate(t *testing.T) {
	t.Run("balanced voucher passes", func(t *testing.T) {
		require.NoError(t, validVoucher().Validate())
	})

	t.Run("unbalanced voucher rejected", func(t *testing.T) {
		v := validVoucher()
		v.Entries[1].Credit = dec("499.99")
		assert.ErrorIs(t, v.Validate(), voucher.ErrUnbalanced)
	})

	t.Run("missing date", func(t *testing.T) {
		v := validVoucher()
		v.Date = time.Time{}
		assert.ErrorIs(t, v.Validate(), voucher.ErrMissingDate)
	})

	t.Run("missing type", func(t *testing.T) {
		v := validVoucher()
		v.Type = ""
		assert.ErrorIs(t, v.Validate(), voucher.ErrMissingType)
	})

	t.Run("non-positive number", func(t *testing.T) {
		v := validVoucher()
		v.Number = 0
		assert.ErrorIs(t, v.Validate(), voucher.ErrInvalidNumber)
	})

	t.Run("no entries", func(t *testing.T) {
		v := validVoucher()
		v.Entries = nil
		assert.ErrorIs(t, v.Validate(), voucher.ErrNoEntries)
	})

	t.Run("bad entry surfaces line index", func(t *testing.T) {
		v := validVoucher()
		v.Entries[1].AccountCode = ""
		err := v.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, voucher.ErrMissingAccountCode)
		assert.Contains(t, err.Error(), "entry 1")
	})

	t.Run("multi-line split balances", func(t *testing.T) {
		v := validVoucher()
		v.Entries = []voucher.Entry{
			{AccountCode: "6601", Debit: dec("300.00")},
			{AccountCode: "6602", Debit: dec("200.00")},
			{AccountCode: "1002", Credit: dec("500.00")},
		}
		require.NoError(t, v.Validate())
	})
}

func TestVoucher_Ref(t *testing.T) {
	v := validVoucher()
	v.Number = 7
	assert.Equal(t, "记-0007", v.Ref())
}

func TestVoucher_Totals(t *testing.T) {
	v := validVoucher()
	v.Entries = []voucher.Entry{
		{AccountCode: "6601", Debit: dec("300.10")},
		{AccountCode: "6602", Debit: dec("200.20")},
		{AccountCode: "1002", Credit: dec("500.30")},
	}
	assert.True(t, v.TotalDebit().Equal(dec("500.30")))
	assert.True(t, v.TotalCredit().Equal(dec("500.30")))
}
