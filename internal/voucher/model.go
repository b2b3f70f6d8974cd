package voucher

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is a single debit or credit line of a voucher. Exactly one of
// Debit/Credit is positive; both are non-negative.
type Entry struct {
	AccountCode string          `json:"account_code"`
	Summary     string          `json:"summary"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Validate checks a single entry line.
func (e *Entry) Validate() error {
	if e.AccountCode == "" {
		return ErrMissingAccountCode
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return ErrNegativeAmount
	}
	hasDebit := e.Debit.IsPositive()
	hasCredit := e.Credit.IsPositive()
	if hasDebit == hasCredit {
		return ErrOneSideRequired
	}
	// Amounts are currency values; reject sub-cent precision. Trailing
	// zeros past two places ("1.500") are still exact cent amounts.
	if !e.Debit.Equal(e.Debit.Round(2)) || !e.Credit.Equal(e.Credit.Round(2)) {
		return ErrTooManyDecimals
	}
	return nil
}

// Voucher is an immutable journal posting: a header plus a balanced set
// of entries. Number is sequential within (Type, calendar month of Date).
type Voucher struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"voucher_date"`
	Type      string    `json:"voucher_type"`
	Number    int       `json:"voucher_number"`
	Summary   string    `json:"summary"`
	Entries   []Entry   `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
}

// Ref is the display reference, e.g. "记-0007".
func (v *Voucher) Ref() string {
	return fmt.Sprintf("%s-%04d", v.Type, v.Number)
}

// TotalDebit sums the debit side of all entries.
func (v *Voucher) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for i := range v.Entries {
		total = total.Add(v.Entries[i].Debit)
	}
	return total
}

// TotalCredit sums the credit side of all entries.
func (v *Voucher) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for i := range v.Entries {
		total = total.Add(v.Entries[i].Credit)
	}
	return total
}

// Validate checks the header fields, each entry, and the double-entry
// balance invariant. Decimal comparison is exact; no epsilon.
func (v *Voucher) Validate() error {
	if v.Date.IsZero() {
		return ErrMissingDate
	}
	if v.Type == "" {
		return ErrMissingType
	}
	if v.Number < 1 {
		return ErrInvalidNumber
	}
	if len(v.Entries) == 0 {
		return ErrNoEntries
	}
	for i := range v.Entries {
		if err := v.Entries[i].Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	if !v.TotalDebit().Equal(v.TotalCredit()) {
		return ErrUnbalanced
	}
	return nil
}

// ListItem is the list-view projection of a voucher.
type ListItem struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"voucher_date"`
	Type        string          `json:"voucher_type"`
	Number      int             `json:"voucher_number"`
	Ref         string          `json:"voucher_ref"`
	Summary     string          `json:"summary"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
