package balance

import "github.com/shopspring/decimal"

// AccountBalance is the per-account per-fiscal-year aggregate row.
// Opening is signed per the account's natural direction; Closing is
// Opening adjusted by period activity on the natural side.
type AccountBalance struct {
	AccountCode  string          `json:"account_code"`
	FiscalYear   int             `json:"fiscal_year"`
	Opening      decimal.Decimal `json:"opening_balance"`
	PeriodDebit  decimal.Decimal `json:"period_debit"`
	PeriodCredit decimal.Decimal `json:"period_credit"`
	Closing      decimal.Decimal `json:"closing_balance"`

	// OpeningSet marks an opening balance explicitly saved by the user,
	// as opposed to one carried forward from the prior year's closing.
	OpeningSet bool `json:"-"`
}

// PeriodTotal is the summed journal activity of one account in one year.
type PeriodTotal struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// OpeningRow is one account's opening balance for a year.
type OpeningRow struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name,omitempty"`
	Opening     decimal.Decimal `json:"opening_balance"`
}

// OpeningBalances is the opening-balance view for a fiscal year.
// IsInitialYear is true when no earlier meaningful history exists, which
// is the only case where direct editing of openings is sensible.
type OpeningBalances struct {
	FiscalYear    int          `json:"fiscal_year"`
	IsInitialYear bool         `json:"is_initial_year"`
	Rows          []OpeningRow `json:"rows"`
}
