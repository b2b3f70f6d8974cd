package statement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrialBalanceLine is one account's row in the trial balance.
type TrialBalanceLine struct {
	AccountCode  string          `json:"account_code"`
	AccountName  string          `json:"account_name"`
	Opening      decimal.Decimal `json:"opening_balance"`
	PeriodDebit  decimal.Decimal `json:"period_debit"`
	PeriodCredit decimal.Decimal `json:"period_credit"`
	Closing      decimal.Decimal `json:"closing_balance"`
}

// TrialBalance lists every account's balances for a year plus the
// aggregate debit/credit check totals.
type TrialBalance struct {
	FiscalYear         int                `json:"fiscal_year"`
	Lines              []TrialBalanceLine `json:"lines"`
	TotalPeriodDebit   decimal.Decimal    `json:"total_period_debit"`
	TotalPeriodCredit  decimal.Decimal    `json:"total_period_credit"`
	TotalDebitClosing  decimal.Decimal    `json:"total_debit_closing"`
	TotalCreditClosing decimal.Decimal    `json:"total_credit_closing"`
	Balanced           bool               `json:"balanced"`
}

// BalanceSheetLine is one two-sided row of the balance sheet report:
// assets on the left, liabilities and equity on the right.
type BalanceSheetLine struct {
	LineIndex              int              `json:"line_index"`
	AssetItem              string           `json:"asset_item,omitempty"`
	AssetOpening           *decimal.Decimal `json:"asset_opening,omitempty"`
	AssetClosing           *decimal.Decimal `json:"asset_closing,omitempty"`
	LiabilityEquityItem    string           `json:"liability_equity_item,omitempty"`
	LiabilityEquityOpening *decimal.Decimal `json:"liability_equity_opening,omitempty"`
	LiabilityEquityClosing *decimal.Decimal `json:"liability_equity_closing,omitempty"`
}

// Line is the canonical single-amount report row used by the income
// statement and the cash flow statement.
type Line struct {
	LineIndex int             `json:"line_index"`
	Item      string          `json:"item"`
	Amount    decimal.Decimal `json:"amount"`
}

// JournalLine is the journal-entry detail the cash flow derivation reads.
type JournalLine struct {
	VoucherID   uuid.UUID
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}
