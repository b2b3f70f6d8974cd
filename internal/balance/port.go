package balance

import (
	"context"

	"github.com/gzmliang/finbook/internal/coa"
)

// Repository defines storage operations for account balances.
type Repository interface {
	// BalancesForYear returns the stored rows for a fiscal year, keyed
	// by account code in the returned slice order (ascending code).
	BalancesForYear(ctx context.Context, year int) ([]*AccountBalance, error)

	// PeriodTotals sums journal entry debits/credits per account over all
	// vouchers dated in the given year.
	PeriodTotals(ctx context.Context, year int) (map[string]PeriodTotal, error)

	// UpsertBalances writes full aggregate rows. Must run inside a
	// transaction begun with BeginTx.
	UpsertBalances(ctx context.Context, rows []*AccountBalance) error

	// UpsertOpenings writes explicitly-saved opening balances, leaving
	// period and closing columns untouched on existing rows. Must run
	// inside a transaction begun with BeginTx.
	UpsertOpenings(ctx context.Context, year int, rows []OpeningRow) error

	// MinActivityYear returns the earliest fiscal year with any nonzero
	// balance row or posted voucher. ok is false when no history exists.
	MinActivityYear(ctx context.Context) (year int, ok bool, err error)

	BeginTx(ctx context.Context) (context.Context, error)
	CommitTx(ctx context.Context) error
	RollbackTx(ctx context.Context) error
}

// ChartSource lists the chart of accounts. Satisfied by coa.Service.
type ChartSource interface {
	List(ctx context.Context) ([]*coa.Account, error)
}
