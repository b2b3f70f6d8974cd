package statement

import (
	"context"

	"github.com/gzmliang/finbook/internal/balance"
	"github.com/gzmliang/finbook/internal/coa"
)

// ChartSource lists the chart of accounts. Satisfied by coa.Service.
type ChartSource interface {
	List(ctx context.Context) ([]*coa.Account, error)
}

// BalanceSource reads aggregate rows. Satisfied by balance.Service.
type BalanceSource interface {
	BalancesForYear(ctx context.Context, year int) ([]*balance.AccountBalance, error)
}

// EntrySource reads journal-entry detail for the cash flow derivation.
type EntrySource interface {
	JournalLinesForYear(ctx context.Context, year int) ([]JournalLine, error)
}
