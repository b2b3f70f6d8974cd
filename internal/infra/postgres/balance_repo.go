package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gzmliang/finbook/internal/balance"
)

// BalanceRepository implements the account-balance repository using PostgreSQL
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new PostgreSQL balance repository
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// BalancesForYear returns the stored rows for a fiscal year ordered by code
func (r *BalanceRepository) BalancesForYear(ctx context.Context, year int) ([]*balance.AccountBalance, error) {
	query := `
		SELECT account_code, fiscal_year, opening_balance, period_debit, period_credit, closing_balance, opening_set
		FROM account_balances
		WHERE fiscal_year = $1
		ORDER BY account_code
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, year)
	if err != nil {
		return nil, storageErr("load balances", err)
	}
	defer rows.Close()

	var balances []*balance.AccountBalance
	for rows.Next() {
		b := &balance.AccountBalance{}
		err := rows.Scan(
			&b.AccountCode,
			&b.FiscalYear,
			&b.Opening,
			&b.PeriodDebit,
			&b.PeriodCredit,
			&b.Closing,
			&b.OpeningSet,
		)
		if err != nil {
			return nil, storageErr("scan balance", err)
		}
		balances = append(balances, b)
	}
	if err = rows.Err(); err != nil {
		return nil, storageErr("iterate balances", err)
	}

	return balances, nil
}

// PeriodTotals sums journal activity per account over vouchers in the year
func (r *BalanceRepository) PeriodTotals(ctx context.Context, year int) (map[string]balance.PeriodTotal, error) {
	query := `
		SELECT e.account_code, COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM journal_entries e
		JOIN vouchers v ON v.id = e.voucher_id
		WHERE EXTRACT(YEAR FROM v.voucher_date) = $1
		GROUP BY e.account_code
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, year)
	if err != nil {
		return nil, storageErr("sum period totals", err)
	}
	defer rows.Close()

	totals := make(map[string]balance.PeriodTotal)
	for rows.Next() {
		var code string
		var t balance.PeriodTotal
		if err := rows.Scan(&code, &t.Debit, &t.Credit); err != nil {
			return nil, storageErr("scan period total", err)
		}
		totals[code] = t
	}
	if err = rows.Err(); err != nil {
		return nil, storageErr("iterate period totals", err)
	}

	return totals, nil
}

// UpsertBalances writes full aggregate rows
func (r *BalanceRepository) UpsertBalances(ctx context.Context, rows []*balance.AccountBalance) error {
	query := `
		INSERT INTO account_balances (account_code, fiscal_year, opening_balance, period_debit, period_credit, closing_balance, opening_set)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_code, fiscal_year) DO UPDATE
		SET opening_balance = EXCLUDED.opening_balance,
		    period_debit = EXCLUDED.period_debit,
		    period_credit = EXCLUDED.period_credit,
		    closing_balance = EXCLUDED.closing_balance,
		    opening_set = EXCLUDED.opening_set
	`

	q := queryerFrom(ctx, r.pool)
	for _, b := range rows {
		_, err := q.Exec(ctx, query,
			b.AccountCode,
			b.FiscalYear,
			b.Opening,
			b.PeriodDebit,
			b.PeriodCredit,
			b.Closing,
			b.OpeningSet,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return balance.ErrUnknownAccount
			}
			return storageErr("upsert balance", err)
		}
	}

	return nil
}

// UpsertOpenings writes explicitly-saved opening balances, leaving the
// period and closing columns of existing rows untouched
func (r *BalanceRepository) UpsertOpenings(ctx context.Context, year int, rows []balance.OpeningRow) error {
	query := `
		INSERT INTO account_balances (account_code, fiscal_year, opening_balance, period_debit, period_credit, closing_balance, opening_set)
		VALUES ($1, $2, $3, 0, 0, 0, TRUE)
		ON CONFLICT (account_code, fiscal_year) DO UPDATE
		SET opening_balance = EXCLUDED.opening_balance,
		    opening_set = TRUE
	`

	q := queryerFrom(ctx, r.pool)
	for _, row := range rows {
		_, err := q.Exec(ctx, query, row.AccountCode, year, row.Opening)
		if err != nil {
			if isForeignKeyViolation(err) {
				return balance.ErrUnknownAccount
			}
			return storageErr("upsert opening balance", err)
		}
	}

	return nil
}

// MinActivityYear returns the earliest fiscal year with any nonzero
// balance row or any posted voucher
func (r *BalanceRepository) MinActivityYear(ctx context.Context) (int, bool, error) {
	query := `
		SELECT MIN(y) FROM (
			SELECT MIN(fiscal_year) AS y
			FROM account_balances
			WHERE opening_balance <> 0 OR period_debit <> 0 OR period_credit <> 0 OR closing_balance <> 0
			UNION ALL
			SELECT MIN(EXTRACT(YEAR FROM voucher_date))::int AS y
			FROM vouchers
		) years
		WHERE y IS NOT NULL
	`

	var year *int
	err := queryerFrom(ctx, r.pool).QueryRow(ctx, query).Scan(&year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, storageErr("find earliest activity year", err)
	}
	if year == nil {
		return 0, false, nil
	}
	return *year, true, nil
}

// BeginTx starts a transaction and stores it in the returned context
func (r *BalanceRepository) BeginTx(ctx context.Context) (context.Context, error) {
	return beginTx(ctx, r.pool)
}

// CommitTx commits the transaction from the context
func (r *BalanceRepository) CommitTx(ctx context.Context) error {
	return commitTx(ctx)
}

// RollbackTx rolls back the transaction from the context
func (r *BalanceRepository) RollbackTx(ctx context.Context) error {
	return rollbackTx(ctx)
}
