package balance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gzmliang/finbook/internal/coa"
)

// Service maintains per-account per-fiscal-year balance aggregates.
type Service struct {
	repo  Repository
	chart ChartSource
}

// NewService creates a new balance service
func NewService(repo Repository, chart ChartSource) *Service {
	return &Service{repo: repo, chart: chart}
}

// OpeningBalances returns, for every account, its opening balance for the
// year. Precedence per account: an explicitly saved opening for the year,
// then the prior year's closing (carry-forward), then an opening
// materialized by an earlier recompute, then zero.
func (s *Service) OpeningBalances(ctx context.Context, year int) (*OpeningBalances, error) {
	if year <= 0 {
		return nil, ErrInvalidYear
	}

	accounts, err := s.chart.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	current, err := s.yearMap(ctx, year)
	if err != nil {
		return nil, err
	}
	previous, err := s.yearMap(ctx, year-1)
	if err != nil {
		return nil, err
	}

	rows := make([]OpeningRow, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, OpeningRow{
			AccountCode: a.Code,
			AccountName: a.Name,
			Opening:     resolveOpening(current[a.Code], previous[a.Code]),
		})
	}

	minYear, ok, err := s.repo.MinActivityYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine initial year: %w", err)
	}

	return &OpeningBalances{
		FiscalYear:    year,
		IsInitialYear: !ok || year <= minYear,
		Rows:          rows,
	}, nil
}

// SaveOpeningBalances upserts a batch of opening balances for a year in
// one transaction. Closing balances are not recomputed here; that is
// RecomputeYear's job.
func (s *Service) SaveOpeningBalances(ctx context.Context, year int, rows []OpeningRow) error {
	if year <= 0 {
		return ErrInvalidYear
	}
	if len(rows) == 0 {
		return ErrNoRows
	}

	accounts, err := s.chart.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	known := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		known[a.Code] = struct{}{}
	}
	for _, r := range rows {
		if _, ok := known[r.AccountCode]; !ok {
			return fmt.Errorf("account %q: %w", r.AccountCode, ErrUnknownAccount)
		}
	}

	txCtx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.repo.RollbackTx(txCtx)
		}
	}()

	if err := s.repo.UpsertOpenings(txCtx, year, rows); err != nil {
		return fmt.Errorf("failed to save opening balances: %w", err)
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return fmt.Errorf("failed to commit opening balances: %w", err)
	}
	committed = true
	return nil
}

// RecomputeYear rebuilds the aggregate rows for a fiscal year from the
// posted vouchers plus opening balances. Idempotent. Changes do not
// cascade into following years; callers recompute those explicitly.
func (s *Service) RecomputeYear(ctx context.Context, year int) error {
	if year <= 0 {
		return ErrInvalidYear
	}

	accounts, err := s.chart.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	totals, err := s.repo.PeriodTotals(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to sum period activity: %w", err)
	}

	current, err := s.yearMap(ctx, year)
	if err != nil {
		return err
	}
	previous, err := s.yearMap(ctx, year-1)
	if err != nil {
		return err
	}

	rows := make([]*AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		opening := resolveOpening(current[a.Code], previous[a.Code])
		total := totals[a.Code]

		row := &AccountBalance{
			AccountCode:  a.Code,
			FiscalYear:   year,
			Opening:      opening,
			PeriodDebit:  total.Debit,
			PeriodCredit: total.Credit,
			Closing:      closingFor(a.Direction, opening, total),
		}
		if cur, ok := current[a.Code]; ok {
			row.OpeningSet = cur.OpeningSet
		}
		rows = append(rows, row)
	}

	txCtx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.repo.RollbackTx(txCtx)
		}
	}()

	if err := s.repo.UpsertBalances(txCtx, rows); err != nil {
		return fmt.Errorf("failed to write balances: %w", err)
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return fmt.Errorf("failed to commit balances: %w", err)
	}
	committed = true
	return nil
}

// BalancesForYear exposes the stored aggregate rows for report reads.
func (s *Service) BalancesForYear(ctx context.Context, year int) ([]*AccountBalance, error) {
	if year <= 0 {
		return nil, ErrInvalidYear
	}
	return s.repo.BalancesForYear(ctx, year)
}

func (s *Service) yearMap(ctx context.Context, year int) (map[string]*AccountBalance, error) {
	m := make(map[string]*AccountBalance)
	if year <= 0 {
		return m, nil
	}
	rows, err := s.repo.BalancesForYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load balances for %d: %w", year, err)
	}
	for _, r := range rows {
		m[r.AccountCode] = r
	}
	return m, nil
}

// resolveOpening picks the opening balance for a year given the stored
// row for that year (if any) and the prior year's row (if any).
func resolveOpening(current, previous *AccountBalance) decimal.Decimal {
	if current != nil && current.OpeningSet {
		return current.Opening
	}
	if previous != nil {
		return previous.Closing
	}
	if current != nil {
		return current.Opening
	}
	return decimal.Zero
}

// closingFor applies the natural-direction sign convention.
func closingFor(direction coa.Direction, opening decimal.Decimal, total PeriodTotal) decimal.Decimal {
	if direction == coa.DirectionCredit {
		return opening.Add(total.Credit).Sub(total.Debit)
	}
	return opening.Add(total.Debit).Sub(total.Credit)
}
