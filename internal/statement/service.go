package statement

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gzmliang/finbook/internal/balance"
	"github.com/gzmliang/finbook/internal/coa"
)

// DefaultCashPrefixes marks cash and cash-equivalent accounts (cash on
// hand, bank deposits) by code prefix.
var DefaultCashPrefixes = []string{"1001", "1002"}

// Service derives financial statements from aggregated balances and the
// account hierarchy. Every derivation is request-scoped and side-effect
// free; callers run balance.RecomputeYear first to refresh inputs.
type Service struct {
	chart        ChartSource
	balances     BalanceSource
	entries      EntrySource
	cashPrefixes []string
}

// NewService creates a new statement service
func NewService(chart ChartSource, balances BalanceSource, entries EntrySource) *Service {
	return &Service{
		chart:        chart,
		balances:     balances,
		entries:      entries,
		cashPrefixes: DefaultCashPrefixes,
	}
}

// WithCashPrefixes overrides the account code prefixes treated as cash
// for the cash flow statement.
func (s *Service) WithCashPrefixes(prefixes []string) *Service {
	s.cashPrefixes = prefixes
	return s
}

// TrialBalance returns one line per account with opening, period and
// closing columns, plus totals. TotalDebitClosing equals
// TotalCreditClosing for a consistent ledger.
func (s *Service) TrialBalance(ctx context.Context, year int) (*TrialBalance, error) {
	if year <= 0 {
		return nil, balance.ErrInvalidYear
	}

	accounts, err := s.chart.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	names := make(map[string]string, len(accounts))
	directions := make(map[string]coa.Direction, len(accounts))
	for _, a := range accounts {
		names[a.Code] = a.Name
		directions[a.Code] = a.Direction
	}

	rows, err := s.balances.BalancesForYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })

	tb := &TrialBalance{FiscalYear: year, Lines: make([]TrialBalanceLine, 0, len(rows))}
	for _, r := range rows {
		tb.Lines = append(tb.Lines, TrialBalanceLine{
			AccountCode:  r.AccountCode,
			AccountName:  names[r.AccountCode],
			Opening:      r.Opening,
			PeriodDebit:  r.PeriodDebit,
			PeriodCredit: r.PeriodCredit,
			Closing:      r.Closing,
		})
		tb.TotalPeriodDebit = tb.TotalPeriodDebit.Add(r.PeriodDebit)
		tb.TotalPeriodCredit = tb.TotalPeriodCredit.Add(r.PeriodCredit)
		if directions[r.AccountCode] == coa.DirectionCredit {
			tb.TotalCreditClosing = tb.TotalCreditClosing.Add(r.Closing)
		} else {
			tb.TotalDebitClosing = tb.TotalDebitClosing.Add(r.Closing)
		}
	}
	tb.Balanced = tb.TotalDebitClosing.Equal(tb.TotalCreditClosing)

	return tb, nil
}

// sideLine is one single-sided row before pairing into the two-column
// balance sheet layout.
type sideLine struct {
	item    string
	opening decimal.Decimal
	closing decimal.Decimal
}

// BalanceSheet groups closing balances under each top-level account:
// assets on the left, liabilities then equity on the right.
func (s *Service) BalanceSheet(ctx context.Context, year int) ([]BalanceSheetLine, error) {
	if year <= 0 {
		return nil, balance.ErrInvalidYear
	}

	accounts, cls, rowsByCode, err := s.loadInputs(ctx, year)
	if err != nil {
		return nil, err
	}

	roots := topLevel(accounts)

	var assets, liabEquity []sideLine
	var liabilities, equity []sideLine
	for _, root := range roots {
		opening, closing := s.sumLeaves(cls, rowsByCode, root.Code)
		line := sideLine{item: root.Name, opening: opening, closing: closing}
		switch cls.categoryOf(root.Code) {
		case CategoryAsset:
			assets = append(assets, line)
		case CategoryLiability:
			liabilities = append(liabilities, line)
		case CategoryEquity:
			equity = append(equity, line)
		}
	}
	liabEquity = append(liabEquity, liabilities...)
	liabEquity = append(liabEquity, equity...)

	assetTotal := totalOf(assets)
	liabEquityTotal := totalOf(liabEquity)
	assets = append(assets, sideLine{item: "资产总计", opening: assetTotal.opening, closing: assetTotal.closing})
	liabEquity = append(liabEquity, sideLine{item: "负债和所有者权益总计", opening: liabEquityTotal.opening, closing: liabEquityTotal.closing})

	// Pair left and right columns row by row
	n := len(assets)
	if len(liabEquity) > n {
		n = len(liabEquity)
	}
	lines := make([]BalanceSheetLine, 0, n)
	for i := 0; i < n; i++ {
		line := BalanceSheetLine{LineIndex: i + 1}
		if i < len(assets) {
			line.AssetItem = assets[i].item
			line.AssetOpening = amountPtr(assets[i].opening)
			line.AssetClosing = amountPtr(assets[i].closing)
		}
		if i < len(liabEquity) {
			line.LiabilityEquityItem = liabEquity[i].item
			line.LiabilityEquityOpening = amountPtr(liabEquity[i].opening)
			line.LiabilityEquityClosing = amountPtr(liabEquity[i].closing)
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// IncomeStatement derives revenue, expense and profit lines from period
// activity of the profit-and-loss accounts.
func (s *Service) IncomeStatement(ctx context.Context, year int) ([]Line, error) {
	if year <= 0 {
		return nil, balance.ErrInvalidYear
	}

	accounts, cls, rowsByCode, err := s.loadInputs(ctx, year)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	type expenseLine struct {
		name   string
		amount decimal.Decimal
	}
	var expenses []expenseLine

	for _, root := range topLevel(accounts) {
		switch cls.categoryOf(root.Code) {
		case CategoryRevenue:
			for _, leaf := range cls.leavesUnder(root.Code) {
				if r, ok := rowsByCode[leaf]; ok {
					revenue = revenue.Add(r.PeriodCredit).Sub(r.PeriodDebit)
				}
			}
		case CategoryExpense:
			amount := decimal.Zero
			for _, leaf := range cls.leavesUnder(root.Code) {
				if r, ok := rowsByCode[leaf]; ok {
					amount = amount.Add(r.PeriodDebit).Sub(r.PeriodCredit)
				}
			}
			expenses = append(expenses, expenseLine{name: root.Name, amount: amount})
		}
	}

	lines := []Line{{LineIndex: 1, Item: "一、营业收入", Amount: revenue}}
	totalExpense := decimal.Zero
	for _, e := range expenses {
		lines = append(lines, Line{
			LineIndex: len(lines) + 1,
			Item:      "减：" + e.name,
			Amount:    e.amount,
		})
		totalExpense = totalExpense.Add(e.amount)
	}
	profit := revenue.Sub(totalExpense)
	lines = append(lines, Line{LineIndex: len(lines) + 1, Item: "二、营业利润", Amount: profit})
	lines = append(lines, Line{LineIndex: len(lines) + 1, Item: "三、净利润", Amount: profit})

	return lines, nil
}

// CashFlow classifies journal entries touching cash accounts by the
// category of their counter-accounts into operating, investing and
// financing sections.
func (s *Service) CashFlow(ctx context.Context, year int) ([]Line, error) {
	if year <= 0 {
		return nil, balance.ErrInvalidYear
	}

	accounts, err := s.chart.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	cls := newClassifier(accounts)

	journal, err := s.entries.JournalLinesForYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}

	type flow struct{ in, out decimal.Decimal }
	sections := map[string]*flow{
		"operating": {},
		"investing": {},
		"financing": {},
	}

	byVoucher := make(map[uuid.UUID][]JournalLine)
	var order []uuid.UUID
	for _, l := range journal {
		key := l.VoucherID
		if _, seen := byVoucher[key]; !seen {
			order = append(order, key)
		}
		byVoucher[key] = append(byVoucher[key], l)
	}

	for _, key := range order {
		lines := byVoucher[key]
		cashNet := decimal.Zero
		var counter []JournalLine
		for _, l := range lines {
			if s.isCashAccount(l.AccountCode) {
				cashNet = cashNet.Add(l.Debit).Sub(l.Credit)
			} else {
				counter = append(counter, l)
			}
		}
		// Skip vouchers without cash movement or pure cash transfers
		if cashNet.IsZero() || len(counter) == 0 {
			continue
		}

		section := s.sectionFor(cls, counter)
		f := sections[section]
		if cashNet.IsPositive() {
			f.in = f.in.Add(cashNet)
		} else {
			f.out = f.out.Add(cashNet.Neg())
		}
	}

	var report []Line
	add := func(item string, amount decimal.Decimal) {
		report = append(report, Line{LineIndex: len(report) + 1, Item: item, Amount: amount})
	}

	op, inv, fin := sections["operating"], sections["investing"], sections["financing"]
	add("一、经营活动产生的现金流量", decimal.Zero)
	add("现金流入小计", op.in)
	add("现金流出小计", op.out)
	add("经营活动产生的现金流量净额", op.in.Sub(op.out))
	add("二、投资活动产生的现金流量", decimal.Zero)
	add("现金流入小计", inv.in)
	add("现金流出小计", inv.out)
	add("投资活动产生的现金流量净额", inv.in.Sub(inv.out))
	add("三、筹资活动产生的现金流量", decimal.Zero)
	add("现金流入小计", fin.in)
	add("现金流出小计", fin.out)
	add("筹资活动产生的现金流量净额", fin.in.Sub(fin.out))
	net := op.in.Sub(op.out).Add(inv.in).Sub(inv.out).Add(fin.in).Sub(fin.out)
	add("四、现金及现金等价物净增加额", net)

	return report, nil
}

func (s *Service) loadInputs(ctx context.Context, year int) ([]*coa.Account, *classifier, map[string]*balance.AccountBalance, error) {
	accounts, err := s.chart.List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	rows, err := s.balances.BalancesForYear(ctx, year)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load balances: %w", err)
	}
	rowsByCode := make(map[string]*balance.AccountBalance, len(rows))
	for _, r := range rows {
		rowsByCode[r.AccountCode] = r
	}

	return accounts, newClassifier(accounts), rowsByCode, nil
}

// sumLeaves totals opening and closing balances over a root's leaves.
func (s *Service) sumLeaves(cls *classifier, rows map[string]*balance.AccountBalance, rootCode string) (opening, closing decimal.Decimal) {
	for _, leaf := range cls.leavesUnder(rootCode) {
		if r, ok := rows[leaf]; ok {
			opening = opening.Add(r.Opening)
			closing = closing.Add(r.Closing)
		}
	}
	return opening, closing
}

func (s *Service) isCashAccount(code string) bool {
	for _, p := range s.cashPrefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// sectionFor picks the cash flow section from the dominant counter-account.
func (s *Service) sectionFor(cls *classifier, counter []JournalLine) string {
	dominant := counter[0]
	largest := dominant.Debit.Sub(dominant.Credit).Abs()
	for _, l := range counter[1:] {
		if magnitude := l.Debit.Sub(l.Credit).Abs(); magnitude.GreaterThan(largest) {
			dominant = l
			largest = magnitude
		}
	}

	switch cls.categoryOf(dominant.AccountCode) {
	case CategoryAsset:
		return "investing"
	case CategoryLiability, CategoryEquity:
		return "financing"
	default:
		return "operating"
	}
}

// topLevel returns the root accounts ordered by code.
func topLevel(accounts []*coa.Account) []*coa.Account {
	var roots []*coa.Account
	for _, a := range accounts {
		if a.ParentCode == nil {
			roots = append(roots, a)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Code < roots[j].Code })
	return roots
}

func totalOf(lines []sideLine) sideLine {
	var t sideLine
	for _, l := range lines {
		t.opening = t.opening.Add(l.opening)
		t.closing = t.closing.Add(l.closing)
	}
	return t
}

func amountPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
