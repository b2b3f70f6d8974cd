package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gzmliang/finbook/internal/statement"
	"github.com/gzmliang/finbook/internal/voucher"
)

// VoucherRepository implements the voucher repository using PostgreSQL
type VoucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository creates a new PostgreSQL voucher repository
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// monthKey is how (type, calendar month) scoping is stored and indexed.
func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// NextNumber returns 1 + max(number) for the type within the month
func (r *VoucherRepository) NextNumber(ctx context.Context, vtype string, year int, month time.Month) (int, error) {
	query := `
		SELECT COALESCE(MAX(voucher_number), 0) + 1
		FROM vouchers
		WHERE voucher_type = $1 AND voucher_month = $2
	`

	var next int
	err := queryerFrom(ctx, r.pool).QueryRow(ctx, query, vtype, monthKey(year, month)).Scan(&next)
	if err != nil {
		return 0, storageErr("next voucher number", err)
	}
	return next, nil
}

// Create persists the header and all entries. Callers run this inside a
// transaction; a (type, month, number) collision reports ErrNumberTaken.
func (r *VoucherRepository) Create(ctx context.Context, v *voucher.Voucher) error {
	q := queryerFrom(ctx, r.pool)

	headerQuery := `
		INSERT INTO vouchers (id, voucher_date, voucher_type, voucher_month, voucher_number, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, headerQuery,
		v.ID,
		v.Date,
		v.Type,
		monthKey(v.Date.Year(), v.Date.Month()),
		v.Number,
		v.Summary,
		v.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return voucher.ErrNumberTaken
		}
		return storageErr("create voucher header", err)
	}

	entryQuery := `
		INSERT INTO journal_entries (voucher_id, line_no, account_code, summary, debit, credit)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, e := range v.Entries {
		_, err := q.Exec(ctx, entryQuery, v.ID, i+1, e.AccountCode, e.Summary, e.Debit, e.Credit)
		if err != nil {
			if isForeignKeyViolation(err) {
				return voucher.ErrUnknownAccount
			}
			return storageErr("create journal entry", err)
		}
	}

	return nil
}

// Get retrieves a voucher with its entries
func (r *VoucherRepository) Get(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	q := queryerFrom(ctx, r.pool)

	headerQuery := `
		SELECT id, voucher_date, voucher_type, voucher_number, summary, created_at
		FROM vouchers
		WHERE id = $1
	`

	v := &voucher.Voucher{}
	err := q.QueryRow(ctx, headerQuery, id).Scan(
		&v.ID,
		&v.Date,
		&v.Type,
		&v.Number,
		&v.Summary,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, voucher.ErrVoucherNotFound
		}
		return nil, storageErr("get voucher", err)
	}

	entriesQuery := `
		SELECT account_code, summary, debit, credit
		FROM journal_entries
		WHERE voucher_id = $1
		ORDER BY line_no
	`

	rows, err := q.Query(ctx, entriesQuery, id)
	if err != nil {
		return nil, storageErr("get voucher entries", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e voucher.Entry
		if err := rows.Scan(&e.AccountCode, &e.Summary, &e.Debit, &e.Credit); err != nil {
			return nil, storageErr("scan journal entry", err)
		}
		v.Entries = append(v.Entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, storageErr("iterate journal entries", err)
	}

	return v, nil
}

// List returns the list-view projection of all vouchers
func (r *VoucherRepository) List(ctx context.Context) ([]*voucher.ListItem, error) {
	query := `
		SELECT v.id, v.voucher_date, v.voucher_type, v.voucher_number, v.summary,
		       COALESCE(SUM(e.debit), 0) AS total_amount
		FROM vouchers v
		LEFT JOIN journal_entries e ON e.voucher_id = v.id
		GROUP BY v.id, v.voucher_date, v.voucher_type, v.voucher_number, v.summary
		ORDER BY v.voucher_date, v.voucher_type, v.voucher_number
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, storageErr("list vouchers", err)
	}
	defer rows.Close()

	var items []*voucher.ListItem
	for rows.Next() {
		item := &voucher.ListItem{}
		if err := rows.Scan(&item.ID, &item.Date, &item.Type, &item.Number, &item.Summary, &item.TotalAmount); err != nil {
			return nil, storageErr("scan voucher", err)
		}
		item.Ref = fmt.Sprintf("%s-%04d", item.Type, item.Number)
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, storageErr("iterate vouchers", err)
	}

	return items, nil
}

// Delete removes the header and, via cascade, all entries. Callers run
// this inside a transaction; the explicit entry delete keeps the cascade
// visible rather than relying on schema knowledge alone.
func (r *VoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q := queryerFrom(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM journal_entries WHERE voucher_id = $1`, id); err != nil {
		return storageErr("delete journal entries", err)
	}

	result, err := q.Exec(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete voucher", err)
	}
	if result.RowsAffected() == 0 {
		return voucher.ErrVoucherNotFound
	}

	return nil
}

// JournalLinesForYear returns every journal line of vouchers dated in
// the given year, for the cash flow derivation.
func (r *VoucherRepository) JournalLinesForYear(ctx context.Context, year int) ([]statement.JournalLine, error) {
	query := `
		SELECT e.voucher_id, e.account_code, e.debit, e.credit
		FROM journal_entries e
		JOIN vouchers v ON v.id = e.voucher_id
		WHERE EXTRACT(YEAR FROM v.voucher_date) = $1
		ORDER BY v.voucher_date, v.id, e.line_no
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query, year)
	if err != nil {
		return nil, storageErr("load journal lines", err)
	}
	defer rows.Close()

	var lines []statement.JournalLine
	for rows.Next() {
		var l statement.JournalLine
		if err := rows.Scan(&l.VoucherID, &l.AccountCode, &l.Debit, &l.Credit); err != nil {
			return nil, storageErr("scan journal line", err)
		}
		lines = append(lines, l)
	}
	if err = rows.Err(); err != nil {
		return nil, storageErr("iterate journal lines", err)
	}

	return lines, nil
}

// BeginTx starts a transaction and stores it in the returned context
func (r *VoucherRepository) BeginTx(ctx context.Context) (context.Context, error) {
	return beginTx(ctx, r.pool)
}

// CommitTx commits the transaction from the context
func (r *VoucherRepository) CommitTx(ctx context.Context) error {
	return commitTx(ctx)
}

// RollbackTx rolls back the transaction from the context
func (r *VoucherRepository) RollbackTx(ctx context.Context) error {
	return rollbackTx(ctx)
}
