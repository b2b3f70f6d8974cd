package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gzmliang/finbook/internal/coa"
)

// AccountRepository implements the chart-of-accounts repository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, a *coa.Account) error {
	query := `
		INSERT INTO chart_of_accounts (account_code, account_name, balance_direction, parent_code, is_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := queryerFrom(ctx, r.pool).Exec(ctx, query,
		a.Code,
		a.Name,
		string(a.Direction),
		a.ParentCode,
		a.Enabled,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return coa.ErrDuplicateCode
		}
		if isForeignKeyViolation(err) {
			return coa.ErrParentNotFound
		}
		return storageErr("create account", err)
	}

	return nil
}

// Get retrieves an account by code
func (r *AccountRepository) Get(ctx context.Context, code string) (*coa.Account, error) {
	query := `
		SELECT account_code, account_name, balance_direction, parent_code, is_enabled, created_at, updated_at
		FROM chart_of_accounts
		WHERE account_code = $1
	`

	a := &coa.Account{}
	err := queryerFrom(ctx, r.pool).QueryRow(ctx, query, code).Scan(
		&a.Code,
		&a.Name,
		&a.Direction,
		&a.ParentCode,
		&a.Enabled,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coa.ErrAccountNotFound
		}
		return nil, storageErr("get account", err)
	}

	return a, nil
}

// List retrieves every account ordered by code
func (r *AccountRepository) List(ctx context.Context) ([]*coa.Account, error) {
	query := `
		SELECT account_code, account_name, balance_direction, parent_code, is_enabled, created_at, updated_at
		FROM chart_of_accounts
		ORDER BY account_code
	`

	rows, err := queryerFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	defer rows.Close()

	var accounts []*coa.Account
	for rows.Next() {
		a := &coa.Account{}
		err := rows.Scan(
			&a.Code,
			&a.Name,
			&a.Direction,
			&a.ParentCode,
			&a.Enabled,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, storageErr("scan account", err)
		}
		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, storageErr("iterate accounts", err)
	}

	return accounts, nil
}

// Update rewrites an existing account row
func (r *AccountRepository) Update(ctx context.Context, a *coa.Account) error {
	query := `
		UPDATE chart_of_accounts
		SET account_name = $1, balance_direction = $2, parent_code = $3, is_enabled = $4, updated_at = $5
		WHERE account_code = $6
	`

	result, err := queryerFrom(ctx, r.pool).Exec(ctx, query,
		a.Name,
		string(a.Direction),
		a.ParentCode,
		a.Enabled,
		a.UpdatedAt,
		a.Code,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return coa.ErrParentNotFound
		}
		return storageErr("update account", err)
	}

	if result.RowsAffected() == 0 {
		return coa.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account by code
func (r *AccountRepository) Delete(ctx context.Context, code string) error {
	query := `DELETE FROM chart_of_accounts WHERE account_code = $1`

	result, err := queryerFrom(ctx, r.pool).Exec(ctx, query, code)
	if err != nil {
		if isForeignKeyViolation(err) {
			return coa.ErrAccountInUse
		}
		return storageErr("delete account", err)
	}

	if result.RowsAffected() == 0 {
		return coa.ErrAccountNotFound
	}

	return nil
}

// HasChildren reports whether any account references code as its parent
func (r *AccountRepository) HasChildren(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM chart_of_accounts WHERE parent_code = $1)`

	var exists bool
	if err := queryerFrom(ctx, r.pool).QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, storageErr("check child accounts", err)
	}
	return exists, nil
}

// HasJournalEntries reports whether any journal entry posts to code
func (r *AccountRepository) HasJournalEntries(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM journal_entries WHERE account_code = $1)`

	var exists bool
	if err := queryerFrom(ctx, r.pool).QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, storageErr("check journal entries", err)
	}
	return exists, nil
}
