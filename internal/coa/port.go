package coa

import "context"

// Repository defines storage operations for the chart of accounts.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	Get(ctx context.Context, code string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, code string) error

	// HasChildren reports whether any account names code as its parent.
	HasChildren(ctx context.Context, code string) (bool, error)
	// HasJournalEntries reports whether any posted journal entry references code.
	HasJournalEntries(ctx context.Context, code string) (bool, error)
}
