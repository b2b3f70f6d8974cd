package voucher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates voucher posting against the chart of accounts.
type Service struct {
	repo     Repository
	accounts AccountResolver
}

// NewService creates a new voucher service
func NewService(repo Repository, accounts AccountResolver) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// NextNumber suggests the next sequential number for a voucher of vtype
// dated inside the month containing date. The value is advisory: two
// concurrent callers can receive the same suggestion, and the loser of
// the race fails at Create with ErrNumberTaken.
func (s *Service) NextNumber(ctx context.Context, vtype string, date time.Time) (int, error) {
	if vtype == "" {
		return 0, ErrMissingType
	}
	if date.IsZero() {
		return 0, ErrMissingDate
	}
	return s.repo.NextNumber(ctx, vtype, date.Year(), date.Month())
}

// Create validates and atomically persists a voucher with its entries.
//
// Steps:
// 1. Validate the header, each entry, and the debit/credit balance
// 2. Resolve every account code to an enabled leaf account
// 3. Persist header and entries in one transaction; a number collision
//    rolls everything back and reports ErrNumberTaken
func (s *Service) Create(ctx context.Context, v *Voucher) (*Voucher, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	for i := range v.Entries {
		account, err := s.accounts.Get(ctx, v.Entries[i].AccountCode)
		if err != nil {
			return nil, fmt.Errorf("entry %d account %q: %w", i, v.Entries[i].AccountCode, ErrUnknownAccount)
		}
		if !account.IsLeaf {
			return nil, fmt.Errorf("entry %d account %q: %w", i, account.Code, ErrNonLeafAccount)
		}
		if !account.Enabled {
			return nil, fmt.Errorf("entry %d account %q: %w", i, account.Code, ErrDisabledAccount)
		}
	}

	v.ID = uuid.New()
	v.CreatedAt = time.Now()

	txCtx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = s.repo.RollbackTx(txCtx)
		}
	}()

	if err := s.repo.Create(txCtx, v); err != nil {
		return nil, err
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit voucher: %w", err)
	}
	committed = true

	return v, nil
}

// Get retrieves a voucher with all its entries.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Voucher, error) {
	return s.repo.Get(ctx, id)
}

// List returns all vouchers ordered by date then reference.
func (s *Service) List(ctx context.Context) ([]*ListItem, error) {
	return s.repo.List(ctx)
}

// Delete removes a voucher and all its entries atomically. Corrections
// are expected to be posted as new reversing vouchers afterwards.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
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

	if err := s.repo.Delete(txCtx, id); err != nil {
		if errors.Is(err, ErrVoucherNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete voucher: %w", err)
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	committed = true

	return nil
}
