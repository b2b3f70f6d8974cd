package coa

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Service manages the chart of accounts.
type Service struct {
	repo Repository
}

// NewService creates a new chart-of-accounts service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new account. The parent, when given, must already exist.
func (s *Service) Create(ctx context.Context, account *Account) (*Account, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.Get(ctx, account.Code); err == nil {
		return nil, ErrDuplicateCode
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}

	if account.ParentCode != nil {
		if _, err := s.repo.Get(ctx, *account.ParentCode); err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to check parent account: %w", err)
		}
	}

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	// A freshly created account has no children yet
	account.IsLeaf = true
	return account, nil
}

// Get returns a single account with its leaf status derived.
func (s *Service) Get(ctx context.Context, code string) (*Account, error) {
	account, err := s.repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	hasChildren, err := s.repo.HasChildren(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to derive leaf status: %w", err)
	}
	account.IsLeaf = !hasChildren

	return account, nil
}

// List returns every account ordered by code, annotated with IsLeaf.
func (s *Service) List(ctx context.Context) ([]*Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	parents := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		if a.ParentCode != nil {
			parents[*a.ParentCode] = struct{}{}
		}
	}
	for _, a := range accounts {
		_, hasChildren := parents[a.Code]
		a.IsLeaf = !hasChildren
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

// Update applies a partial update to an existing account.
// Fields absent from the patch keep their prior values.
func (s *Service) Update(ctx context.Context, code string, patch Patch) (*Account, error) {
	if patch.IsZero() {
		return nil, ErrEmptyPatch
	}

	account, err := s.repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	patch.Apply(account)
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if patch.ParentCode != nil && account.ParentCode != nil {
		if err := s.checkParentChain(ctx, account.Code, *account.ParentCode); err != nil {
			return nil, err
		}
	}

	account.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	return s.Get(ctx, code)
}

// checkParentChain verifies the proposed parent exists and that walking its
// ancestors never reaches the account being re-parented, keeping the chart
// acyclic.
func (s *Service) checkParentChain(ctx context.Context, code, parentCode string) error {
	seen := map[string]struct{}{code: {}}
	current := parentCode
	for {
		if _, ok := seen[current]; ok {
			return ErrCyclicParent
		}
		seen[current] = struct{}{}

		parent, err := s.repo.Get(ctx, current)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return ErrParentNotFound
			}
			return fmt.Errorf("failed to check parent account: %w", err)
		}
		if parent.ParentCode == nil {
			return nil
		}
		current = *parent.ParentCode
	}
}

// Delete removes an account. It is rejected while the account still has
// children or posted journal entries.
func (s *Service) Delete(ctx context.Context, code string) error {
	if _, err := s.repo.Get(ctx, code); err != nil {
		return err
	}

	hasChildren, err := s.repo.HasChildren(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to check child accounts: %w", err)
	}
	if hasChildren {
		return ErrAccountInUse
	}

	hasEntries, err := s.repo.HasJournalEntries(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to check journal entries: %w", err)
	}
	if hasEntries {
		return ErrAccountInUse
	}

	return s.repo.Delete(ctx, code)
}
