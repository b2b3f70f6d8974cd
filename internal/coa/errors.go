package coa

import "errors"

var (
	ErrEmptyCode        = errors.New("account code is required")
	ErrEmptyName        = errors.New("account name is required")
	ErrInvalidDirection = errors.New("balance direction must be debit or credit")
	ErrSelfParent       = errors.New("account cannot be its own parent")
	ErrCyclicParent     = errors.New("account cannot be parented to one of its descendants")

	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateCode   = errors.New("account code already exists")
	ErrParentNotFound  = errors.New("parent account does not exist")
	ErrAccountInUse    = errors.New("account is referenced by journal entries or child accounts")
	ErrEmptyPatch      = errors.New("no updatable fields provided")
)
