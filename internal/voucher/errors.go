package voucher

import "errors"

// Header errors
var (
	ErrMissingDate   = errors.New("voucher date is required")
	ErrMissingType   = errors.New("voucher type is required")
	ErrInvalidNumber = errors.New("voucher number must be positive")
	ErrNoEntries     = errors.New("voucher must have at least one entry")
)

// Entry errors
var (
	ErrMissingAccountCode = errors.New("entry account code is required")
	ErrNegativeAmount     = errors.New("entry amounts cannot be negative")
	ErrOneSideRequired    = errors.New("entry must have exactly one of debit or credit")
	ErrTooManyDecimals    = errors.New("entry amount has more than 2 decimal places")
)

// Posting errors
var (
	ErrUnbalanced      = errors.New("voucher debits and credits do not balance")
	ErrUnknownAccount  = errors.New("entry references an unknown account")
	ErrNonLeafAccount  = errors.New("entry posts to a non-leaf account")
	ErrDisabledAccount = errors.New("entry posts to a disabled account")
	ErrNumberTaken     = errors.New("voucher number already taken for this type and month")
	ErrVoucherNotFound = errors.New("voucher not found")
)
