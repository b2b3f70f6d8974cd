package balance

import "errors"

var (
	ErrInvalidYear    = errors.New("fiscal year must be positive")
	ErrUnknownAccount = errors.New("opening balance references an unknown account")
	ErrNoRows         = errors.New("no opening balance rows provided")
)
