package coa

import (
	"strings"
	"time"
)

// Direction is the normal balance side of an account.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// Valid reports whether d is a known balance direction.
func (d Direction) Valid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// Account is a node in the chart of accounts. Codes are hierarchical
// prefix codes ("1001", "100101"); only leaf accounts accept postings.
type Account struct {
	Code       string    `json:"account_code"`
	Name       string    `json:"account_name"`
	Direction  Direction `json:"balance_direction"`
	ParentCode *string   `json:"parent_code,omitempty"`
	Enabled    bool      `json:"is_enabled"`
	IsLeaf     bool      `json:"is_leaf"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks the account's own fields (not its references).
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Code) == "" {
		return ErrEmptyCode
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Direction.Valid() {
		return ErrInvalidDirection
	}
	if a.ParentCode != nil && *a.ParentCode == a.Code {
		return ErrSelfParent
	}
	return nil
}

// Patch carries a partial update: nil fields keep their prior values.
type Patch struct {
	Name       *string    `json:"account_name,omitempty"`
	Direction  *Direction `json:"balance_direction,omitempty"`
	ParentCode *string    `json:"parent_code,omitempty"`
	Enabled    *bool      `json:"is_enabled,omitempty"`
}

// IsZero reports whether the patch specifies no fields at all.
func (p Patch) IsZero() bool {
	return p.Name == nil && p.Direction == nil && p.ParentCode == nil && p.Enabled == nil
}

// Apply copies the present fields onto the account.
func (p Patch) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Direction != nil {
		a.Direction = *p.Direction
	}
	if p.ParentCode != nil {
		if *p.ParentCode == "" {
			a.ParentCode = nil
		} else {
			pc := *p.ParentCode
			a.ParentCode = &pc
		}
	}
	if p.Enabled != nil {
		a.Enabled = *p.Enabled
	}
}
