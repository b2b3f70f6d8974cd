package voucher

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gzmliang/finbook/internal/coa"
)

// Repository defines storage operations for vouchers and their entries.
type Repository interface {
	// NextNumber returns 1 + max(number) among vouchers of vtype dated in
	// the given year and month, or 1 if none exist. Advisory only; the
	// authoritative check is the uniqueness constraint at commit time.
	NextNumber(ctx context.Context, vtype string, year int, month time.Month) (int, error)

	// Create persists the header and all entries. It must run inside a
	// transaction begun with BeginTx and reports ErrNumberTaken on a
	// (type, month, number) collision.
	Create(ctx context.Context, v *Voucher) error

	Get(ctx context.Context, id uuid.UUID) (*Voucher, error)
	List(ctx context.Context) ([]*ListItem, error)

	// Delete removes the header and all its entries. It must run inside a
	// transaction begun with BeginTx.
	Delete(ctx context.Context, id uuid.UUID) error

	// Transaction management. BeginTx returns a derived context carrying
	// the open transaction; repository calls with that context join it.
	BeginTx(ctx context.Context) (context.Context, error)
	CommitTx(ctx context.Context) error
	RollbackTx(ctx context.Context) error
}

// AccountResolver resolves account codes to accounts with leaf status
// derived. Satisfied by coa.Service.
type AccountResolver interface {
	Get(ctx context.Context, code string) (*coa.Account, error)
}
