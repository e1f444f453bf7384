package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Vault a user position against one collateral currency: deposited
// collateral and issued debit units. A user holds at most one vault
// per collateral.
type Vault struct {
	ID           int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt    time.Time       `json:"created_at,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at,omitempty"`
	Version      int64           `json:"version,omitempty"`
	TraceID      string          `sql:"size:36;unique_index:idx_vaults_trace_id" json:"trace_id,omitempty"`
	UserID       string          `sql:"size:36;unique_index:idx_vaults_user_collateral" json:"user_id,omitempty"`
	CollateralID string          `sql:"size:36;unique_index:idx_vaults_user_collateral" json:"collateral_id,omitempty"`
	Amount       decimal.Decimal `sql:"type:decimal(32,8)" json:"amount,omitempty"`
	DebitUnits   decimal.Decimal `sql:"type:decimal(32,16)" json:"debit_units,omitempty"`
}

// VaultStore vault store interface
type VaultStore interface {
	Create(ctx context.Context, vault *Vault) error
	Find(ctx context.Context, userID, collateralID string) (*Vault, error)
	FindByTrace(ctx context.Context, traceID string) (*Vault, error)
	ListByUser(ctx context.Context, userID string) ([]*Vault, error)
	// List walks all vaults by id for the sentinel sweep.
	List(ctx context.Context, fromID int64, limit int) ([]*Vault, error)
	Update(ctx context.Context, vault *Vault, version int64) error
	Delete(ctx context.Context, vault *Vault, version int64) error
	// HasDebit reports whether any vault still owes debit.
	HasDebit(ctx context.Context) (bool, error)
}

// VaultService the loans ledger: the only path through which vault
// positions change. Every mutation runs the risk hook with the
// resulting balances and either fully applies or not at all.
type VaultService interface {
	// Adjust applies signed collateral and debit value deltas to the
	// vault. Issued stable is transferred to the vault owner, repaid
	// debit reduces the stable issuance. version guards replay.
	Adjust(ctx context.Context, collateral *Collateral, vault *Vault, collateralDelta, debitDelta decimal.Decimal, traceID, followID string, version int64) error
	// Transfer moves the whole position of from into to.
	Transfer(ctx context.Context, collateral *Collateral, from, to *Vault, version int64) error
	// Confiscate seizes collateral into treasury custody and books
	// the outstanding debit value as system debit.
	Confiscate(ctx context.Context, collateral *Collateral, vault *Vault, amount, debitUnits decimal.Decimal, version int64) error
}
