package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Treasury the singleton system book: surplus and debit pools, the
// net stable issuance and the aggregate amounts locked in auctions.
// Surplus and debit are offset against each other periodically; the
// remainders drive surplus and debit auction creation.
type Treasury struct {
	ID                    int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt             time.Time       `json:"created_at,omitempty"`
	UpdatedAt             time.Time       `json:"updated_at,omitempty"`
	Version               int64           `json:"version,omitempty"`
	SurplusPool           decimal.Decimal `sql:"type:decimal(32,8)" json:"surplus_pool,omitempty"`
	DebitPool             decimal.Decimal `sql:"type:decimal(32,8)" json:"debit_pool,omitempty"`
	IssuedStable          decimal.Decimal `sql:"type:decimal(32,8)" json:"issued_stable,omitempty"`
	TotalSurplusInAuction decimal.Decimal `sql:"type:decimal(32,8)" json:"total_surplus_in_auction,omitempty"`
	TotalDebitInAuction   decimal.Decimal `sql:"type:decimal(32,8)" json:"total_debit_in_auction,omitempty"`
	TotalTargetInAuction  decimal.Decimal `sql:"type:decimal(32,8)" json:"total_target_in_auction,omitempty"`
	SurplusBufferSize     decimal.Decimal `sql:"type:decimal(32,8)" json:"surplus_buffer_size,omitempty"`
	SurplusAuctionSize    decimal.Decimal `sql:"type:decimal(32,8)" json:"surplus_auction_size,omitempty"`
	DebitAuctionSize      decimal.Decimal `sql:"type:decimal(32,8)" json:"debit_auction_size,omitempty"`
	ShutdownAt            sql.NullTime    `json:"shutdown_at,omitempty"`
	RefundOpenAt          sql.NullTime    `json:"refund_open_at,omitempty"`
}

// Shutdown reports whether the emergency shutdown has been triggered
func (t *Treasury) Shutdown() bool {
	return t.ShutdownAt.Valid
}

// RefundOpen reports whether the final collateral refund is open
func (t *Treasury) RefundOpen() bool {
	return t.RefundOpenAt.Valid
}

// GetDebitProportion the pro rata share amount takes of the whole
// stable issuance. Zero when nothing is issued.
func (t *Treasury) GetDebitProportion(amount decimal.Decimal) decimal.Decimal {
	if !t.IssuedStable.IsPositive() {
		return decimal.Zero
	}

	return amount.Div(t.IssuedStable)
}

// TreasuryCollateral confiscated collateral held in treasury custody,
// per currency. Fed by liquidations and auction cancellations, drained
// by auction awards, dex swaps and post shutdown refunds.
type TreasuryCollateral struct {
	ID        int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
	Version   int64           `json:"version,omitempty"`
	AssetID   string          `sql:"size:36;unique_index:idx_treasury_collaterals_asset_id" json:"asset_id,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(32,8)" json:"amount,omitempty"`
}

// TreasuryStore treasury store interface
type TreasuryStore interface {
	// Find returns the singleton, creating the zero row on first use.
	Find(ctx context.Context) (*Treasury, error)
	Update(ctx context.Context, treasury *Treasury, version int64) error

	FindCollateral(ctx context.Context, assetID string) (*TreasuryCollateral, error)
	ListCollaterals(ctx context.Context) ([]*TreasuryCollateral, error)
	UpdateCollateral(ctx context.Context, collateral *TreasuryCollateral, version int64) error
}

// TreasuryService books system surplus and debit, keeps the custody of
// confiscated collateral and turns imbalances into auctions. Surplus
// amounts may be negative when a payout reverses earlier income.
type TreasuryService interface {
	// OnSurplus books stable value the system earned.
	OnSurplus(ctx context.Context, amount decimal.Decimal) error
	// OnDebit books stable value the system now owes.
	OnDebit(ctx context.Context, amount decimal.Decimal) error
	// IssueDebit books stable leaving the group and queues the
	// transfer carrying it. An unbacked issue also books system
	// debit.
	IssueDebit(ctx context.Context, amount decimal.Decimal, backed bool, transfer *Transfer) error
	// BurnDebit retires stable the group received back.
	BurnDebit(ctx context.Context, amount decimal.Decimal) error

	// DepositCollateral moves seized collateral into custody.
	DepositCollateral(ctx context.Context, assetID string, amount decimal.Decimal) error
	// WithdrawCollateral debits custody and queues the transfer. The
	// transfer decides receiver and memo.
	WithdrawCollateral(ctx context.Context, assetID string, amount decimal.Decimal, transfer *Transfer) error

	// CreateCollateralAuctions splits the lot by the collateral's
	// auction size, targets spread pro rata, and opens the auctions.
	CreateCollateralAuctions(ctx context.Context, collateral *Collateral, amount, target decimal.Decimal, refundReceiver, traceID string) error
	// SwapCollateralToStable sells just enough custody collateral on
	// the dex to raise target stable, booking the proceeds as
	// surplus. Returns the collateral consumed.
	SwapCollateralToStable(ctx context.Context, collateral *Collateral, amount, target decimal.Decimal) (decimal.Decimal, error)
}
