package core

import (
	"context"
	"time"

	"vault/pkg/cdp"

	"github.com/shopspring/decimal"
)

// Collateral a listed collateral currency with its risk params and
// running totals. DebitExchangeRate converts debit units to stable
// value and only ever grows as stability fees accrue.
type Collateral struct {
	ID                 int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt          time.Time       `json:"created_at,omitempty"`
	UpdatedAt          time.Time       `json:"updated_at,omitempty"`
	Version            int64           `json:"version,omitempty"`
	TraceID            string          `sql:"size:36;unique_index:idx_collaterals_trace_id" json:"trace_id,omitempty"`
	Name               string          `sql:"size:64" json:"name,omitempty"`
	Symbol             string          `sql:"size:32" json:"symbol,omitempty"`
	AssetID            string          `sql:"size:36;unique_index:idx_collaterals_asset_id" json:"asset_id,omitempty"`
	TotalCollateral    decimal.Decimal `sql:"type:decimal(32,8)" json:"total_collateral,omitempty"`
	TotalDebitUnits    decimal.Decimal `sql:"type:decimal(32,16)" json:"total_debit_units,omitempty"`
	TotalInAuction     decimal.Decimal `sql:"type:decimal(32,8)" json:"total_in_auction,omitempty"`
	DebitExchangeRate  decimal.Decimal `sql:"type:decimal(32,16)" json:"debit_exchange_rate,omitempty"`
	StabilityFee       decimal.Decimal `sql:"type:decimal(32,16)" json:"stability_fee,omitempty"`
	LiquidationRatio   decimal.Decimal `sql:"type:decimal(32,16)" json:"liquidation_ratio,omitempty"`
	LiquidationPenalty decimal.Decimal `sql:"type:decimal(32,16)" json:"liquidation_penalty,omitempty"`
	RequiredRatio      decimal.Decimal `sql:"type:decimal(32,16)" json:"required_ratio,omitempty"`
	DebitCeiling       decimal.Decimal `sql:"type:decimal(32,8)" json:"debit_ceiling,omitempty"`
	AuctionSize        decimal.Decimal `sql:"type:decimal(32,8)" json:"auction_size,omitempty"`
	Price              decimal.Decimal `sql:"type:decimal(32,8)" json:"price,omitempty"`
	PriceUpdatedAt     time.Time       `json:"price_updated_at,omitempty"`
	AccruedAt          time.Time       `json:"accrued_at,omitempty"`
}

// TotalDebitValue the stable value of all debit issued against this
// collateral at the current exchange rate.
func (c *Collateral) TotalDebitValue() decimal.Decimal {
	return cdp.DebitValue(c.TotalDebitUnits, c.DebitExchangeRate)
}

// CollateralStore collateral store interface
type CollateralStore interface {
	Create(ctx context.Context, collateral *Collateral) error
	Find(ctx context.Context, traceID string) (*Collateral, error)
	FindByAsset(ctx context.Context, assetID string) (*Collateral, error)
	All(ctx context.Context) ([]*Collateral, error)
	Update(ctx context.Context, collateral *Collateral, version int64) error
}

// EngineService the risk engine guarding every position change and
// driving liquidation, settlement and fee accrual.
type EngineService interface {
	// CheckRisk validates the resulting position. debitIncreasing
	// selects the required ratio, otherwise the liquidation ratio is
	// enough.
	CheckRisk(collateral *Collateral, amount, debitUnits decimal.Decimal, debitIncreasing bool) error
	// IsUnsafe reports whether the position is below the liquidation
	// ratio at the current feed price.
	IsUnsafe(collateral *Collateral, amount, debitUnits decimal.Decimal) bool
	// Liquidate confiscates an unsafe vault and raises the
	// liquidation target, via dex when the price is good enough,
	// otherwise by collateral auctions.
	Liquidate(ctx context.Context, collateral *Collateral, vault *Vault, version int64) error
	// Settle confiscates just enough collateral to cover the debit at
	// the locked price after shutdown.
	Settle(ctx context.Context, collateral *Collateral, vault *Vault, version int64) error
	// CloseByDex sells vault collateral on the dex to clear the debit
	// and refunds what is left to the owner.
	CloseByDex(ctx context.Context, collateral *Collateral, vault *Vault, traceID, followID string, version int64) error
	// Accrue compounds the stability fee into the debit exchange rate
	// and books the increment as system surplus.
	Accrue(ctx context.Context, collateral *Collateral, globalRate decimal.Decimal, at time.Time) error
}
