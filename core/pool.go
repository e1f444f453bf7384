package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Pool one constant product market between a pooled currency and the
// stable base currency. Swaps between two pooled currencies hop
// through the base side.
type Pool struct {
	ID          int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
	Version     int64           `json:"version,omitempty"`
	AssetID     string          `sql:"size:36;unique_index:idx_pools_asset_id" json:"asset_id,omitempty"`
	BaseAmount  decimal.Decimal `sql:"type:decimal(32,8)" json:"base_amount,omitempty"`
	TokenAmount decimal.Decimal `sql:"type:decimal(32,8)" json:"token_amount,omitempty"`
	TotalShares decimal.Decimal `sql:"type:decimal(32,8)" json:"total_shares,omitempty"`
	Fee         decimal.Decimal `sql:"type:decimal(32,16)" json:"fee,omitempty"`
}

// PoolShare a user's share of one pool
type PoolShare struct {
	ID        int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
	Version   int64           `json:"version,omitempty"`
	AssetID   string          `sql:"size:36;unique_index:idx_pool_shares_asset_user" json:"asset_id,omitempty"`
	UserID    string          `sql:"size:36;unique_index:idx_pool_shares_asset_user" json:"user_id,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(32,8)" json:"amount,omitempty"`
}

// LiquidityOrderState lifecycle of a pending liquidity order
type LiquidityOrderState int

const (
	// LiquidityOrderStatePending waiting for the second leg
	LiquidityOrderStatePending LiquidityOrderState = iota
	// LiquidityOrderStateDone both legs arrived and shares were minted
	LiquidityOrderStateDone
	// LiquidityOrderStateRejected increment rejected, both legs refunded
	LiquidityOrderStateRejected
)

// LiquidityOrder a two leg liquidity deposit in flight. Adding
// liquidity takes one payment per currency; the two legs share a
// follow id and the order completes when both have arrived.
type LiquidityOrder struct {
	ID          int64               `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt   time.Time           `json:"created_at,omitempty"`
	UpdatedAt   time.Time           `json:"updated_at,omitempty"`
	Version     int64               `json:"version,omitempty"`
	FollowID    string              `sql:"size:36;unique_index:idx_liquidity_orders_follow_id" json:"follow_id,omitempty"`
	UserID      string              `sql:"size:36" json:"user_id,omitempty"`
	AssetID     string              `sql:"size:36" json:"asset_id,omitempty"`
	BaseAmount  decimal.Decimal     `sql:"type:decimal(32,8)" json:"base_amount,omitempty"`
	TokenAmount decimal.Decimal     `sql:"type:decimal(32,8)" json:"token_amount,omitempty"`
	BaseTrace   string              `sql:"size:36" json:"base_trace,omitempty"`
	TokenTrace  string              `sql:"size:36" json:"token_trace,omitempty"`
	State       LiquidityOrderState `json:"state,omitempty"`
}

// Complete reports whether both legs have arrived
func (o *LiquidityOrder) Complete() bool {
	return o.BaseAmount.IsPositive() && o.TokenAmount.IsPositive()
}

// PoolStore pool store interface
type PoolStore interface {
	Save(ctx context.Context, pool *Pool) error
	Find(ctx context.Context, assetID string) (*Pool, error)
	All(ctx context.Context) ([]*Pool, error)
	Update(ctx context.Context, pool *Pool, version int64) error

	FindShare(ctx context.Context, assetID, userID string) (*PoolShare, error)
	ListShares(ctx context.Context, userID string) ([]*PoolShare, error)
	UpdateShare(ctx context.Context, share *PoolShare, version int64) error

	CreateOrder(ctx context.Context, order *LiquidityOrder) error
	FindOrder(ctx context.Context, followID string) (*LiquidityOrder, error)
	UpdateOrder(ctx context.Context, order *LiquidityOrder, version int64) error
}

// DexService the constant product exchange. Swap and the liquidity
// handlers are fed by the payee; the exact supply and exact target
// trades mutate the pools without paying anyone and serve liquidations
// and auction settlement.
type DexService interface {
	// GetSwapAmount quotes the output of selling payAmount of
	// payAsset for fillAsset, routing through the base currency.
	GetSwapAmount(ctx context.Context, payAsset string, payAmount decimal.Decimal, fillAsset string) (decimal.Decimal, error)
	// GetSupplyAmount quotes the payAsset needed to buy fillAmount of
	// fillAsset.
	GetSupplyAmount(ctx context.Context, payAsset, fillAsset string, fillAmount decimal.Decimal) (decimal.Decimal, error)
	// Swap executes the quoted trade and transfers the output to the
	// trader. The whole trade reverts when the output falls under
	// minFill.
	Swap(ctx context.Context, output *Output, userID, fillAsset string, minFill decimal.Decimal, followID string) (decimal.Decimal, error)
	// SwapExactSupply trades against the pools only, returning the
	// fill kept by the caller.
	SwapExactSupply(ctx context.Context, payAsset string, payAmount decimal.Decimal, fillAsset string) (decimal.Decimal, error)
	// SwapExactTarget spends as little payAsset as possible, capped
	// by maxSupply, to buy exactly target fillAsset. Returns the
	// supply consumed.
	SwapExactTarget(ctx context.Context, payAsset string, maxSupply decimal.Decimal, fillAsset string, target decimal.Decimal) (decimal.Decimal, error)
	// AddLiquidity books one leg of a liquidity order, settling the
	// order when both legs have arrived.
	AddLiquidity(ctx context.Context, output *Output, userID, assetID, followID string) error
	// RemoveLiquidity burns shares and pays out both sides pro rata.
	RemoveLiquidity(ctx context.Context, userID, assetID string, shares decimal.Decimal, traceID, followID string) error
}
