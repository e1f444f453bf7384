package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AuctionPhase collateral auctions start forward and flip to reverse
// exactly once, when a bid first covers the target.
type AuctionPhase int

const (
	// AuctionPhaseForward bids raise the stable payment
	AuctionPhaseForward AuctionPhase = iota
	// AuctionPhaseReverse bids shrink the lot for a fixed payment
	AuctionPhaseReverse
)

// AuctionState lifecycle of an auction row
type AuctionState int

const (
	// AuctionStateOpen accepting bids
	AuctionStateOpen AuctionState = iota
	// AuctionStateDone settled, lot awarded or swapped
	AuctionStateDone
	// AuctionStateCancelled cancelled by the shutdown unwind
	AuctionStateCancelled
	// AuctionStateRelisted expired with no bid and reopened as a new auction
	AuctionStateRelisted
)

// CollateralAuction sells confiscated collateral for stable currency.
// Target is the stable amount to raise; a zero target makes the
// auction forward only. In the reverse phase the payment is pinned to
// the target and Amount shrinks with every bid, the shrinkage going
// back to the vault owner.
type CollateralAuction struct {
	ID              int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt       time.Time       `json:"created_at,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at,omitempty"`
	Version         int64           `json:"version,omitempty"`
	TraceID         string          `sql:"size:36;unique_index:idx_collateral_auctions_trace_id" json:"trace_id,omitempty"`
	CollateralID    int64           `json:"collateral_id,omitempty"`
	AssetID         string          `sql:"size:36" json:"asset_id,omitempty"`
	RefundReceiver  string          `sql:"size:36" json:"refund_receiver,omitempty"`
	Amount          decimal.Decimal `sql:"type:decimal(32,8)" json:"amount,omitempty"`
	InitAmount      decimal.Decimal `sql:"type:decimal(32,8)" json:"init_amount,omitempty"`
	Target          decimal.Decimal `sql:"type:decimal(32,8)" json:"target,omitempty"`
	Bid             decimal.Decimal `sql:"type:decimal(32,8)" json:"bid,omitempty"`
	Bidder          string          `sql:"size:36" json:"bidder,omitempty"`
	Phase           AuctionPhase    `json:"phase,omitempty"`
	State           AuctionState    `json:"state,omitempty"`
	StartAt         time.Time       `json:"start_at,omitempty"`
	CloseAt         time.Time       `json:"close_at,omitempty"`
}

// AlwaysForward auctions without a target never enter the reverse phase
func (a *CollateralAuction) AlwaysForward() bool {
	return !a.Target.IsPositive()
}

// HasBid reports whether anyone holds the auction
func (a *CollateralAuction) HasBid() bool {
	return a.Bidder != ""
}

// Payment the stable amount escrowed by the standing bid
func (a *CollateralAuction) Payment() decimal.Decimal {
	if a.AlwaysForward() {
		return a.Bid
	}

	return decimal.Min(a.Bid, a.Target)
}

// SurplusAuction sells a stable surplus lot for native currency,
// single phase ascending. The winning native bid is retired.
type SurplusAuction struct {
	ID        int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
	Version   int64           `json:"version,omitempty"`
	TraceID   string          `sql:"size:36;unique_index:idx_surplus_auctions_trace_id" json:"trace_id,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(32,8)" json:"amount,omitempty"`
	Bid       decimal.Decimal `sql:"type:decimal(32,8)" json:"bid,omitempty"`
	Bidder    string          `sql:"size:36" json:"bidder,omitempty"`
	State     AuctionState    `json:"state,omitempty"`
	StartAt   time.Time       `json:"start_at,omitempty"`
	CloseAt   time.Time       `json:"close_at,omitempty"`
}

// HasBid reports whether anyone holds the auction
func (a *SurplusAuction) HasBid() bool {
	return a.Bidder != ""
}

// DebitAuction raises a fixed stable amount against system debit.
// Every bidder escrows exactly Fix; higher bids shrink the native
// amount minted to the winner.
type DebitAuction struct {
	ID         int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at,omitempty"`
	Version    int64           `json:"version,omitempty"`
	TraceID    string          `sql:"size:36;unique_index:idx_debit_auctions_trace_id" json:"trace_id,omitempty"`
	Amount     decimal.Decimal `sql:"type:decimal(32,8)" json:"amount,omitempty"`
	InitAmount decimal.Decimal `sql:"type:decimal(32,8)" json:"init_amount,omitempty"`
	Fix        decimal.Decimal `sql:"type:decimal(32,8)" json:"fix,omitempty"`
	Bid        decimal.Decimal `sql:"type:decimal(32,8)" json:"bid,omitempty"`
	Bidder     string          `sql:"size:36" json:"bidder,omitempty"`
	State      AuctionState    `json:"state,omitempty"`
	StartAt    time.Time       `json:"start_at,omitempty"`
	CloseAt    time.Time       `json:"close_at,omitempty"`
}

// HasBid reports whether anyone holds the auction
func (a *DebitAuction) HasBid() bool {
	return a.Bidder != ""
}

// AuctionStore stores the three auction books
type AuctionStore interface {
	CreateCollateralAuctions(ctx context.Context, auctions []*CollateralAuction) error
	FindCollateralAuction(ctx context.Context, traceID string) (*CollateralAuction, error)
	ListOpenCollateralAuctions(ctx context.Context, fromID int64, limit int) ([]*CollateralAuction, error)
	ListExpiredCollateralAuctions(ctx context.Context, now time.Time, limit int) ([]*CollateralAuction, error)
	UpdateCollateralAuction(ctx context.Context, auction *CollateralAuction, version int64) error
	CountOpenCollateralAuctions(ctx context.Context) (int64, error)

	CreateSurplusAuction(ctx context.Context, auction *SurplusAuction) error
	FindSurplusAuction(ctx context.Context, traceID string) (*SurplusAuction, error)
	ListOpenSurplusAuctions(ctx context.Context, fromID int64, limit int) ([]*SurplusAuction, error)
	ListExpiredSurplusAuctions(ctx context.Context, now time.Time, limit int) ([]*SurplusAuction, error)
	UpdateSurplusAuction(ctx context.Context, auction *SurplusAuction, version int64) error

	CreateDebitAuction(ctx context.Context, auction *DebitAuction) error
	FindDebitAuction(ctx context.Context, traceID string) (*DebitAuction, error)
	ListOpenDebitAuctions(ctx context.Context, fromID int64, limit int) ([]*DebitAuction, error)
	ListExpiredDebitAuctions(ctx context.Context, now time.Time, limit int) ([]*DebitAuction, error)
	UpdateDebitAuction(ctx context.Context, auction *DebitAuction, version int64) error
}

// AuctionParams timing and increment knobs shared by the three
// auction books.
type AuctionParams struct {
	// TimeToClose how long a fresh auction or bid stays open
	TimeToClose time.Duration
	// MaxDuration hard deadline from the auction start
	MaxDuration time.Duration
	// SoftCap age past which increments double and extensions halve
	SoftCap time.Duration
	// MinIncrementSize minimum bid increment ratio
	MinIncrementSize decimal.Decimal
}

// AuctionService runs the three auction books. Bid* validates and
// applies a bid carried by a payment output; Settle* and Cancel* are
// driven by the auctioneer and the shutdown unwind.
type AuctionService interface {
	BidCollateral(ctx context.Context, auction *CollateralAuction, output *Output, bid decimal.Decimal, followID string, version int64) error
	BidSurplus(ctx context.Context, auction *SurplusAuction, output *Output, bid decimal.Decimal, followID string, version int64) error
	BidDebit(ctx context.Context, auction *DebitAuction, output *Output, bid decimal.Decimal, followID string, version int64) error

	SettleCollateral(ctx context.Context, auction *CollateralAuction) error
	SettleSurplus(ctx context.Context, auction *SurplusAuction) error
	SettleDebit(ctx context.Context, auction *DebitAuction) error

	CancelCollateral(ctx context.Context, auction *CollateralAuction) error
	CancelSurplus(ctx context.Context, auction *SurplusAuction) error
	CancelDebit(ctx context.Context, auction *DebitAuction) error
}
