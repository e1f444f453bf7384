package proposal

import (
	"vault/pkg/mtg"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// UpdateParamsReq tune the risk params of a listed collateral. A
// negative field keeps the current value, so a proposal only moves the
// params it names.
type UpdateParamsReq struct {
	CollateralID       string          `json:"collateral_id,omitempty"`
	StabilityFee       decimal.Decimal `json:"stability_fee,omitempty"`
	LiquidationRatio   decimal.Decimal `json:"liquidation_ratio,omitempty"`
	LiquidationPenalty decimal.Decimal `json:"liquidation_penalty,omitempty"`
	RequiredRatio      decimal.Decimal `json:"required_ratio,omitempty"`
	DebitCeiling       decimal.Decimal `json:"debit_ceiling,omitempty"`
	AuctionSize        decimal.Decimal `json:"auction_size,omitempty"`
}

// Keep the sentinel marking a param as unchanged
var Keep = decimal.NewFromInt(-1)

// MarshalBinary marshal req to binary
func (w UpdateParamsReq) MarshalBinary() (data []byte, err error) {
	collateral, err := uuid.FromString(w.CollateralID)
	if err != nil {
		return nil, err
	}

	return mtg.Encode(
		collateral,
		w.StabilityFee,
		w.LiquidationRatio,
		w.LiquidationPenalty,
		w.RequiredRatio,
		w.DebitCeiling,
		w.AuctionSize,
	)
}

// UnmarshalBinary unmarshal bytes to req
func (w *UpdateParamsReq) UnmarshalBinary(data []byte) error {
	var collateral uuid.UUID
	var fee, liquidationRatio, penalty, requiredRatio, ceiling, auctionSize decimal.Decimal

	if _, err := mtg.Scan(data, &collateral, &fee, &liquidationRatio, &penalty, &requiredRatio, &ceiling, &auctionSize); err != nil {
		return err
	}

	w.CollateralID = collateral.String()
	w.StabilityFee = fee
	w.LiquidationRatio = liquidationRatio
	w.LiquidationPenalty = penalty
	w.RequiredRatio = requiredRatio
	w.DebitCeiling = ceiling
	w.AuctionSize = auctionSize

	return nil
}
