package payee

import (
	"context"

	"vault/core"
	"vault/core/proposal"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
	"github.com/shopspring/decimal"
)

// handle add collateral event. The currency is listed with its debit
// ceiling at zero, so no debit can be issued until an update params
// proposal raises it.
func (w *Payee) handleAddCollateralEvent(ctx context.Context, p *core.Proposal, req proposal.AddCollateralReq, output *core.Output) error {
	log := logger.FromContext(ctx).WithField("handler", "add_collateral")

	collateral := &core.Collateral{
		TraceID:            p.TraceID,
		Name:               req.Name,
		Symbol:             req.Symbol,
		AssetID:            req.AssetID,
		DebitExchangeRate:  decimal.New(1, 0),
		LiquidationRatio:   decimal.NewFromFloat(1.5),
		LiquidationPenalty: decimal.NewFromFloat(0.13),
		RequiredRatio:      decimal.NewFromFloat(1.75),
		AuctionSize:        decimal.NewFromInt(100),
		AccruedAt:          output.CreatedAt,
	}

	if err := w.collateralStore.Create(ctx, collateral); err != nil {
		log.WithError(err).Errorln("collaterals.Create")
		return err
	}

	log.Infof("collateral %s listed", collateral.Symbol)
	return nil
}

// handle update params event. A negative field keeps the current
// value, so a proposal only moves the params it names.
func (w *Payee) handleUpdateParamsEvent(ctx context.Context, p *core.Proposal, req proposal.UpdateParamsReq, output *core.Output) error {
	log := logger.FromContext(ctx).WithField("handler", "update_params")

	collateral, err := w.collateralStore.Find(ctx, req.CollateralID)
	if err != nil {
		if store.IsErrNotFound(err) {
			log.Infoln("skip: collateral not found")
			return nil
		}

		log.WithError(err).Errorln("collaterals.Find")
		return err
	}

	if !req.StabilityFee.IsNegative() {
		collateral.StabilityFee = req.StabilityFee
	}
	if !req.LiquidationRatio.IsNegative() {
		collateral.LiquidationRatio = req.LiquidationRatio
	}
	if !req.LiquidationPenalty.IsNegative() {
		collateral.LiquidationPenalty = req.LiquidationPenalty
	}
	if !req.RequiredRatio.IsNegative() {
		collateral.RequiredRatio = req.RequiredRatio
	}
	if !req.DebitCeiling.IsNegative() {
		collateral.DebitCeiling = req.DebitCeiling
	}
	if !req.AuctionSize.IsNegative() {
		collateral.AuctionSize = req.AuctionSize
	}

	if err := w.collateralStore.Update(ctx, collateral, collateral.Version+1); err != nil {
		log.WithError(err).Errorln("collaterals.Update")
		return err
	}

	log.Infof("params updated for %s", collateral.Symbol)
	return nil
}
