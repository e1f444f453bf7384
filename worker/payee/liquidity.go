package payee

import (
	"context"

	"vault/core"
	"vault/pkg/mtg"

	"github.com/fox-one/pkg/logger"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// handle add liquidity event. A full injection is two payments sharing
// one follow id, the stable leg and the token leg; the order settles
// once both have arrived.
func (w *Payee) handleAddLiquidityEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "add_liquidity")

	var tokenAsset uuid.UUID
	if _, err := mtg.Scan(body, &tokenAsset); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeAddLiquidity, core.ErrUnknown)
	}

	if _, err := w.requireRunning(ctx); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeAddLiquidity, core.ErrAlreadyShutdown)
	}

	if err := w.dexz.AddLiquidity(ctx, output, userID, tokenAsset.String(), followID); err != nil {
		log.WithError(err).Infoln("add liquidity rejected")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeAddLiquidity, core.ErrInvalidLiquidityIncrement)
	}

	log.Infoln("liquidity leg booked")
	return w.journal(ctx, output, userID, followID, core.ActionTypeAddLiquidity, core.NewContextSnapshot(nil, nil))
}

// handle remove liquidity event: burn pool shares and pay out both
// sides pro rata. The payment only carries the action.
func (w *Payee) handleRemoveLiquidityEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "remove_liquidity")

	var tokenAsset uuid.UUID
	var shares decimal.Decimal
	if _, err := mtg.Scan(body, &tokenAsset, &shares); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeRemoveLiquidity, core.ErrUnknown)
	}

	if err := w.dexz.RemoveLiquidity(ctx, userID, tokenAsset.String(), shares, output.TraceID, followID); err != nil {
		log.WithError(err).Infoln("remove liquidity rejected")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeRemoveLiquidity, core.ErrInsufficientBalance)
	}

	log.Infof("removed %s shares of %s", shares, tokenAsset)
	return w.journal(ctx, output, userID, followID, core.ActionTypeRemoveLiquidity, core.NewContextSnapshot(nil, nil))
}
