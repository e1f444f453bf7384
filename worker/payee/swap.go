package payee

import (
	"context"

	"vault/core"
	"vault/pkg/mtg"

	"github.com/fox-one/pkg/logger"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// handle swap event: sell the payment for fillAsset through the pools.
// The whole trade reverts and refunds when the fill drops under the
// limit the trader named.
func (w *Payee) handleSwapEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "swap")

	var fillAsset uuid.UUID
	var minFill decimal.Decimal
	if _, err := mtg.Scan(body, &fillAsset, &minFill); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeSwapToken, core.ErrUnknown)
	}

	if _, err := w.requireRunning(ctx); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeSwapToken, core.ErrAlreadyShutdown)
	}

	fill, err := w.dexz.Swap(ctx, output, userID, fillAsset.String(), minFill, followID)
	if err != nil {
		log.WithError(err).Infoln("swap rejected")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeSwapToken, core.ErrCannotSwap)
	}

	log.Infof("swapped %s %s for %s %s", output.Amount, output.AssetID, fill, fillAsset)
	return w.journal(ctx, output, userID, followID, core.ActionTypeSwapToken, core.NewContextSnapshot(nil, nil))
}
