package payee

import (
	"context"
	"errors"

	"vault/core"
	"vault/pkg/cdp"

	"github.com/fox-one/pkg/logger"
)

// returnOrRefundError sends the payment back when the failure is a
// rejected user action; anything else bubbles up and blocks the queue.
func (w *Payee) returnOrRefundError(ctx context.Context, err error, output *core.Output, userID, followID string, origin core.ActionType, errCode core.ErrorCode) error {
	var e cdp.Error
	if errors.As(err, &e) {
		if !e.Refundable() {
			return nil
		}

		return w.handleRefundEvent(ctx, output, userID, followID, origin, errCode)
	}

	return err
}

// handle refund event
func (w *Payee) handleRefundEvent(ctx context.Context, output *core.Output, userID, followID string, origin core.ActionType, errCode core.ErrorCode) error {
	log := logger.FromContext(ctx).WithField("worker", "refund")

	transfer, e := core.NewRefundTransfer(output, userID, followID, origin, errCode)
	if e != nil {
		log.WithError(e).Errorln("new refund transfer error")
		return e
	}

	if err := w.walletStore.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
		log.WithError(err).Errorln("walletStore.CreateTransfers")
		return err
	}

	return nil
}
