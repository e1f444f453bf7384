package payee

import (
	"context"
	"fmt"

	"vault/core"
	"vault/pkg/cdp"

	"github.com/fox-one/pkg/logger"
	uuidutil "github.com/fox-one/pkg/uuid"
)

// handle refund collaterals event: once the final refund is open,
// stable holders burn their stable and take a pro rata share of every
// collateral currency left in treasury custody.
func (w *Payee) handleRefundCollateralsEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "refund_collaterals")

	if err := cdp.Require(w.system.IsStable(output.AssetID), "payee/refund-wrong-currency", cdp.FlagRefund); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeRefundCollaterals, core.ErrInvalidCurrency)
	}

	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		log.WithError(err).Errorln("treasuries.Find")
		return err
	}

	if err := cdp.Require(treasury.RefundOpen(), "payee/refund-not-open", cdp.FlagRefund); err != nil {
		log.WithError(err).Infoln("skip: refund not open")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeRefundCollaterals, core.ErrCannotRefundYet)
	}

	proportion := treasury.GetDebitProportion(output.Amount)
	if err := cdp.Require(proportion.IsPositive(), "payee/nothing-to-refund", cdp.FlagRefund); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeRefundCollaterals, core.ErrInvalidAmount)
	}

	custody, err := w.treasuryStore.ListCollaterals(ctx)
	if err != nil {
		log.WithError(err).Errorln("treasuries.ListCollaterals")
		return err
	}

	for idx, c := range custody {
		payout := c.Amount.Mul(proportion).Truncate(8)
		if !payout.IsPositive() {
			continue
		}

		transfer := &core.Transfer{
			TraceID:   uuidutil.Modify(output.TraceID, fmt.Sprintf("refund-collateral-%d", idx)),
			Opponents: []string{userID},
			Threshold: 1,
		}

		action := core.TransferAction{
			Source:   core.ActionTypeShutdownRefundTransfer,
			Origin:   core.ActionTypeRefundCollaterals,
			FollowID: followID,
		}
		memo, err := action.Format()
		if err != nil {
			return err
		}
		transfer.Memo = memo

		if err := w.treasuryz.WithdrawCollateral(ctx, c.AssetID, payout, transfer); err != nil {
			log.WithError(err).Errorln("treasuryz.WithdrawCollateral")
			return err
		}
	}

	if err := w.treasuryz.BurnDebit(ctx, output.Amount); err != nil {
		log.WithError(err).Errorln("treasuryz.BurnDebit")
		return err
	}

	log.Infof("refunded %s stable against custody", output.Amount)
	cs := &core.ContextSnapshot{Treasury: treasury}
	return w.journal(ctx, output, userID, followID, core.ActionTypeRefundCollaterals, cs)
}
