package payee

import (
	"context"

	"vault/core"
	"vault/core/proposal"

	"github.com/fox-one/pkg/logger"
	uuidutil "github.com/fox-one/pkg/uuid"
)

// handle withdraw event: a passed grant out of the treasury. Stable
// grants are minted against the surplus pool, anything else leaves the
// collateral custody.
func (w *Payee) handleWithdrawEvent(ctx context.Context, p *core.Proposal, req proposal.WithdrawReq, output *core.Output) error {
	log := logger.FromContext(ctx).WithField("handler", "withdraw")

	if !req.Amount.IsPositive() {
		log.Infoln("skip: non positive amount")
		return nil
	}

	action := core.TransferAction{
		Source: core.ActionTypeProposalTransfer,
		Origin: core.ActionTypeProposalWithdraw,
	}
	memo, err := action.Format()
	if err != nil {
		return err
	}

	transfer := &core.Transfer{
		TraceID:   uuidutil.Modify(p.TraceID, "withdraw"),
		Opponents: []string{req.Opponent},
		Threshold: 1,
		Memo:      memo,
	}

	if w.system.IsStable(req.Asset) {
		treasury, err := w.treasuryStore.Find(ctx)
		if err != nil {
			log.WithError(err).Errorln("treasuries.Find")
			return err
		}

		if treasury.SurplusPool.LessThan(req.Amount) {
			log.Infoln("skip: surplus pool too small")
			return nil
		}

		treasury.SurplusPool = treasury.SurplusPool.Sub(req.Amount)
		if err := w.treasuryStore.Update(ctx, treasury, treasury.Version+1); err != nil {
			log.WithError(err).Errorln("treasuries.Update")
			return err
		}

		if err := w.treasuryz.IssueDebit(ctx, req.Amount, true, transfer); err != nil {
			log.WithError(err).Errorln("treasuryz.IssueDebit")
			return err
		}
	} else {
		if err := w.treasuryz.WithdrawCollateral(ctx, req.Asset, req.Amount, transfer); err != nil {
			if err == core.ErrInsufficientCollateral {
				log.Infoln("skip: custody too small")
				return nil
			}

			log.WithError(err).Errorln("treasuryz.WithdrawCollateral")
			return err
		}
	}

	log.Infof("withdrew %s %s to %s", req.Amount, req.Asset, req.Opponent)
	return nil
}
