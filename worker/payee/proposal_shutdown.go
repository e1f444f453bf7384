package payee

import (
	"context"
	"database/sql"

	"vault/core"

	"github.com/fox-one/pkg/logger"
)

// handle shutdown event. From here on prices are frozen, no new debit
// can be issued and the sentinel settles every remaining vault at the
// locked prices.
func (w *Payee) handleShutdownEvent(ctx context.Context, p *core.Proposal, output *core.Output) error {
	log := logger.FromContext(ctx).WithField("handler", "shutdown")

	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		log.WithError(err).Errorln("treasuries.Find")
		return err
	}

	if treasury.Shutdown() {
		log.Infoln("skip: already shut down")
		return nil
	}

	treasury.ShutdownAt = sql.NullTime{Time: output.CreatedAt, Valid: true}
	if err := w.treasuryStore.Update(ctx, treasury, treasury.Version+1); err != nil {
		log.WithError(err).Errorln("treasuries.Update")
		return err
	}

	log.Infoln("emergency shutdown triggered")
	return nil
}

// handle open refund event. The final refund may only open once every
// collateral auction has closed and no vault owes debit anymore, so
// the custody per stable is fixed.
func (w *Payee) handleOpenRefundEvent(ctx context.Context, p *core.Proposal, output *core.Output) error {
	log := logger.FromContext(ctx).WithField("handler", "open_refund")

	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		log.WithError(err).Errorln("treasuries.Find")
		return err
	}

	if !treasury.Shutdown() {
		log.Infoln("skip: not shut down")
		return nil
	}

	if treasury.RefundOpen() {
		log.Infoln("skip: refund already open")
		return nil
	}

	if count, err := w.auctionStore.CountOpenCollateralAuctions(ctx); err != nil {
		log.WithError(err).Errorln("auctions.CountOpenCollateralAuctions")
		return err
	} else if count > 0 {
		log.Infof("skip: %d collateral auctions still open", count)
		return nil
	}

	if hasDebit, err := w.vaultStore.HasDebit(ctx); err != nil {
		log.WithError(err).Errorln("vaults.HasDebit")
		return err
	} else if hasDebit {
		log.Infoln("skip: outstanding debit not settled")
		return nil
	}

	treasury.RefundOpenAt = sql.NullTime{Time: output.CreatedAt, Valid: true}
	if err := w.treasuryStore.Update(ctx, treasury, treasury.Version+1); err != nil {
		log.WithError(err).Errorln("treasuries.Update")
		return err
	}

	log.Infoln("collateral refund opened")
	return nil
}
