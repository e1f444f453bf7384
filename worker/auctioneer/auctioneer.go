package auctioneer

import (
	"context"
	"time"

	"vault/core"
	"vault/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

// Auctioneer sweeps the three books for expired auctions. Auctions
// holding a bid settle; a surplus or debit auction nobody wanted is
// cancelled; a collateral auction nobody wanted is relisted with a
// fresh deadline, and cancelled instead once the system is shut down.
type Auctioneer struct {
	worker.TickWorker
	auctionStore    core.AuctionStore
	collateralStore core.CollateralStore
	treasuryStore   core.TreasuryStore
	auctionz        core.AuctionService
	system          *core.System
	params          core.AuctionParams
}

// New new auctioneer
func New(
	auctionStore core.AuctionStore,
	collateralStore core.CollateralStore,
	treasuryStore core.TreasuryStore,
	auctionz core.AuctionService,
	system *core.System,
	params core.AuctionParams,
) *Auctioneer {
	return &Auctioneer{
		auctionStore:    auctionStore,
		collateralStore: collateralStore,
		treasuryStore:   treasuryStore,
		auctionz:        auctionz,
		system:          system,
		params:          params,
	}
}

// Run run worker
func (w *Auctioneer) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "auctioneer")
	ctx = logger.WithContext(ctx, log)

	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Auctioneer) onWork(ctx context.Context) error {
	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("treasuries.Find")
		return err
	}

	now := time.Now()
	if err := w.sweepCollateral(ctx, now, treasury.Shutdown()); err != nil {
		return err
	}

	if err := w.sweepSurplus(ctx, now); err != nil {
		return err
	}

	return w.sweepDebit(ctx, now, treasury.Shutdown())
}

func (w *Auctioneer) sweepCollateral(ctx context.Context, now time.Time, shutdown bool) error {
	log := logger.FromContext(ctx)

	const limit = 100
	auctions, err := w.auctionStore.ListExpiredCollateralAuctions(ctx, now, limit)
	if err != nil {
		log.WithError(err).Errorln("auctions.ListExpiredCollateralAuctions")
		return err
	}

	for _, auction := range auctions {
		if auction.HasBid() {
			if err := w.auctionz.SettleCollateral(ctx, auction); err != nil {
				log.WithError(err).Errorln("auctionz.SettleCollateral", auction.TraceID)
				return err
			}

			continue
		}

		if shutdown {
			if err := w.auctionz.CancelCollateral(ctx, auction); err != nil {
				log.WithError(err).Errorln("auctionz.CancelCollateral", auction.TraceID)
				return err
			}

			continue
		}

		// a dust lot would cycle through relists forever without ever
		// drawing a bid, close it out instead
		if w.isDustLot(ctx, auction) {
			if err := w.auctionz.CancelCollateral(ctx, auction); err != nil {
				log.WithError(err).Errorln("auctionz.CancelCollateral", auction.TraceID)
				return err
			}

			continue
		}

		if err := w.relistCollateral(ctx, auction, now); err != nil {
			return err
		}
	}

	return nil
}

func (w *Auctioneer) isDustLot(ctx context.Context, auction *core.CollateralAuction) bool {
	collateral, err := w.collateralStore.FindByAsset(ctx, auction.AssetID)
	if err != nil || !collateral.Price.IsPositive() {
		return false
	}

	return auction.Amount.Mul(collateral.Price).LessThan(w.system.MinimumDebitValue)
}

func (w *Auctioneer) relistCollateral(ctx context.Context, auction *core.CollateralAuction, now time.Time) error {
	log := logger.FromContext(ctx)

	relisted := &core.CollateralAuction{
		TraceID:        uuid.Modify(auction.TraceID, "relist"),
		CollateralID:   auction.CollateralID,
		AssetID:        auction.AssetID,
		RefundReceiver: auction.RefundReceiver,
		Amount:         auction.Amount,
		InitAmount:     auction.Amount,
		Target:         auction.Target,
		Phase:          core.AuctionPhaseForward,
		State:          core.AuctionStateOpen,
		StartAt:        now,
		CloseAt:        now.Add(w.params.TimeToClose),
	}

	// create first so a crash between the two writes replays clean
	if err := w.auctionStore.CreateCollateralAuctions(ctx, []*core.CollateralAuction{relisted}); err != nil {
		log.WithError(err).Errorln("auctions.CreateCollateralAuctions")
		return err
	}

	auction.State = core.AuctionStateRelisted
	if err := w.auctionStore.UpdateCollateralAuction(ctx, auction, auction.Version+1); err != nil {
		log.WithError(err).Errorln("auctions.UpdateCollateralAuction")
		return err
	}

	log.Infof("collateral auction %s relisted as %s", auction.TraceID, relisted.TraceID)
	return nil
}

func (w *Auctioneer) sweepSurplus(ctx context.Context, now time.Time) error {
	log := logger.FromContext(ctx)

	const limit = 100
	auctions, err := w.auctionStore.ListExpiredSurplusAuctions(ctx, now, limit)
	if err != nil {
		log.WithError(err).Errorln("auctions.ListExpiredSurplusAuctions")
		return err
	}

	for _, auction := range auctions {
		if auction.HasBid() {
			err = w.auctionz.SettleSurplus(ctx, auction)
		} else {
			err = w.auctionz.CancelSurplus(ctx, auction)
		}

		if err != nil {
			log.WithError(err).Errorln("sweep surplus auction", auction.TraceID)
			return err
		}
	}

	return nil
}

func (w *Auctioneer) sweepDebit(ctx context.Context, now time.Time, shutdown bool) error {
	log := logger.FromContext(ctx)

	const limit = 100
	auctions, err := w.auctionStore.ListExpiredDebitAuctions(ctx, now, limit)
	if err != nil {
		log.WithError(err).Errorln("auctions.ListExpiredDebitAuctions")
		return err
	}

	for _, auction := range auctions {
		if auction.HasBid() {
			if err := w.auctionz.SettleDebit(ctx, auction); err != nil {
				log.WithError(err).Errorln("auctionz.SettleDebit", auction.TraceID)
				return err
			}

			continue
		}

		if shutdown {
			if err := w.auctionz.CancelDebit(ctx, auction); err != nil {
				log.WithError(err).Errorln("auctionz.CancelDebit", auction.TraceID)
				return err
			}

			continue
		}

		if err := w.relistDebit(ctx, auction, now); err != nil {
			return err
		}
	}

	return nil
}

// relistDebit reopens a debit auction nobody wanted with half again
// the native lot, keeping the fixed stable target
func (w *Auctioneer) relistDebit(ctx context.Context, auction *core.DebitAuction, now time.Time) error {
	log := logger.FromContext(ctx)

	lot := auction.Amount.Mul(decimal.NewFromFloat(1.5)).Truncate(8)
	relisted := &core.DebitAuction{
		TraceID:    uuid.Modify(auction.TraceID, "relist"),
		Amount:     lot,
		InitAmount: lot,
		Fix:        auction.Fix,
		State:      core.AuctionStateOpen,
		StartAt:    now,
		CloseAt:    now.Add(w.params.TimeToClose),
	}

	if err := w.auctionStore.CreateDebitAuction(ctx, relisted); err != nil {
		log.WithError(err).Errorln("auctions.CreateDebitAuction")
		return err
	}

	auction.State = core.AuctionStateRelisted
	if err := w.auctionStore.UpdateDebitAuction(ctx, auction, auction.Version+1); err != nil {
		log.WithError(err).Errorln("auctions.UpdateDebitAuction")
		return err
	}

	log.Infof("debit auction %s relisted as %s", auction.TraceID, relisted.TraceID)
	return nil
}
