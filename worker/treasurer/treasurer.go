package treasurer

import (
	"context"
	"fmt"
	"time"

	"vault/core"
	"vault/pkg/id"
	"vault/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Treasurer runs the periodic book sweep: surplus and debit offset
// each other first, then the remainders open surplus and debit
// auctions sized by the governance-set lots.
type Treasurer struct {
	worker.BaseJob
	treasuryStore core.TreasuryStore
	auctionStore  core.AuctionStore
	params        core.AuctionParams
	debitLot      decimal.Decimal
}

// New new treasurer
func New(
	location string,
	treasuryStore core.TreasuryStore,
	auctionStore core.AuctionStore,
	params core.AuctionParams,
	debitLot decimal.Decimal,
) *Treasurer {
	treasurer := Treasurer{
		treasuryStore: treasuryStore,
		auctionStore:  auctionStore,
		params:        params,
		debitLot:      debitLot,
	}

	l, _ := time.LoadLocation(location)
	treasurer.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 1m"
	treasurer.Cron.AddFunc(spec, treasurer.Run)
	treasurer.OnWork = func() error {
		return treasurer.onWork(context.Background())
	}

	return &treasurer
}

func (w *Treasurer) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "treasurer")
	ctx = logger.WithContext(ctx, log)

	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		log.WithError(err).Errorln("treasuries.Find")
		return err
	}

	if treasury.Shutdown() {
		return nil
	}

	if err := w.offset(ctx, treasury); err != nil {
		return err
	}

	if err := w.createSurplusAuctions(ctx, treasury); err != nil {
		return err
	}

	return w.createDebitAuctions(ctx, treasury)
}

// offset burns surplus against debit, whichever runs out first
func (w *Treasurer) offset(ctx context.Context, treasury *core.Treasury) error {
	amount := decimal.Min(treasury.SurplusPool, treasury.DebitPool)
	if !amount.IsPositive() {
		return nil
	}

	treasury.SurplusPool = treasury.SurplusPool.Sub(amount)
	treasury.DebitPool = treasury.DebitPool.Sub(amount)
	if err := w.treasuryStore.Update(ctx, treasury, treasury.Version+1); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("treasuries.Update")
		return err
	}

	treasury.Version += 1
	logger.FromContext(ctx).Infof("offset %s surplus against debit", amount)
	return nil
}

func (w *Treasurer) createSurplusAuctions(ctx context.Context, treasury *core.Treasury) error {
	log := logger.FromContext(ctx)

	lot := treasury.SurplusAuctionSize
	if !lot.IsPositive() || treasury.DebitPool.IsPositive() {
		return nil
	}

	now := time.Now()
	for treasury.SurplusPool.GreaterThanOrEqual(treasury.TotalSurplusInAuction.Add(treasury.SurplusBufferSize).Add(lot)) {
		auction := &core.SurplusAuction{
			TraceID: id.UUIDFromString(fmt.Sprintf("surplus-auction-%d", treasury.Version)),
			Amount:  lot,
			State:   core.AuctionStateOpen,
			StartAt: now,
			CloseAt: now.Add(w.params.TimeToClose),
		}

		// the auction row lands first; the trace is derived from the
		// book version so a replay after a crash is a no-op
		if err := w.auctionStore.CreateSurplusAuction(ctx, auction); err != nil {
			log.WithError(err).Errorln("auctions.CreateSurplusAuction")
			return err
		}

		treasury.SurplusPool = treasury.SurplusPool.Sub(lot)
		treasury.TotalSurplusInAuction = treasury.TotalSurplusInAuction.Add(lot)
		if err := w.treasuryStore.Update(ctx, treasury, treasury.Version+1); err != nil {
			log.WithError(err).Errorln("treasuries.Update")
			return err
		}

		treasury.Version += 1
		log.Infof("surplus auction %s opened for %s", auction.TraceID, lot)
	}

	return nil
}

func (w *Treasurer) createDebitAuctions(ctx context.Context, treasury *core.Treasury) error {
	log := logger.FromContext(ctx)

	fix := treasury.DebitAuctionSize
	if !fix.IsPositive() || !w.debitLot.IsPositive() || treasury.SurplusPool.IsPositive() {
		return nil
	}

	now := time.Now()
	for treasury.DebitPool.GreaterThanOrEqual(treasury.TotalDebitInAuction.Add(fix)) {
		auction := &core.DebitAuction{
			TraceID:    id.UUIDFromString(fmt.Sprintf("debit-auction-%d", treasury.Version)),
			Amount:     w.debitLot,
			InitAmount: w.debitLot,
			Fix:        fix,
			State:      core.AuctionStateOpen,
			StartAt:    now,
			CloseAt:    now.Add(w.params.TimeToClose),
		}

		if err := w.auctionStore.CreateDebitAuction(ctx, auction); err != nil {
			log.WithError(err).Errorln("auctions.CreateDebitAuction")
			return err
		}

		treasury.TotalDebitInAuction = treasury.TotalDebitInAuction.Add(fix)
		if err := w.treasuryStore.Update(ctx, treasury, treasury.Version+1); err != nil {
			log.WithError(err).Errorln("treasuries.Update")
			return err
		}

		treasury.Version += 1
		log.Infof("debit auction %s opened, fix %s", auction.TraceID, fix)
	}

	return nil
}
