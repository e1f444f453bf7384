package sentinel

import (
	"context"

	"vault/core"
	"vault/worker"

	"github.com/fox-one/pkg/logger"
)

// Sentinel walks the vault book. While the system runs it liquidates
// vaults below the liquidation ratio; after shutdown it settles every
// vault at the locked price and unwinds forward phase collateral
// auctions.
type Sentinel struct {
	worker.TickWorker
	vaultStore      core.VaultStore
	collateralStore core.CollateralStore
	treasuryStore   core.TreasuryStore
	auctionStore    core.AuctionStore
	engine          core.EngineService
	auctionz        core.AuctionService
}

// New new sentinel
func New(
	vaultStore core.VaultStore,
	collateralStore core.CollateralStore,
	treasuryStore core.TreasuryStore,
	auctionStore core.AuctionStore,
	engine core.EngineService,
	auctionz core.AuctionService,
) *Sentinel {
	return &Sentinel{
		vaultStore:      vaultStore,
		collateralStore: collateralStore,
		treasuryStore:   treasuryStore,
		auctionStore:    auctionStore,
		engine:          engine,
		auctionz:        auctionz,
	}
}

// Run run worker
func (w *Sentinel) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "sentinel")
	ctx = logger.WithContext(ctx, log)

	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Sentinel) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		log.WithError(err).Errorln("treasuries.Find")
		return err
	}

	if treasury.Shutdown() {
		if err := w.unwindForwardAuctions(ctx); err != nil {
			return err
		}
	}

	return w.sweepVaults(ctx, treasury.Shutdown())
}

// unwindForwardAuctions cancels collateral auctions still in the
// forward phase: the slice covering the target stays in custody for
// the refund, the rest goes back to the liquidated owner. Reverse
// phase auctions already cover their target and run out normally.
func (w *Sentinel) unwindForwardAuctions(ctx context.Context) error {
	log := logger.FromContext(ctx)

	const limit = 100
	var fromID int64

	for {
		auctions, err := w.auctionStore.ListOpenCollateralAuctions(ctx, fromID, limit)
		if err != nil {
			log.WithError(err).Errorln("auctions.ListOpenCollateralAuctions")
			return err
		}

		if len(auctions) == 0 {
			return nil
		}

		for _, auction := range auctions {
			fromID = auction.ID

			if auction.Phase != core.AuctionPhaseForward {
				continue
			}

			if err := w.auctionz.CancelCollateral(ctx, auction); err != nil {
				log.WithError(err).Errorln("auctionz.CancelCollateral", auction.TraceID)
				return err
			}
		}

		if len(auctions) < limit {
			return nil
		}
	}
}

func (w *Sentinel) sweepVaults(ctx context.Context, shutdown bool) error {
	log := logger.FromContext(ctx)

	const limit = 100
	var (
		fromID      int64
		collaterals = map[string]*core.Collateral{}
	)

	for {
		vaults, err := w.vaultStore.List(ctx, fromID, limit)
		if err != nil {
			log.WithError(err).Errorln("vaults.List")
			return err
		}

		if len(vaults) == 0 {
			return nil
		}

		for _, vault := range vaults {
			fromID = vault.ID

			collateral, ok := collaterals[vault.CollateralID]
			if !ok {
				collateral, err = w.collateralStore.Find(ctx, vault.CollateralID)
				if err != nil {
					log.WithError(err).Errorln("collaterals.Find", vault.CollateralID)
					continue
				}

				collaterals[vault.CollateralID] = collateral
			}

			if err := w.handleVault(ctx, collateral, vault, shutdown); err != nil {
				log.WithError(err).Debugln("handle vault", vault.TraceID)
			}
		}

		if len(vaults) < limit {
			return nil
		}
	}
}

func (w *Sentinel) handleVault(ctx context.Context, collateral *core.Collateral, vault *core.Vault, shutdown bool) error {
	if shutdown {
		return w.engine.Settle(ctx, collateral, vault, vault.Version+1)
	}

	if !collateral.Price.IsPositive() {
		return nil
	}

	if !w.engine.IsUnsafe(collateral, vault.Amount, vault.DebitUnits) {
		return nil
	}

	return w.engine.Liquidate(ctx, collateral, vault, vault.Version+1)
}
