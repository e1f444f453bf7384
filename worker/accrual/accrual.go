package accrual

import (
	"context"
	"time"

	"vault/core"
	"vault/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// GlobalRateKey the governance controlled stability fee added on top
// of every collateral's own rate, set by a property proposal.
const GlobalRateKey = "global_stability_fee"

// Accrual compounds stability fees into the debit exchange rates.
// Accrual stops for good once the system is shut down.
type Accrual struct {
	worker.BaseJob
	collateralStore core.CollateralStore
	treasuryStore   core.TreasuryStore
	engine          core.EngineService
	property        property.Store
}

// New new accrual worker
func New(
	location string,
	collateralStore core.CollateralStore,
	treasuryStore core.TreasuryStore,
	engine core.EngineService,
	property property.Store,
) *Accrual {
	accrual := Accrual{
		collateralStore: collateralStore,
		treasuryStore:   treasuryStore,
		engine:          engine,
		property:        property,
	}

	l, _ := time.LoadLocation(location)
	accrual.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 1m"
	accrual.Cron.AddFunc(spec, accrual.Run)
	accrual.OnWork = func() error {
		return accrual.onWork(context.Background())
	}

	return &accrual
}

func (w *Accrual) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")
	ctx = logger.WithContext(ctx, log)

	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		log.WithError(err).Errorln("treasuries.Find")
		return err
	}

	if treasury.Shutdown() {
		return nil
	}

	globalRate, err := w.globalRate(ctx)
	if err != nil {
		return err
	}

	collaterals, err := w.collateralStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("collaterals.All")
		return err
	}

	now := time.Now()
	for _, collateral := range collaterals {
		if err := w.engine.Accrue(ctx, collateral, globalRate, now); err != nil {
			log.WithError(err).Errorln("engine.Accrue", collateral.Symbol)
			return err
		}
	}

	return nil
}

func (w *Accrual) globalRate(ctx context.Context) (decimal.Decimal, error) {
	v, err := w.property.Get(ctx, GlobalRateKey)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("property.Get", GlobalRateKey)
		return decimal.Zero, err
	}

	rate, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, nil
	}

	return rate, nil
}
