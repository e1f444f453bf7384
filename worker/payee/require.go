package payee

import (
	"context"
	"time"

	"vault/core"
	"vault/pkg/cdp"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
)

// priceExpiry feed prices older than this cannot back new debit
const priceExpiry = time.Hour

func (w *Payee) requireCollateral(ctx context.Context, traceID string) (*core.Collateral, error) {
	log := logger.FromContext(ctx)

	collateral, err := w.collateralStore.Find(ctx, traceID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, cdp.Require(false, "payee/collateral-not-found", cdp.FlagRefund)
		}

		log.WithError(err).Errorln("collaterals.Find")
		return nil, err
	}

	return collateral, nil
}

func (w *Payee) requireVault(ctx context.Context, traceID string) (*core.Vault, error) {
	log := logger.FromContext(ctx)

	vault, err := w.vaultStore.FindByTrace(ctx, traceID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, cdp.Require(false, "payee/vault-not-found", cdp.FlagRefund)
		}

		log.WithError(err).Errorln("vaults.FindByTrace")
		return nil, err
	}

	return vault, nil
}

// requireOperator the sender must own the vault or hold a standing
// authorization from the owner.
func (w *Payee) requireOperator(ctx context.Context, vault *core.Vault, userID string) error {
	if vault.UserID == userID {
		return nil
	}

	granted, err := w.authorizationStore.Granted(ctx, vault.UserID, userID, vault.CollateralID)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("authorizations.Granted")
		return err
	}

	return cdp.Require(granted, "payee/not-authorized", cdp.FlagRefund)
}

func (w *Payee) requireRunning(ctx context.Context) (*core.Treasury, error) {
	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("treasuries.Find")
		return nil, err
	}

	if err := cdp.Require(!treasury.ShutdownAt.Valid, "payee/already-shutdown", cdp.FlagRefund); err != nil {
		return nil, err
	}

	return treasury, nil
}

func priceFresh(collateral *core.Collateral, now time.Time) error {
	return cdp.Require(
		collateral.Price.IsPositive() && now.Sub(collateral.PriceUpdatedAt) <= priceExpiry,
		"payee/feed-price-expired",
		cdp.FlagRefund,
	)
}
