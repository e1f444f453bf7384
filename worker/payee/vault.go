package payee

import (
	"context"

	"vault/core"
	"vault/pkg/cdp"
	"vault/pkg/mtg"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// handle vault deposit event
func (w *Payee) handleVaultDepositEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "vault_deposit")

	var collateralTrace uuid.UUID
	var debitDelta decimal.Decimal
	if _, err := mtg.Scan(body, &collateralTrace, &debitDelta); err != nil {
		// the debit delta is optional, a bare deposit omits it
		debitDelta = decimal.Zero
		if _, err := mtg.Scan(body, &collateralTrace); err != nil {
			log.WithError(err).Infoln("skip: invalid memo")
			return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeVaultDeposit, core.ErrUnknown)
		}
	}

	if _, err := w.requireRunning(ctx); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultDeposit, core.ErrAlreadyShutdown)
	}

	collateral, err := w.requireCollateral(ctx, collateralTrace.String())
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultDeposit, core.ErrCollateralNotFound)
	}

	if err := cdp.Require(output.AssetID == collateral.AssetID, "payee/deposit-wrong-currency", cdp.FlagRefund); err != nil {
		log.WithError(err).Infoln("skip: payment available is not the collateral currency")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultDeposit, core.ErrInvalidCurrency)
	}

	if err := cdp.Require(!debitDelta.IsNegative(), "payee/negative-debit-delta", cdp.FlagRefund); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultDeposit, core.ErrInvalidAmount)
	}

	vault, err := w.vaultStore.Find(ctx, userID, collateral.TraceID)
	if err != nil {
		if !store.IsErrNotFound(err) {
			log.WithError(err).Errorln("vaults.Find")
			return err
		}

		vault = &core.Vault{
			TraceID:      uuidutil.Modify(output.TraceID, "vault"),
			UserID:       userID,
			CollateralID: collateral.TraceID,
		}
		if err := w.vaultStore.Create(ctx, vault); err != nil {
			log.WithError(err).Errorln("vaults.Create")
			return err
		}
	}

	if debitDelta.IsPositive() {
		if err := priceFresh(collateral, output.CreatedAt); err != nil {
			log.WithError(err).Infoln("skip: feed price expired")
			return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultDeposit, core.ErrInvalidFeedPrice)
		}

		if err := cdp.Require(
			collateral.TotalDebitValue().Add(debitDelta).LessThanOrEqual(collateral.DebitCeiling),
			"payee/debit-ceiling-reached",
			cdp.FlagRefund,
		); err != nil {
			log.WithError(err).Infoln("skip: debit ceiling reached")
			return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultDeposit, core.ErrExceedDebitCeiling)
		}
	}

	units := vault.DebitUnits.Add(cdp.DebitUnits(debitDelta, collateral.DebitExchangeRate))
	if err := w.engine.CheckRisk(collateral, vault.Amount.Add(output.Amount), units, debitDelta.IsPositive()); err != nil {
		log.WithError(err).Infoln("skip: risk check failed")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultDeposit, core.ErrBelowRequiredCollateralRatio)
	}

	if err := w.vaultz.Adjust(ctx, collateral, vault, output.Amount, debitDelta, output.TraceID, followID, vault.Version+1); err != nil {
		log.WithError(err).Errorln("vaultz.Adjust")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultDeposit, core.ErrInvalidAmount)
	}

	log.Infoln("vault deposit completed")
	return w.journal(ctx, output, userID, followID, core.ActionTypeVaultDeposit, core.NewContextSnapshot(vault, collateral))
}

// handle vault adjust event: withdraw collateral and issue debit
// against what stays. The payment is just the carrier of the action.
func (w *Payee) handleVaultAdjustEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "vault_adjust")

	var vaultTrace uuid.UUID
	var collateralDelta, debitDelta decimal.Decimal
	if _, err := mtg.Scan(body, &vaultTrace, &collateralDelta, &debitDelta); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrUnknown)
	}

	vault, err := w.requireVault(ctx, vaultTrace.String())
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrVaultNotFound)
	}

	if err := w.requireOperator(ctx, vault, userID); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrUnauthorized)
	}

	collateral, err := w.requireCollateral(ctx, vault.CollateralID)
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrCollateralNotFound)
	}

	// deposits arrive as collateral payments, repayments as stable
	// payments; adjust only ever takes out of the vault
	if err := cdp.Require(!collateralDelta.IsPositive() && !debitDelta.IsNegative(), "payee/invalid-adjust-delta", cdp.FlagRefund); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrInvalidAmount)
	}

	if err := cdp.Require(collateralDelta.Neg().LessThanOrEqual(vault.Amount), "payee/withdraw-exceeds-locked", cdp.FlagRefund); err != nil {
		log.WithError(err).Infoln("skip: withdraw exceeds locked collateral")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrInsufficientCollateral)
	}

	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		log.WithError(err).Errorln("treasuries.Find")
		return err
	}

	if treasury.ShutdownAt.Valid {
		if err := cdp.Require(debitDelta.IsZero(), "payee/already-shutdown", cdp.FlagRefund); err != nil {
			return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrAlreadyShutdown)
		}
	}

	if debitDelta.IsPositive() {
		if err := priceFresh(collateral, output.CreatedAt); err != nil {
			log.WithError(err).Infoln("skip: feed price expired")
			return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrInvalidFeedPrice)
		}

		if err := cdp.Require(
			collateral.TotalDebitValue().Add(debitDelta).LessThanOrEqual(collateral.DebitCeiling),
			"payee/debit-ceiling-reached",
			cdp.FlagRefund,
		); err != nil {
			log.WithError(err).Infoln("skip: debit ceiling reached")
			return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrExceedDebitCeiling)
		}
	}

	units := vault.DebitUnits.Add(cdp.DebitUnits(debitDelta, collateral.DebitExchangeRate))
	if err := w.engine.CheckRisk(collateral, vault.Amount.Add(collateralDelta), units, debitDelta.IsPositive()); err != nil {
		log.WithError(err).Infoln("skip: risk check failed")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrBelowRequiredCollateralRatio)
	}

	if err := w.vaultz.Adjust(ctx, collateral, vault, collateralDelta, debitDelta, output.TraceID, followID, vault.Version+1); err != nil {
		log.WithError(err).Errorln("vaultz.Adjust")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultAdjust, core.ErrInvalidAmount)
	}

	log.Infoln("vault adjust completed")
	return w.journal(ctx, output, userID, followID, core.ActionTypeVaultAdjust, core.NewContextSnapshot(vault, collateral))
}

// handle vault repay event
func (w *Payee) handleVaultRepayEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "vault_repay")

	var vaultTrace uuid.UUID
	if _, err := mtg.Scan(body, &vaultTrace); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeVaultRepay, core.ErrUnknown)
	}

	if err := cdp.Require(w.system.IsStable(output.AssetID), "payee/repay-wrong-currency", cdp.FlagRefund); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultRepay, core.ErrInvalidCurrency)
	}

	vault, err := w.requireVault(ctx, vaultTrace.String())
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultRepay, core.ErrVaultNotFound)
	}

	collateral, err := w.requireCollateral(ctx, vault.CollateralID)
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultRepay, core.ErrCollateralNotFound)
	}

	outstanding := cdp.DebitValue(vault.DebitUnits, collateral.DebitExchangeRate)
	if err := cdp.Require(output.Amount.LessThanOrEqual(outstanding), "payee/repay-exceeds-debit", cdp.FlagRefund); err != nil {
		log.WithError(err).Infoln("skip: repay exceeds outstanding debit")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultRepay, core.ErrDebitTooLow)
	}

	if !output.Amount.Equal(outstanding) {
		units := vault.DebitUnits.Sub(cdp.DebitUnits(output.Amount, collateral.DebitExchangeRate))
		if err := w.engine.CheckRisk(collateral, vault.Amount, units, false); err != nil {
			log.WithError(err).Infoln("skip: risk check failed")
			return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultRepay, core.ErrBelowMinimumDebitValue)
		}
	}

	if err := w.vaultz.Adjust(ctx, collateral, vault, decimal.Zero, output.Amount.Neg(), output.TraceID, followID, vault.Version+1); err != nil {
		log.WithError(err).Errorln("vaultz.Adjust")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultRepay, core.ErrInvalidAmount)
	}

	log.Infoln("vault repay completed")
	return w.journal(ctx, output, userID, followID, core.ActionTypeVaultRepay, core.NewContextSnapshot(vault, collateral))
}

// handle vault transfer event: the sender takes over the whole
// position of a vault whose owner granted authorization.
func (w *Payee) handleVaultTransferEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "vault_transfer")

	var vaultTrace uuid.UUID
	if _, err := mtg.Scan(body, &vaultTrace); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeVaultTransfer, core.ErrUnknown)
	}

	from, err := w.requireVault(ctx, vaultTrace.String())
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultTransfer, core.ErrVaultNotFound)
	}

	if err := cdp.Require(from.UserID != userID, "payee/transfer-to-self", cdp.FlagRefund); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultTransfer, core.ErrOperationForbidden)
	}

	if err := w.requireOperator(ctx, from, userID); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultTransfer, core.ErrUnauthorized)
	}

	collateral, err := w.requireCollateral(ctx, from.CollateralID)
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultTransfer, core.ErrCollateralNotFound)
	}

	to, err := w.vaultStore.Find(ctx, userID, collateral.TraceID)
	if err != nil {
		if !store.IsErrNotFound(err) {
			log.WithError(err).Errorln("vaults.Find")
			return err
		}

		to = &core.Vault{
			TraceID:      uuidutil.Modify(output.TraceID, "vault"),
			UserID:       userID,
			CollateralID: collateral.TraceID,
		}
		if err := w.vaultStore.Create(ctx, to); err != nil {
			log.WithError(err).Errorln("vaults.Create")
			return err
		}
	}

	// no risk check on the merged position: a transfer only moves
	// collateral and debit between vaults of the same currency, the
	// combined ratio can never be worse than the safer of the two
	if err := w.vaultz.Transfer(ctx, collateral, from, to, from.Version+1); err != nil {
		log.WithError(err).Errorln("vaultz.Transfer")
		return err
	}

	log.Infoln("vault transfer completed")
	return w.journal(ctx, output, userID, followID, core.ActionTypeVaultTransfer, core.NewContextSnapshot(to, collateral))
}

// handle vault close event: the debit is cleared by selling locked
// collateral on the dex, anything left goes back to the owner.
func (w *Payee) handleVaultCloseEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "vault_close")

	var vaultTrace uuid.UUID
	if _, err := mtg.Scan(body, &vaultTrace); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeVaultClose, core.ErrUnknown)
	}

	if _, err := w.requireRunning(ctx); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultClose, core.ErrAlreadyShutdown)
	}

	vault, err := w.requireVault(ctx, vaultTrace.String())
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultClose, core.ErrVaultNotFound)
	}

	if err := w.requireOperator(ctx, vault, userID); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultClose, core.ErrUnauthorized)
	}

	collateral, err := w.requireCollateral(ctx, vault.CollateralID)
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultClose, core.ErrCollateralNotFound)
	}

	if err := w.engine.CloseByDex(ctx, collateral, vault, output.TraceID, followID, vault.Version+1); err != nil {
		log.WithError(err).Infoln("close by dex failed")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeVaultClose, core.ErrCannotSwap)
	}

	log.Infoln("vault close completed")
	return w.journal(ctx, output, userID, followID, core.ActionTypeVaultClose, core.NewContextSnapshot(vault, collateral))
}
