package engine

import (
	"context"
	"fmt"
	"time"

	"vault/core"
	"vault/pkg/cdp"
	"vault/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

var one = decimal.New(1, 0)

type engineService struct {
	vaults      core.VaultStore
	collaterals core.CollateralStore
	vaultz      core.VaultService
	treasury    core.TreasuryService
	dex         core.DexService
	wallets     core.WalletStore
	system      *core.System
}

// New new risk engine service
func New(
	vaults core.VaultStore,
	collaterals core.CollateralStore,
	vaultz core.VaultService,
	treasury core.TreasuryService,
	dex core.DexService,
	wallets core.WalletStore,
	system *core.System,
) core.EngineService {
	return &engineService{
		vaults:      vaults,
		collaterals: collaterals,
		vaultz:      vaultz,
		treasury:    treasury,
		dex:         dex,
		wallets:     wallets,
		system:      system,
	}
}

func (s *engineService) CheckRisk(collateral *core.Collateral, amount, debitUnits decimal.Decimal, debitIncreasing bool) error {
	if !debitUnits.IsPositive() {
		return nil
	}

	debitValue := cdp.DebitValue(debitUnits, collateral.DebitExchangeRate)
	if debitValue.LessThan(s.system.MinimumDebitValue) {
		return core.ErrBelowMinimumDebitValue
	}

	if !collateral.Price.IsPositive() {
		return core.ErrInvalidFeedPrice
	}

	ratio := cdp.CollateralRatio(amount, collateral.Price, debitValue)
	if debitIncreasing && ratio.LessThan(collateral.RequiredRatio) {
		return core.ErrBelowRequiredCollateralRatio
	}

	if ratio.LessThan(collateral.LiquidationRatio) {
		return core.ErrBelowLiquidationRatio
	}

	return nil
}

func (s *engineService) IsUnsafe(collateral *core.Collateral, amount, debitUnits decimal.Decimal) bool {
	if !debitUnits.IsPositive() || !collateral.Price.IsPositive() {
		return false
	}

	debitValue := cdp.DebitValue(debitUnits, collateral.DebitExchangeRate)
	ratio := cdp.CollateralRatio(amount, collateral.Price, debitValue)
	return ratio.LessThan(collateral.LiquidationRatio)
}

func (s *engineService) Liquidate(ctx context.Context, collateral *core.Collateral, vault *core.Vault, version int64) error {
	log := logger.FromContext(ctx).WithField("vault", vault.TraceID)

	if !s.IsUnsafe(collateral, vault.Amount, vault.DebitUnits) {
		return core.ErrVaultStillSafe
	}

	var (
		amount     = vault.Amount
		units      = vault.DebitUnits
		debitValue = cdp.DebitValue(units, collateral.DebitExchangeRate)
		target     = cdp.LiquidationTarget(debitValue, collateral.LiquidationPenalty)
		trace      = uuid.Modify(vault.TraceID, fmt.Sprintf("liquidate-%d", version))
	)

	if err := s.vaultz.Confiscate(ctx, collateral, vault, amount, units, version); err != nil {
		return err
	}

	// sell on the dex when the quote stays close enough to the feed
	// price, the auction books only get what the pools cannot absorb
	if quote, err := s.dex.GetSupplyAmount(ctx, collateral.AssetID, s.system.StableAssetID, target); err == nil &&
		quote.LessThanOrEqual(amount) &&
		quote.Mul(collateral.Price).LessThanOrEqual(target.Mul(one.Add(s.system.MaxSwapSlippage))) {
		consumed, err := s.treasury.SwapCollateralToStable(ctx, collateral, amount, target)
		if err == nil {
			log.Infof("liquidated via dex, %s %s sold for %s", consumed, collateral.Symbol, target)

			if leftover := amount.Sub(consumed); leftover.IsPositive() {
				transfer, err := core.NewTransfer(
					uuid.Modify(trace, "leftover"),
					collateral.AssetID,
					vault.UserID,
					leftover,
					core.TransferAction{Source: core.ActionTypeAuctionPayoutTransfer},
				)
				if err != nil {
					return err
				}

				return s.treasury.WithdrawCollateral(ctx, collateral.AssetID, leftover, transfer)
			}

			return nil
		}

		log.WithError(err).Infoln("dex liquidation failed, falling back to auctions")
	}

	return s.treasury.CreateCollateralAuctions(ctx, collateral, amount, target, vault.UserID, trace)
}

func (s *engineService) Settle(ctx context.Context, collateral *core.Collateral, vault *core.Vault, version int64) error {
	if !collateral.Price.IsPositive() {
		return core.ErrInvalidFeedPrice
	}

	debitValue := cdp.DebitValue(vault.DebitUnits, collateral.DebitExchangeRate)
	seize := decimal.Min(vault.Amount, number.Ceil(debitValue.Div(collateral.Price), 8))

	if err := s.vaultz.Confiscate(ctx, collateral, vault, seize, vault.DebitUnits, version); err != nil {
		return err
	}

	if leftover := vault.Amount; leftover.IsPositive() {
		transfer, err := core.NewTransfer(
			uuid.Modify(vault.TraceID, "settle"),
			collateral.AssetID,
			vault.UserID,
			leftover,
			core.TransferAction{Source: core.ActionTypeShutdownRefundTransfer},
		)
		if err != nil {
			return err
		}

		if err := s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
			return err
		}
	}

	return s.vaults.Delete(ctx, vault, version+1)
}

func (s *engineService) CloseByDex(ctx context.Context, collateral *core.Collateral, vault *core.Vault, traceID, followID string, version int64) error {
	var (
		amount     = vault.Amount
		units      = vault.DebitUnits
		debitValue = cdp.DebitValue(units, collateral.DebitExchangeRate)
		consumed   = decimal.Zero
	)

	if debitValue.IsPositive() {
		quote, err := s.dex.GetSupplyAmount(ctx, collateral.AssetID, s.system.StableAssetID, debitValue)
		if err != nil {
			return err
		}

		if quote.GreaterThan(amount) {
			return core.ErrInsufficientCollateral
		}

		if consumed, err = s.dex.SwapExactTarget(ctx, collateral.AssetID, amount, s.system.StableAssetID, debitValue); err != nil {
			return err
		}

		if err := s.treasury.BurnDebit(ctx, debitValue); err != nil {
			return err
		}
	}

	c, err := s.collaterals.Find(ctx, collateral.TraceID)
	if err != nil {
		return err
	}

	c.TotalCollateral = c.TotalCollateral.Sub(amount)
	c.TotalDebitUnits = c.TotalDebitUnits.Sub(units)
	if err := s.collaterals.Update(ctx, c, c.Version+1); err != nil {
		return err
	}

	if leftover := amount.Sub(consumed); leftover.IsPositive() {
		transfer, err := core.NewTransfer(
			uuid.Modify(traceID, "leftover"),
			collateral.AssetID,
			vault.UserID,
			leftover,
			core.TransferAction{Source: core.ActionTypeWithdrawTransfer, FollowID: followID},
		)
		if err != nil {
			return err
		}

		if err := s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
			return err
		}
	}

	return s.vaults.Delete(ctx, vault, version)
}

func (s *engineService) Accrue(ctx context.Context, collateral *core.Collateral, globalRate decimal.Decimal, at time.Time) error {
	elapsed := int64(at.Sub(collateral.AccruedAt).Seconds())
	if elapsed <= 0 {
		return nil
	}

	rate := cdp.CompoundRate(cdp.PerSecondRate(collateral.StabilityFee.Add(globalRate)), elapsed)

	oldRate := collateral.DebitExchangeRate
	if rate.IsPositive() {
		collateral.DebitExchangeRate = cdp.GrowExchangeRate(oldRate, rate)
	}

	collateral.AccruedAt = at
	if err := s.collaterals.Update(ctx, collateral, collateral.Version+1); err != nil {
		return err
	}

	surplus := number.Ceil(collateral.TotalDebitUnits.Mul(collateral.DebitExchangeRate.Sub(oldRate)), 8)
	return s.treasury.OnSurplus(ctx, surplus)
}
