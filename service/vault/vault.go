package vault

import (
	"context"

	"vault/core"
	"vault/pkg/cdp"

	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

type vaultService struct {
	vaults      core.VaultStore
	collaterals core.CollateralStore
	treasury    core.TreasuryService
	wallets     core.WalletStore
	system      *core.System
}

// New new vault service
func New(
	vaults core.VaultStore,
	collaterals core.CollateralStore,
	treasury core.TreasuryService,
	wallets core.WalletStore,
	system *core.System,
) core.VaultService {
	return &vaultService{
		vaults:      vaults,
		collaterals: collaterals,
		treasury:    treasury,
		wallets:     wallets,
		system:      system,
	}
}

func (s *vaultService) Adjust(ctx context.Context, collateral *core.Collateral, vault *core.Vault, collateralDelta, debitDelta decimal.Decimal, traceID, followID string, version int64) error {
	newAmount := vault.Amount.Add(collateralDelta)
	if newAmount.IsNegative() {
		return core.ErrInsufficientCollateral
	}

	var unitsDelta decimal.Decimal
	switch {
	case debitDelta.IsPositive():
		unitsDelta = cdp.DebitUnits(debitDelta, collateral.DebitExchangeRate)
		if !unitsDelta.IsPositive() {
			return core.ErrInvalidAmount
		}
	case debitDelta.IsNegative():
		repay := debitDelta.Neg()
		outstanding := cdp.DebitValue(vault.DebitUnits, collateral.DebitExchangeRate)
		if repay.GreaterThan(outstanding) {
			return core.ErrInvalidAmount
		}

		// a repayment covering the whole value clears all units, so
		// rounding never strands debit dust in the vault
		if repay.Equal(outstanding) {
			unitsDelta = vault.DebitUnits.Neg()
		} else {
			unitsDelta = cdp.DebitUnits(repay, collateral.DebitExchangeRate).Neg()
		}
	}

	newUnits := vault.DebitUnits.Add(unitsDelta)
	if newUnits.IsNegative() {
		return core.ErrInvalidAmount
	}

	vault.Amount = newAmount
	vault.DebitUnits = newUnits
	if err := s.vaults.Update(ctx, vault, version); err != nil {
		return err
	}

	c, err := s.collaterals.Find(ctx, collateral.TraceID)
	if err != nil {
		return err
	}

	c.TotalCollateral = c.TotalCollateral.Add(collateralDelta)
	c.TotalDebitUnits = c.TotalDebitUnits.Add(unitsDelta)
	if err := s.collaterals.Update(ctx, c, c.Version+1); err != nil {
		return err
	}

	if debitDelta.IsPositive() {
		transfer, err := core.NewTransfer(
			uuid.Modify(traceID, "issue"),
			s.system.StableAssetID,
			vault.UserID,
			debitDelta,
			core.TransferAction{Source: core.ActionTypeWithdrawTransfer, FollowID: followID},
		)
		if err != nil {
			return err
		}

		if err := s.treasury.IssueDebit(ctx, debitDelta, true, transfer); err != nil {
			return err
		}
	} else if debitDelta.IsNegative() {
		if err := s.treasury.BurnDebit(ctx, debitDelta.Neg()); err != nil {
			return err
		}
	}

	if collateralDelta.IsNegative() {
		transfer, err := core.NewTransfer(
			uuid.Modify(traceID, "withdraw"),
			collateral.AssetID,
			vault.UserID,
			collateralDelta.Neg(),
			core.TransferAction{Source: core.ActionTypeWithdrawTransfer, FollowID: followID},
		)
		if err != nil {
			return err
		}

		if err := s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
			return err
		}
	}

	return nil
}

func (s *vaultService) Transfer(ctx context.Context, collateral *core.Collateral, from, to *core.Vault, version int64) error {
	amount, units := from.Amount, from.DebitUnits

	from.Amount = decimal.Zero
	from.DebitUnits = decimal.Zero
	if err := s.vaults.Update(ctx, from, version); err != nil {
		return err
	}

	to.Amount = to.Amount.Add(amount)
	to.DebitUnits = to.DebitUnits.Add(units)
	return s.vaults.Update(ctx, to, to.Version+1)
}

func (s *vaultService) Confiscate(ctx context.Context, collateral *core.Collateral, vault *core.Vault, amount, debitUnits decimal.Decimal, version int64) error {
	if amount.GreaterThan(vault.Amount) || debitUnits.GreaterThan(vault.DebitUnits) {
		return core.ErrInsufficientCollateral
	}

	debitValue := cdp.DebitValue(debitUnits, collateral.DebitExchangeRate)

	vault.Amount = vault.Amount.Sub(amount)
	vault.DebitUnits = vault.DebitUnits.Sub(debitUnits)
	if err := s.vaults.Update(ctx, vault, version); err != nil {
		return err
	}

	c, err := s.collaterals.Find(ctx, collateral.TraceID)
	if err != nil {
		return err
	}

	c.TotalCollateral = c.TotalCollateral.Sub(amount)
	c.TotalDebitUnits = c.TotalDebitUnits.Sub(debitUnits)
	if err := s.collaterals.Update(ctx, c, c.Version+1); err != nil {
		return err
	}

	if err := s.treasury.OnDebit(ctx, debitValue); err != nil {
		return err
	}

	return s.treasury.DepositCollateral(ctx, collateral.AssetID, amount)
}
