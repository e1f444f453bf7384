package dex

import (
	"context"

	"vault/core"
	"vault/pkg/swap"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

// DefaultFee the exchange fee a pool starts with
var DefaultFee = decimal.New(1, -2)

type dexService struct {
	pools   core.PoolStore
	wallets core.WalletStore
	system  *core.System
}

// New new dex service
func New(pools core.PoolStore, wallets core.WalletStore, system *core.System) core.DexService {
	return &dexService{
		pools:   pools,
		wallets: wallets,
		system:  system,
	}
}

func (s *dexService) findPool(ctx context.Context, assetID string) (*core.Pool, error) {
	pool, err := s.pools.Find(ctx, assetID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrCannotSwap
		}

		return nil, err
	}

	return pool, nil
}

func (s *dexService) GetSwapAmount(ctx context.Context, payAsset string, payAmount decimal.Decimal, fillAsset string) (decimal.Decimal, error) {
	if payAsset == fillAsset || !payAmount.IsPositive() {
		return decimal.Zero, core.ErrCannotSwap
	}

	if s.system.IsStable(payAsset) {
		pool, err := s.findPool(ctx, fillAsset)
		if err != nil {
			return decimal.Zero, err
		}

		fill := swap.GetTargetAmount(pool.BaseAmount, pool.TokenAmount, payAmount, pool.Fee)
		if !fill.IsPositive() {
			return decimal.Zero, core.ErrCannotSwap
		}

		return fill, nil
	}

	pool, err := s.findPool(ctx, payAsset)
	if err != nil {
		return decimal.Zero, err
	}

	fill := swap.GetTargetAmount(pool.TokenAmount, pool.BaseAmount, payAmount, pool.Fee)
	if !fill.IsPositive() {
		return decimal.Zero, core.ErrCannotSwap
	}

	if s.system.IsStable(fillAsset) {
		return fill, nil
	}

	// hop through the base currency
	return s.GetSwapAmount(ctx, s.system.StableAssetID, fill, fillAsset)
}

func (s *dexService) GetSupplyAmount(ctx context.Context, payAsset, fillAsset string, fillAmount decimal.Decimal) (decimal.Decimal, error) {
	if payAsset == fillAsset || !fillAmount.IsPositive() {
		return decimal.Zero, core.ErrCannotSwap
	}

	if s.system.IsStable(fillAsset) {
		pool, err := s.findPool(ctx, payAsset)
		if err != nil {
			return decimal.Zero, err
		}

		supply := swap.GetSupplyAmount(pool.TokenAmount, pool.BaseAmount, fillAmount, pool.Fee)
		if !supply.IsPositive() {
			return decimal.Zero, core.ErrCannotSwap
		}

		return supply, nil
	}

	pool, err := s.findPool(ctx, fillAsset)
	if err != nil {
		return decimal.Zero, err
	}

	base := swap.GetSupplyAmount(pool.BaseAmount, pool.TokenAmount, fillAmount, pool.Fee)
	if !base.IsPositive() {
		return decimal.Zero, core.ErrCannotSwap
	}

	if s.system.IsStable(payAsset) {
		return base, nil
	}

	return s.GetSupplyAmount(ctx, payAsset, s.system.StableAssetID, base)
}

// swapExactSupply trades payAmount against the pools and returns the
// fill. Pool rows are updated leg by leg, fees staying in the pool.
func (s *dexService) swapExactSupply(ctx context.Context, payAsset string, payAmount decimal.Decimal, fillAsset string) (decimal.Decimal, error) {
	if payAsset == fillAsset || !payAmount.IsPositive() {
		return decimal.Zero, core.ErrCannotSwap
	}

	if s.system.IsStable(payAsset) {
		pool, err := s.findPool(ctx, fillAsset)
		if err != nil {
			return decimal.Zero, err
		}

		fill := swap.GetTargetAmount(pool.BaseAmount, pool.TokenAmount, payAmount, pool.Fee)
		if !fill.IsPositive() {
			return decimal.Zero, core.ErrCannotSwap
		}

		pool.BaseAmount = pool.BaseAmount.Add(payAmount)
		pool.TokenAmount = pool.TokenAmount.Sub(fill)
		if err := s.pools.Update(ctx, pool, pool.Version+1); err != nil {
			return decimal.Zero, err
		}

		return fill, nil
	}

	pool, err := s.findPool(ctx, payAsset)
	if err != nil {
		return decimal.Zero, err
	}

	fill := swap.GetTargetAmount(pool.TokenAmount, pool.BaseAmount, payAmount, pool.Fee)
	if !fill.IsPositive() {
		return decimal.Zero, core.ErrCannotSwap
	}

	pool.TokenAmount = pool.TokenAmount.Add(payAmount)
	pool.BaseAmount = pool.BaseAmount.Sub(fill)
	if err := s.pools.Update(ctx, pool, pool.Version+1); err != nil {
		return decimal.Zero, err
	}

	if s.system.IsStable(fillAsset) {
		return fill, nil
	}

	return s.swapExactSupply(ctx, s.system.StableAssetID, fill, fillAsset)
}

func (s *dexService) SwapExactSupply(ctx context.Context, payAsset string, payAmount decimal.Decimal, fillAsset string) (decimal.Decimal, error) {
	return s.swapExactSupply(ctx, payAsset, payAmount, fillAsset)
}

func (s *dexService) SwapExactTarget(ctx context.Context, payAsset string, maxSupply decimal.Decimal, fillAsset string, target decimal.Decimal) (decimal.Decimal, error) {
	supply, err := s.GetSupplyAmount(ctx, payAsset, fillAsset, target)
	if err != nil {
		return decimal.Zero, err
	}

	if supply.GreaterThan(maxSupply) {
		return decimal.Zero, core.ErrInsufficientBalance
	}

	if s.system.IsStable(fillAsset) {
		pool, err := s.findPool(ctx, payAsset)
		if err != nil {
			return decimal.Zero, err
		}

		pool.TokenAmount = pool.TokenAmount.Add(supply)
		pool.BaseAmount = pool.BaseAmount.Sub(target)
		if err := s.pools.Update(ctx, pool, pool.Version+1); err != nil {
			return decimal.Zero, err
		}

		return supply, nil
	}

	pool, err := s.findPool(ctx, fillAsset)
	if err != nil {
		return decimal.Zero, err
	}

	base := swap.GetSupplyAmount(pool.BaseAmount, pool.TokenAmount, target, pool.Fee)
	if !base.IsPositive() {
		return decimal.Zero, core.ErrCannotSwap
	}

	if !s.system.IsStable(payAsset) {
		if _, err := s.SwapExactTarget(ctx, payAsset, maxSupply, s.system.StableAssetID, base); err != nil {
			return decimal.Zero, err
		}
	}

	pool.BaseAmount = pool.BaseAmount.Add(base)
	pool.TokenAmount = pool.TokenAmount.Sub(target)
	if err := s.pools.Update(ctx, pool, pool.Version+1); err != nil {
		return decimal.Zero, err
	}

	return supply, nil
}

func (s *dexService) Swap(ctx context.Context, output *core.Output, userID, fillAsset string, minFill decimal.Decimal, followID string) (decimal.Decimal, error) {
	fill, err := s.GetSwapAmount(ctx, output.AssetID, output.Amount, fillAsset)
	if err != nil {
		return decimal.Zero, err
	}

	if minFill.IsPositive() && fill.LessThan(minFill) {
		return decimal.Zero, core.ErrCannotSwap
	}

	if _, err := s.swapExactSupply(ctx, output.AssetID, output.Amount, fillAsset); err != nil {
		return decimal.Zero, err
	}

	transfer, err := core.NewTransfer(
		uuid.Modify(output.TraceID, "swap"),
		fillAsset,
		userID,
		fill,
		core.TransferAction{Source: core.ActionTypeSwapTransfer, FollowID: followID},
	)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
		return decimal.Zero, err
	}

	return fill, nil
}

func (s *dexService) AddLiquidity(ctx context.Context, output *core.Output, userID, assetID, followID string) error {
	if s.system.IsStable(assetID) || (!s.system.IsStable(output.AssetID) && output.AssetID != assetID) {
		return core.ErrInvalidCurrency
	}

	order, err := s.pools.FindOrder(ctx, followID)
	if err != nil {
		if !store.IsErrNotFound(err) {
			return err
		}

		order = &core.LiquidityOrder{
			FollowID: followID,
			UserID:   userID,
			AssetID:  assetID,
		}

		fillOrderLeg(order, output, s.system)
		if err := s.pools.CreateOrder(ctx, order); err != nil {
			return err
		}
	}

	if order.UserID != userID || order.AssetID != assetID {
		return core.ErrInvalidLiquidityIncrement
	}

	// replayed leg
	if order.BaseTrace == output.TraceID || order.TokenTrace == output.TraceID {
		if order.State != core.LiquidityOrderStatePending || !order.Complete() {
			return nil
		}
	} else {
		if order.State != core.LiquidityOrderStatePending {
			return core.ErrInvalidLiquidityIncrement
		}

		if s.system.IsStable(output.AssetID) && order.BaseTrace != "" {
			return core.ErrInvalidLiquidityIncrement
		}

		if !s.system.IsStable(output.AssetID) && order.TokenTrace != "" {
			return core.ErrInvalidLiquidityIncrement
		}

		fillOrderLeg(order, output, s.system)
		if err := s.pools.UpdateOrder(ctx, order, order.Version+1); err != nil {
			return err
		}

		if !order.Complete() {
			return nil
		}
	}

	return s.settleOrder(ctx, order)
}

func fillOrderLeg(order *core.LiquidityOrder, output *core.Output, system *core.System) {
	if system.IsStable(output.AssetID) {
		order.BaseAmount = output.Amount
		order.BaseTrace = output.TraceID
	} else {
		order.TokenAmount = output.Amount
		order.TokenTrace = output.TraceID
	}
}

func (s *dexService) settleOrder(ctx context.Context, order *core.LiquidityOrder) error {
	pool, err := s.pools.Find(ctx, order.AssetID)
	if err != nil {
		if !store.IsErrNotFound(err) {
			return err
		}

		pool = &core.Pool{AssetID: order.AssetID, Fee: DefaultFee}
		if err := s.pools.Save(ctx, pool); err != nil {
			return err
		}
	}

	if !swap.CheckLiquidityIncrement(pool.BaseAmount, pool.TokenAmount, order.BaseAmount, order.TokenAmount) {
		return s.rejectOrder(ctx, order)
	}

	var shares decimal.Decimal
	if pool.TotalShares.IsPositive() {
		shares = swap.MintShares(pool.TotalShares, pool.TokenAmount, order.TokenAmount)
	} else {
		shares = swap.GenesisShares(order.BaseAmount, order.TokenAmount)
	}

	if !shares.IsPositive() {
		return s.rejectOrder(ctx, order)
	}

	pool.BaseAmount = pool.BaseAmount.Add(order.BaseAmount)
	pool.TokenAmount = pool.TokenAmount.Add(order.TokenAmount)
	pool.TotalShares = pool.TotalShares.Add(shares)
	if err := s.pools.Update(ctx, pool, pool.Version+1); err != nil {
		return err
	}

	share, err := s.pools.FindShare(ctx, order.AssetID, order.UserID)
	if err != nil {
		return err
	}

	share.Amount = share.Amount.Add(shares)
	if err := s.pools.UpdateShare(ctx, share, share.Version+1); err != nil {
		return err
	}

	order.State = core.LiquidityOrderStateDone
	return s.pools.UpdateOrder(ctx, order, order.Version+1)
}

// rejectOrder bounces both legs back to the provider
func (s *dexService) rejectOrder(ctx context.Context, order *core.LiquidityOrder) error {
	action := core.TransferAction{
		Source:   core.ActionTypeRefundTransfer,
		Origin:   core.ActionTypeAddLiquidity,
		FollowID: order.FollowID,
		Code:     core.ErrInvalidLiquidityIncrement,
	}

	var transfers []*core.Transfer
	if order.BaseAmount.IsPositive() {
		transfer, err := core.NewTransfer(uuid.Modify(order.BaseTrace, "refund"), s.system.StableAssetID, order.UserID, order.BaseAmount, action)
		if err != nil {
			return err
		}

		transfers = append(transfers, transfer)
	}

	if order.TokenAmount.IsPositive() {
		transfer, err := core.NewTransfer(uuid.Modify(order.TokenTrace, "refund"), order.AssetID, order.UserID, order.TokenAmount, action)
		if err != nil {
			return err
		}

		transfers = append(transfers, transfer)
	}

	if err := s.wallets.CreateTransfers(ctx, transfers); err != nil {
		return err
	}

	order.State = core.LiquidityOrderStateRejected
	return s.pools.UpdateOrder(ctx, order, order.Version+1)
}

func (s *dexService) RemoveLiquidity(ctx context.Context, userID, assetID string, shares decimal.Decimal, traceID, followID string) error {
	if !shares.IsPositive() {
		return core.ErrInvalidAmount
	}

	pool, err := s.findPool(ctx, assetID)
	if err != nil {
		return err
	}

	share, err := s.pools.FindShare(ctx, assetID, userID)
	if err != nil {
		return err
	}

	if share.Amount.LessThan(shares) {
		return core.ErrInsufficientBalance
	}

	base, token := swap.RedeemAmounts(pool.TotalShares, shares, pool.BaseAmount, pool.TokenAmount)

	pool.BaseAmount = pool.BaseAmount.Sub(base)
	pool.TokenAmount = pool.TokenAmount.Sub(token)
	pool.TotalShares = pool.TotalShares.Sub(shares)
	if err := s.pools.Update(ctx, pool, pool.Version+1); err != nil {
		return err
	}

	share.Amount = share.Amount.Sub(shares)
	if err := s.pools.UpdateShare(ctx, share, share.Version+1); err != nil {
		return err
	}

	action := core.TransferAction{Source: core.ActionTypeLiquidityTransfer, FollowID: followID}

	var transfers []*core.Transfer
	if base.IsPositive() {
		transfer, err := core.NewTransfer(uuid.Modify(traceID, "base"), s.system.StableAssetID, userID, base, action)
		if err != nil {
			return err
		}

		transfers = append(transfers, transfer)
	}

	if token.IsPositive() {
		transfer, err := core.NewTransfer(uuid.Modify(traceID, "token"), assetID, userID, token, action)
		if err != nil {
			return err
		}

		transfers = append(transfers, transfer)
	}

	return s.wallets.CreateTransfers(ctx, transfers)
}
