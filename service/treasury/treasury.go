package treasury

import (
	"context"
	"fmt"
	"time"

	"vault/core"
	"vault/pkg/cdp"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

type treasuryService struct {
	treasuries  core.TreasuryStore
	collaterals core.CollateralStore
	auctions    core.AuctionStore
	wallets     core.WalletStore
	dex         core.DexService
	system      *core.System
	params      core.AuctionParams
}

// New new treasury service
func New(
	treasuries core.TreasuryStore,
	collaterals core.CollateralStore,
	auctions core.AuctionStore,
	wallets core.WalletStore,
	dex core.DexService,
	system *core.System,
	params core.AuctionParams,
) core.TreasuryService {
	return &treasuryService{
		treasuries:  treasuries,
		collaterals: collaterals,
		auctions:    auctions,
		wallets:     wallets,
		dex:         dex,
		system:      system,
		params:      params,
	}
}

func (s *treasuryService) OnSurplus(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}

	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.SurplusPool = treasury.SurplusPool.Add(amount)
	return s.treasuries.Update(ctx, treasury, treasury.Version+1)
}

func (s *treasuryService) OnDebit(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}

	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.DebitPool = treasury.DebitPool.Add(amount)
	return s.treasuries.Update(ctx, treasury, treasury.Version+1)
}

func (s *treasuryService) IssueDebit(ctx context.Context, amount decimal.Decimal, backed bool, transfer *core.Transfer) error {
	if !amount.IsPositive() {
		return nil
	}

	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.IssuedStable = treasury.IssuedStable.Add(amount)
	if !backed {
		treasury.DebitPool = treasury.DebitPool.Add(amount)
	}

	if err := s.treasuries.Update(ctx, treasury, treasury.Version+1); err != nil {
		return err
	}

	transfer.AssetID = s.system.StableAssetID
	return s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer})
}

func (s *treasuryService) BurnDebit(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.IssuedStable = treasury.IssuedStable.Sub(amount)
	return s.treasuries.Update(ctx, treasury, treasury.Version+1)
}

func (s *treasuryService) DepositCollateral(ctx context.Context, assetID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	collateral, err := s.treasuries.FindCollateral(ctx, assetID)
	if err != nil {
		return err
	}

	collateral.Amount = collateral.Amount.Add(amount)
	return s.treasuries.UpdateCollateral(ctx, collateral, collateral.Version+1)
}

func (s *treasuryService) WithdrawCollateral(ctx context.Context, assetID string, amount decimal.Decimal, transfer *core.Transfer) error {
	if !amount.IsPositive() {
		return nil
	}

	collateral, err := s.treasuries.FindCollateral(ctx, assetID)
	if err != nil {
		return err
	}

	if collateral.Amount.LessThan(amount) {
		return core.ErrInsufficientCollateral
	}

	collateral.Amount = collateral.Amount.Sub(amount)
	if err := s.treasuries.UpdateCollateral(ctx, collateral, collateral.Version+1); err != nil {
		return err
	}

	transfer.AssetID = assetID
	transfer.Amount = amount
	return s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer})
}

func (s *treasuryService) CreateCollateralAuctions(ctx context.Context, collateral *core.Collateral, amount, target decimal.Decimal, refundReceiver, traceID string) error {
	log := logger.FromContext(ctx)

	lots := cdp.SplitLots(amount, target, collateral.AuctionSize)
	if len(lots) == 0 {
		return nil
	}

	now := time.Now()
	auctions := make([]*core.CollateralAuction, 0, len(lots))
	for idx, lot := range lots {
		auctions = append(auctions, &core.CollateralAuction{
			TraceID:        uuid.Modify(traceID, fmt.Sprintf("collateral-auction-%d", idx)),
			CollateralID:   collateral.ID,
			AssetID:        collateral.AssetID,
			RefundReceiver: refundReceiver,
			Amount:         lot.Amount,
			InitAmount:     lot.Amount,
			Target:         lot.Target,
			Phase:          core.AuctionPhaseForward,
			State:          core.AuctionStateOpen,
			StartAt:        now,
			CloseAt:        now.Add(s.params.TimeToClose),
		})
	}

	if err := s.auctions.CreateCollateralAuctions(ctx, auctions); err != nil {
		return err
	}

	c, err := s.collaterals.Find(ctx, collateral.TraceID)
	if err != nil {
		return err
	}

	c.TotalInAuction = c.TotalInAuction.Add(amount)
	if err := s.collaterals.Update(ctx, c, c.Version+1); err != nil {
		return err
	}

	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.TotalTargetInAuction = treasury.TotalTargetInAuction.Add(target)
	if err := s.treasuries.Update(ctx, treasury, treasury.Version+1); err != nil {
		return err
	}

	log.WithField("collateral", collateral.Symbol).
		Infof("created %d collateral auctions, amount %s target %s", len(lots), amount, target)

	return nil
}

func (s *treasuryService) SwapCollateralToStable(ctx context.Context, collateral *core.Collateral, amount, target decimal.Decimal) (decimal.Decimal, error) {
	custody, err := s.treasuries.FindCollateral(ctx, collateral.AssetID)
	if err != nil {
		return decimal.Zero, err
	}

	if custody.Amount.LessThan(amount) {
		return decimal.Zero, core.ErrInsufficientCollateral
	}

	consumed, err := s.dex.SwapExactTarget(ctx, collateral.AssetID, amount, s.system.StableAssetID, target)
	if err != nil {
		return decimal.Zero, err
	}

	custody.Amount = custody.Amount.Sub(consumed)
	if err := s.treasuries.UpdateCollateral(ctx, custody, custody.Version+1); err != nil {
		return decimal.Zero, err
	}

	if err := s.OnSurplus(ctx, target); err != nil {
		return decimal.Zero, err
	}

	return consumed, nil
}
