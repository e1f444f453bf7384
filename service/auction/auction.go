package auction

import (
	"context"
	"time"

	"vault/core"
	"vault/pkg/cdp"
	"vault/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

type auctionService struct {
	auctions    core.AuctionStore
	collaterals core.CollateralStore
	treasuries  core.TreasuryStore
	treasury    core.TreasuryService
	dex         core.DexService
	wallets     core.WalletStore
	system      *core.System
	params      core.AuctionParams
}

// New new auction service
func New(
	auctions core.AuctionStore,
	collaterals core.CollateralStore,
	treasuries core.TreasuryStore,
	treasury core.TreasuryService,
	dex core.DexService,
	wallets core.WalletStore,
	system *core.System,
	params core.AuctionParams,
) core.AuctionService {
	return &auctionService{
		auctions:    auctions,
		collaterals: collaterals,
		treasuries:  treasuries,
		treasury:    treasury,
		dex:         dex,
		wallets:     wallets,
		system:      system,
		params:      params,
	}
}

func (s *auctionService) refundTransfer(traceID, modifier, assetID, receiver string, amount decimal.Decimal, followID string) (*core.Transfer, error) {
	return core.NewTransfer(
		uuid.Modify(traceID, modifier),
		assetID,
		receiver,
		amount,
		core.TransferAction{Source: core.ActionTypeAuctionRefundTransfer, FollowID: followID},
	)
}

func (s *auctionService) BidCollateral(ctx context.Context, auction *core.CollateralAuction, output *core.Output, bid decimal.Decimal, followID string, version int64) error {
	now := time.Now()
	if auction.State != core.AuctionStateOpen || !now.Before(auction.CloseAt) {
		return core.ErrAuctionNotFound
	}

	incrementSize := cdp.MinIncrementSize(now, auction.StartAt, s.params.SoftCap, s.params.MinIncrementSize)
	if !cdp.CheckBidIncrement(bid, auction.Bid, auction.Target, incrementSize) {
		return core.ErrInvalidBidPrice
	}

	payment := cdp.CollateralPayment(bid, auction.Target)
	if output.Amount.LessThan(payment) {
		return core.ErrInvalidAmount
	}

	// the payment is absorbed against the stable issuance, the part
	// refunded to the previous bidder is issued right back
	if err := s.treasury.BurnDebit(ctx, payment); err != nil {
		return err
	}

	prevPayment := decimal.Zero
	if auction.HasBid() {
		prevPayment = auction.Payment()
		refund, err := s.refundTransfer(output.TraceID, "outbid", s.system.StableAssetID, auction.Bidder, prevPayment, followID)
		if err != nil {
			return err
		}

		if err := s.treasury.IssueDebit(ctx, prevPayment, true, refund); err != nil {
			return err
		}
	}

	if err := s.treasury.OnSurplus(ctx, payment.Sub(prevPayment)); err != nil {
		return err
	}

	if change := output.Amount.Sub(payment); change.IsPositive() {
		transfer, err := s.refundTransfer(output.TraceID, "change", s.system.StableAssetID, output.Sender, change, followID)
		if err != nil {
			return err
		}

		if err := s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
			return err
		}
	}

	// past the target bids compete on taking less of the lot, the
	// surrendered part goes back to the liquidated owner right away
	if cdp.InReverseStage(bid, auction.Target) {
		newAmount := cdp.ShrinkLot(auction.Amount, auction.Bid, auction.Target, bid)
		if surrendered := auction.Amount.Sub(newAmount); surrendered.IsPositive() {
			transfer, err := core.NewTransfer(
				uuid.Modify(output.TraceID, "shrink"),
				auction.AssetID,
				auction.RefundReceiver,
				surrendered,
				core.TransferAction{Source: core.ActionTypeAuctionPayoutTransfer, FollowID: followID},
			)
			if err != nil {
				return err
			}

			if err := s.treasury.WithdrawCollateral(ctx, auction.AssetID, surrendered, transfer); err != nil {
				return err
			}

			if err := s.addCollateralInAuction(ctx, auction.AssetID, surrendered.Neg()); err != nil {
				return err
			}
		}

		auction.Amount = newAmount
		auction.Phase = core.AuctionPhaseReverse
	}

	auction.Bid = bid
	auction.Bidder = output.Sender
	auction.CloseAt = cdp.NextCloseTime(now, auction.StartAt, s.params.SoftCap, s.params.TimeToClose, s.params.MaxDuration)
	return s.auctions.UpdateCollateralAuction(ctx, auction, version)
}

func (s *auctionService) BidSurplus(ctx context.Context, auction *core.SurplusAuction, output *core.Output, bid decimal.Decimal, followID string, version int64) error {
	now := time.Now()
	if auction.State != core.AuctionStateOpen || !now.Before(auction.CloseAt) {
		return core.ErrAuctionNotFound
	}

	incrementSize := cdp.MinIncrementSize(now, auction.StartAt, s.params.SoftCap, s.params.MinIncrementSize)
	if !cdp.CheckBidIncrement(bid, auction.Bid, decimal.Zero, incrementSize) {
		return core.ErrInvalidBidPrice
	}

	if output.Amount.LessThan(bid) {
		return core.ErrInvalidAmount
	}

	if auction.HasBid() {
		refund, err := s.refundTransfer(output.TraceID, "outbid", s.system.NativeAssetID, auction.Bidder, auction.Bid, followID)
		if err != nil {
			return err
		}

		if err := s.wallets.CreateTransfers(ctx, []*core.Transfer{refund}); err != nil {
			return err
		}
	}

	// the net native intake stays in the treasury reserve
	if err := s.treasury.DepositCollateral(ctx, s.system.NativeAssetID, bid.Sub(auction.Bid)); err != nil {
		return err
	}

	if change := output.Amount.Sub(bid); change.IsPositive() {
		transfer, err := s.refundTransfer(output.TraceID, "change", s.system.NativeAssetID, output.Sender, change, followID)
		if err != nil {
			return err
		}

		if err := s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
			return err
		}
	}

	auction.Bid = bid
	auction.Bidder = output.Sender
	auction.CloseAt = cdp.NextCloseTime(now, auction.StartAt, s.params.SoftCap, s.params.TimeToClose, s.params.MaxDuration)
	return s.auctions.UpdateSurplusAuction(ctx, auction, version)
}

func (s *auctionService) BidDebit(ctx context.Context, auction *core.DebitAuction, output *core.Output, bid decimal.Decimal, followID string, version int64) error {
	now := time.Now()
	if auction.State != core.AuctionStateOpen || !now.Before(auction.CloseAt) {
		return core.ErrAuctionNotFound
	}

	incrementSize := cdp.MinIncrementSize(now, auction.StartAt, s.params.SoftCap, s.params.MinIncrementSize)
	if bid.LessThan(auction.Fix) || !cdp.CheckBidIncrement(bid, auction.Bid, auction.Fix, incrementSize) {
		return core.ErrInvalidBidPrice
	}

	// every bidder escrows exactly the fixed stable amount
	if output.Amount.LessThan(auction.Fix) {
		return core.ErrInvalidAmount
	}

	if err := s.treasury.BurnDebit(ctx, auction.Fix); err != nil {
		return err
	}

	if auction.HasBid() {
		refund, err := s.refundTransfer(output.TraceID, "outbid", s.system.StableAssetID, auction.Bidder, auction.Fix, followID)
		if err != nil {
			return err
		}

		if err := s.treasury.IssueDebit(ctx, auction.Fix, true, refund); err != nil {
			return err
		}
	}

	if change := output.Amount.Sub(auction.Fix); change.IsPositive() {
		transfer, err := s.refundTransfer(output.TraceID, "change", s.system.StableAssetID, output.Sender, change, followID)
		if err != nil {
			return err
		}

		if err := s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
			return err
		}
	}

	auction.Amount = cdp.ShrinkLot(auction.Amount, auction.Bid, auction.Fix, bid)
	auction.Bid = bid
	auction.Bidder = output.Sender
	auction.CloseAt = cdp.NextCloseTime(now, auction.StartAt, s.params.SoftCap, s.params.TimeToClose, s.params.MaxDuration)
	return s.auctions.UpdateDebitAuction(ctx, auction, version)
}

func (s *auctionService) addCollateralInAuction(ctx context.Context, assetID string, amount decimal.Decimal) error {
	collateral, err := s.collaterals.FindByAsset(ctx, assetID)
	if err != nil {
		return err
	}

	collateral.TotalInAuction = collateral.TotalInAuction.Add(amount)
	return s.collaterals.Update(ctx, collateral, collateral.Version+1)
}

func (s *auctionService) subTargetInAuction(ctx context.Context, target decimal.Decimal) error {
	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.TotalTargetInAuction = treasury.TotalTargetInAuction.Sub(target)
	return s.treasuries.Update(ctx, treasury, treasury.Version+1)
}

func (s *auctionService) SettleCollateral(ctx context.Context, auction *core.CollateralAuction) error {
	log := logger.FromContext(ctx).WithField("auction", auction.TraceID)

	if auction.State != core.AuctionStateOpen || !auction.HasBid() {
		return core.ErrAuctionNotFound
	}

	payment := auction.Payment()

	// while the auction is still forward the pools may pay more than
	// the standing bid: refund the bidder and sell the lot on the dex
	// instead. A reverse stage bid already covers the whole target, the
	// winner keeps the lot.
	if auction.Phase == core.AuctionPhaseForward {
		if fill, err := s.dex.GetSwapAmount(ctx, auction.AssetID, auction.Amount, s.system.StableAssetID); err == nil && fill.GreaterThan(payment) {
			return s.settleCollateralByDex(ctx, auction, payment)
		}
	}

	transfer, err := core.NewTransfer(
		uuid.Modify(auction.TraceID, "award"),
		auction.AssetID,
		auction.Bidder,
		auction.Amount,
		core.TransferAction{Source: core.ActionTypeAuctionPayoutTransfer},
	)
	if err != nil {
		return err
	}

	if err := s.treasury.WithdrawCollateral(ctx, auction.AssetID, auction.Amount, transfer); err != nil {
		return err
	}

	if err := s.addCollateralInAuction(ctx, auction.AssetID, auction.Amount.Neg()); err != nil {
		return err
	}

	if err := s.subTargetInAuction(ctx, auction.Target); err != nil {
		return err
	}

	auction.State = core.AuctionStateDone
	if err := s.auctions.UpdateCollateralAuction(ctx, auction, auction.Version+1); err != nil {
		return err
	}

	log.Infof("collateral auction settled, %s awarded for %s", auction.Amount, payment)
	return nil
}

func (s *auctionService) settleCollateralByDex(ctx context.Context, auction *core.CollateralAuction, payment decimal.Decimal) error {
	log := logger.FromContext(ctx).WithField("auction", auction.TraceID)

	if payment.IsPositive() {
		refund, err := s.refundTransfer(auction.TraceID, "dex-refund", s.system.StableAssetID, auction.Bidder, payment, "")
		if err != nil {
			return err
		}

		if err := s.treasury.IssueDebit(ctx, payment, true, refund); err != nil {
			return err
		}

		if err := s.treasury.OnSurplus(ctx, payment.Neg()); err != nil {
			return err
		}
	}

	fill, err := s.dex.SwapExactSupply(ctx, auction.AssetID, auction.Amount, s.system.StableAssetID)
	if err != nil {
		return err
	}

	custody, err := s.treasuries.FindCollateral(ctx, auction.AssetID)
	if err != nil {
		return err
	}

	custody.Amount = custody.Amount.Sub(auction.Amount)
	if err := s.treasuries.UpdateCollateral(ctx, custody, custody.Version+1); err != nil {
		return err
	}

	surplus := fill
	if auction.Target.IsPositive() {
		surplus = decimal.Min(fill, auction.Target)
	}

	if err := s.treasury.OnSurplus(ctx, surplus); err != nil {
		return err
	}

	// whatever the pools paid past the target belongs to the owner
	if excess := fill.Sub(surplus); excess.IsPositive() {
		transfer, err := core.NewTransfer(
			uuid.Modify(auction.TraceID, "dex-excess"),
			s.system.StableAssetID,
			auction.RefundReceiver,
			excess,
			core.TransferAction{Source: core.ActionTypeAuctionPayoutTransfer},
		)
		if err != nil {
			return err
		}

		if err := s.treasury.IssueDebit(ctx, excess, true, transfer); err != nil {
			return err
		}
	}

	if err := s.addCollateralInAuction(ctx, auction.AssetID, auction.Amount.Neg()); err != nil {
		return err
	}

	if err := s.subTargetInAuction(ctx, auction.Target); err != nil {
		return err
	}

	auction.State = core.AuctionStateDone
	if err := s.auctions.UpdateCollateralAuction(ctx, auction, auction.Version+1); err != nil {
		return err
	}

	log.Infof("collateral auction settled via dex, %s sold for %s", auction.Amount, fill)
	return nil
}

func (s *auctionService) SettleSurplus(ctx context.Context, auction *core.SurplusAuction) error {
	if auction.State != core.AuctionStateOpen || !auction.HasBid() {
		return core.ErrAuctionNotFound
	}

	transfer, err := core.NewTransfer(
		uuid.Modify(auction.TraceID, "award"),
		s.system.StableAssetID,
		auction.Bidder,
		auction.Amount,
		core.TransferAction{Source: core.ActionTypeAuctionPayoutTransfer},
	)
	if err != nil {
		return err
	}

	// the surplus lot leaves the group as stable, the winning native
	// bid stays retired in the reserve
	if err := s.treasury.IssueDebit(ctx, auction.Amount, true, transfer); err != nil {
		return err
	}

	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.TotalSurplusInAuction = treasury.TotalSurplusInAuction.Sub(auction.Amount)
	if err := s.treasuries.Update(ctx, treasury, treasury.Version+1); err != nil {
		return err
	}

	auction.State = core.AuctionStateDone
	return s.auctions.UpdateSurplusAuction(ctx, auction, auction.Version+1)
}

func (s *auctionService) SettleDebit(ctx context.Context, auction *core.DebitAuction) error {
	if auction.State != core.AuctionStateOpen || !auction.HasBid() {
		return core.ErrAuctionNotFound
	}

	transfer, err := core.NewTransfer(
		uuid.Modify(auction.TraceID, "award"),
		s.system.NativeAssetID,
		auction.Bidder,
		auction.Amount,
		core.TransferAction{Source: core.ActionTypeAuctionPayoutTransfer},
	)
	if err != nil {
		return err
	}

	if err := s.wallets.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
		return err
	}

	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.DebitPool = treasury.DebitPool.Sub(auction.Fix)
	treasury.TotalDebitInAuction = treasury.TotalDebitInAuction.Sub(auction.Fix)
	if err := s.treasuries.Update(ctx, treasury, treasury.Version+1); err != nil {
		return err
	}

	auction.State = core.AuctionStateDone
	return s.auctions.UpdateDebitAuction(ctx, auction, auction.Version+1)
}

func (s *auctionService) CancelCollateral(ctx context.Context, auction *core.CollateralAuction) error {
	if auction.State != core.AuctionStateOpen {
		return core.ErrAuctionNotFound
	}

	// a reverse stage bid already covers the target, the auction must
	// run to its close instead of being cancelled
	if auction.HasBid() && cdp.InReverseStage(auction.Bid, auction.Target) {
		return core.ErrInReverseStage
	}

	// only the slice worth the target at the feed price is kept for the
	// bad debt, the rest of the lot goes back to the liquidated owner
	confiscated := auction.Amount
	if !auction.AlwaysForward() {
		collateral, err := s.collaterals.FindByAsset(ctx, auction.AssetID)
		if err != nil {
			return err
		}

		if !collateral.Price.IsPositive() {
			return core.ErrInvalidFeedPrice
		}

		confiscated = decimal.Min(
			number.Ceil(auction.Target.Div(collateral.Price), 8),
			auction.Amount,
		)
	}

	if remain := auction.Amount.Sub(confiscated); remain.IsPositive() {
		transfer, err := s.refundTransfer(auction.TraceID, "cancel-lot", auction.AssetID, auction.RefundReceiver, remain, "")
		if err != nil {
			return err
		}

		if err := s.treasury.WithdrawCollateral(ctx, auction.AssetID, remain, transfer); err != nil {
			return err
		}
	}

	// the standing bid is paid back
	if auction.HasBid() {
		payment := auction.Payment()
		refund, err := s.refundTransfer(auction.TraceID, "cancel", s.system.StableAssetID, auction.Bidder, payment, "")
		if err != nil {
			return err
		}

		if err := s.treasury.IssueDebit(ctx, payment, true, refund); err != nil {
			return err
		}

		if err := s.treasury.OnSurplus(ctx, payment.Neg()); err != nil {
			return err
		}
	}

	if err := s.addCollateralInAuction(ctx, auction.AssetID, auction.Amount.Neg()); err != nil {
		return err
	}

	if err := s.subTargetInAuction(ctx, auction.Target); err != nil {
		return err
	}

	auction.State = core.AuctionStateCancelled
	return s.auctions.UpdateCollateralAuction(ctx, auction, auction.Version+1)
}

func (s *auctionService) CancelSurplus(ctx context.Context, auction *core.SurplusAuction) error {
	if auction.State != core.AuctionStateOpen {
		return core.ErrAuctionNotFound
	}

	if auction.HasBid() {
		refund, err := s.refundTransfer(auction.TraceID, "cancel", s.system.NativeAssetID, auction.Bidder, auction.Bid, "")
		if err != nil {
			return err
		}

		if err := s.treasury.WithdrawCollateral(ctx, s.system.NativeAssetID, auction.Bid, refund); err != nil {
			return err
		}
	}

	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.SurplusPool = treasury.SurplusPool.Add(auction.Amount)
	treasury.TotalSurplusInAuction = treasury.TotalSurplusInAuction.Sub(auction.Amount)
	if err := s.treasuries.Update(ctx, treasury, treasury.Version+1); err != nil {
		return err
	}

	auction.State = core.AuctionStateCancelled
	return s.auctions.UpdateSurplusAuction(ctx, auction, auction.Version+1)
}

func (s *auctionService) CancelDebit(ctx context.Context, auction *core.DebitAuction) error {
	if auction.State != core.AuctionStateOpen {
		return core.ErrAuctionNotFound
	}

	if auction.HasBid() {
		refund, err := s.refundTransfer(auction.TraceID, "cancel", s.system.StableAssetID, auction.Bidder, auction.Fix, "")
		if err != nil {
			return err
		}

		if err := s.treasury.IssueDebit(ctx, auction.Fix, true, refund); err != nil {
			return err
		}
	}

	treasury, err := s.treasuries.Find(ctx)
	if err != nil {
		return err
	}

	treasury.TotalDebitInAuction = treasury.TotalDebitInAuction.Sub(auction.Fix)
	if err := s.treasuries.Update(ctx, treasury, treasury.Version+1); err != nil {
		return err
	}

	auction.State = core.AuctionStateCancelled
	return s.auctions.UpdateDebitAuction(ctx, auction, auction.Version+1)
}
