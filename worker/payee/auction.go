package payee

import (
	"context"

	"vault/core"
	"vault/pkg/cdp"
	"vault/pkg/mtg"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// handle auction bid event. The auction trace routes the bid to one of
// the three books: collateral lots take stable bids, surplus lots take
// governance token bids and debit lots fix the stable intake.
func (w *Payee) handleAuctionBidEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "auction_bid")

	var auctionTrace uuid.UUID
	var bid decimal.Decimal
	if _, err := mtg.Scan(body, &auctionTrace, &bid); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeAuctionBid, core.ErrUnknown)
	}

	trace := auctionTrace.String()

	if auction, err := w.auctionStore.FindCollateralAuction(ctx, trace); err == nil {
		return w.handleCollateralBid(ctx, output, auction, bid, userID, followID)
	} else if !store.IsErrNotFound(err) {
		log.WithError(err).Errorln("auctions.FindCollateralAuction")
		return err
	}

	if auction, err := w.auctionStore.FindSurplusAuction(ctx, trace); err == nil {
		return w.handleSurplusBid(ctx, output, auction, bid, userID, followID)
	} else if !store.IsErrNotFound(err) {
		log.WithError(err).Errorln("auctions.FindSurplusAuction")
		return err
	}

	if auction, err := w.auctionStore.FindDebitAuction(ctx, trace); err == nil {
		return w.handleDebitBid(ctx, output, auction, bid, userID, followID)
	} else if !store.IsErrNotFound(err) {
		log.WithError(err).Errorln("auctions.FindDebitAuction")
		return err
	}

	log.Infoln("skip: no such auction")
	return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeAuctionBid, core.ErrAuctionNotFound)
}

func (w *Payee) handleCollateralBid(ctx context.Context, output *core.Output, auction *core.CollateralAuction, bid decimal.Decimal, userID, followID string) error {
	log := logger.FromContext(ctx).WithField("auction", auction.TraceID)

	if err := cdp.Require(w.system.IsStable(output.AssetID), "payee/bid-wrong-currency", cdp.FlagRefund); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeAuctionBid, core.ErrInvalidCurrency)
	}

	if err := w.auctionz.BidCollateral(ctx, auction, output, bid, followID, auction.Version+1); err != nil {
		log.WithError(err).Infoln("bid rejected")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeAuctionBid, core.ErrInvalidBidPrice)
	}

	log.Infof("collateral bid accepted, bid %s lot %s", auction.Bid, auction.Amount)
	cs := &core.ContextSnapshot{CollateralAuction: auction}
	return w.journal(ctx, output, userID, followID, core.ActionTypeAuctionBid, cs)
}

func (w *Payee) handleSurplusBid(ctx context.Context, output *core.Output, auction *core.SurplusAuction, bid decimal.Decimal, userID, followID string) error {
	log := logger.FromContext(ctx).WithField("auction", auction.TraceID)

	if err := cdp.Require(w.system.IsNative(output.AssetID), "payee/bid-wrong-currency", cdp.FlagRefund); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeAuctionBid, core.ErrInvalidCurrency)
	}

	if err := w.auctionz.BidSurplus(ctx, auction, output, bid, followID, auction.Version+1); err != nil {
		log.WithError(err).Infoln("bid rejected")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeAuctionBid, core.ErrInvalidBidPrice)
	}

	log.Infof("surplus bid accepted, bid %s", auction.Bid)
	cs := &core.ContextSnapshot{SurplusAuction: auction}
	return w.journal(ctx, output, userID, followID, core.ActionTypeAuctionBid, cs)
}

func (w *Payee) handleDebitBid(ctx context.Context, output *core.Output, auction *core.DebitAuction, bid decimal.Decimal, userID, followID string) error {
	log := logger.FromContext(ctx).WithField("auction", auction.TraceID)

	if err := cdp.Require(w.system.IsStable(output.AssetID), "payee/bid-wrong-currency", cdp.FlagRefund); err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeAuctionBid, core.ErrInvalidCurrency)
	}

	if err := w.auctionz.BidDebit(ctx, auction, output, bid, followID, auction.Version+1); err != nil {
		log.WithError(err).Infoln("bid rejected")
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeAuctionBid, core.ErrInvalidBidPrice)
	}

	log.Infof("debit bid accepted, bid %s lot %s", auction.Bid, auction.Amount)
	cs := &core.ContextSnapshot{DebitAuction: auction}
	return w.journal(ctx, output, userID, followID, core.ActionTypeAuctionBid, cs)
}
