package auctioneer

import (
	"context"
	"testing"
	"time"

	"vault/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuctionStore struct {
	collaterals map[string]*core.CollateralAuction
}

func (s *stubAuctionStore) CreateCollateralAuctions(ctx context.Context, auctions []*core.CollateralAuction) error {
	for _, a := range auctions {
		s.collaterals[a.TraceID] = a
	}

	return nil
}

func (s *stubAuctionStore) FindCollateralAuction(ctx context.Context, traceID string) (*core.CollateralAuction, error) {
	if a, ok := s.collaterals[traceID]; ok {
		return a, nil
	}

	return nil, store.ErrNotFound
}

func (s *stubAuctionStore) ListOpenCollateralAuctions(ctx context.Context, fromID int64, limit int) ([]*core.CollateralAuction, error) {
	return nil, nil
}

func (s *stubAuctionStore) ListExpiredCollateralAuctions(ctx context.Context, now time.Time, limit int) ([]*core.CollateralAuction, error) {
	var out []*core.CollateralAuction
	for _, a := range s.collaterals {
		if a.State == core.AuctionStateOpen && !now.Before(a.CloseAt) {
			out = append(out, a)
		}
	}

	return out, nil
}

func (s *stubAuctionStore) UpdateCollateralAuction(ctx context.Context, auction *core.CollateralAuction, version int64) error {
	if auction.Version >= version {
		return nil
	}

	auction.Version = version
	s.collaterals[auction.TraceID] = auction
	return nil
}

func (s *stubAuctionStore) CountOpenCollateralAuctions(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *stubAuctionStore) CreateSurplusAuction(ctx context.Context, auction *core.SurplusAuction) error {
	return nil
}

func (s *stubAuctionStore) FindSurplusAuction(ctx context.Context, traceID string) (*core.SurplusAuction, error) {
	return nil, store.ErrNotFound
}

func (s *stubAuctionStore) ListOpenSurplusAuctions(ctx context.Context, fromID int64, limit int) ([]*core.SurplusAuction, error) {
	return nil, nil
}

func (s *stubAuctionStore) ListExpiredSurplusAuctions(ctx context.Context, now time.Time, limit int) ([]*core.SurplusAuction, error) {
	return nil, nil
}

func (s *stubAuctionStore) UpdateSurplusAuction(ctx context.Context, auction *core.SurplusAuction, version int64) error {
	return nil
}

func (s *stubAuctionStore) CreateDebitAuction(ctx context.Context, auction *core.DebitAuction) error {
	return nil
}

func (s *stubAuctionStore) FindDebitAuction(ctx context.Context, traceID string) (*core.DebitAuction, error) {
	return nil, store.ErrNotFound
}

func (s *stubAuctionStore) ListOpenDebitAuctions(ctx context.Context, fromID int64, limit int) ([]*core.DebitAuction, error) {
	return nil, nil
}

func (s *stubAuctionStore) ListExpiredDebitAuctions(ctx context.Context, now time.Time, limit int) ([]*core.DebitAuction, error) {
	return nil, nil
}

func (s *stubAuctionStore) UpdateDebitAuction(ctx context.Context, auction *core.DebitAuction, version int64) error {
	return nil
}

type stubCollateralStore struct {
	collateral *core.Collateral
}

func (s *stubCollateralStore) Create(ctx context.Context, collateral *core.Collateral) error {
	return nil
}

func (s *stubCollateralStore) Find(ctx context.Context, traceID string) (*core.Collateral, error) {
	return s.collateral, nil
}

func (s *stubCollateralStore) FindByAsset(ctx context.Context, assetID string) (*core.Collateral, error) {
	if s.collateral != nil && s.collateral.AssetID == assetID {
		return s.collateral, nil
	}

	return nil, store.ErrNotFound
}

func (s *stubCollateralStore) All(ctx context.Context) ([]*core.Collateral, error) {
	return []*core.Collateral{s.collateral}, nil
}

func (s *stubCollateralStore) Update(ctx context.Context, collateral *core.Collateral, version int64) error {
	return nil
}

type stubTreasuryStore struct {
	treasury *core.Treasury
}

func (s *stubTreasuryStore) Find(ctx context.Context) (*core.Treasury, error) {
	return s.treasury, nil
}

func (s *stubTreasuryStore) Update(ctx context.Context, treasury *core.Treasury, version int64) error {
	return nil
}

func (s *stubTreasuryStore) FindCollateral(ctx context.Context, assetID string) (*core.TreasuryCollateral, error) {
	return &core.TreasuryCollateral{AssetID: assetID}, nil
}

func (s *stubTreasuryStore) ListCollaterals(ctx context.Context) ([]*core.TreasuryCollateral, error) {
	return nil, nil
}

func (s *stubTreasuryStore) UpdateCollateral(ctx context.Context, collateral *core.TreasuryCollateral, version int64) error {
	return nil
}

type recordingAuctionService struct {
	settled   []string
	cancelled []string
}

func (s *recordingAuctionService) BidCollateral(ctx context.Context, auction *core.CollateralAuction, output *core.Output, bid decimal.Decimal, followID string, version int64) error {
	return nil
}

func (s *recordingAuctionService) BidSurplus(ctx context.Context, auction *core.SurplusAuction, output *core.Output, bid decimal.Decimal, followID string, version int64) error {
	return nil
}

func (s *recordingAuctionService) BidDebit(ctx context.Context, auction *core.DebitAuction, output *core.Output, bid decimal.Decimal, followID string, version int64) error {
	return nil
}

func (s *recordingAuctionService) SettleCollateral(ctx context.Context, auction *core.CollateralAuction) error {
	s.settled = append(s.settled, auction.TraceID)
	return nil
}

func (s *recordingAuctionService) SettleSurplus(ctx context.Context, auction *core.SurplusAuction) error {
	return nil
}

func (s *recordingAuctionService) SettleDebit(ctx context.Context, auction *core.DebitAuction) error {
	return nil
}

func (s *recordingAuctionService) CancelCollateral(ctx context.Context, auction *core.CollateralAuction) error {
	s.cancelled = append(s.cancelled, auction.TraceID)
	auction.State = core.AuctionStateCancelled
	return nil
}

func (s *recordingAuctionService) CancelSurplus(ctx context.Context, auction *core.SurplusAuction) error {
	return nil
}

func (s *recordingAuctionService) CancelDebit(ctx context.Context, auction *core.DebitAuction) error {
	return nil
}

func newTestAuctioneer(price decimal.Decimal) (*Auctioneer, *stubAuctionStore, *recordingAuctionService) {
	auctions := &stubAuctionStore{collaterals: map[string]*core.CollateralAuction{}}
	auctionz := &recordingAuctionService{}

	w := New(
		auctions,
		&stubCollateralStore{collateral: &core.Collateral{
			TraceID: uuid.New(),
			AssetID: "btc",
			Price:   price,
		}},
		&stubTreasuryStore{treasury: &core.Treasury{ID: 1}},
		auctionz,
		&core.System{MinimumDebitValue: decimal.NewFromInt(10)},
		core.AuctionParams{TimeToClose: time.Hour},
	)

	return w, auctions, auctionz
}

func expiredAuction(amount decimal.Decimal) *core.CollateralAuction {
	now := time.Now()
	return &core.CollateralAuction{
		TraceID:        uuid.New(),
		AssetID:        "btc",
		RefundReceiver: "owner",
		Amount:         amount,
		InitAmount:     amount,
		Target:         decimal.NewFromInt(5),
		Phase:          core.AuctionPhaseForward,
		State:          core.AuctionStateOpen,
		StartAt:        now.Add(-2 * time.Hour),
		CloseAt:        now.Add(-time.Hour),
	}
}

func TestSweepCollateralCancelsDustLot(t *testing.T) {
	ctx := context.Background()
	w, auctions, auctionz := newTestAuctioneer(decimal.NewFromInt(200))

	// 0.01 btc at the 200 feed price is worth 2, under the 10 dust
	// floor: relisting it would cycle forever without a bid
	dust := expiredAuction(decimal.NewFromFloat(0.01))
	auctions.collaterals[dust.TraceID] = dust

	require.NoError(t, w.sweepCollateral(ctx, time.Now(), false))

	assert.Equal(t, []string{dust.TraceID}, auctionz.cancelled)
	assert.Empty(t, auctionz.settled)
	assert.Len(t, auctions.collaterals, 1, "a dust lot must not be relisted")
}

func TestSweepCollateralRelistsViableLot(t *testing.T) {
	ctx := context.Background()
	w, auctions, auctionz := newTestAuctioneer(decimal.NewFromInt(200))

	auction := expiredAuction(decimal.NewFromInt(1))
	auctions.collaterals[auction.TraceID] = auction

	require.NoError(t, w.sweepCollateral(ctx, time.Now(), false))

	assert.Empty(t, auctionz.cancelled)
	assert.Equal(t, core.AuctionStateRelisted, auction.State)
	require.Len(t, auctions.collaterals, 2)

	for trace, a := range auctions.collaterals {
		if trace == auction.TraceID {
			continue
		}

		assert.Equal(t, core.AuctionStateOpen, a.State)
		assert.Equal(t, core.AuctionPhaseForward, a.Phase)
		assert.True(t, a.Amount.Equal(auction.Amount))
	}
}

func TestSweepCollateralRelistSkippedWithoutPrice(t *testing.T) {
	ctx := context.Background()
	w, auctions, auctionz := newTestAuctioneer(decimal.Zero)

	// without a positive feed price the lot cannot be valued, it is
	// relisted rather than silently confiscated
	auction := expiredAuction(decimal.NewFromFloat(0.01))
	auctions.collaterals[auction.TraceID] = auction

	require.NoError(t, w.sweepCollateral(ctx, time.Now(), false))

	assert.Empty(t, auctionz.cancelled)
	assert.Equal(t, core.AuctionStateRelisted, auction.State)
}
