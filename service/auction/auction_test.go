package auction

import (
	"context"
	"errors"
	"testing"
	"time"

	"vault/core"
	treasuryservice "vault/service/treasury"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollateralStore struct {
	collaterals map[string]*core.Collateral
}

func newFakeCollateralStore(collaterals ...*core.Collateral) *fakeCollateralStore {
	s := &fakeCollateralStore{collaterals: map[string]*core.Collateral{}}
	for _, c := range collaterals {
		s.collaterals[c.TraceID] = c
	}

	return s
}

func (s *fakeCollateralStore) Create(ctx context.Context, collateral *core.Collateral) error {
	s.collaterals[collateral.TraceID] = collateral
	return nil
}

func (s *fakeCollateralStore) Find(ctx context.Context, traceID string) (*core.Collateral, error) {
	if c, ok := s.collaterals[traceID]; ok {
		return c, nil
	}

	return nil, store.ErrNotFound
}

func (s *fakeCollateralStore) FindByAsset(ctx context.Context, assetID string) (*core.Collateral, error) {
	for _, c := range s.collaterals {
		if c.AssetID == assetID {
			return c, nil
		}
	}

	return nil, store.ErrNotFound
}

func (s *fakeCollateralStore) All(ctx context.Context) ([]*core.Collateral, error) {
	var out []*core.Collateral
	for _, c := range s.collaterals {
		out = append(out, c)
	}

	return out, nil
}

func (s *fakeCollateralStore) Update(ctx context.Context, collateral *core.Collateral, version int64) error {
	if collateral.Version >= version {
		return nil
	}

	collateral.Version = version
	s.collaterals[collateral.TraceID] = collateral
	return nil
}

type fakeTreasuryStore struct {
	treasury *core.Treasury
	custody  map[string]*core.TreasuryCollateral
}

func newFakeTreasuryStore() *fakeTreasuryStore {
	return &fakeTreasuryStore{
		treasury: &core.Treasury{ID: 1},
		custody:  map[string]*core.TreasuryCollateral{},
	}
}

func (s *fakeTreasuryStore) Find(ctx context.Context) (*core.Treasury, error) {
	return s.treasury, nil
}

func (s *fakeTreasuryStore) Update(ctx context.Context, treasury *core.Treasury, version int64) error {
	if treasury.Version >= version {
		return nil
	}

	treasury.Version = version
	s.treasury = treasury
	return nil
}

func (s *fakeTreasuryStore) FindCollateral(ctx context.Context, assetID string) (*core.TreasuryCollateral, error) {
	if c, ok := s.custody[assetID]; ok {
		return c, nil
	}

	c := &core.TreasuryCollateral{AssetID: assetID}
	s.custody[assetID] = c
	return c, nil
}

func (s *fakeTreasuryStore) ListCollaterals(ctx context.Context) ([]*core.TreasuryCollateral, error) {
	var out []*core.TreasuryCollateral
	for _, c := range s.custody {
		if c.Amount.IsPositive() {
			out = append(out, c)
		}
	}

	return out, nil
}

func (s *fakeTreasuryStore) UpdateCollateral(ctx context.Context, collateral *core.TreasuryCollateral, version int64) error {
	if collateral.Version >= version {
		return nil
	}

	collateral.Version = version
	s.custody[collateral.AssetID] = collateral
	return nil
}

type fakeAuctionStore struct {
	collaterals map[string]*core.CollateralAuction
	surpluses   map[string]*core.SurplusAuction
	debits      map[string]*core.DebitAuction
}

func newFakeAuctionStore() *fakeAuctionStore {
	return &fakeAuctionStore{
		collaterals: map[string]*core.CollateralAuction{},
		surpluses:   map[string]*core.SurplusAuction{},
		debits:      map[string]*core.DebitAuction{},
	}
}

func (s *fakeAuctionStore) CreateCollateralAuctions(ctx context.Context, auctions []*core.CollateralAuction) error {
	for _, a := range auctions {
		s.collaterals[a.TraceID] = a
	}

	return nil
}

func (s *fakeAuctionStore) FindCollateralAuction(ctx context.Context, traceID string) (*core.CollateralAuction, error) {
	if a, ok := s.collaterals[traceID]; ok {
		return a, nil
	}

	return nil, store.ErrNotFound
}

func (s *fakeAuctionStore) ListOpenCollateralAuctions(ctx context.Context, fromID int64, limit int) ([]*core.CollateralAuction, error) {
	var out []*core.CollateralAuction
	for _, a := range s.collaterals {
		if a.State == core.AuctionStateOpen {
			out = append(out, a)
		}
	}

	return out, nil
}

func (s *fakeAuctionStore) ListExpiredCollateralAuctions(ctx context.Context, now time.Time, limit int) ([]*core.CollateralAuction, error) {
	var out []*core.CollateralAuction
	for _, a := range s.collaterals {
		if a.State == core.AuctionStateOpen && !now.Before(a.CloseAt) {
			out = append(out, a)
		}
	}

	return out, nil
}

func (s *fakeAuctionStore) UpdateCollateralAuction(ctx context.Context, auction *core.CollateralAuction, version int64) error {
	if auction.Version >= version {
		return nil
	}

	auction.Version = version
	s.collaterals[auction.TraceID] = auction
	return nil
}

func (s *fakeAuctionStore) CountOpenCollateralAuctions(ctx context.Context) (int64, error) {
	var n int64
	for _, a := range s.collaterals {
		if a.State == core.AuctionStateOpen {
			n++
		}
	}

	return n, nil
}

func (s *fakeAuctionStore) CreateSurplusAuction(ctx context.Context, auction *core.SurplusAuction) error {
	s.surpluses[auction.TraceID] = auction
	return nil
}

func (s *fakeAuctionStore) FindSurplusAuction(ctx context.Context, traceID string) (*core.SurplusAuction, error) {
	if a, ok := s.surpluses[traceID]; ok {
		return a, nil
	}

	return nil, store.ErrNotFound
}

func (s *fakeAuctionStore) ListOpenSurplusAuctions(ctx context.Context, fromID int64, limit int) ([]*core.SurplusAuction, error) {
	return nil, nil
}

func (s *fakeAuctionStore) ListExpiredSurplusAuctions(ctx context.Context, now time.Time, limit int) ([]*core.SurplusAuction, error) {
	return nil, nil
}

func (s *fakeAuctionStore) UpdateSurplusAuction(ctx context.Context, auction *core.SurplusAuction, version int64) error {
	if auction.Version >= version {
		return nil
	}

	auction.Version = version
	s.surpluses[auction.TraceID] = auction
	return nil
}

func (s *fakeAuctionStore) CreateDebitAuction(ctx context.Context, auction *core.DebitAuction) error {
	s.debits[auction.TraceID] = auction
	return nil
}

func (s *fakeAuctionStore) FindDebitAuction(ctx context.Context, traceID string) (*core.DebitAuction, error) {
	if a, ok := s.debits[traceID]; ok {
		return a, nil
	}

	return nil, store.ErrNotFound
}

func (s *fakeAuctionStore) ListOpenDebitAuctions(ctx context.Context, fromID int64, limit int) ([]*core.DebitAuction, error) {
	return nil, nil
}

func (s *fakeAuctionStore) ListExpiredDebitAuctions(ctx context.Context, now time.Time, limit int) ([]*core.DebitAuction, error) {
	return nil, nil
}

func (s *fakeAuctionStore) UpdateDebitAuction(ctx context.Context, auction *core.DebitAuction, version int64) error {
	if auction.Version >= version {
		return nil
	}

	auction.Version = version
	s.debits[auction.TraceID] = auction
	return nil
}

type fakeWalletStore struct {
	transfers []*core.Transfer
}

func (s *fakeWalletStore) Save(ctx context.Context, outputs []*core.Output) error { return nil }

func (s *fakeWalletStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Output, error) {
	return nil, nil
}

func (s *fakeWalletStore) ListUnspent(ctx context.Context, assetID string, limit int) ([]*core.Output, error) {
	return nil, nil
}

func (s *fakeWalletStore) FindSpentBy(ctx context.Context, assetID, traceID string) (*core.Output, error) {
	return nil, store.ErrNotFound
}

func (s *fakeWalletStore) ListSpentBy(ctx context.Context, assetID, traceID string) ([]*core.Output, error) {
	return nil, nil
}

func (s *fakeWalletStore) Assign(ctx context.Context, outputs []*core.Output, transfer *core.Transfer) error {
	return nil
}

func (s *fakeWalletStore) CreateTransfers(ctx context.Context, transfers []*core.Transfer) error {
	s.transfers = append(s.transfers, transfers...)
	return nil
}

func (s *fakeWalletStore) UpdateTransfer(ctx context.Context, transfer *core.Transfer) error {
	return nil
}

func (s *fakeWalletStore) ListTransfers(ctx context.Context, status core.TransferStatus, limit int) ([]*core.Transfer, error) {
	return nil, nil
}

func (s *fakeWalletStore) CreateRawTransaction(ctx context.Context, tx *core.RawTransaction) error {
	return nil
}

func (s *fakeWalletStore) ListPendingRawTransactions(ctx context.Context, limit int) ([]*core.RawTransaction, error) {
	return nil, nil
}

func (s *fakeWalletStore) ExpireRawTransaction(ctx context.Context, tx *core.RawTransaction) error {
	return nil
}

func (s *fakeWalletStore) findTransfer(assetID, receiver string) *core.Transfer {
	for _, t := range s.transfers {
		if t.AssetID == assetID && len(t.Opponents) == 1 && t.Opponents[0] == receiver {
			return t
		}
	}

	return nil
}

type fakeDex struct {
	quote     decimal.Decimal
	fill      decimal.Decimal
	swapCalls int
}

func (d *fakeDex) GetSwapAmount(ctx context.Context, payAsset string, payAmount decimal.Decimal, fillAsset string) (decimal.Decimal, error) {
	if !d.quote.IsPositive() {
		return decimal.Zero, errors.New("no pool")
	}

	return d.quote, nil
}

func (d *fakeDex) GetSupplyAmount(ctx context.Context, payAsset, fillAsset string, fillAmount decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("no pool")
}

func (d *fakeDex) Swap(ctx context.Context, output *core.Output, userID, fillAsset string, minFill decimal.Decimal, followID string) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("no pool")
}

func (d *fakeDex) SwapExactSupply(ctx context.Context, payAsset string, payAmount decimal.Decimal, fillAsset string) (decimal.Decimal, error) {
	d.swapCalls++
	return d.fill, nil
}

func (d *fakeDex) SwapExactTarget(ctx context.Context, payAsset string, maxSupply decimal.Decimal, fillAsset string, target decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("no pool")
}

func (d *fakeDex) AddLiquidity(ctx context.Context, output *core.Output, userID, assetID, followID string) error {
	return errors.New("no pool")
}

func (d *fakeDex) RemoveLiquidity(ctx context.Context, userID, assetID string, shares decimal.Decimal, traceID, followID string) error {
	return errors.New("no pool")
}

type auctionFixture struct {
	auctions    *fakeAuctionStore
	collaterals *fakeCollateralStore
	treasuries  *fakeTreasuryStore
	wallets     *fakeWalletStore
	dex         *fakeDex
	system      *core.System
	service     core.AuctionService
}

func newAuctionFixture(collaterals ...*core.Collateral) *auctionFixture {
	f := &auctionFixture{
		auctions:    newFakeAuctionStore(),
		collaterals: newFakeCollateralStore(collaterals...),
		treasuries:  newFakeTreasuryStore(),
		wallets:     &fakeWalletStore{},
		dex:         &fakeDex{},
		system: &core.System{
			StableAssetID:     "stable",
			NativeAssetID:     "native",
			MinimumDebitValue: decimal.NewFromInt(10),
		},
	}

	params := core.AuctionParams{
		TimeToClose:      time.Hour,
		MaxDuration:      6 * time.Hour,
		SoftCap:          3 * time.Hour,
		MinIncrementSize: decimal.NewFromFloat(0.02),
	}

	treasuryz := treasuryservice.New(f.treasuries, f.collaterals, f.auctions, f.wallets, f.dex, f.system, params)
	f.service = New(f.auctions, f.collaterals, f.treasuries, treasuryz, f.dex, f.wallets, f.system, params)
	return f
}

func btcCollateral() *core.Collateral {
	return &core.Collateral{
		TraceID:           uuid.New(),
		Symbol:            "BTC",
		AssetID:           "btc",
		Price:             decimal.NewFromInt(200),
		PriceUpdatedAt:    time.Now(),
		DebitExchangeRate: decimal.New(1, 0),
	}
}

func TestSettleCollateralReverseStageKeepsWinner(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(btcCollateral())

	// the reverse bid already covers the whole target, so the better
	// dex quote must not strip the lot from the winner
	f.dex.quote = decimal.NewFromInt(90000)
	f.treasuries.custody["btc"] = &core.TreasuryCollateral{AssetID: "btc", Amount: decimal.NewFromInt(40)}

	auction := &core.CollateralAuction{
		TraceID:        uuid.New(),
		AssetID:        "btc",
		RefundReceiver: "owner",
		Amount:         decimal.NewFromInt(40),
		InitAmount:     decimal.NewFromInt(50),
		Target:         decimal.NewFromInt(10000),
		Bid:            decimal.NewFromInt(10000),
		Bidder:         "winner",
		Phase:          core.AuctionPhaseReverse,
		State:          core.AuctionStateOpen,
	}
	f.auctions.collaterals[auction.TraceID] = auction

	require.NoError(t, f.service.SettleCollateral(ctx, auction))

	assert.Equal(t, core.AuctionStateDone, auction.State)
	assert.Zero(t, f.dex.swapCalls, "the lot must not be sold on the dex")

	award := f.wallets.findTransfer("btc", "winner")
	require.NotNil(t, award, "the winner receives the lot")
	assert.True(t, award.Amount.Equal(decimal.NewFromInt(40)))
	assert.True(t, f.treasuries.custody["btc"].Amount.IsZero())
}

func TestSettleCollateralForwardPrefersDex(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(btcCollateral())

	f.dex.quote = decimal.NewFromInt(150)
	f.dex.fill = decimal.NewFromInt(150)
	f.treasuries.custody["btc"] = &core.TreasuryCollateral{AssetID: "btc", Amount: decimal.NewFromInt(1)}

	auction := &core.CollateralAuction{
		TraceID:        uuid.New(),
		AssetID:        "btc",
		RefundReceiver: "owner",
		Amount:         decimal.NewFromInt(1),
		InitAmount:     decimal.NewFromInt(1),
		Target:         decimal.NewFromInt(120),
		Bid:            decimal.NewFromInt(100),
		Bidder:         "loser",
		Phase:          core.AuctionPhaseForward,
		State:          core.AuctionStateOpen,
	}
	f.auctions.collaterals[auction.TraceID] = auction

	require.NoError(t, f.service.SettleCollateral(ctx, auction))

	assert.Equal(t, core.AuctionStateDone, auction.State)
	assert.Equal(t, 1, f.dex.swapCalls)

	refund := f.wallets.findTransfer("stable", "loser")
	require.NotNil(t, refund, "the standing bid goes back to the bidder")
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(100)))

	// the pools paid 150 against a 120 target, the 30 excess belongs
	// to the liquidated owner
	excess := f.wallets.findTransfer("stable", "owner")
	require.NotNil(t, excess)
	assert.True(t, excess.Amount.Equal(decimal.NewFromInt(30)))
	assert.True(t, f.treasuries.custody["btc"].Amount.IsZero())
}

func TestCancelCollateralRefundsUncoveredLot(t *testing.T) {
	ctx := context.Background()
	collateral := btcCollateral()
	f := newAuctionFixture(collateral)

	f.treasuries.custody["btc"] = &core.TreasuryCollateral{AssetID: "btc", Amount: decimal.NewFromInt(100)}
	collateral.TotalInAuction = decimal.NewFromInt(100)
	f.treasuries.treasury.TotalTargetInAuction = decimal.NewFromInt(10000)

	auction := &core.CollateralAuction{
		TraceID:        uuid.New(),
		AssetID:        "btc",
		RefundReceiver: "owner",
		Amount:         decimal.NewFromInt(100),
		InitAmount:     decimal.NewFromInt(100),
		Target:         decimal.NewFromInt(10000),
		Phase:          core.AuctionPhaseForward,
		State:          core.AuctionStateOpen,
	}
	f.auctions.collaterals[auction.TraceID] = auction

	require.NoError(t, f.service.CancelCollateral(ctx, auction))

	assert.Equal(t, core.AuctionStateCancelled, auction.State)

	// at the 200 feed price 50 btc covers the 10000 target, the other
	// 50 go back to the liquidated owner
	refund := f.wallets.findTransfer("btc", "owner")
	require.NotNil(t, refund)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(50)), "got %s", refund.Amount)
	assert.True(t, f.treasuries.custody["btc"].Amount.Equal(decimal.NewFromInt(50)))

	assert.True(t, collateral.TotalInAuction.IsZero())
	assert.True(t, f.treasuries.treasury.TotalTargetInAuction.IsZero())
}

func TestCancelCollateralRefundsBid(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(btcCollateral())

	f.treasuries.custody["btc"] = &core.TreasuryCollateral{AssetID: "btc", Amount: decimal.NewFromInt(100)}

	auction := &core.CollateralAuction{
		TraceID:        uuid.New(),
		AssetID:        "btc",
		RefundReceiver: "owner",
		Amount:         decimal.NewFromInt(100),
		InitAmount:     decimal.NewFromInt(100),
		Target:         decimal.NewFromInt(10000),
		Bid:            decimal.NewFromInt(3000),
		Bidder:         "bidder",
		Phase:          core.AuctionPhaseForward,
		State:          core.AuctionStateOpen,
	}
	f.auctions.collaterals[auction.TraceID] = auction

	require.NoError(t, f.service.CancelCollateral(ctx, auction))

	refund := f.wallets.findTransfer("stable", "bidder")
	require.NotNil(t, refund, "the standing forward bid is paid back")
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(3000)))
	assert.True(t, f.treasuries.treasury.IssuedStable.Equal(decimal.NewFromInt(3000)))
	assert.True(t, f.treasuries.treasury.SurplusPool.Equal(decimal.NewFromInt(-3000)))
}

func TestCancelCollateralRejectsReverseStage(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(btcCollateral())

	auction := &core.CollateralAuction{
		TraceID:        uuid.New(),
		AssetID:        "btc",
		RefundReceiver: "owner",
		Amount:         decimal.NewFromInt(40),
		InitAmount:     decimal.NewFromInt(50),
		Target:         decimal.NewFromInt(10000),
		Bid:            decimal.NewFromInt(10000),
		Bidder:         "winner",
		Phase:          core.AuctionPhaseReverse,
		State:          core.AuctionStateOpen,
	}
	f.auctions.collaterals[auction.TraceID] = auction

	assert.ErrorIs(t, f.service.CancelCollateral(ctx, auction), core.ErrInReverseStage)
	assert.Equal(t, core.AuctionStateOpen, auction.State)
}
