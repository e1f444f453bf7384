package payee

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"vault/core"
	"vault/pkg/mtg"
	"vault/service/engine"
	treasuryservice "vault/service/treasury"
	vaultservice "vault/service/vault"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDatabase stands in for the sql handle, every dispatch still runs
// through Tx like in production
type memDatabase struct{}

func (memDatabase) Tx(fn func(tx *db.DB) error) error {
	return fn(nil)
}

type memUserStore struct {
	users map[string]*core.User
}

func (s *memUserStore) Save(ctx context.Context, user *core.User) error {
	s.users[user.UserID] = user
	return nil
}

func (s *memUserStore) Find(ctx context.Context, userID string) (*core.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}

	return nil, store.ErrNotFound
}

func (s *memUserStore) All(ctx context.Context) ([]*core.User, error) {
	return nil, nil
}

type memCollateralStore struct {
	collaterals map[string]*core.Collateral
}

func (s *memCollateralStore) Create(ctx context.Context, collateral *core.Collateral) error {
	s.collaterals[collateral.TraceID] = collateral
	return nil
}

func (s *memCollateralStore) Find(ctx context.Context, traceID string) (*core.Collateral, error) {
	if c, ok := s.collaterals[traceID]; ok {
		return c, nil
	}

	return nil, store.ErrNotFound
}

func (s *memCollateralStore) FindByAsset(ctx context.Context, assetID string) (*core.Collateral, error) {
	for _, c := range s.collaterals {
		if c.AssetID == assetID {
			return c, nil
		}
	}

	return nil, store.ErrNotFound
}

func (s *memCollateralStore) All(ctx context.Context) ([]*core.Collateral, error) {
	return nil, nil
}

func (s *memCollateralStore) Update(ctx context.Context, collateral *core.Collateral, version int64) error {
	if collateral.Version >= version {
		return nil
	}

	collateral.Version = version
	s.collaterals[collateral.TraceID] = collateral
	return nil
}

type memVaultStore struct {
	vaults map[string]*core.Vault
}

func (s *memVaultStore) Create(ctx context.Context, vault *core.Vault) error {
	s.vaults[vault.TraceID] = vault
	return nil
}

func (s *memVaultStore) Find(ctx context.Context, userID, collateralID string) (*core.Vault, error) {
	for _, v := range s.vaults {
		if v.UserID == userID && v.CollateralID == collateralID {
			return v, nil
		}
	}

	return nil, store.ErrNotFound
}

func (s *memVaultStore) FindByTrace(ctx context.Context, traceID string) (*core.Vault, error) {
	if v, ok := s.vaults[traceID]; ok {
		return v, nil
	}

	return nil, store.ErrNotFound
}

func (s *memVaultStore) ListByUser(ctx context.Context, userID string) ([]*core.Vault, error) {
	return nil, nil
}

func (s *memVaultStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Vault, error) {
	return nil, nil
}

func (s *memVaultStore) Update(ctx context.Context, vault *core.Vault, version int64) error {
	if vault.Version >= version {
		return nil
	}

	vault.Version = version
	s.vaults[vault.TraceID] = vault
	return nil
}

func (s *memVaultStore) Delete(ctx context.Context, vault *core.Vault, version int64) error {
	delete(s.vaults, vault.TraceID)
	return nil
}

func (s *memVaultStore) HasDebit(ctx context.Context) (bool, error) {
	return false, nil
}

type memTreasuryStore struct {
	treasury *core.Treasury
	custody  map[string]*core.TreasuryCollateral
}

func (s *memTreasuryStore) Find(ctx context.Context) (*core.Treasury, error) {
	return s.treasury, nil
}

func (s *memTreasuryStore) Update(ctx context.Context, treasury *core.Treasury, version int64) error {
	if treasury.Version >= version {
		return nil
	}

	treasury.Version = version
	s.treasury = treasury
	return nil
}

func (s *memTreasuryStore) FindCollateral(ctx context.Context, assetID string) (*core.TreasuryCollateral, error) {
	if c, ok := s.custody[assetID]; ok {
		return c, nil
	}

	c := &core.TreasuryCollateral{AssetID: assetID}
	s.custody[assetID] = c
	return c, nil
}

func (s *memTreasuryStore) ListCollaterals(ctx context.Context) ([]*core.TreasuryCollateral, error) {
	return nil, nil
}

func (s *memTreasuryStore) UpdateCollateral(ctx context.Context, collateral *core.TreasuryCollateral, version int64) error {
	if collateral.Version >= version {
		return nil
	}

	collateral.Version = version
	s.custody[collateral.AssetID] = collateral
	return nil
}

type memTransactionStore struct {
	nextID       int64
	transactions map[string]*core.Transaction
}

func (s *memTransactionStore) Create(ctx context.Context, transaction *core.Transaction) error {
	if _, ok := s.transactions[transaction.TraceID]; ok {
		return nil
	}

	s.nextID++
	transaction.ID = s.nextID
	s.transactions[transaction.TraceID] = transaction
	return nil
}

func (s *memTransactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	if tx, ok := s.transactions[traceID]; ok {
		return tx, nil
	}

	return &core.Transaction{}, nil
}

func (s *memTransactionStore) Update(ctx context.Context, transaction *core.Transaction) error {
	return nil
}

func (s *memTransactionStore) List(ctx context.Context, offset time.Time, limit int, status core.TransactionStatus) ([]*core.Transaction, error) {
	return nil, nil
}

func (s *memTransactionStore) ListByUser(ctx context.Context, userID string, offset time.Time, limit int) ([]*core.Transaction, error) {
	return nil, nil
}

type memWalletStore struct {
	transfers []*core.Transfer
}

func (s *memWalletStore) Save(ctx context.Context, outputs []*core.Output) error { return nil }

func (s *memWalletStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Output, error) {
	return nil, nil
}

func (s *memWalletStore) ListUnspent(ctx context.Context, assetID string, limit int) ([]*core.Output, error) {
	return nil, nil
}

func (s *memWalletStore) FindSpentBy(ctx context.Context, assetID, traceID string) (*core.Output, error) {
	return nil, store.ErrNotFound
}

func (s *memWalletStore) ListSpentBy(ctx context.Context, assetID, traceID string) ([]*core.Output, error) {
	return nil, nil
}

func (s *memWalletStore) Assign(ctx context.Context, outputs []*core.Output, transfer *core.Transfer) error {
	return nil
}

func (s *memWalletStore) CreateTransfers(ctx context.Context, transfers []*core.Transfer) error {
	s.transfers = append(s.transfers, transfers...)
	return nil
}

func (s *memWalletStore) UpdateTransfer(ctx context.Context, transfer *core.Transfer) error {
	return nil
}

func (s *memWalletStore) ListTransfers(ctx context.Context, status core.TransferStatus, limit int) ([]*core.Transfer, error) {
	return nil, nil
}

func (s *memWalletStore) CreateRawTransaction(ctx context.Context, tx *core.RawTransaction) error {
	return nil
}

func (s *memWalletStore) ListPendingRawTransactions(ctx context.Context, limit int) ([]*core.RawTransaction, error) {
	return nil, nil
}

func (s *memWalletStore) ExpireRawTransaction(ctx context.Context, tx *core.RawTransaction) error {
	return nil
}

type payeeFixture struct {
	payee        *Payee
	collaterals  *memCollateralStore
	vaults       *memVaultStore
	treasuries   *memTreasuryStore
	transactions *memTransactionStore
	wallets      *memWalletStore
	collateral   *core.Collateral
}

func newPayeeFixture(t *testing.T) *payeeFixture {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	system := &core.System{
		PrivateKey:        privateKey,
		StableAssetID:     "stable",
		NativeAssetID:     "native",
		MinimumDebitValue: decimal.NewFromInt(10),
	}

	collateral := &core.Collateral{
		TraceID:           testCollateralTrace,
		Symbol:            "BTC",
		AssetID:           "btc",
		Price:             decimal.NewFromInt(200),
		PriceUpdatedAt:    time.Now(),
		DebitExchangeRate: decimal.New(1, 0),
		LiquidationRatio:  decimal.NewFromFloat(1.5),
		RequiredRatio:     decimal.NewFromFloat(2),
		DebitCeiling:      decimal.NewFromInt(100000),
	}

	f := &payeeFixture{
		collaterals:  &memCollateralStore{collaterals: map[string]*core.Collateral{collateral.TraceID: collateral}},
		vaults:       &memVaultStore{vaults: map[string]*core.Vault{}},
		treasuries:   &memTreasuryStore{treasury: &core.Treasury{ID: 1}, custody: map[string]*core.TreasuryCollateral{}},
		transactions: &memTransactionStore{transactions: map[string]*core.Transaction{}},
		wallets:      &memWalletStore{},
		collateral:   collateral,
	}

	params := core.AuctionParams{TimeToClose: time.Hour}
	assemble := func(tx *db.DB) Deps {
		treasuryz := treasuryservice.New(f.treasuries, f.collaterals, nil, f.wallets, nil, system, params)
		return Deps{
			Users:        &memUserStore{users: map[string]*core.User{}},
			Wallets:      f.wallets,
			Collaterals:  f.collaterals,
			Vaults:       f.vaults,
			Treasuries:   f.treasuries,
			Transactions: f.transactions,
			Vaultz:       vaultservice.New(f.vaults, f.collaterals, treasuryz, f.wallets, system),
			Engine:       engine.New(f.vaults, f.collaterals, nil, treasuryz, nil, f.wallets, system),
			Treasuryz:    treasuryz,
		}
	}

	f.payee = NewPayee(memDatabase{}, system, nil, nil, assemble)
	return f
}

// fixed ids keep the memo bytes off the oracle and proposal decode
// paths, which are tried first and sniff the raw bytes
const (
	testCollateralTrace = "c94ac88f-ecfa-4b9b-8a8f-12c6978d1b16"
	testFollowID        = "00000000-0000-0000-0000-000000000000"
)

func depositOutput(t *testing.T, collateralTrace string, amount decimal.Decimal) *core.Output {
	follow := uuid.Must(uuid.FromString(testFollowID))
	cid := uuid.Must(uuid.FromString(collateralTrace))

	memo, err := mtg.Encode(int(core.ActionTypeVaultDeposit), follow, cid)
	require.NoError(t, err)

	return &core.Output{
		ID:        1,
		CreatedAt: time.Now(),
		TraceID:   uuidutil.New(),
		AssetID:   "btc",
		Amount:    amount,
		Sender:    "user-1",
		Memo:      base64.StdEncoding.EncodeToString(memo),
	}
}

func TestProcessDepositOnce(t *testing.T) {
	ctx := context.Background()
	f := newPayeeFixture(t)

	output := depositOutput(t, f.collateral.TraceID, decimal.NewFromInt(100))
	require.NoError(t, f.payee.process(ctx, output))

	vault, err := f.vaults.Find(ctx, "user-1", f.collateral.TraceID)
	require.NoError(t, err)
	assert.True(t, vault.Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, f.collateral.TotalCollateral.Equal(decimal.NewFromInt(100)))
}

func TestProcessDepositDeliveredTwice(t *testing.T) {
	ctx := context.Background()
	f := newPayeeFixture(t)

	// the sync loop may hand the same output over again after a crash,
	// the journal row of the first dispatch must absorb the replay
	output := depositOutput(t, f.collateral.TraceID, decimal.NewFromInt(100))
	require.NoError(t, f.payee.process(ctx, output))
	require.NoError(t, f.payee.process(ctx, output))

	vault, err := f.vaults.Find(ctx, "user-1", f.collateral.TraceID)
	require.NoError(t, err)
	assert.True(t, vault.Amount.Equal(decimal.NewFromInt(100)), "collateral got %s, want 100", vault.Amount)
	assert.True(t, f.collateral.TotalCollateral.Equal(decimal.NewFromInt(100)))
	assert.Len(t, f.transactions.transactions, 1)
}
