package cmd

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"time"

	"vault/core"
	"vault/pkg/gateway"
	assetservice "vault/service/asset"
	auctionservice "vault/service/auction"
	"vault/service/block"
	"vault/service/dex"
	"vault/service/engine"
	"vault/service/oracle"
	proposalservice "vault/service/proposal"
	"vault/service/session"
	treasuryservice "vault/service/treasury"
	userservice "vault/service/user"
	vaultservice "vault/service/vault"
	walletservice "vault/service/wallet"
	"vault/store/asset"
	"vault/store/auction"
	"vault/store/authorization"
	"vault/store/collateral"
	oraclestore "vault/store/oracle"
	"vault/store/pool"
	"vault/store/price"
	"vault/store/proposal"
	"vault/store/transaction"
	"vault/store/treasury"
	"vault/store/user"
	"vault/store/vault"
	"vault/store/wallet"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideGatewayClient() *gateway.Client {
	client, err := gateway.New(cfg.Gateway)
	if err != nil {
		panic(err)
	}

	return client
}

func provideSystem() *core.System {
	privateKey := decodeEd25519Key(cfg.Group.PrivateKey)
	signKey := decodeEd25519Key(cfg.Group.SignKey)

	members := make([]*core.Member, 0, len(cfg.Group.Members))
	for _, m := range cfg.Group.Members {
		verify, err := base64.StdEncoding.DecodeString(m.VerifyKey)
		if err != nil {
			panic(fmt.Errorf("decode verify key of %s: %w", m.ClientID, err))
		}

		members = append(members, &core.Member{
			ClientID:  m.ClientID,
			Name:      m.Name,
			VerifyKey: ed25519.PublicKey(verify),
		})
	}

	return &core.System{
		Admins:            cfg.Group.Admins,
		ClientID:          cfg.App.ClientID,
		ClientSecret:      cfg.App.ClientSecret,
		Members:           members,
		Threshold:         cfg.Group.Threshold,
		VoteAsset:         cfg.Group.Vote.Asset,
		VoteAmount:        cfg.Group.Vote.Amount,
		PrivateKey:        privateKey,
		SignKey:           signKey,
		StableAssetID:     cfg.App.StableAssetID,
		NativeAssetID:     cfg.App.NativeAssetID,
		PriceThreshold:    uint8(cfg.PriceOracle.PriceThreshold),
		MinimumDebitValue: cfg.App.MinimumDebitValue,
		MaxSwapSlippage:   cfg.App.MaxSwapSlippage,
		Location:          cfg.App.Location,
		Genesis:           cfg.App.Genesis,
		Version:           rootCmd.Version,
	}
}

func decodeEd25519Key(s string) ed25519.PrivateKey {
	seed, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(fmt.Errorf("decode ed25519 key: %w", err))
	}

	switch len(seed) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(seed)
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(seed)
	default:
		panic(fmt.Errorf("invalid ed25519 key size %d", len(seed)))
	}
}

func provideAuctionParams() core.AuctionParams {
	return core.AuctionParams{
		TimeToClose:      time.Duration(cfg.Auction.TimeToClose) * time.Second,
		MaxDuration:      time.Duration(cfg.Auction.MaxDuration) * time.Second,
		SoftCap:          time.Duration(cfg.Auction.SoftCap) * time.Second,
		MinIncrementSize: cfg.Auction.MinIncrementSize,
	}
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideWalletStore(ctx context.Context, db *db.DB) core.WalletStore {
	return wallet.New(ctx, db)
}

func provideUserStore(db *db.DB) core.UserStore {
	return user.New(db)
}

func provideCollateralStore(db *db.DB) core.CollateralStore {
	return collateral.New(db)
}

func provideVaultStore(db *db.DB) core.VaultStore {
	return vault.New(db)
}

func provideAuctionStore(db *db.DB) core.AuctionStore {
	return auction.New(db)
}

func provideTreasuryStore(db *db.DB) core.TreasuryStore {
	return treasury.New(db)
}

func providePoolStore(db *db.DB) core.PoolStore {
	return pool.New(db)
}

func providePriceStore(db *db.DB) core.PriceStore {
	return price.New(db)
}

func provideOracleSignerStore(db *db.DB) core.OracleSignerStore {
	return oraclestore.NewSignerStore(db)
}

func provideProposalStore(db *db.DB) core.ProposalStore {
	return proposal.New(db)
}

func provideTransactionStore(db *db.DB) core.TransactionStore {
	return transaction.New(db)
}

func provideAuthorizationStore(db *db.DB) core.AuthorizationStore {
	return authorization.New(db)
}

func provideAssetStore(db *db.DB) core.AssetStore {
	return asset.New(db)
}

// ------------------service------------------------------------

func provideWalletService(client *gateway.Client, system *core.System) core.WalletService {
	return walletservice.New(client, system)
}

func provideUserService(client *gateway.Client, users core.UserStore) core.UserService {
	return userservice.New(client, users)
}

func provideSessionService(userz core.UserService, system *core.System) core.Session {
	issuers := append([]string{system.ClientID}, system.MemberIDs()...)
	return session.New(userz, 2048, issuers)
}

func provideAssetService(client *gateway.Client, assets core.AssetStore) core.AssetService {
	return assetservice.New(client, assets)
}

func provideBlockService() core.BlockService {
	return block.New(cfg.App.Genesis)
}

func providePriceOracleService() core.PriceOracleService {
	return oracle.New(cfg.PriceOracle.EndPoint)
}

func provideProposalService(system *core.System, client *gateway.Client) core.ProposalService {
	return proposalservice.New(system, client)
}

func provideDexService(pools core.PoolStore, wallets core.WalletStore, system *core.System) core.DexService {
	return dex.New(pools, wallets, system)
}

func provideTreasuryService(
	treasuries core.TreasuryStore,
	collaterals core.CollateralStore,
	auctions core.AuctionStore,
	wallets core.WalletStore,
	dexz core.DexService,
	system *core.System,
) core.TreasuryService {
	return treasuryservice.New(treasuries, collaterals, auctions, wallets, dexz, system, provideAuctionParams())
}

func provideVaultService(
	vaults core.VaultStore,
	collaterals core.CollateralStore,
	treasuryz core.TreasuryService,
	wallets core.WalletStore,
	system *core.System,
) core.VaultService {
	return vaultservice.New(vaults, collaterals, treasuryz, wallets, system)
}

func provideEngineService(
	vaults core.VaultStore,
	collaterals core.CollateralStore,
	vaultz core.VaultService,
	treasuryz core.TreasuryService,
	dexz core.DexService,
	wallets core.WalletStore,
	system *core.System,
) core.EngineService {
	return engine.New(vaults, collaterals, vaultz, treasuryz, dexz, wallets, system)
}

func provideAuctionService(
	auctions core.AuctionStore,
	collaterals core.CollateralStore,
	treasuries core.TreasuryStore,
	treasuryz core.TreasuryService,
	dexz core.DexService,
	wallets core.WalletStore,
	system *core.System,
) core.AuctionService {
	return auctionservice.New(auctions, collaterals, treasuries, treasuryz, dexz, wallets, system, provideAuctionParams())
}
