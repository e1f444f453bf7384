package cmd

import (
	"encoding/base64"

	"vault/store/wallet"
	"vault/worker"
	"vault/worker/accrual"
	"vault/worker/assigner"
	"vault/worker/auctioneer"
	"vault/worker/cashier"
	"vault/worker/payee"
	"vault/worker/priceoracle"
	"vault/worker/sentinel"
	"vault/worker/spentsync"
	"vault/worker/syncer"
	"vault/worker/treasurer"
	"vault/worker/txsender"

	"github.com/fox-one/pkg/logger"
	dbpkg "github.com/fox-one/pkg/store/db"
	"github.com/pandodao/blst"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run vault job workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		db := provideDatabase()
		defer db.Close()

		client := provideGatewayClient()
		system := provideSystem()

		propertyStore := providePropertyStore(db)
		walletStore := provideWalletStore(ctx, db)
		collateralStore := provideCollateralStore(db)
		vaultStore := provideVaultStore(db)
		auctionStore := provideAuctionStore(db)
		treasuryStore := provideTreasuryStore(db)
		poolStore := providePoolStore(db)
		priceStore := providePriceStore(db)
		transactionStore := provideTransactionStore(db)

		walletService := provideWalletService(client, system)
		blockService := provideBlockService()
		priceOracleService := providePriceOracleService()
		proposalService := provideProposalService(system, client)
		dexService := provideDexService(poolStore, walletStore, system)
		treasuryService := provideTreasuryService(treasuryStore, collateralStore, auctionStore, walletStore, dexService, system)
		vaultService := provideVaultService(vaultStore, collateralStore, treasuryService, walletStore, system)
		engineService := provideEngineService(vaultStore, collateralStore, vaultService, treasuryService, dexService, walletStore, system)
		auctionService := provideAuctionService(auctionStore, collateralStore, treasuryStore, treasuryService, dexService, walletStore, system)

		location := cfg.App.Location
		params := provideAuctionParams()

		// every output dispatch runs against stores bound to its own
		// transaction, so the ledger writes and the journal row commit
		// together
		assemble := func(tx *dbpkg.DB) payee.Deps {
			wallets := wallet.NewBound(tx)
			pools := providePoolStore(tx)
			dexz := provideDexService(pools, wallets, system)
			treasuries := provideTreasuryStore(tx)
			collaterals := provideCollateralStore(tx)
			auctions := provideAuctionStore(tx)
			vaults := provideVaultStore(tx)
			treasuryz := provideTreasuryService(treasuries, collaterals, auctions, wallets, dexz, system)
			vaultz := provideVaultService(vaults, collaterals, treasuryz, wallets, system)

			return payee.Deps{
				Users:          provideUserStore(tx),
				Wallets:        wallets,
				Collaterals:    collaterals,
				Vaults:         vaults,
				Auctions:       auctions,
				Treasuries:     treasuries,
				Prices:         providePriceStore(tx),
				OracleSigners:  provideOracleSignerStore(tx),
				Proposals:      provideProposalStore(tx),
				Transactions:   provideTransactionStore(tx),
				Authorizations: provideAuthorizationStore(tx),
				Assets:         provideAssetStore(tx),
				Vaultz:         vaultz,
				Engine:         provideEngineService(vaults, collaterals, vaultz, treasuryz, dexz, wallets, system),
				Auctionz:       provideAuctionService(auctions, collaterals, treasuries, treasuryz, dexz, wallets, system),
				Treasuryz:      treasuryz,
				Dexz:           dexz,
				Proposalz:      proposalService,
			}
		}

		workers := []worker.Worker{
			payee.NewPayee(db, system, propertyStore, walletStore, assemble),
			cashier.New(walletStore, walletService, system, cashier.Config{
				Batch:    _flag.cashier.batch,
				Capacity: _flag.cashier.capacity,
			}),
			assigner.New(walletStore, system),
			spentsync.New(walletStore, transactionStore),
			auctioneer.New(auctionStore, collateralStore, treasuryStore, auctionService, system, params),
			sentinel.New(vaultStore, collateralStore, treasuryStore, auctionStore, engineService, auctionService),
		}

		jobs := []worker.Job{
			syncer.New(location, walletStore, walletService, propertyStore),
			txsender.New(location, walletStore, client),
			accrual.New(location, collateralStore, treasuryStore, engineService, propertyStore),
			treasurer.New(location, treasuryStore, auctionStore, params, cfg.Auction.DebitLot),
		}

		if cfg.PriceOracle.SignKey != "" {
			bts, err := base64.StdEncoding.DecodeString(cfg.PriceOracle.SignKey)
			if err != nil {
				panic(err)
			}

			signKey := blst.PrivateKey{}
			if err := signKey.FromBytes(bts); err != nil {
				panic(err)
			}

			workers = append(workers, priceoracle.New(
				system,
				collateralStore,
				priceStore,
				walletStore,
				blockService,
				priceOracleService,
				priceoracle.Config{
					SignKey:     &signKey,
					SignerIndex: cfg.PriceOracle.SignerIndex,
				},
			))
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		for _, job := range jobs {
			job := job
			g.Go(func() error {
				if err := job.Start(); err != nil {
					return err
				}

				<-ctx.Done()
				return job.Stop()
			})
		}

		if err := g.Wait(); err != nil {
			log.WithError(err).Errorln("workers stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
