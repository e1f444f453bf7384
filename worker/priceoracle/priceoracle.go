package priceoracle

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"vault/core"
	"vault/pkg/id"
	"vault/service/block"
	"vault/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
	"github.com/pandodao/blst"
	"github.com/shopspring/decimal"
)

// Config this member's oracle signer identity
type Config struct {
	SignKey     *blst.PrivateKey
	SignerIndex uint64
}

// Worker signs a price fragment for every listed collateral once per
// block and hands it to the group through the transfer queue.
type Worker struct {
	worker.TickWorker
	system             *core.System
	collateralStore    core.CollateralStore
	priceStore         core.PriceStore
	walletStore        core.WalletStore
	blockService       core.BlockService
	priceOracleService core.PriceOracleService
	cfg                Config
}

// New new price oracle worker
func New(
	system *core.System,
	collateralStore core.CollateralStore,
	priceStore core.PriceStore,
	walletStore core.WalletStore,
	blockSrv core.BlockService,
	priceSrv core.PriceOracleService,
	cfg Config,
) *Worker {
	job := Worker{
		system:             system,
		collateralStore:    collateralStore,
		priceStore:         priceStore,
		walletStore:        walletStore,
		blockService:       blockSrv,
		priceOracleService: priceSrv,
		cfg:                cfg,
	}

	return &job
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	collaterals, err := w.collateralStore.All(ctx)
	if err != nil {
		log.Errorln("collaterals.All:", err)
		return err
	}

	if len(collaterals) == 0 {
		return nil
	}

	block, err := w.blockService.GetBlock(ctx, time.Now())
	if err != nil {
		log.WithError(err).Errorln("blockz.GetBlock")
		return err
	}

	wg := sync.WaitGroup{}
	for _, c := range collaterals {
		wg.Add(1)
		go func(collateral *core.Collateral) {
			defer wg.Done()

			if w.isPriceProvided(ctx, collateral, block) {
				return
			}

			ticker, err := w.priceOracleService.PullPriceTicker(ctx, collateral.Symbol, time.Now())
			if err != nil {
				log.Errorln("pull price ticker:", err)
				return
			}
			if ticker.Price.LessThanOrEqual(decimal.Zero) {
				log.Errorln("invalid ticker price:", ticker.Symbol, ":", ticker.Price)
				return
			}

			if err := w.pushPrice(ctx, collateral, ticker, block); err != nil {
				log.Errorln("push price:", err)
			}
		}(c)
	}

	wg.Wait()

	return nil
}

// isPriceProvided reports whether this member's bit is already in the
// stored fragment for the current block
func (w *Worker) isPriceProvided(ctx context.Context, collateral *core.Collateral, block int64) bool {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	price, isNotFound, err := w.priceStore.FindByAssetBlock(ctx, collateral.AssetID, w.blockTime(block))
	if err != nil {
		if !isNotFound && !store.IsErrNotFound(err) {
			log.WithError(err).Errorln("prices.FindByAssetBlock")
		}
		return false
	}

	var data core.PriceData
	if err := price.Content.Unmarshal(&data); err != nil {
		return false
	}

	return data.Signature.Mask&(0x1<<w.cfg.SignerIndex) != 0
}

func (w *Worker) pushPrice(ctx context.Context, collateral *core.Collateral, ticker *core.PriceTicker, block int64) error {
	data := core.PriceData{
		Timestamp: w.blockTime(block),
		AssetID:   collateral.AssetID,
		Price:     ticker.Price,
	}

	data.Signature = core.CosiSignature{
		Signature: *w.cfg.SignKey.Sign(data.Payload()),
		Mask:      0x1 << w.cfg.SignerIndex,
	}

	memo, err := data.MarshalBinary()
	if err != nil {
		return err
	}

	traceID := id.UUIDFromString(fmt.Sprintf("price-%s-%s-%d", w.system.ClientID, collateral.AssetID, block))
	transfer := &core.Transfer{
		TraceID:   traceID,
		AssetID:   w.system.VoteAsset,
		Amount:    w.system.VoteAmount,
		Opponents: w.system.MemberIDs(),
		Threshold: w.system.Threshold,
		Memo:      base64.StdEncoding.EncodeToString(memo),
	}

	return w.walletStore.CreateTransfers(ctx, []*core.Transfer{transfer})
}

// blockTime the grid timestamp carried in the signed payload
func (w *Worker) blockTime(blockNum int64) int64 {
	return w.system.Genesis + blockNum*block.SecondsPerBlock
}
