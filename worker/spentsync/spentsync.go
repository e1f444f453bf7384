package spentsync

import (
	"context"
	"errors"
	"time"

	"vault/core"
	"vault/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
)

// SpentSync watches handled transfers until their outputs are spent
// on chain, then journals the outbound transaction.
type SpentSync struct {
	walletStore      core.WalletStore
	transactionStore core.TransactionStore
}

// New new spent sync worker
func New(
	walletStr core.WalletStore,
	transactionStr core.TransactionStore,
) *SpentSync {
	return &SpentSync{
		walletStore:      walletStr,
		transactionStore: transactionStr,
	}
}

// Run worker run
func (w *SpentSync) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "SpentSync")
	ctx = logger.WithContext(ctx, log)

	dur := time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := w.run(ctx); err == nil {
				dur = 500 * time.Millisecond
			} else {
				dur = time.Second
			}
		}
	}
}

func (w *SpentSync) run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	const limit = 100
	transfers, err := w.walletStore.ListTransfers(ctx, core.TransferStatusHandled, limit)
	if err != nil {
		log.WithError(err).Errorln("wallets.ListTransfers")
		return err
	}

	if len(transfers) == 0 {
		return errors.New("EOF")
	}

	for _, transfer := range transfers {
		err = w.handleTransfer(ctx, transfer)
		if err != nil {
			continue
		}
	}

	return nil
}

func (w *SpentSync) handleTransfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithField("trace", transfer.TraceID)

	output, err := w.walletStore.FindSpentBy(ctx, transfer.AssetID, transfer.TraceID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil
		}

		log.WithError(err).Errorln("wallets.FindSpentBy")
		return err
	}

	if output.State != core.OutputStateSpent {
		log.Debugln("utxo is not spent, skip")
		return nil
	}

	signedTx := output.SignedTx
	if signedTx == "" {
		log.Debugln("signed tx is empty, skip")
		return nil
	}

	snapshotTraceID := id.UUIDFromString(signedTx)
	transaction, err := core.BuildTransactionFromTransfer(ctx, transfer, snapshotTraceID)
	if err != nil {
		return err
	}
	if err = w.transactionStore.Create(ctx, transaction); err != nil {
		log.WithError(err).Errorln("create transaction error")
		return err
	}

	transfer.Status = core.TransferStatusPassed
	if err := w.walletStore.UpdateTransfer(ctx, transfer); err != nil {
		log.WithError(err).Errorln("wallets.UpdateTransfer")
		return err
	}

	return nil
}
