package txsender

import (
	"context"
	"errors"
	"time"

	"vault/core"
	"vault/pkg/gateway"
	"vault/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// Sender submits signed raw transactions to the gateway chain
type Sender struct {
	worker.BaseJob
	wallets core.WalletStore
	client  *gateway.Client
}

func New(location string, wallets core.WalletStore, client *gateway.Client) *Sender {
	sender := Sender{
		wallets: wallets,
		client:  client,
	}

	l, _ := time.LoadLocation(location)
	sender.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 100ms"
	sender.Cron.AddFunc(spec, sender.Run)
	sender.OnWork = func() error {
		return sender.onWork(context.Background())
	}

	return &sender
}

func (w *Sender) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "txsender")
	const Limit = 20

	txs, err := w.wallets.ListPendingRawTransactions(ctx, Limit)
	if err != nil {
		log.WithError(err).Errorln("list raw transactions")
		return err
	}

	if len(txs) == 0 {
		return errors.New("EOF")
	}

	var g errgroup.Group
	for _, tx := range txs {
		tx := tx
		g.Go(func() error {
			return w.handleRawTransaction(ctx, tx)
		})
	}

	return g.Wait()
}

func (w *Sender) handleRawTransaction(ctx context.Context, tx *core.RawTransaction) error {
	log := logger.FromContext(ctx).WithField("trace_id", tx.TraceID)
	ctx = logger.WithContext(ctx, log)

	if err := w.submitRawTransaction(ctx, tx.Data); err != nil {
		return err
	}
	if err := w.wallets.ExpireRawTransaction(ctx, tx); err != nil {
		log.WithError(err).Errorln("wallets.ExpireRawTransaction")
		return err
	}
	return nil
}

func (w *Sender) submitRawTransaction(ctx context.Context, raw string) error {
	log := logger.FromContext(ctx)

	tx, err := w.client.SendRawTransaction(ctx, raw)
	if err != nil {
		log.WithError(err).Errorln("SendRawTransaction failed")
		return err
	}

	if tx.SnapshotID != "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	dur := time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return errors.New("gateway snapshot not generated")
		case <-time.After(dur):
			read, err := w.client.ReadTransaction(ctx, tx.Hash)
			if err != nil {
				log.WithError(err).Errorln("ReadTransaction failed")
				return err
			}
			if read.SnapshotID != "" {
				return nil
			}
			dur = time.Second
		}
	}
}
