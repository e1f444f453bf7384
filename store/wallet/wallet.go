package wallet

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Output{}).AutoMigrate(core.Output{}).Error; err != nil {
			return err
		}

		tx := db.Update().Model(core.Output{})
		if err := tx.AddUniqueIndex("idx_outputs_trace", "trace_id").Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_outputs_asset_state", "asset_id", "state").Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_outputs_spent_by", "spent_by").Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.Transfer{}).AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.RawTransaction{}).AutoMigrate(core.RawTransaction{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new wallet store. It keeps a journal of raw outputs so that late
// arrivals never break the chain order of the outputs table; the
// journal is drained by a background loop started here.
func New(ctx context.Context, db *db.DB) core.WalletStore {
	s := &walletStore{db: db}

	if id, err := findLastRawOutputID(db); err == nil {
		s.rawOutputID = id
	}

	go s.runSync(ctx)
	return s
}

// NewBound new wallet store over an existing transaction handle. No
// sync loop is started, writes commit or roll back with the handle.
func NewBound(db *db.DB) core.WalletStore {
	return &walletStore{db: db}
}

type walletStore struct {
	db          *db.DB
	rawOutputID int64
}

func save(tx *db.DB, output *core.Output, merged bool) error {
	var exist core.Output
	err := tx.Update().Where("trace_id = ?", output.TraceID).First(&exist).Error
	if gorm.IsRecordNotFoundError(err) {
		if output.State == "" {
			output.State = core.OutputStateUnspent
		}

		return tx.Update().Create(output).Error
	} else if err != nil {
		return err
	}

	if exist.State == core.OutputStateSpent {
		return nil
	}

	updates := map[string]interface{}{}
	if output.State != "" && output.State != exist.State {
		updates["state"] = output.State
	}

	if output.SignedTx != "" && output.SignedTx != exist.SignedTx {
		updates["signed_tx"] = output.SignedTx
	}

	if len(updates) == 0 {
		return nil
	}

	return tx.Update().Model(&exist).Updates(updates).Error
}

func (s *walletStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Output, error) {
	var outputs []*core.Output
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&outputs).Error; err != nil {
		return nil, err
	}

	return outputs, nil
}

func (s *walletStore) ListUnspent(ctx context.Context, assetID string, limit int) ([]*core.Output, error) {
	var outputs []*core.Output
	if err := s.db.View().
		Where("asset_id = ? AND state = ? AND spent_by = ''", assetID, core.OutputStateUnspent).
		Order("id").Limit(limit).Find(&outputs).Error; err != nil {
		return nil, err
	}

	return outputs, nil
}

func (s *walletStore) FindSpentBy(ctx context.Context, assetID, traceID string) (*core.Output, error) {
	var output core.Output
	if err := s.db.View().Where("asset_id = ? AND spent_by = ?", assetID, traceID).Order("id").First(&output).Error; err != nil {
		return nil, err
	}

	return &output, nil
}

func (s *walletStore) ListSpentBy(ctx context.Context, assetID, traceID string) ([]*core.Output, error) {
	var outputs []*core.Output
	if err := s.db.View().Where("asset_id = ? AND spent_by = ?", assetID, traceID).Order("id").Find(&outputs).Error; err != nil {
		return nil, err
	}

	return outputs, nil
}

func (s *walletStore) Assign(ctx context.Context, outputs []*core.Output, transfer *core.Transfer) error {
	ids := make([]int64, 0, len(outputs))
	for _, output := range outputs {
		ids = append(ids, output.ID)
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := tx.Update().Model(core.Output{}).
			Where("id IN (?) AND spent_by = ''", ids).
			Update("spent_by", transfer.TraceID).Error; err != nil {
			return err
		}

		return tx.Update().Model(core.Transfer{}).
			Where("trace_id = ? AND status = ?", transfer.TraceID, core.TransferStatusPending).
			Update("status", core.TransferStatusAssigned).Error
	})
}

func (s *walletStore) CreateTransfers(ctx context.Context, transfers []*core.Transfer) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, transfer := range transfers {
			if err := tx.Update().Where("trace_id = ?", transfer.TraceID).FirstOrCreate(transfer).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *walletStore) UpdateTransfer(ctx context.Context, transfer *core.Transfer) error {
	return s.db.Update().Model(core.Transfer{}).
		Where("trace_id = ?", transfer.TraceID).
		Update("status", transfer.Status).Error
}

func (s *walletStore) ListTransfers(ctx context.Context, status core.TransferStatus, limit int) ([]*core.Transfer, error) {
	var transfers []*core.Transfer
	if err := s.db.View().Where("status = ?", status).Order("id").Limit(limit).Find(&transfers).Error; err != nil {
		return nil, err
	}

	return transfers, nil
}

func (s *walletStore) CreateRawTransaction(ctx context.Context, tx *core.RawTransaction) error {
	return s.db.Update().Where("trace_id = ?", tx.TraceID).FirstOrCreate(tx).Error
}

func (s *walletStore) ListPendingRawTransactions(ctx context.Context, limit int) ([]*core.RawTransaction, error) {
	var txs []*core.RawTransaction
	if err := s.db.View().Order("id").Limit(limit).Find(&txs).Error; err != nil {
		return nil, err
	}

	return txs, nil
}

func (s *walletStore) ExpireRawTransaction(ctx context.Context, tx *core.RawTransaction) error {
	return s.db.Update().Where("trace_id = ?", tx.TraceID).Delete(core.RawTransaction{}).Error
}
