package price

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.PriceStore {
	return &priceStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})

		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *priceStore) Create(ctx context.Context, price *core.Price) error {
	return s.db.Update().Where("asset_id = ? AND block_number = ?", price.AssetID, price.BlockNumber).FirstOrCreate(price).Error
}

func (s *priceStore) FindByAssetBlock(ctx context.Context, assetID string, blockNumber int64) (*core.Price, bool, error) {
	var price core.Price
	if err := s.db.View().Where("asset_id = ? AND block_number = ?", assetID, blockNumber).First(&price).Error; err != nil {
		return nil, gorm.IsRecordNotFoundError(err), err
	}

	return &price, false, nil
}

func (s *priceStore) FindLatest(ctx context.Context, assetID string) (*core.Price, error) {
	var price core.Price
	if err := s.db.View().Where("asset_id = ? AND passed_at IS NOT NULL", assetID).Order("block_number DESC").First(&price).Error; err != nil {
		return nil, err
	}

	return &price, nil
}

func (s *priceStore) Update(ctx context.Context, price *core.Price, version int64) error {
	if price.Version >= version {
		return nil
	}

	updates := map[string]interface{}{
		"price":     price.Price,
		"content":   price.Content,
		"passed_at": price.PassedAt,
		"version":   version,
	}

	tx := s.db.Update().Model(core.Price{}).
		Where("asset_id = ? AND block_number = ? AND version = ?", price.AssetID, price.BlockNumber, price.Version).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
