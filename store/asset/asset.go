package asset

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Asset{})

		if err := tx.AutoMigrate(core.Asset{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new asset store
func New(db *db.DB) core.AssetStore {
	return &assetStore{db: db}
}

type assetStore struct {
	db *db.DB
}

func (s *assetStore) Save(ctx context.Context, asset *core.Asset) error {
	return s.db.Update().Where("id = ?", asset.ID).Assign(toUpdateParams(asset)).FirstOrCreate(asset).Error
}

func toUpdateParams(asset *core.Asset) map[string]interface{} {
	return map[string]interface{}{
		"name":     asset.Name,
		"symbol":   asset.Symbol,
		"logo":     asset.Logo,
		"chain_id": asset.ChainID,
	}
}

func (s *assetStore) Register(ctx context.Context, resourceID, assetID string) error {
	var exist core.Asset
	err := s.db.View().Where("resource_id = ?", resourceID).First(&exist).Error
	if err == nil {
		if exist.ID == assetID {
			return nil
		}

		return core.ErrAssetAlreadyMapped
	}

	if !gorm.IsRecordNotFoundError(err) {
		return err
	}

	tx := s.db.Update().Model(core.Asset{}).
		Where("id = ? AND (resource_id = ? OR resource_id = '')", assetID, resourceID).
		Update("resource_id", resourceID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return core.ErrAssetAlreadyMapped
	}

	return nil
}

func (s *assetStore) Find(ctx context.Context, id string) (*core.Asset, error) {
	var asset core.Asset
	if err := s.db.View().Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}

	return &asset, nil
}

func (s *assetStore) FindByResource(ctx context.Context, resourceID string) (*core.Asset, error) {
	var asset core.Asset
	if err := s.db.View().Where("resource_id = ?", resourceID).First(&asset).Error; err != nil {
		return nil, err
	}

	return &asset, nil
}

func (s *assetStore) All(ctx context.Context) ([]*core.Asset, error) {
	var assets []*core.Asset
	if err := s.db.View().Find(&assets).Error; err != nil {
		return nil, err
	}

	return assets, nil
}
