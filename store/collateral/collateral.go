package collateral

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Collateral{})

		if err := tx.AutoMigrate(core.Collateral{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new collateral store
func New(db *db.DB) core.CollateralStore {
	return &collateralStore{db: db}
}

type collateralStore struct {
	db *db.DB
}

func (s *collateralStore) Create(ctx context.Context, collateral *core.Collateral) error {
	return s.db.Update().Where("trace_id = ?", collateral.TraceID).FirstOrCreate(collateral).Error
}

func (s *collateralStore) Find(ctx context.Context, traceID string) (*core.Collateral, error) {
	var collateral core.Collateral
	if err := s.db.View().Where("trace_id = ?", traceID).First(&collateral).Error; err != nil {
		return nil, err
	}

	return &collateral, nil
}

func (s *collateralStore) FindByAsset(ctx context.Context, assetID string) (*core.Collateral, error) {
	var collateral core.Collateral
	if err := s.db.View().Where("asset_id = ?", assetID).First(&collateral).Error; err != nil {
		return nil, err
	}

	return &collateral, nil
}

func (s *collateralStore) All(ctx context.Context) ([]*core.Collateral, error) {
	var collaterals []*core.Collateral
	if err := s.db.View().Find(&collaterals).Error; err != nil {
		return nil, err
	}

	return collaterals, nil
}

func toUpdateParams(collateral *core.Collateral) map[string]interface{} {
	return map[string]interface{}{
		"name":                collateral.Name,
		"symbol":              collateral.Symbol,
		"total_collateral":    collateral.TotalCollateral,
		"total_debit_units":   collateral.TotalDebitUnits,
		"total_in_auction":    collateral.TotalInAuction,
		"debit_exchange_rate": collateral.DebitExchangeRate,
		"stability_fee":       collateral.StabilityFee,
		"liquidation_ratio":   collateral.LiquidationRatio,
		"liquidation_penalty": collateral.LiquidationPenalty,
		"required_ratio":      collateral.RequiredRatio,
		"debit_ceiling":       collateral.DebitCeiling,
		"auction_size":        collateral.AuctionSize,
		"price":               collateral.Price,
		"price_updated_at":    collateral.PriceUpdatedAt,
		"accrued_at":          collateral.AccruedAt,
	}
}

func (s *collateralStore) Update(ctx context.Context, collateral *core.Collateral, version int64) error {
	if collateral.Version >= version {
		return nil
	}

	updates := toUpdateParams(collateral)
	updates["version"] = version

	tx := s.db.Update().Model(collateral).Where("version = ?", collateral.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
