package treasury

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Treasury{}).AutoMigrate(core.Treasury{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.TreasuryCollateral{}).AutoMigrate(core.TreasuryCollateral{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new treasury store
func New(db *db.DB) core.TreasuryStore {
	return &treasuryStore{db: db}
}

type treasuryStore struct {
	db *db.DB
}

func (s *treasuryStore) Find(ctx context.Context) (*core.Treasury, error) {
	treasury := core.Treasury{ID: 1}
	if err := s.db.Update().Where("id = 1").FirstOrCreate(&treasury).Error; err != nil {
		return nil, err
	}

	return &treasury, nil
}

func toUpdateParams(treasury *core.Treasury) map[string]interface{} {
	return map[string]interface{}{
		"surplus_pool":             treasury.SurplusPool,
		"debit_pool":               treasury.DebitPool,
		"issued_stable":            treasury.IssuedStable,
		"total_surplus_in_auction": treasury.TotalSurplusInAuction,
		"total_debit_in_auction":   treasury.TotalDebitInAuction,
		"total_target_in_auction":  treasury.TotalTargetInAuction,
		"surplus_buffer_size":      treasury.SurplusBufferSize,
		"surplus_auction_size":     treasury.SurplusAuctionSize,
		"debit_auction_size":       treasury.DebitAuctionSize,
		"shutdown_at":              treasury.ShutdownAt,
		"refund_open_at":           treasury.RefundOpenAt,
	}
}

func (s *treasuryStore) Update(ctx context.Context, treasury *core.Treasury, version int64) error {
	if treasury.Version >= version {
		return nil
	}

	updates := toUpdateParams(treasury)
	updates["version"] = version

	tx := s.db.Update().Model(treasury).Where("version = ?", treasury.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *treasuryStore) FindCollateral(ctx context.Context, assetID string) (*core.TreasuryCollateral, error) {
	collateral := core.TreasuryCollateral{AssetID: assetID}
	if err := s.db.Update().Where("asset_id = ?", assetID).FirstOrCreate(&collateral).Error; err != nil {
		return nil, err
	}

	return &collateral, nil
}

func (s *treasuryStore) ListCollaterals(ctx context.Context) ([]*core.TreasuryCollateral, error) {
	var collaterals []*core.TreasuryCollateral
	if err := s.db.View().Where("amount > 0").Find(&collaterals).Error; err != nil {
		return nil, err
	}

	return collaterals, nil
}

func (s *treasuryStore) UpdateCollateral(ctx context.Context, collateral *core.TreasuryCollateral, version int64) error {
	if collateral.Version >= version {
		return nil
	}

	updates := map[string]interface{}{
		"amount":  collateral.Amount,
		"version": version,
	}

	tx := s.db.Update().Model(collateral).Where("version = ?", collateral.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
