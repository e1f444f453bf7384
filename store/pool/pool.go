package pool

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Pool{}).AutoMigrate(core.Pool{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.PoolShare{}).AutoMigrate(core.PoolShare{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.LiquidityOrder{}).AutoMigrate(core.LiquidityOrder{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new pool store
func New(db *db.DB) core.PoolStore {
	return &poolStore{db: db}
}

type poolStore struct {
	db *db.DB
}

func (s *poolStore) Save(ctx context.Context, pool *core.Pool) error {
	return s.db.Update().Where("asset_id = ?", pool.AssetID).FirstOrCreate(pool).Error
}

func (s *poolStore) Find(ctx context.Context, assetID string) (*core.Pool, error) {
	var pool core.Pool
	if err := s.db.View().Where("asset_id = ?", assetID).First(&pool).Error; err != nil {
		return nil, err
	}

	return &pool, nil
}

func (s *poolStore) All(ctx context.Context) ([]*core.Pool, error) {
	var pools []*core.Pool
	if err := s.db.View().Find(&pools).Error; err != nil {
		return nil, err
	}

	return pools, nil
}

func (s *poolStore) Update(ctx context.Context, pool *core.Pool, version int64) error {
	if pool.Version >= version {
		return nil
	}

	updates := map[string]interface{}{
		"base_amount":  pool.BaseAmount,
		"token_amount": pool.TokenAmount,
		"total_shares": pool.TotalShares,
		"fee":          pool.Fee,
		"version":      version,
	}

	tx := s.db.Update().Model(pool).Where("version = ?", pool.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *poolStore) FindShare(ctx context.Context, assetID, userID string) (*core.PoolShare, error) {
	share := core.PoolShare{AssetID: assetID, UserID: userID}
	if err := s.db.Update().Where("asset_id = ? AND user_id = ?", assetID, userID).FirstOrCreate(&share).Error; err != nil {
		return nil, err
	}

	return &share, nil
}

func (s *poolStore) ListShares(ctx context.Context, userID string) ([]*core.PoolShare, error) {
	var shares []*core.PoolShare
	if err := s.db.View().Where("user_id = ? AND amount > 0", userID).Find(&shares).Error; err != nil {
		return nil, err
	}

	return shares, nil
}

func (s *poolStore) UpdateShare(ctx context.Context, share *core.PoolShare, version int64) error {
	if share.Version >= version {
		return nil
	}

	updates := map[string]interface{}{
		"amount":  share.Amount,
		"version": version,
	}

	tx := s.db.Update().Model(share).Where("version = ?", share.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *poolStore) CreateOrder(ctx context.Context, order *core.LiquidityOrder) error {
	return s.db.Update().Where("follow_id = ?", order.FollowID).FirstOrCreate(order).Error
}

func (s *poolStore) FindOrder(ctx context.Context, followID string) (*core.LiquidityOrder, error) {
	var order core.LiquidityOrder
	if err := s.db.View().Where("follow_id = ?", followID).First(&order).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

func (s *poolStore) UpdateOrder(ctx context.Context, order *core.LiquidityOrder, version int64) error {
	if order.Version >= version {
		return nil
	}

	updates := map[string]interface{}{
		"base_amount":  order.BaseAmount,
		"token_amount": order.TokenAmount,
		"base_trace":   order.BaseTrace,
		"token_trace":  order.TokenTrace,
		"state":        order.State,
		"version":      version,
	}

	tx := s.db.Update().Model(order).Where("version = ?", order.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
