package auction

import (
	"context"
	"time"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.CollateralAuction{}).AutoMigrate(core.CollateralAuction{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.SurplusAuction{}).AutoMigrate(core.SurplusAuction{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.DebitAuction{}).AutoMigrate(core.DebitAuction{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new auction store
func New(db *db.DB) core.AuctionStore {
	return &auctionStore{db: db}
}

type auctionStore struct {
	db *db.DB
}

func (s *auctionStore) CreateCollateralAuctions(ctx context.Context, auctions []*core.CollateralAuction) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, auction := range auctions {
			if err := tx.Update().Where("trace_id = ?", auction.TraceID).FirstOrCreate(auction).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *auctionStore) FindCollateralAuction(ctx context.Context, traceID string) (*core.CollateralAuction, error) {
	var auction core.CollateralAuction
	if err := s.db.View().Where("trace_id = ?", traceID).First(&auction).Error; err != nil {
		return nil, err
	}

	return &auction, nil
}

func (s *auctionStore) ListOpenCollateralAuctions(ctx context.Context, fromID int64, limit int) ([]*core.CollateralAuction, error) {
	var auctions []*core.CollateralAuction
	if err := s.db.View().Where("id > ? AND state = ?", fromID, core.AuctionStateOpen).Order("id").Limit(limit).Find(&auctions).Error; err != nil {
		return nil, err
	}

	return auctions, nil
}

func (s *auctionStore) ListExpiredCollateralAuctions(ctx context.Context, now time.Time, limit int) ([]*core.CollateralAuction, error) {
	var auctions []*core.CollateralAuction
	if err := s.db.View().Where("state = ? AND close_at <= ?", core.AuctionStateOpen, now).Order("close_at").Limit(limit).Find(&auctions).Error; err != nil {
		return nil, err
	}

	return auctions, nil
}

func toCollateralUpdateParams(auction *core.CollateralAuction) map[string]interface{} {
	return map[string]interface{}{
		"amount":   auction.Amount,
		"bid":      auction.Bid,
		"bidder":   auction.Bidder,
		"phase":    auction.Phase,
		"state":    auction.State,
		"close_at": auction.CloseAt,
	}
}

func (s *auctionStore) UpdateCollateralAuction(ctx context.Context, auction *core.CollateralAuction, version int64) error {
	if auction.Version >= version {
		return nil
	}

	updates := toCollateralUpdateParams(auction)
	updates["version"] = version

	tx := s.db.Update().Model(auction).Where("version = ?", auction.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *auctionStore) CountOpenCollateralAuctions(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.CollateralAuction{}).Where("state = ?", core.AuctionStateOpen).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *auctionStore) CreateSurplusAuction(ctx context.Context, auction *core.SurplusAuction) error {
	return s.db.Update().Where("trace_id = ?", auction.TraceID).FirstOrCreate(auction).Error
}

func (s *auctionStore) FindSurplusAuction(ctx context.Context, traceID string) (*core.SurplusAuction, error) {
	var auction core.SurplusAuction
	if err := s.db.View().Where("trace_id = ?", traceID).First(&auction).Error; err != nil {
		return nil, err
	}

	return &auction, nil
}

func (s *auctionStore) ListOpenSurplusAuctions(ctx context.Context, fromID int64, limit int) ([]*core.SurplusAuction, error) {
	var auctions []*core.SurplusAuction
	if err := s.db.View().Where("id > ? AND state = ?", fromID, core.AuctionStateOpen).Order("id").Limit(limit).Find(&auctions).Error; err != nil {
		return nil, err
	}

	return auctions, nil
}

func (s *auctionStore) ListExpiredSurplusAuctions(ctx context.Context, now time.Time, limit int) ([]*core.SurplusAuction, error) {
	var auctions []*core.SurplusAuction
	if err := s.db.View().Where("state = ? AND close_at <= ?", core.AuctionStateOpen, now).Order("close_at").Limit(limit).Find(&auctions).Error; err != nil {
		return nil, err
	}

	return auctions, nil
}

func (s *auctionStore) UpdateSurplusAuction(ctx context.Context, auction *core.SurplusAuction, version int64) error {
	if auction.Version >= version {
		return nil
	}

	updates := map[string]interface{}{
		"bid":      auction.Bid,
		"bidder":   auction.Bidder,
		"state":    auction.State,
		"close_at": auction.CloseAt,
		"version":  version,
	}

	tx := s.db.Update().Model(auction).Where("version = ?", auction.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *auctionStore) CreateDebitAuction(ctx context.Context, auction *core.DebitAuction) error {
	return s.db.Update().Where("trace_id = ?", auction.TraceID).FirstOrCreate(auction).Error
}

func (s *auctionStore) FindDebitAuction(ctx context.Context, traceID string) (*core.DebitAuction, error) {
	var auction core.DebitAuction
	if err := s.db.View().Where("trace_id = ?", traceID).First(&auction).Error; err != nil {
		return nil, err
	}

	return &auction, nil
}

func (s *auctionStore) ListOpenDebitAuctions(ctx context.Context, fromID int64, limit int) ([]*core.DebitAuction, error) {
	var auctions []*core.DebitAuction
	if err := s.db.View().Where("id > ? AND state = ?", fromID, core.AuctionStateOpen).Order("id").Limit(limit).Find(&auctions).Error; err != nil {
		return nil, err
	}

	return auctions, nil
}

func (s *auctionStore) ListExpiredDebitAuctions(ctx context.Context, now time.Time, limit int) ([]*core.DebitAuction, error) {
	var auctions []*core.DebitAuction
	if err := s.db.View().Where("state = ? AND close_at <= ?", core.AuctionStateOpen, now).Order("close_at").Limit(limit).Find(&auctions).Error; err != nil {
		return nil, err
	}

	return auctions, nil
}

func (s *auctionStore) UpdateDebitAuction(ctx context.Context, auction *core.DebitAuction, version int64) error {
	if auction.Version >= version {
		return nil
	}

	updates := map[string]interface{}{
		"amount":   auction.Amount,
		"bid":      auction.Bid,
		"bidder":   auction.Bidder,
		"state":    auction.State,
		"close_at": auction.CloseAt,
		"version":  version,
	}

	tx := s.db.Update().Model(auction).Where("version = ?", auction.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
