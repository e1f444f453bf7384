package vault

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Vault{})

		if err := tx.AutoMigrate(core.Vault{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new vault store
func New(db *db.DB) core.VaultStore {
	return &vaultStore{db: db}
}

type vaultStore struct {
	db *db.DB
}

func (s *vaultStore) Create(ctx context.Context, vault *core.Vault) error {
	return s.db.Update().Where("trace_id = ?", vault.TraceID).FirstOrCreate(vault).Error
}

func (s *vaultStore) Find(ctx context.Context, userID, collateralID string) (*core.Vault, error) {
	var vault core.Vault
	if err := s.db.View().Where("user_id = ? AND collateral_id = ?", userID, collateralID).First(&vault).Error; err != nil {
		return nil, err
	}

	return &vault, nil
}

func (s *vaultStore) FindByTrace(ctx context.Context, traceID string) (*core.Vault, error) {
	var vault core.Vault
	if err := s.db.View().Where("trace_id = ?", traceID).First(&vault).Error; err != nil {
		return nil, err
	}

	return &vault, nil
}

func (s *vaultStore) ListByUser(ctx context.Context, userID string) ([]*core.Vault, error) {
	var vaults []*core.Vault
	if err := s.db.View().Where("user_id = ?", userID).Find(&vaults).Error; err != nil {
		return nil, err
	}

	return vaults, nil
}

func (s *vaultStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Vault, error) {
	var vaults []*core.Vault
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&vaults).Error; err != nil {
		return nil, err
	}

	return vaults, nil
}

func toUpdateParams(vault *core.Vault) map[string]interface{} {
	return map[string]interface{}{
		"amount":      vault.Amount,
		"debit_units": vault.DebitUnits,
	}
}

func (s *vaultStore) Update(ctx context.Context, vault *core.Vault, version int64) error {
	if vault.Version >= version {
		return nil
	}

	updates := toUpdateParams(vault)
	updates["version"] = version

	tx := s.db.Update().Model(vault).Where("version = ?", vault.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *vaultStore) Delete(ctx context.Context, vault *core.Vault, version int64) error {
	// deleting an already deleted row is a replay, not a conflict
	return s.db.Update().Where("id = ? AND version < ?", vault.ID, version).Delete(core.Vault{}).Error
}

func (s *vaultStore) HasDebit(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.View().Model(core.Vault{}).Where("debit_units > 0").Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
