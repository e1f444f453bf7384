package authorization

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Authorization{})

		if err := tx.AutoMigrate(core.Authorization{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new authorization store
func New(db *db.DB) core.AuthorizationStore {
	return &authorizationStore{db: db}
}

type authorizationStore struct {
	db *db.DB
}

func (s *authorizationStore) Grant(ctx context.Context, auth *core.Authorization) error {
	return s.db.Update().
		Where("grantor_id = ? AND grantee_id = ? AND collateral_id = ?", auth.GrantorID, auth.GranteeID, auth.CollateralID).
		FirstOrCreate(auth).Error
}

func (s *authorizationStore) Revoke(ctx context.Context, grantorID, granteeID, collateralID string) error {
	return s.db.Update().
		Where("grantor_id = ? AND grantee_id = ? AND collateral_id = ?", grantorID, granteeID, collateralID).
		Delete(core.Authorization{}).Error
}

func (s *authorizationStore) RevokeAll(ctx context.Context, grantorID string) error {
	return s.db.Update().Where("grantor_id = ?", grantorID).Delete(core.Authorization{}).Error
}

func (s *authorizationStore) Granted(ctx context.Context, grantorID, granteeID, collateralID string) (bool, error) {
	var auth core.Authorization
	err := s.db.View().
		Where("grantor_id = ? AND grantee_id = ? AND collateral_id = ?", grantorID, granteeID, collateralID).
		First(&auth).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (s *authorizationStore) ListByGrantor(ctx context.Context, grantorID string) ([]*core.Authorization, error) {
	var auths []*core.Authorization
	if err := s.db.View().Where("grantor_id = ?", grantorID).Find(&auths).Error; err != nil {
		return nil, err
	}

	return auths, nil
}
