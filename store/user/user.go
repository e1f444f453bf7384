package user

import (
	"context"

	"vault/core"

	"github.com/fox-one/pkg/store/db"
)

type userStore struct {
	db *db.DB
}

// New new user store
func New(db *db.DB) core.UserStore {
	return &userStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.User{})

		if err := tx.AutoMigrate(core.User{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func toUpdateParams(user *core.User) map[string]interface{} {
	return map[string]interface{}{
		"address":      user.Address,
		"lang":         user.Lang,
		"name":         user.Name,
		"avatar":       user.Avatar,
		"access_token": user.AccessToken,
	}
}

func (s *userStore) Save(ctx context.Context, user *core.User) error {
	return s.db.Update().Where("user_id = ?", user.UserID).Assign(toUpdateParams(user)).FirstOrCreate(user).Error
}

func (s *userStore) Find(ctx context.Context, userID string) (*core.User, error) {
	var user core.User
	if err := s.db.View().Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *userStore) All(ctx context.Context) ([]*core.User, error) {
	var users []*core.User
	if err := s.db.View().Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
