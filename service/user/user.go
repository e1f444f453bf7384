package user

import (
	"context"

	"vault/core"
	"vault/pkg/gateway"
)

type userService struct {
	client *gateway.Client
	users  core.UserStore
}

// New new user service
func New(client *gateway.Client, users core.UserStore) core.UserService {
	return &userService{
		client: client,
		users:  users,
	}
}

func (s *userService) Find(ctx context.Context, userID string) (*core.User, error) {
	return s.users.Find(ctx, userID)
}

func (s *userService) Login(ctx context.Context, token string) (*core.User, error) {
	profile, err := s.client.ReadUser(ctx, token)
	if err != nil {
		return nil, err
	}

	user := &core.User{
		UserID:      profile.ID,
		Address:     core.BuildUserAddress(profile.ID),
		Name:        profile.Name,
		Avatar:      profile.Avatar,
		Lang:        profile.Lang,
		AccessToken: token,
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
