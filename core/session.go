package core

import (
	"context"
)

// Session user session
type Session interface {
	// Login returns the user bound to the access token
	Login(ctx context.Context, accessToken string) (*User, error)
}
