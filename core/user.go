package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// User user model
type User struct {
	ID          int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
	Version     int64     `json:"version,omitempty"`
	UserID      string    `sql:"size:36;unique_index:idx_users_user_id" json:"user_id,omitempty"`
	Address     string    `sql:"size:64;index:idx_users_address" json:"address,omitempty"`
	Role        string    `sql:"size:24" json:"role,omitempty"`
	Lang        string    `sql:"size:36" json:"lang,omitempty"`
	Name        string    `sql:"size:64" json:"name,omitempty"`
	Avatar      string    `sql:"size:255" json:"avatar,omitempty"`
	AccessToken string    `sql:"size:512" json:"access_token,omitempty"`
}

// BuildUserAddress derives the display address bound to a gateway user
func BuildUserAddress(userID string) string {
	sum := sha256.Sum256([]byte("vault:user:" + userID))
	return "0x" + hex.EncodeToString(sum[:20])
}

// UserStore user store interface
type UserStore interface {
	Save(ctx context.Context, user *User) error
	Find(ctx context.Context, userID string) (*User, error)
	All(ctx context.Context) ([]*User, error)
}

// UserService user service interface
type UserService interface {
	Find(ctx context.Context, userID string) (*User, error)
	Login(ctx context.Context, token string) (*User, error)
}
