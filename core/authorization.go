package core

import (
	"context"
	"time"
)

// Authorization a standing grant: grantee may operate the grantor's
// vault for one collateral currency. Users always operate their own
// vaults without a grant.
type Authorization struct {
	ID           int64     `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	GrantorID    string    `sql:"size:36;unique_index:idx_authorizations_grant" json:"grantor_id,omitempty"`
	GranteeID    string    `sql:"size:36;unique_index:idx_authorizations_grant" json:"grantee_id,omitempty"`
	CollateralID string    `sql:"size:36;unique_index:idx_authorizations_grant" json:"collateral_id,omitempty"`
}

// AuthorizationStore authorization store interface
type AuthorizationStore interface {
	Grant(ctx context.Context, auth *Authorization) error
	Revoke(ctx context.Context, grantorID, granteeID string, collateralID string) error
	RevokeAll(ctx context.Context, grantorID string) error
	Granted(ctx context.Context, grantorID, granteeID string, collateralID string) (bool, error)
	ListByGrantor(ctx context.Context, grantorID string) ([]*Authorization, error)
}
