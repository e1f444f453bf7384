package core

import (
	"context"
	"time"
)

// Asset a currency known to the gateway. ResourceID binds the
// external bridge resource to the asset; a resource maps to exactly
// one asset forever.
type Asset struct {
	ID         string    `sql:"size:36;PRIMARY_KEY" json:"id"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	Name       string    `sql:"size:64" json:"name,omitempty"`
	Symbol     string    `sql:"size:32" json:"symbol,omitempty"`
	Logo       string    `sql:"size:256" json:"logo,omitempty"`
	ChainID    string    `sql:"size:36" json:"chain_id,omitempty"`
	ResourceID string    `sql:"size:128" json:"resource_id,omitempty"`
}

// AssetStore asset store interface
type AssetStore interface {
	Save(ctx context.Context, asset *Asset) error
	// Register binds a resource id to an asset. A resource already
	// bound to any asset cannot be bound again.
	Register(ctx context.Context, resourceID, assetID string) error
	Find(ctx context.Context, id string) (*Asset, error)
	FindByResource(ctx context.Context, resourceID string) (*Asset, error)
	All(ctx context.Context) ([]*Asset, error)
}

// AssetService asset service interface
type AssetService interface {
	Find(ctx context.Context, id string) (*Asset, error)
}
