package asset

import (
	"context"

	"vault/core"
	"vault/pkg/gateway"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store"
	"golang.org/x/sync/singleflight"
)

// New new asset service. Assets resolved from the gateway are written
// through to the local store.
func New(client *gateway.Client, assets core.AssetStore) core.AssetService {
	return &assetService{
		client: client,
		assets: assets,
		cache:  gcache.New(512).LRU().Build(),
		sf:     &singleflight.Group{},
	}
}

type assetService struct {
	client *gateway.Client
	assets core.AssetStore
	cache  gcache.Cache
	sf     *singleflight.Group
}

func (s *assetService) Find(ctx context.Context, id string) (*core.Asset, error) {
	if v, err := s.cache.Get(id); err == nil {
		if asset, ok := v.(*core.Asset); ok {
			return asset, nil
		}
	}

	v, err, _ := s.sf.Do(id, func() (interface{}, error) {
		asset, err := s.assets.Find(ctx, id)
		if err == nil {
			return asset, nil
		}

		if !store.IsErrNotFound(err) {
			return nil, err
		}

		remote, err := s.client.ReadAsset(ctx, id)
		if err != nil {
			return nil, err
		}

		asset = &core.Asset{
			ID:      remote.AssetID,
			Name:    remote.Name,
			Symbol:  remote.Symbol,
			Logo:    remote.Logo,
			ChainID: remote.ChainID,
		}

		if err := s.assets.Save(ctx, asset); err != nil {
			return nil, err
		}

		return asset, nil
	})
	if err != nil {
		return nil, err
	}

	asset := v.(*core.Asset)
	_ = s.cache.Set(id, asset)
	return asset, nil
}
