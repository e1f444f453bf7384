package rest

import (
	"errors"
	"net/http"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"
	"vault/handler/request"

	"github.com/fox-one/pkg/store"
)

func poolsHandler(poolStore core.PoolStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pools, err := poolStore.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, pools)
	}
}

// poolHandler returns one pool, with the share of the authenticated
// user attached when a token is presented.
func poolHandler(poolStore core.PoolStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		assetID := param.String(r, "asset_id")
		pool, err := poolStore.Find(ctx, assetID)
		if err != nil {
			if store.IsErrNotFound(err) {
				render.NotFoundRequest(w, errors.New("pool not found"))
				return
			}

			render.BadRequest(w, err)
			return
		}

		body := render.H{"pool": pool}
		if user, ok := request.NewContext(ctx).GetUser(); ok {
			shares, err := poolStore.ListShares(ctx, user.UserID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}

			for _, share := range shares {
				if share.AssetID == assetID {
					body["share"] = share
					break
				}
			}
		}

		render.JSON(w, body)
	}
}
