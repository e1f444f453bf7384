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

// vaultsHandler lists the vaults of the authenticated user, or of the
// user named in the query when no token is presented.
func vaultsHandler(vaultStore core.VaultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			UserID string `json:"user_id"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := params.UserID
		if user, ok := request.NewContext(ctx).GetUser(); ok {
			userID = user.UserID
		}

		if userID == "" {
			render.BadRequest(w, errors.New("user_id required"))
			return
		}

		vaults, err := vaultStore.ListByUser(ctx, userID)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, vaults)
	}
}

func vaultHandler(vaultStore core.VaultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		trace := param.String(r, "trace_id")
		vault, err := vaultStore.FindByTrace(ctx, trace)
		if err != nil {
			if store.IsErrNotFound(err) {
				render.NotFoundRequest(w, errors.New("vault not found"))
				return
			}

			render.BadRequest(w, err)
			return
		}

		render.JSON(w, vault)
	}
}
