package rest

import (
	"net/http"

	"vault/core"
	"vault/handler/render"
)

func collateralsHandler(collateralStore core.CollateralStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		collaterals, err := collateralStore.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, collaterals)
	}
}
