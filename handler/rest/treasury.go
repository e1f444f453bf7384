package rest

import (
	"net/http"

	"vault/core"
	"vault/handler/render"
)

func treasuryHandler(treasuryStore core.TreasuryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		treasury, err := treasuryStore.Find(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		collaterals, err := treasuryStore.ListCollaterals(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{
			"treasury":    treasury,
			"collaterals": collaterals,
		})
	}
}
