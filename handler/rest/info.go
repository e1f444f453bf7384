package rest

import (
	"net/http"

	"vault/core"
	"vault/handler/render"
)

func infoHandler(system *core.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, render.H{
			"members":         system.MemberIDs(),
			"threshold":       system.Threshold,
			"price_threshold": system.PriceThreshold,
			"vote_asset":      system.VoteAsset,
			"vote_amount":     system.VoteAmount,
			"stable_asset":    system.StableAssetID,
			"native_asset":    system.NativeAssetID,
			"genesis":         system.Genesis,
			"version":         system.Version,
		})
	}
}
