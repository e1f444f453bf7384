package rest

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"vault/core"
	"vault/handler/render"

	"github.com/fox-one/pkg/uuid"
	"github.com/pandodao/blst"
)

// priceRequestsHandler tells the oracle gateways which collateral
// currencies need a fresh price. The trace is stable inside a ten
// minute window so every gateway resolves the same request id.
func priceRequestsHandler(system *core.System, collateralStore core.CollateralStore, oracleSignerStore core.OracleSignerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		collaterals, err := collateralStore.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		members := system.MemberIDs()

		rows, err := oracleSignerStore.FindAll(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		signers := make([]*core.Signer, 0, len(rows))
		for idx, s := range rows {
			bts, err := base64.StdEncoding.DecodeString(s.PublicKey)
			if err != nil {
				render.BadRequest(w, err)
				return
			}

			pub := blst.PublicKey{}
			if err := pub.FromBytes(bts); err != nil {
				render.BadRequest(w, err)
				return
			}

			signers = append(signers, &core.Signer{
				Index:     uint64(idx) + 1,
				VerifyKey: &pub,
			})
		}

		requests := make([]*core.PriceRequest, 0)
		for _, c := range collaterals {
			if time.Now().After(c.PriceUpdatedAt.Add(10 * time.Minute)) {
				requests = append(requests, &core.PriceRequest{
					TraceID: uuid.Modify(c.AssetID, fmt.Sprintf("price-request:%s:%d", system.ClientID, time.Now().Unix()/600)),
					AssetID: c.AssetID,
					Symbol:  c.Symbol,
					Receiver: &core.Receiver{
						Threshold: system.Threshold,
						Members:   members,
					},
					Signers:   signers,
					Threshold: system.PriceThreshold,
				})
			}
		}

		render.JSON(w, requests)
	}
}
