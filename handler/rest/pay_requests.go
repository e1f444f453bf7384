package rest

import (
	"encoding/base64"
	"net/http"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"
	"vault/pkg/gateway"

	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

// payRequestsHandler registers a payment code for a caller who built
// the action memo themselves. The memo must already be encrypted for
// the group.
func payRequestsHandler(system *core.System, client *gateway.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			MemoBase64 string          `json:"memo_base64,omitempty" valid:"required"`
			AssetID    string          `json:"asset_id,omitempty"`
			Amount     decimal.Decimal `json:"amount,omitempty"`
			TraceID    string          `json:"trace_id,omitempty"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if _, err := base64.StdEncoding.DecodeString(params.MemoBase64); err != nil {
			render.BadRequest(w, err)
			return
		}

		assetID := system.VoteAsset
		amount := system.VoteAmount
		if params.AssetID != "" {
			assetID = params.AssetID
		}
		if params.Amount.IsPositive() {
			amount = params.Amount
		}

		trace := params.TraceID
		if trace == "" {
			trace = uuid.New()
		}

		payment, err := client.CreatePayment(ctx, &gateway.Payment{
			AssetID:   assetID,
			Amount:    amount,
			Memo:      params.MemoBase64,
			TraceID:   trace,
			Receivers: system.MemberIDs(),
			Threshold: system.Threshold,
		})
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{
			"url":     payment.CodeURL,
			"payment": payment,
		})
	}
}
