package rest

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"
	"vault/pkg/gateway"
	"vault/pkg/mtg"

	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// actionsHandler builds the encrypted memo for a user action and
// registers the payment carrying it. The caller names the action by
// its wire name and supplies the ids the action scans from the memo.
func actionsHandler(system *core.System, client *gateway.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Action   string          `json:"action,omitempty" valid:"required"`
			FollowID string          `json:"follow_id,omitempty"`
			AssetID  string          `json:"asset_id,omitempty"`
			Amount   decimal.Decimal `json:"amount,omitempty"`
			TraceID  string          `json:"trace_id,omitempty"`

			VaultID         string          `json:"vault_id,omitempty"`
			CollateralID    string          `json:"collateral_id,omitempty"`
			AuctionID       string          `json:"auction_id,omitempty"`
			UserID          string          `json:"user_id,omitempty"`
			DebitDelta      decimal.Decimal `json:"debit_delta,omitempty"`
			CollateralDelta decimal.Decimal `json:"collateral_delta,omitempty"`
			Bid             decimal.Decimal `json:"bid,omitempty"`
			FillAssetID     string          `json:"fill_asset_id,omitempty"`
			MinFill         decimal.Decimal `json:"min_fill,omitempty"`
			Shares          decimal.Decimal `json:"shares,omitempty"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		action, ok := core.ParseActionType(params.Action)
		if !ok || action.IsProposalAction() {
			render.BadRequest(w, fmt.Errorf("unknown action %q", params.Action))
			return
		}

		follow, err := uuid.FromString(params.FollowID)
		if err != nil {
			follow, _ = uuid.NewV4()
		}

		values := []interface{}{int(action), follow}
		switch action {
		case core.ActionTypeVaultDeposit:
			collateral, err := uuid.FromString(params.CollateralID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			values = append(values, collateral, params.DebitDelta)
		case core.ActionTypeVaultAdjust:
			vault, err := uuid.FromString(params.VaultID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			values = append(values, vault, params.CollateralDelta, params.DebitDelta)
		case core.ActionTypeVaultRepay, core.ActionTypeVaultTransfer, core.ActionTypeVaultClose:
			vault, err := uuid.FromString(params.VaultID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			values = append(values, vault)
		case core.ActionTypeAuthorize, core.ActionTypeUnauthorize:
			grantee, err := uuid.FromString(params.UserID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			collateral, err := uuid.FromString(params.CollateralID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			values = append(values, grantee, collateral)
		case core.ActionTypeUnauthorizeAll, core.ActionTypeRefundCollaterals:
			// no payload beyond the action itself
		case core.ActionTypeAuctionBid:
			auction, err := uuid.FromString(params.AuctionID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			values = append(values, auction, params.Bid)
		case core.ActionTypeSwapToken:
			fill, err := uuid.FromString(params.FillAssetID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			values = append(values, fill, params.MinFill)
		case core.ActionTypeAddLiquidity:
			token, err := uuid.FromString(params.FillAssetID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			values = append(values, token)
		case core.ActionTypeRemoveLiquidity:
			token, err := uuid.FromString(params.FillAssetID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			values = append(values, token, params.Shares)
		default:
			render.BadRequest(w, fmt.Errorf("action %q is not payable", params.Action))
			return
		}

		body, err := mtg.Encode(values...)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		// the sender key is throwaway, only the group needs to open
		// the box
		_, senderKey, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		sealed, err := mtg.Encrypt(body, senderKey, system.PrivateKey.Public().(ed25519.PublicKey))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		assetID := params.AssetID
		if assetID == "" {
			assetID = system.VoteAsset
		}
		amount := params.Amount
		if !amount.IsPositive() {
			amount = system.VoteAmount
		}

		trace := params.TraceID
		if trace == "" {
			trace = uuidutil.New()
		}

		payment, err := client.CreatePayment(ctx, &gateway.Payment{
			AssetID:   assetID,
			Amount:    amount,
			Memo:      base64.StdEncoding.EncodeToString(sealed),
			TraceID:   trace,
			Receivers: system.MemberIDs(),
			Threshold: system.Threshold,
		})
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{
			"url":       payment.CodeURL,
			"follow_id": follow.String(),
			"payment":   payment,
		})
	}
}
