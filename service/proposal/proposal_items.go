package proposal

import (
	"context"
	"encoding/json"

	"vault/core"
	"vault/core/proposal"
)

func (s *service) fetchAssetSymbol(ctx context.Context, assetID string) string {
	asset, err := s.client.ReadAsset(ctx, assetID)
	if err != nil {
		return assetID
	}

	return asset.Symbol
}

func (s *service) ListItems(ctx context.Context, p *core.Proposal) ([]core.ProposalItem, error) {
	var items []core.ProposalItem

	switch p.Action {
	case core.ActionTypeProposalAddCollateral:
		var action proposal.AddCollateralReq
		if err := json.Unmarshal(p.Content, &action); err != nil {
			return nil, err
		}

		items = []core.ProposalItem{
			{Key: "name", Value: action.Name},
			{Key: "symbol", Value: action.Symbol},
			{Key: "asset", Value: action.AssetID, Hint: s.fetchAssetSymbol(ctx, action.AssetID)},
		}
	case core.ActionTypeProposalUpdateParams:
		var action proposal.UpdateParamsReq
		if err := json.Unmarshal(p.Content, &action); err != nil {
			return nil, err
		}

		items = []core.ProposalItem{
			{Key: "collateral", Value: action.CollateralID},
			{Key: "stability_fee", Value: action.StabilityFee.String()},
			{Key: "liquidation_ratio", Value: action.LiquidationRatio.String()},
			{Key: "liquidation_penalty", Value: action.LiquidationPenalty.String()},
			{Key: "required_ratio", Value: action.RequiredRatio.String()},
			{Key: "debit_ceiling", Value: action.DebitCeiling.String()},
			{Key: "auction_size", Value: action.AuctionSize.String()},
		}
	case core.ActionTypeProposalRegisterAsset:
		var action proposal.RegisterAssetReq
		if err := json.Unmarshal(p.Content, &action); err != nil {
			return nil, err
		}

		items = []core.ProposalItem{
			{Key: "asset", Value: action.AssetID, Hint: s.fetchAssetSymbol(ctx, action.AssetID)},
			{Key: "resource", Value: action.ResourceID},
		}
	case core.ActionTypeProposalAddOracleSigner:
		var action proposal.AddOracleSignerReq
		if err := json.Unmarshal(p.Content, &action); err != nil {
			return nil, err
		}

		items = []core.ProposalItem{
			{Key: "signer", Value: action.UserID},
			{Key: "public_key", Value: action.PublicKey},
		}
	case core.ActionTypeProposalRemoveOracleSigner:
		var action proposal.RemoveOracleSignerReq
		if err := json.Unmarshal(p.Content, &action); err != nil {
			return nil, err
		}

		items = []core.ProposalItem{
			{Key: "signer", Value: action.UserID},
		}
	case core.ActionTypeProposalSetProperty:
		var action proposal.SetProperty
		if err := json.Unmarshal(p.Content, &action); err != nil {
			return nil, err
		}

		items = []core.ProposalItem{
			{Key: action.Key, Value: action.Value},
		}
	case core.ActionTypeProposalWithdraw:
		var action proposal.WithdrawReq
		if err := json.Unmarshal(p.Content, &action); err != nil {
			return nil, err
		}

		items = []core.ProposalItem{
			{Key: "asset", Value: action.Asset, Hint: s.fetchAssetSymbol(ctx, action.Asset)},
			{Key: "receiver", Value: action.Opponent},
			{Key: "amount", Value: action.Amount.String()},
		}
	case core.ActionTypeProposalShutdown, core.ActionTypeProposalOpenRefund:
		// no payload
	}

	return items, nil
}
