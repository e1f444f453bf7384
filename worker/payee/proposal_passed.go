package payee

import (
	"context"
	"encoding/json"

	"vault/core"
	"vault/core/proposal"
)

func (w *Payee) handlePassedProposal(ctx context.Context, p *core.Proposal, output *core.Output) error {
	switch p.Action {
	case core.ActionTypeProposalAddCollateral:
		var req proposal.AddCollateralReq
		if err := json.Unmarshal(p.Content, &req); err != nil {
			return err
		}
		return w.handleAddCollateralEvent(ctx, p, req, output)

	case core.ActionTypeProposalUpdateParams:
		var req proposal.UpdateParamsReq
		if err := json.Unmarshal(p.Content, &req); err != nil {
			return err
		}
		return w.handleUpdateParamsEvent(ctx, p, req, output)

	case core.ActionTypeProposalRegisterAsset:
		var req proposal.RegisterAssetReq
		if err := json.Unmarshal(p.Content, &req); err != nil {
			return err
		}
		return w.handleRegisterAssetEvent(ctx, p, req, output)

	case core.ActionTypeProposalAddOracleSigner:
		var req proposal.AddOracleSignerReq
		if err := json.Unmarshal(p.Content, &req); err != nil {
			return err
		}
		return w.handleAddOracleSignerEvent(ctx, p, req, output)

	case core.ActionTypeProposalRemoveOracleSigner:
		var req proposal.RemoveOracleSignerReq
		if err := json.Unmarshal(p.Content, &req); err != nil {
			return err
		}
		return w.handleRemoveOracleSignerEvent(ctx, p, req, output)

	case core.ActionTypeProposalSetProperty:
		var req proposal.SetProperty
		if err := json.Unmarshal(p.Content, &req); err != nil {
			return err
		}
		return w.setProperty(ctx, output, p, req)

	case core.ActionTypeProposalWithdraw:
		var req proposal.WithdrawReq
		if err := json.Unmarshal(p.Content, &req); err != nil {
			return err
		}
		return w.handleWithdrawEvent(ctx, p, req, output)

	case core.ActionTypeProposalShutdown:
		return w.handleShutdownEvent(ctx, p, output)

	case core.ActionTypeProposalOpenRefund:
		return w.handleOpenRefundEvent(ctx, p, output)
	}

	return nil
}
