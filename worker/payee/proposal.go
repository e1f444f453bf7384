package payee

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"

	"vault/core"
	"vault/core/proposal"
	"vault/pkg/mtg"
	"vault/pkg/sysversion"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/gofrs/uuid"
)

var errProposalSkip = errors.New("skip proposal")

func (w *Payee) handleProposalAction(ctx context.Context, output *core.Output, member *core.Member, action core.ActionType, body []byte) error {
	log := logger.FromContext(ctx).WithField("action", action.String())
	ctx = logger.WithContext(ctx, log)

	switch action {
	case core.ActionTypeProposalMake:
		return w.handleMakeProposal(ctx, output, body)
	case core.ActionTypeProposalShout:
		return w.handleShoutProposal(ctx, output, body)
	case core.ActionTypeProposalVote:
		return w.handleVoteProposal(ctx, output, body)
	}

	return nil
}

func (w *Payee) handleMakeProposal(ctx context.Context, output *core.Output, message []byte) error {
	log := logger.FromContext(ctx).WithField("handler", "proposal_make")

	if !w.system.IsMember(output.Sender) && !w.system.IsAdmin(output.Sender) {
		return nil
	}

	var action core.ActionType
	message, err := mtg.Scan(message, &action)
	if err != nil {
		log.WithError(err).Errorln("scan proposal action failed")
		return nil
	}

	p, err := w.buildProposal(ctx, output, action, message)
	if p == nil || err != nil {
		return err
	}

	if err := w.proposalStore.Create(ctx, p); err != nil {
		log.WithError(err).Errorln("proposals.Create")
		return err
	}

	if w.system.IsMember(output.Sender) {
		if err := w.proposalService.ProposalCreated(ctx, p, output.Sender, w.sysversion); err != nil {
			log.WithError(err).Errorln("proposalService.ProposalCreated")
			return err
		}
	} else {
		// sponsored by an admin: the node votes on their behalf
		if err := w.forwardProposal(ctx, output, p, core.ActionTypeProposalShout); err != nil {
			return err
		}
	}

	return nil
}

func (w *Payee) handleShoutProposal(ctx context.Context, output *core.Output, message []byte) error {
	log := logger.FromContext(ctx).WithField("handler", "proposal_shout")

	if !w.system.IsMember(output.Sender) {
		return nil
	}

	var trace uuid.UUID
	if _, err := mtg.Scan(message, &trace); err != nil {
		log.WithError(err).Errorln("scan proposal trace failed")
		return nil
	}

	p, isNotFound, err := w.proposalStore.Find(ctx, trace.String())
	if err != nil {
		if isNotFound {
			log.WithError(err).Debugln("proposal not found")
			return nil
		}

		log.WithError(err).Errorln("proposals.Find")
		return err
	}

	if err := w.proposalService.ProposalCreated(ctx, p, output.Sender, w.sysversion); err != nil {
		log.WithError(err).Errorln("proposalService.ProposalCreated")
		return err
	}
	return nil
}

func (w *Payee) handleVoteProposal(ctx context.Context, output *core.Output, message []byte) error {
	log := logger.FromContext(ctx).WithField("handler", "proposal_vote")

	var trace uuid.UUID
	if _, err := mtg.Scan(message, &trace); err != nil {
		log.WithError(err).Errorln("scan proposal trace failed")
		return nil
	}

	p, isNotFound, err := w.proposalStore.Find(ctx, trace.String())
	if err != nil {
		if isNotFound {
			log.WithError(err).Debugln("proposal not found")
			return nil
		}

		log.WithError(err).Errorln("proposals.Find")
		return err
	}

	if w.system.IsAdmin(output.Sender) {
		return w.forwardProposal(ctx, output, p, core.ActionTypeProposalVote)
	}

	if !w.system.IsMember(output.Sender) {
		return nil
	}

	if err := w.validateProposal(ctx, p); err != nil {
		if err == errProposalSkip {
			return nil
		}
		return err
	}

	if handled := p.PassedAt.Valid || govalidator.IsIn(output.Sender, p.Votes...); !handled {
		p.Votes = append(p.Votes, output.Sender)

		if err := w.proposalService.ProposalApproved(ctx, p, output.Sender, w.sysversion); err != nil {
			log.WithError(err).Errorln("proposalService.ProposalApproved")
			return err
		}

		if len(p.Votes) >= int(w.system.Threshold) {
			p.PassedAt = sql.NullTime{
				Time:  output.CreatedAt,
				Valid: true,
			}

			if err := w.proposalService.ProposalPassed(ctx, p, w.sysversion); err != nil {
				log.WithError(err).Errorln("proposalService.ProposalPassed")
				return err
			}

			// apply before the vote is journaled: every passed handler
			// is idempotent, so a replay before the update lands here
			// again without doubling its effects
			if err := w.handlePassedProposal(ctx, p, output); err != nil {
				return err
			}
		}

		if err := w.proposalStore.Update(ctx, p, p.Version+1); err != nil {
			log.WithError(err).Errorln("proposals.Update")
			return err
		}
	}

	return nil
}

func (w *Payee) validateProposal(ctx context.Context, p *core.Proposal) error {
	log := logger.FromContext(ctx).WithField("action", p.Action.String())

	switch p.Action {
	case core.ActionTypeProposalSetProperty:
		var content proposal.SetProperty
		if err := json.Unmarshal(p.Content, &content); err != nil {
			log.WithError(err).Errorln("unmarshal SetProperty failed")
			return errProposalSkip
		}

		switch content.Key {
		case "":
			log.Infoln("skip: empty key")
			return errProposalSkip

		case sysversion.SysVersionKey:
			ver, err := strconv.ParseInt(content.Value, 10, 64)
			if err != nil {
				log.WithError(err).Infoln("skip")
				return errProposalSkip
			}

			return w.validateNewSysVersion(ctx, ver)
		}
	}
	return nil
}

func (w *Payee) forwardProposal(ctx context.Context, output *core.Output, p *core.Proposal, action core.ActionType) error {
	pid, _ := uuid.FromString(p.TraceID)
	cid, _ := uuid.FromString(w.system.ClientID)
	data, _ := mtg.Encode(cid, int(action), pid)

	transfer := &core.Transfer{
		TraceID:   uuidutil.Modify(output.TraceID, p.TraceID+w.system.ClientID),
		AssetID:   w.system.VoteAsset,
		Amount:    w.system.VoteAmount,
		Threshold: w.system.Threshold,
		Opponents: w.system.MemberIDs(),
		Memo:      base64.StdEncoding.EncodeToString(data),
	}

	if err := w.walletStore.CreateTransfers(ctx, []*core.Transfer{transfer}); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("walletStore.CreateTransfers")
		return err
	}

	return nil
}

func (w *Payee) buildProposal(ctx context.Context, output *core.Output, action core.ActionType, body []byte) (*core.Proposal, error) {
	log := logger.FromContext(ctx).WithField("action", action.String())

	p := &core.Proposal{
		TraceID: output.TraceID,
		Creator: output.Sender,
		AssetID: output.AssetID,
		Amount:  output.Amount,
		Action:  action,
	}

	var content interface {
		UnmarshalBinary(data []byte) error
	}

	switch action {
	case core.ActionTypeProposalAddCollateral:
		content = &proposal.AddCollateralReq{}
	case core.ActionTypeProposalUpdateParams:
		content = &proposal.UpdateParamsReq{}
	case core.ActionTypeProposalRegisterAsset:
		content = &proposal.RegisterAssetReq{}
	case core.ActionTypeProposalAddOracleSigner:
		content = &proposal.AddOracleSignerReq{}
	case core.ActionTypeProposalRemoveOracleSigner:
		content = &proposal.RemoveOracleSignerReq{}
	case core.ActionTypeProposalSetProperty:
		content = &proposal.SetProperty{}
	case core.ActionTypeProposalWithdraw:
		content = &proposal.WithdrawReq{}
	case core.ActionTypeProposalShutdown:
		content = &proposal.ShutdownReq{}
	case core.ActionTypeProposalOpenRefund:
		content = &proposal.OpenRefundReq{}
	default:
		log.Infoln("skip: unknown proposal action")
		return nil, nil
	}

	if err := content.UnmarshalBinary(body); err != nil {
		log.WithError(err).Infoln("skip: invalid proposal content")
		return nil, nil
	}

	bs, err := json.Marshal(content)
	if err != nil {
		log.WithError(err).Errorln("marshal proposal content")
		return nil, err
	}
	p.Content = bs

	return p, nil
}
