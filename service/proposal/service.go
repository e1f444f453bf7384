package proposal

import (
	"context"
	"encoding/base64"

	"vault/core"
	"vault/pkg/gateway"
	"vault/pkg/mtg"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	gouuid "github.com/gofrs/uuid"
)

// New new proposal service
func New(system *core.System, client *gateway.Client) core.ProposalService {
	return &service{
		system: system,
		client: client,
	}
}

type service struct {
	system *core.System
	client *gateway.Client
}

func (s *service) ProposalCreated(ctx context.Context, p *core.Proposal, by string, sysver int64) error {
	log := logger.FromContext(ctx).WithField("proposal", p.TraceID)

	items, err := s.ListItems(ctx, p)
	if err != nil {
		return err
	}

	voteURL, err := s.requestVoteURL(ctx, p)
	if err != nil {
		log.WithError(err).Errorln("request vote payment failed")
	}

	log.Infof("proposal %q created by %s\n%s", p.Action, by, renderProposal(p, items, voteURL))
	return nil
}

// ProposalApproved announce a new vote on the proposal
func (s *service) ProposalApproved(ctx context.Context, p *core.Proposal, by string, sysver int64) error {
	logger.FromContext(ctx).
		WithField("proposal", p.TraceID).
		Infof("%s", renderApprovedBy(p, by))
	return nil
}

// ProposalPassed announce the proposal reached the vote threshold
func (s *service) ProposalPassed(ctx context.Context, p *core.Proposal, sysver int64) error {
	logger.FromContext(ctx).
		WithField("proposal", p.TraceID).
		Infof("proposal %q passed with %d votes", p.Action, len(p.Votes))
	return nil
}

// requestVoteURL registers the payment a member pays to vote on the
// proposal and returns its code url
func (s *service) requestVoteURL(ctx context.Context, p *core.Proposal) (string, error) {
	trace, err := gouuid.FromString(p.TraceID)
	if err != nil {
		return "", err
	}

	client, err := gouuid.FromString(s.system.ClientID)
	if err != nil {
		return "", err
	}

	memo, err := mtg.Encode(client, int(core.ActionTypeProposalVote), trace)
	if err != nil {
		return "", err
	}

	payment, err := s.client.CreatePayment(ctx, &gateway.Payment{
		AssetID:   s.system.VoteAsset,
		Amount:    s.system.VoteAmount,
		TraceID:   uuid.Modify(p.TraceID, s.system.ClientID),
		Memo:      base64.StdEncoding.EncodeToString(memo),
		Receivers: s.system.MemberIDs(),
		Threshold: s.system.Threshold,
	})
	if err != nil {
		return "", err
	}

	return payment.CodeURL, nil
}
