package payee

import (
	"context"

	"vault/core"
	"vault/core/proposal"

	"github.com/fox-one/pkg/logger"
)

func (w *Payee) handleAddOracleSignerEvent(ctx context.Context, p *core.Proposal, req proposal.AddOracleSignerReq, output *core.Output) error {
	log := logger.FromContext(ctx).WithField("handler", "add_oracle_signer")

	if err := w.oracleSignerStore.Save(ctx, req.UserID, req.PublicKey); err != nil {
		log.WithError(err).Errorln("oracles.Save")
		return err
	}

	log.Infof("oracle signer %s added", req.UserID)
	return nil
}

func (w *Payee) handleRemoveOracleSignerEvent(ctx context.Context, p *core.Proposal, req proposal.RemoveOracleSignerReq, output *core.Output) error {
	log := logger.FromContext(ctx).WithField("handler", "remove_oracle_signer")

	if err := w.oracleSignerStore.Delete(ctx, req.UserID); err != nil {
		log.WithError(err).Errorln("oracles.Delete")
		return err
	}

	log.Infof("oracle signer %s removed", req.UserID)
	return nil
}
