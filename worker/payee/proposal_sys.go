package payee

import (
	"context"

	"vault/core"
	"vault/core/proposal"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
)

func (w *Payee) setProperty(ctx context.Context, output *core.Output, p *core.Proposal, req proposal.SetProperty) error {
	log := logger.FromContext(ctx).WithField("handler", "set_property")

	if req.Key == "" {
		log.Infoln("skip: empty key")
		return nil
	}

	if err := w.propertyStore.Save(ctx, req.Key, req.Value); err != nil {
		log.WithError(err).Errorln("property.Save")
		return err
	}

	log.Infof("property %s set to %s", req.Key, req.Value)
	return nil
}

func (w *Payee) handleRegisterAssetEvent(ctx context.Context, p *core.Proposal, req proposal.RegisterAssetReq, output *core.Output) error {
	log := logger.FromContext(ctx).WithField("handler", "register_asset")

	if _, err := w.assetStore.Find(ctx, req.AssetID); err != nil {
		if !store.IsErrNotFound(err) {
			log.WithError(err).Errorln("assets.Find")
			return err
		}

		if err := w.assetStore.Save(ctx, &core.Asset{ID: req.AssetID}); err != nil {
			log.WithError(err).Errorln("assets.Save")
			return err
		}
	}

	if err := w.assetStore.Register(ctx, req.ResourceID, req.AssetID); err != nil {
		if err == core.ErrAssetAlreadyMapped {
			log.Infoln("skip: resource already mapped")
			return nil
		}

		log.WithError(err).Errorln("assets.Register")
		return err
	}

	log.Infof("resource %s bound to asset %s", req.ResourceID, req.AssetID)
	return nil
}
