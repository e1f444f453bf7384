package payee

import (
	"context"

	"vault/core"
	"vault/pkg/mtg"

	"github.com/fox-one/pkg/logger"
	"github.com/gofrs/uuid"
)

// handle authorize event: the sender grants another user the right to
// operate their vault for one collateral currency.
func (w *Payee) handleAuthorizeEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "authorize")

	var grantee, collateralTrace uuid.UUID
	if _, err := mtg.Scan(body, &grantee, &collateralTrace); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeAuthorize, core.ErrUnknown)
	}

	collateral, err := w.requireCollateral(ctx, collateralTrace.String())
	if err != nil {
		return w.returnOrRefundError(ctx, err, output, userID, followID, core.ActionTypeAuthorize, core.ErrCollateralNotFound)
	}

	if err := w.authorizationStore.Grant(ctx, &core.Authorization{
		GrantorID:    userID,
		GranteeID:    grantee.String(),
		CollateralID: collateral.TraceID,
	}); err != nil {
		log.WithError(err).Errorln("authorizations.Grant")
		return err
	}

	log.Infoln("authorization granted")
	return w.journal(ctx, output, userID, followID, core.ActionTypeAuthorize, core.NewContextSnapshot(nil, collateral))
}

// handle unauthorize event
func (w *Payee) handleUnauthorizeEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "unauthorize")

	var grantee, collateralTrace uuid.UUID
	if _, err := mtg.Scan(body, &grantee, &collateralTrace); err != nil {
		log.WithError(err).Infoln("skip: invalid memo")
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeUnauthorize, core.ErrUnknown)
	}

	if err := w.authorizationStore.Revoke(ctx, userID, grantee.String(), collateralTrace.String()); err != nil {
		log.WithError(err).Errorln("authorizations.Revoke")
		return err
	}

	log.Infoln("authorization revoked")
	return w.journal(ctx, output, userID, followID, core.ActionTypeUnauthorize, core.NewContextSnapshot(nil, nil))
}

// handle unauthorize all event
func (w *Payee) handleUnauthorizeAllEvent(ctx context.Context, output *core.Output, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("worker", "unauthorize_all")

	if err := w.authorizationStore.RevokeAll(ctx, userID); err != nil {
		log.WithError(err).Errorln("authorizations.RevokeAll")
		return err
	}

	log.Infoln("all authorizations revoked")
	return w.journal(ctx, output, userID, followID, core.ActionTypeUnauthorizeAll, core.NewContextSnapshot(nil, nil))
}
