package payee

import (
	"context"
	"fmt"

	"vault/core"
	"vault/pkg/sysversion"

	"github.com/fox-one/pkg/logger"
)

func (w *Payee) loadSysVersion(ctx context.Context) error {
	log := logger.FromContext(ctx)

	ver, err := sysversion.ReadSysVersion(ctx, w.propertyStore)
	if err != nil {
		log.WithError(err).Errorln("sysversion.ReadSysVersion")
		return err
	}
	w.sysversion = ver
	return nil
}

func (w *Payee) validateNewSysVersion(ctx context.Context, ver int64) error {
	log := logger.FromContext(ctx)

	if ver <= w.sysversion {
		log.WithField("sysversion:new", ver).Infoln("skip")
		return errProposalSkip
	}

	if ver > core.SysVersion {
		err := fmt.Errorf("sys version: new version (%d) is greater than core.SysVersion (%d)", ver, core.SysVersion)
		log.WithError(err).Errorln("validateProposal fail")
		return err
	}
	return nil
}
