package payee

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"math/bits"
	"time"

	"vault/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store"
	"github.com/pandodao/blst"
	"github.com/sirupsen/logrus"
)

// handlePriceEvent accumulates signed price fragments from the oracle
// group. Fragments for the same asset and block are merged into one
// Price row; once enough distinct signers have contributed, the
// aggregate signature is verified and the collateral price moves.
func (w *Payee) handlePriceEvent(ctx context.Context, output *core.Output, priceData *core.PriceData) error {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"event":     "price-oracle",
		"asset":     priceData.AssetID,
		"price":     priceData.Price,
		"timestamp": time.Unix(priceData.Timestamp, 0),
	})
	ctx = logger.WithContext(ctx, log)

	treasury, err := w.treasuryStore.Find(ctx)
	if err != nil {
		log.WithError(err).Errorln("treasuries.Find")
		return err
	}

	// prices stay locked after shutdown so settlement uses one grid
	if treasury.Shutdown() {
		log.Debugln("skip: shut down")
		return nil
	}

	collateral, err := w.collateralStore.FindByAsset(ctx, priceData.AssetID)
	if err != nil {
		if store.IsErrNotFound(err) {
			log.Debugln("skip: not a listed collateral")
			return nil
		}

		log.WithError(err).Errorln("collaterals.FindByAsset")
		return err
	}

	at := time.Unix(priceData.Timestamp, 0)
	if !at.After(collateral.PriceUpdatedAt) {
		log.Debugln("skip: feed older than the current price")
		return nil
	}

	signers, err := w.listOracleSigners(ctx)
	if err != nil {
		return err
	}

	// a fragment must carry at least one valid signature before it is
	// allowed into the pool
	if !verifyPriceData(priceData, signers, 1) {
		log.Errorln("price fragment verify failed")
		return nil
	}

	price, isNotFound, err := w.priceStore.FindByAssetBlock(ctx, priceData.AssetID, priceData.Timestamp)
	if err != nil && !isNotFound {
		log.WithError(err).Errorln("prices.FindByAssetBlock")
		return err
	}

	if isNotFound {
		content, _ := json.Marshal(priceData)
		price = &core.Price{
			AssetID:     priceData.AssetID,
			BlockNumber: priceData.Timestamp,
			Price:       priceData.Price,
			Content:     content,
		}

		if err := w.priceStore.Create(ctx, price); err != nil {
			log.WithError(err).Errorln("prices.Create")
			return err
		}
	} else {
		if price.PassedAt.Valid {
			log.Debugln("skip: block already passed")
			return nil
		}

		merged, err := mergePriceData(price, priceData)
		if err != nil {
			log.WithError(err).Errorln("merge price fragment")
			return nil
		}

		if merged {
			if err := w.priceStore.Update(ctx, price, price.Version+1); err != nil {
				log.WithError(err).Errorln("prices.Update")
				return err
			}

			price.Version += 1
		}
	}

	var data core.PriceData
	if err := json.Unmarshal(price.Content, &data); err != nil {
		log.WithError(err).Errorln("unmarshal price content")
		return nil
	}

	if signerCount(&data, signers) < int(w.system.PriceThreshold) {
		log.Debugln("fragment stashed, waiting for more signers")
		return nil
	}

	if !verifyPriceData(&data, signers, int(w.system.PriceThreshold)) {
		log.Errorln("aggregate price verify failed")
		return nil
	}

	price.PassedAt = sql.NullTime{Time: output.CreatedAt, Valid: true}
	if err := w.priceStore.Update(ctx, price, price.Version+1); err != nil {
		log.WithError(err).Errorln("prices.Update")
		return err
	}

	collateral.Price = data.Price
	collateral.PriceUpdatedAt = at
	if err := w.collateralStore.Update(ctx, collateral, collateral.Version+1); err != nil {
		log.WithError(err).Errorln("collaterals.Update")
		return err
	}

	log.Infoln("price updated")
	return nil
}

func (w *Payee) listOracleSigners(ctx context.Context) ([]*core.Signer, error) {
	log := logger.FromContext(ctx)

	ss, err := w.oracleSignerStore.FindAll(ctx)
	if err != nil {
		log.WithError(err).Errorln("oracles.FindAll")
		return nil, err
	}

	signers := make([]*core.Signer, 0, len(ss))
	for idx, s := range ss {
		bts, err := base64.StdEncoding.DecodeString(s.PublicKey)
		if err != nil {
			log.WithError(err).Errorln("invalid oracle signer key:", s.UserID)
			continue
		}

		pub := blst.PublicKey{}
		if err := pub.FromBytes(bts); err != nil {
			log.WithError(err).Errorln("invalid oracle signer key:", s.UserID)
			continue
		}

		signers = append(signers, &core.Signer{
			Index:     uint64(idx) + 1,
			VerifyKey: &pub,
		})
	}

	return signers, nil
}

// mergePriceData folds a new fragment into the stored price row.
// Fragments only combine when they agree on the price and their signer
// masks are disjoint; anything else leaves the row untouched.
func mergePriceData(price *core.Price, fragment *core.PriceData) (bool, error) {
	var data core.PriceData
	if err := json.Unmarshal(price.Content, &data); err != nil {
		return false, err
	}

	if !data.Price.Equal(fragment.Price) {
		return false, nil
	}

	if data.Signature.Mask&fragment.Signature.Mask != 0 {
		return false, nil
	}

	data.Signature = core.CosiSignature{
		Signature: *blst.AggregateSignatures([]*blst.Signature{
			&data.Signature.Signature,
			&fragment.Signature.Signature,
		}),
		Mask: data.Signature.Mask | fragment.Signature.Mask,
	}

	content, err := json.Marshal(data)
	if err != nil {
		return false, err
	}

	price.Content = content
	return true, nil
}

func signerCount(p *core.PriceData, signers []*core.Signer) int {
	var mask uint64
	for _, signer := range signers {
		mask |= 0x1 << signer.Index
	}

	return bits.OnesCount64(p.Signature.Mask & mask)
}

func verifyPriceData(p *core.PriceData, signers []*core.Signer, threshold int) bool {
	var pubs []*blst.PublicKey
	for _, signer := range signers {
		if p.Signature.Mask&(0x1<<signer.Index) != 0 {
			pubs = append(pubs, signer.VerifyKey)
		}
	}

	return len(pubs) >= threshold &&
		blst.AggregatePublicKeys(pubs).Verify(p.Payload(), &p.Signature.Signature)
}
