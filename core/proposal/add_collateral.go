package proposal

import (
	"vault/pkg/mtg"

	"github.com/gofrs/uuid"
)

// AddCollateralReq list a new collateral currency
type AddCollateralReq struct {
	Name    string `json:"name,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	AssetID string `json:"asset_id,omitempty"`
}

// MarshalBinary marshal req to binary
func (w AddCollateralReq) MarshalBinary() (data []byte, err error) {
	asset, err := uuid.FromString(w.AssetID)
	if err != nil {
		return nil, err
	}

	return mtg.Encode(w.Name, w.Symbol, asset)
}

// UnmarshalBinary unmarshal bytes to req
func (w *AddCollateralReq) UnmarshalBinary(data []byte) error {
	var name, symbol string
	var asset uuid.UUID

	if _, err := mtg.Scan(data, &name, &symbol, &asset); err != nil {
		return err
	}

	w.Name = name
	w.Symbol = symbol
	w.AssetID = asset.String()

	return nil
}
