package proposal

import (
	"vault/pkg/mtg"

	"github.com/gofrs/uuid"
)

// RegisterAssetReq bind an external resource id to a gateway asset
type RegisterAssetReq struct {
	AssetID    string `json:"asset_id,omitempty"`
	ResourceID string `json:"resource_id,omitempty"`
}

// MarshalBinary marshal req to binary
func (w RegisterAssetReq) MarshalBinary() (data []byte, err error) {
	asset, err := uuid.FromString(w.AssetID)
	if err != nil {
		return nil, err
	}

	return mtg.Encode(asset, w.ResourceID)
}

// UnmarshalBinary unmarshal bytes to req
func (w *RegisterAssetReq) UnmarshalBinary(data []byte) error {
	var asset uuid.UUID
	var resource string

	if _, err := mtg.Scan(data, &asset, &resource); err != nil {
		return err
	}

	w.AssetID = asset.String()
	w.ResourceID = resource

	return nil
}
