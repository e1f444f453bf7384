package core

import (
	"context"
	"database/sql"
	"time"

	"vault/pkg/mtg"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/pandodao/blst"
	"github.com/shopspring/decimal"
)

// Price a price feed accepted from the oracle group. One row per
// asset and block; PassedAt is set once the aggregate signature has
// been verified against the registered signers.
type Price struct {
	ID          int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	AssetID     string          `sql:"size:36;unique_index:idx_prices" json:"asset_id,omitempty"`
	BlockNumber int64           `sql:"default:0;unique_index:idx_prices" json:"block_number,omitempty"`
	Price       decimal.Decimal `sql:"type:decimal(20,8)" json:"price,omitempty"`
	Content     types.JSONText  `sql:"type:varchar(1024)" json:"content,omitempty"`
	Version     int64           `sql:"default:0" json:"version,omitempty"`
	PassedAt    sql.NullTime    `json:"passed_at,omitempty"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// PriceTicker price quote pulled from an external market data provider
type PriceTicker struct {
	Provider string          `json:"provider,omitempty"`
	Symbol   string          `json:"symbol,omitempty"`
	Price    decimal.Decimal `json:"price,omitempty"`
}

// CosiSignature aggregated oracle signature. Mask marks the signers
// that participated, bit N for the signer with index N.
type CosiSignature struct {
	Signature blst.Signature `json:"signature"`
	Mask      uint64         `json:"mask"`
}

// PriceData a signed price feed carried in a transfer memo
type PriceData struct {
	Timestamp int64           `json:"t,omitempty"`
	AssetID   string          `json:"a,omitempty"`
	Price     decimal.Decimal `json:"p,omitempty"`
	Signature CosiSignature   `json:"s,omitempty"`
}

// Payload the bytes the oracle signers sign
func (p PriceData) Payload() []byte {
	asset, _ := uuid.FromString(p.AssetID)
	b, _ := mtg.Encode(p.Timestamp, asset, p.Price)
	return b
}

// MarshalBinary implements encoding.BinaryMarshaler
func (p PriceData) MarshalBinary() (data []byte, err error) {
	asset, err := uuid.FromString(p.AssetID)
	if err != nil {
		return nil, err
	}

	return mtg.Encode(
		p.Timestamp,
		asset,
		p.Price,
		p.Signature.Mask,
		p.Signature.Signature.Bytes(),
	)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (p *PriceData) UnmarshalBinary(data []byte) error {
	var (
		timestamp int64
		asset     uuid.UUID
		price     decimal.Decimal
		mask      uint64
		sig       []byte
	)

	if _, err := mtg.Scan(data, &timestamp, &asset, &price, &mask, &sig); err != nil {
		return err
	}

	var signature blst.Signature
	if err := signature.FromBytes(sig); err != nil {
		return err
	}

	p.Timestamp = timestamp
	p.AssetID = asset.String()
	p.Price = price
	p.Signature = CosiSignature{Signature: signature, Mask: mask}
	return nil
}

type (
	// Signer an oracle signer with its position in the signature mask
	Signer struct {
		Index     uint64          `json:"index,omitempty"`
		VerifyKey *blst.PublicKey `json:"verify_key,omitempty"`
	}

	// Receiver the multisig receiver of a price transfer
	Receiver struct {
		Members   []string `json:"members,omitempty"`
		Threshold uint8    `json:"threshold"`
	}

	// PriceRequest describes a feed the oracle group should sign and
	// deliver, listed by the /price-requests endpoint
	PriceRequest struct {
		TraceID   string    `json:"trace_id,omitempty"`
		AssetID   string    `json:"asset_id,omitempty"`
		Symbol    string    `json:"symbol,omitempty"`
		Receiver  *Receiver `json:"receiver,omitempty"`
		Signers   []*Signer `json:"signers,omitempty"`
		Threshold uint8     `json:"threshold"`
	}
)

// OracleSigner a registered oracle signer. PublicKey is the base64
// encoded blst public key.
type OracleSigner struct {
	ID        int64     `sql:"PRIMARY_KEY" json:"id,omitempty"`
	UserID    string    `sql:"size:36;unique_index:idx_oracle_signers_user_id" json:"user_id,omitempty"`
	PublicKey string    `sql:"size:256" json:"public_key,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PriceStore price store interface
type PriceStore interface {
	Create(ctx context.Context, price *Price) error
	FindByAssetBlock(ctx context.Context, assetID string, blockNumber int64) (*Price, bool, error)
	FindLatest(ctx context.Context, assetID string) (*Price, error)
	Update(ctx context.Context, price *Price, version int64) error
}

// OracleSignerStore oracle signer store interface
type OracleSignerStore interface {
	Save(ctx context.Context, userID, publicKey string) error
	Delete(ctx context.Context, userID string) error
	FindAll(ctx context.Context) ([]*OracleSigner, error)
}

// PriceOracleService reads quotes from external market data providers
type PriceOracleService interface {
	PullPriceTicker(ctx context.Context, symbol string, t time.Time) (*PriceTicker, error)
	PullAllPriceTickers(ctx context.Context, t time.Time) ([]*PriceTicker, error)
}

// BlockService maps wall clock time onto the price feed block grid
type BlockService interface {
	GetBlock(ctx context.Context, t time.Time) (int64, error)
}
