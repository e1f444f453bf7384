package gateway

import (
	"time"

	"github.com/shopspring/decimal"
)

// UTXO an output paid to the group, as reported by the gateway
type UTXO struct {
	TraceID   string          `json:"trace_id"`
	AssetID   string          `json:"asset_id"`
	Amount    decimal.Decimal `json:"amount"`
	Sender    string          `json:"sender,omitempty"`
	Memo      string          `json:"memo,omitempty"`
	State     string          `json:"state,omitempty"`
	SignedTx  string          `json:"signed_tx,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Asset asset metadata resolved by the gateway
type Asset struct {
	AssetID string `json:"asset_id"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Logo    string `json:"logo,omitempty"`
	ChainID string `json:"chain_id,omitempty"`
}

// User the gateway user bound to an access token
type User struct {
	ID     string `json:"user_id"`
	Name   string `json:"full_name,omitempty"`
	Avatar string `json:"avatar_url,omitempty"`
	Lang   string `json:"lang,omitempty"`
}

// MultisigRequest asks the gateway to assemble a transaction spending
// the listed outputs
type MultisigRequest struct {
	TraceID   string          `json:"trace_id"`
	AssetID   string          `json:"asset_id"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo,omitempty"`
	Receivers []string        `json:"receivers"`
	Threshold uint8           `json:"threshold"`
	UTXOs     []string        `json:"utxos"`
}

// MultisigStatePending more member signatures are required
const MultisigStatePending = "pending"

// MultisigStateSigned the signature threshold has been reached
const MultisigStateSigned = "signed"

// Multisig an in-flight multisig transaction on the gateway
type Multisig struct {
	RequestID      string `json:"request_id"`
	State          string `json:"state"`
	RawTransaction string `json:"raw_transaction"`
	// Payload the bytes each member signs
	Payload []byte `json:"payload,omitempty"`
}

// Transaction a transaction accepted by the gateway chain
type Transaction struct {
	Hash       string    `json:"hash"`
	Raw        string    `json:"raw,omitempty"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// Payment a payment code created for a user to pay the group
type Payment struct {
	CodeID    string          `json:"code_id"`
	CodeURL   string          `json:"code_url"`
	AssetID   string          `json:"asset_id"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo,omitempty"`
	TraceID   string          `json:"trace_id"`
	Receivers []string        `json:"receivers"`
	Threshold uint8           `json:"threshold"`
	Status    string          `json:"status,omitempty"`
}
