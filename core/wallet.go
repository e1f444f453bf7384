package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	// OutputStateUnspent the output is available for spending
	OutputStateUnspent = "unspent"
	// OutputStateSigned the output has been signed into a raw
	// transaction that is not confirmed yet
	OutputStateSigned = "signed"
	// OutputStateSpent the output has been consumed on chain
	OutputStateSpent = "spent"
)

// Output a multisig utxo received by the gateway group
type Output struct {
	ID        int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
	TraceID   string          `sql:"size:36" json:"trace_id,omitempty"`
	AssetID   string          `sql:"size:36" json:"asset_id,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(64,8)" json:"amount,omitempty"`
	Sender    string          `sql:"size:36" json:"sender,omitempty"`
	Memo      string          `sql:"size:320" json:"memo,omitempty"`
	State     string          `sql:"size:24" json:"state,omitempty"`
	SpentBy   string          `sql:"size:36" json:"spent_by,omitempty"`
	SignedTx  string          `sql:"type:text" json:"signed_tx,omitempty"`
}

// TransferStatus transfer status
type TransferStatus int

const (
	// TransferStatusPending awaiting outputs to be assigned
	TransferStatusPending TransferStatus = iota
	// TransferStatusAssigned outputs reserved, awaiting signing
	TransferStatusAssigned
	// TransferStatusHandled signed and queued for the gateway
	TransferStatusHandled
	// TransferStatusPassed confirmed spent on chain
	TransferStatusPassed
)

// Transfer a queued outbound payment. TraceID dedupes replays, so
// handlers may create the same transfer any number of times.
type Transfer struct {
	ID        int64           `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
	TraceID   string          `sql:"size:36;unique_index:idx_transfers_trace_id" json:"trace_id,omitempty"`
	Version   int64           `json:"version,omitempty"`
	AssetID   string          `sql:"size:36" json:"asset_id,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(64,8)" json:"amount,omitempty"`
	Memo      string          `sql:"size:200" json:"memo,omitempty"`
	Status    TransferStatus  `sql:"default:0" json:"status,omitempty"`
	Threshold uint8           `json:"threshold,omitempty"`
	Opponents pq.StringArray  `sql:"type:varchar(1024)" json:"opponents,omitempty"`
}

// RawTransaction a signed transaction waiting to be submitted to the
// gateway
type RawTransaction struct {
	ID        int64     `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	TraceID   string    `sql:"size:36;unique_index:idx_raw_transactions_trace_id" json:"trace_id,omitempty"`
	Data      string    `sql:"type:text" json:"data,omitempty"`
}

// NewTransfer builds an outbound transfer to a single receiver
func NewTransfer(traceID, assetID, receiver string, amount decimal.Decimal, action TransferAction) (*Transfer, error) {
	memo, err := action.Format()
	if err != nil {
		return nil, err
	}

	return &Transfer{
		TraceID:   traceID,
		AssetID:   assetID,
		Amount:    amount,
		Memo:      memo,
		Threshold: 1,
		Opponents: []string{receiver},
	}, nil
}

// NewRefundTransfer builds the transfer bouncing a rejected payment
// back to its sender
func NewRefundTransfer(output *Output, userID, followID string, origin ActionType, errCode ErrorCode) (*Transfer, error) {
	action := TransferAction{
		Source:   ActionTypeRefundTransfer,
		Origin:   origin,
		FollowID: followID,
		Code:     errCode,
	}

	memo, err := action.Format()
	if err != nil {
		return nil, err
	}

	return &Transfer{
		TraceID:   uuid.Modify(output.TraceID, "refund"),
		Version:   output.ID,
		AssetID:   output.AssetID,
		Amount:    output.Amount,
		Memo:      memo,
		Threshold: 1,
		Opponents: []string{userID},
	}, nil
}

// WalletStore wallet store interface
type WalletStore interface {
	// Save batch save outputs in chain order
	Save(ctx context.Context, outputs []*Output) error
	// List returns outputs with id greater than fromID
	List(ctx context.Context, fromID int64, limit int) ([]*Output, error)
	// ListUnspent list unspent outputs of the asset
	ListUnspent(ctx context.Context, assetID string, limit int) ([]*Output, error)
	// FindSpentBy returns the first output assigned to the transfer
	FindSpentBy(ctx context.Context, assetID, traceID string) (*Output, error)
	// ListSpentBy list outputs assigned to the transfer
	ListSpentBy(ctx context.Context, assetID, traceID string) ([]*Output, error)
	// Assign reserves the outputs for the transfer
	Assign(ctx context.Context, outputs []*Output, transfer *Transfer) error
	// CreateTransfers batch save transfers, ignoring duplicated trace ids
	CreateTransfers(ctx context.Context, transfers []*Transfer) error
	// UpdateTransfer update a transfer
	UpdateTransfer(ctx context.Context, transfer *Transfer) error
	// ListTransfers list transfers with the given status
	ListTransfers(ctx context.Context, status TransferStatus, limit int) ([]*Transfer, error)
	// CreateRawTransaction save a signed raw transaction
	CreateRawTransaction(ctx context.Context, tx *RawTransaction) error
	// ListPendingRawTransactions list raw transactions not submitted yet
	ListPendingRawTransactions(ctx context.Context, limit int) ([]*RawTransaction, error)
	// ExpireRawTransaction removes a submitted raw transaction
	ExpireRawTransaction(ctx context.Context, tx *RawTransaction) error
}

// WalletService wallet service interface
type WalletService interface {
	// Pull fetch outputs received after the offset
	Pull(ctx context.Context, offset time.Time, limit int) ([]*Output, error)
	// Spend signs the outputs into a raw transaction paying the
	// transfer. A nil transaction means another member holds the
	// signature and nothing is to be submitted by this node.
	Spend(ctx context.Context, outputs []*Output, transfer *Transfer) (*RawTransaction, error)
}
