package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	// TransactionKeyService key service type :string
	TransactionKeyService = "service"
	// TransactionKeySymbol symbol key :string
	TransactionKeySymbol = "symbol"
	// TransactionKeyPrice price :decimal
	TransactionKeyPrice = "price"
	// TransactionKeyAmount amount
	TransactionKeyAmount = "amount"
	// TransactionKeyStatus status
	TransactionKeyStatus = "status"
	// TransactionKeyUser user
	TransactionKeyUser = "user"
	// TransactionKeyErrorCode error code
	TransactionKeyErrorCode = "error_code"
	// TransactionKeyReferTrace refer trace
	TransactionKeyReferTrace = "refer_trace"
	// TransactionKeyAssetID asset id
	TransactionKeyAssetID = "asset_id"
	// TransactionKeyOrigin origin
	TransactionKeyOrigin = "origin"
	// TransactionKeyVault vault
	TransactionKeyVault = "vault"
	// TransactionKeyCollateral collateral
	TransactionKeyCollateral = "collateral"
	// TransactionKeyAuction auction
	TransactionKeyAuction = "auction"
	// TransactionKeyPool pool
	TransactionKeyPool = "pool"
	// TransactionKeyOpponent opponent
	TransactionKeyOpponent = "opponent"
	// TransactionKeyDebit debit
	TransactionKeyDebit = "debit"
	// TransactionKeyRefund refund
	TransactionKeyRefund = "refund"
	// TransactionKeyBid bid
	TransactionKeyBid = "bid"
	// TransactionKeyLot lot
	TransactionKeyLot = "lot"
)

type ExtraDataFormatter interface {
	Format() []byte
}

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	d := make(TransactionExtraData)
	return d
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// ExtraVault vault state change journaled with a transaction
type ExtraVault struct {
	UserID       string          `json:"user_id"`
	CollateralID string          `json:"collateral_id"`
	Amount       decimal.Decimal `json:"amount"`
	DebitChange  decimal.Decimal `json:"debit_change"`
}

// ExtraBid auction bid journaled with a transaction
type ExtraBid struct {
	UserID    string          `json:"user_id"`
	AuctionID string          `json:"auction_id"`
	Bid       decimal.Decimal `json:"bid"`
	Lot       decimal.Decimal `json:"lot"`
}

// ExtraSwap swap result journaled with a transaction
type ExtraSwap struct {
	UserID       string          `json:"user_id"`
	PayAssetID   string          `json:"pay_asset_id"`
	FillAssetID  string          `json:"fill_asset_id"`
	SupplyAmount decimal.Decimal `json:"supply_amount"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

type TransactionStatus int

const (
	TransactionStatusInit TransactionStatus = iota
	TransactionStatusComplete
	TransactionStatusAbort
)

// Transaction transaction info
type Transaction struct {
	ID              int64             `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Action          ActionType        `json:"action,omitempty"`
	TraceID         string            `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	UserID          string            `sql:"size:36;index:idx_transactions_user_id" json:"user_id,omitempty"`
	FollowID        string            `sql:"size:36;index:idx_transactions_follow_id" json:"follow_id,omitempty"`
	SnapshotTraceID string            `sql:"size:36" json:"snapshot_trace_id,omitempty"`
	AssetID         string            `sql:"size:36;index:idx_transactions_asset_id" json:"asset_id,omitempty"`
	Amount          decimal.Decimal   `sql:"type:decimal(32,8)" json:"amount,omitempty"`
	ContextSnapshot types.JSONText    `sql:"type:TEXT" json:"context_snapshot,omitempty"`
	Data            types.JSONText    `sql:"type:TEXT" json:"data,omitempty"`
	Status          TransactionStatus `sql:"default:1" json:"status,omitempty"`
	Version         int64             `sql:"default:0" json:"version,omitempty"`
	CreatedAt       time.Time         `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
	UpdatedAt       time.Time         `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

func (t *Transaction) SetExtraData(extra ExtraDataFormatter) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

func (t *Transaction) SetContextSnapshot(cs *ContextSnapshot) {
	t.ContextSnapshot = cs.Bytes()
}

func (t *Transaction) UnmarshalContextSnapshot() (*ContextSnapshot, error) {
	var cs ContextSnapshot
	if err := json.Unmarshal(t.ContextSnapshot, &cs); err != nil {
		return nil, err
	}

	return &cs, nil
}

// ContextSnapshot entity states captured when the transaction was
// handled
type ContextSnapshot struct {
	Vault             *Vault             `json:"vault,omitempty"`
	Collateral        *Collateral        `json:"collateral,omitempty"`
	CollateralAuction *CollateralAuction `json:"collateral_auction,omitempty"`
	SurplusAuction    *SurplusAuction    `json:"surplus_auction,omitempty"`
	DebitAuction      *DebitAuction      `json:"debit_auction,omitempty"`
	Pool              *Pool              `json:"pool,omitempty"`
	Treasury          *Treasury          `json:"treasury,omitempty"`
}

func NewContextSnapshot(vault *Vault, collateral *Collateral) *ContextSnapshot {
	return &ContextSnapshot{
		Vault:      vault,
		Collateral: collateral,
	}
}

func (cs *ContextSnapshot) String() string {
	return string(cs.Bytes())
}

func (cs *ContextSnapshot) Bytes() []byte {
	bs, err := json.Marshal(cs)
	if err != nil {
		return []byte("{}")
	}

	return bs
}

// TransactionStore transaction store interface
type TransactionStore interface {
	Create(ctx context.Context, transactions *Transaction) error
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) error
	List(ctx context.Context, offset time.Time, limit int, status TransactionStatus) ([]*Transaction, error)
	ListByUser(ctx context.Context, userID string, offset time.Time, limit int) ([]*Transaction, error)
}

// BuildTransactionFromOutput transaction from output
func BuildTransactionFromOutput(ctx context.Context, userID, followID string, actionType ActionType, output *Output, cs *ContextSnapshot) *Transaction {
	return &Transaction{
		UserID:          userID,
		Action:          actionType,
		TraceID:         output.TraceID,
		FollowID:        followID,
		Amount:          output.Amount,
		AssetID:         output.AssetID,
		Status:          TransactionStatusInit,
		ContextSnapshot: cs.Bytes(),
	}
}

// BuildTransactionFromTransfer transaction from transfer
func BuildTransactionFromTransfer(ctx context.Context, transfer *Transfer, snapshotTraceID string) (*Transaction, error) {
	var transferAction TransferAction
	m := decodeTransferMemo(transfer.Memo)
	err := json.Unmarshal(m, &transferAction)
	if err != nil {
		return nil, err
	}

	userID := ""
	if len(transfer.Opponents) > 0 {
		userID = transfer.Opponents[0]
	}

	transactionExtra := NewTransactionExtra()
	transactionExtra.Put(TransactionKeyOrigin, transferAction.Origin)
	if transferAction.Code > 0 {
		transactionExtra.Put(TransactionKeyErrorCode, transferAction.Code)
	}

	action := transferAction.Source
	if action == ActionTypeDefault {
		action = ActionTypeProposalTransfer
	}

	return &Transaction{
		UserID:          userID,
		Action:          action,
		TraceID:         transfer.TraceID,
		FollowID:        transferAction.FollowID,
		Amount:          transfer.Amount,
		AssetID:         transfer.AssetID,
		SnapshotTraceID: snapshotTraceID,
		Status:          TransactionStatusComplete,
		Data:            transactionExtra.Format(),
	}, nil
}

func decodeTransferMemo(memo string) []byte {
	if b, err := base64.StdEncoding.DecodeString(memo); err == nil {
		return b
	}

	if b, err := base64.URLEncoding.DecodeString(memo); err == nil {
		return b
	}

	return []byte(memo)
}
