package core

import (
	"encoding/base64"
	"encoding/json"
)

// ActionType vault action type
type ActionType int

const (
	// ActionTypeDefault default
	ActionTypeDefault ActionType = iota
	// ActionTypeVaultDeposit deposit collateral into a vault
	ActionTypeVaultDeposit
	// ActionTypeVaultAdjust adjust vault collateral and debit
	ActionTypeVaultAdjust
	// ActionTypeVaultRepay repay vault debit with stable currency
	ActionTypeVaultRepay
	// ActionTypeVaultTransfer take over another user's vault
	ActionTypeVaultTransfer
	// ActionTypeVaultClose close a vault through the dex
	ActionTypeVaultClose
	// ActionTypeAuthorize authorize another user to operate a vault
	ActionTypeAuthorize
	// ActionTypeUnauthorize revoke a single authorization
	ActionTypeUnauthorize
	// ActionTypeUnauthorizeAll revoke every authorization of the sender
	ActionTypeUnauthorizeAll
	// ActionTypeAuctionBid bid on a running auction
	ActionTypeAuctionBid
	// ActionTypeSwapToken swap through a dex pool
	ActionTypeSwapToken
	// ActionTypeAddLiquidity inject liquidity into a dex pool
	ActionTypeAddLiquidity
	// ActionTypeRemoveLiquidity extract liquidity from a dex pool
	ActionTypeRemoveLiquidity
	// ActionTypeRefundCollaterals burn stable for confiscated collateral after shutdown
	ActionTypeRefundCollaterals
	// ActionTypeProposalMake make a governance proposal
	ActionTypeProposalMake
	// ActionTypeProposalShout remind members of a pending proposal
	ActionTypeProposalShout
	// ActionTypeProposalVote vote on a proposal
	ActionTypeProposalVote
)

const (
	// ActionTypeProposalAddCollateral list a new collateral currency
	ActionTypeProposalAddCollateral ActionType = iota + 30
	// ActionTypeProposalUpdateParams update collateral risk params
	ActionTypeProposalUpdateParams
	// ActionTypeProposalRegisterAsset bind a resource id to an asset
	ActionTypeProposalRegisterAsset
	// ActionTypeProposalAddOracleSigner add an oracle signer
	ActionTypeProposalAddOracleSigner
	// ActionTypeProposalRemoveOracleSigner remove an oracle signer
	ActionTypeProposalRemoveOracleSigner
	// ActionTypeProposalSetProperty set a global property
	ActionTypeProposalSetProperty
	// ActionTypeProposalWithdraw withdraw from the treasury surplus
	ActionTypeProposalWithdraw
	// ActionTypeProposalShutdown trigger the emergency shutdown
	ActionTypeProposalShutdown
	// ActionTypeProposalOpenRefund open the post shutdown collateral refund
	ActionTypeProposalOpenRefund
)

const (
	// ActionTypeRefundTransfer refund of a rejected payment
	ActionTypeRefundTransfer ActionType = iota + 60
	// ActionTypeWithdrawTransfer collateral withdrawn from a vault
	ActionTypeWithdrawTransfer
	// ActionTypeAuctionRefundTransfer escrow returned to an outbid bidder
	ActionTypeAuctionRefundTransfer
	// ActionTypeAuctionPayoutTransfer lot or remainder paid out of an auction
	ActionTypeAuctionPayoutTransfer
	// ActionTypeSwapTransfer swap output paid to the trader
	ActionTypeSwapTransfer
	// ActionTypeLiquidityTransfer pool legs paid for removed liquidity
	ActionTypeLiquidityTransfer
	// ActionTypeShutdownRefundTransfer pro rata collateral refund after shutdown
	ActionTypeShutdownRefundTransfer
	// ActionTypeProposalTransfer transfer issued by a passed proposal
	ActionTypeProposalTransfer
)

var actionNames = map[ActionType]string{
	ActionTypeVaultDeposit:               "vault_deposit",
	ActionTypeVaultAdjust:                "vault_adjust",
	ActionTypeVaultRepay:                 "vault_repay",
	ActionTypeVaultTransfer:              "vault_transfer",
	ActionTypeVaultClose:                 "vault_close",
	ActionTypeAuthorize:                  "authorize",
	ActionTypeUnauthorize:                "unauthorize",
	ActionTypeUnauthorizeAll:             "unauthorize_all",
	ActionTypeAuctionBid:                 "auction_bid",
	ActionTypeSwapToken:                  "swap_token",
	ActionTypeAddLiquidity:               "add_liquidity",
	ActionTypeRemoveLiquidity:            "remove_liquidity",
	ActionTypeRefundCollaterals:          "refund_collaterals",
	ActionTypeProposalMake:               "proposal_make",
	ActionTypeProposalShout:              "proposal_shout",
	ActionTypeProposalVote:               "proposal_vote",
	ActionTypeProposalAddCollateral:      "add_collateral",
	ActionTypeProposalUpdateParams:       "update_params",
	ActionTypeProposalRegisterAsset:      "register_asset",
	ActionTypeProposalAddOracleSigner:    "add_oracle_signer",
	ActionTypeProposalRemoveOracleSigner: "remove_oracle_signer",
	ActionTypeProposalSetProperty:        "set_property",
	ActionTypeProposalWithdraw:           "withdraw",
	ActionTypeProposalShutdown:           "shutdown",
	ActionTypeProposalOpenRefund:         "open_refund",
	ActionTypeRefundTransfer:             "refund_transfer",
	ActionTypeWithdrawTransfer:           "withdraw_transfer",
	ActionTypeAuctionRefundTransfer:      "auction_refund_transfer",
	ActionTypeAuctionPayoutTransfer:      "auction_payout_transfer",
	ActionTypeSwapTransfer:               "swap_transfer",
	ActionTypeLiquidityTransfer:          "liquidity_transfer",
	ActionTypeShutdownRefundTransfer:     "shutdown_refund_transfer",
	ActionTypeProposalTransfer:           "proposal_transfer",
}

// ParseActionType looks an action up by its wire name.
func ParseActionType(name string) (ActionType, bool) {
	for action, n := range actionNames {
		if n == name {
			return action, true
		}
	}

	return ActionTypeDefault, false
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return "unknown"
}

// IsProposalAction reports whether the action belongs to the proposal
// make, shout and vote flow reserved for governance members.
func (a ActionType) IsProposalAction() bool {
	switch a {
	case ActionTypeProposalMake, ActionTypeProposalShout, ActionTypeProposalVote:
		return true
	}

	return false
}

// TransferAction describes why a transfer left the system. It rides in
// the transfer memo so receivers and the spent sync worker can trace
// payouts back to the action which caused them.
type TransferAction struct {
	Source   ActionType `json:"s,omitempty"`
	Origin   ActionType `json:"o,omitempty"`
	FollowID string     `json:"f,omitempty"`
	Code     ErrorCode  `json:"c,omitempty"`
}

// Format encodes the action into a transfer memo
func (action TransferAction) Format() (string, error) {
	b, err := json.Marshal(action)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeTransferAction decodes a transfer memo
func DecodeTransferAction(memo string) (*TransferAction, error) {
	b, err := base64.StdEncoding.DecodeString(memo)
	if err != nil {
		b = []byte(memo)
	}

	var action TransferAction
	if err := json.Unmarshal(b, &action); err != nil {
		return nil, err
	}

	return &action, nil
}
