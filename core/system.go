package core

import (
	"crypto/ed25519"

	"github.com/shopspring/decimal"
)

// SysVersion the payload version this build understands. Outputs
// tagged with a higher version are parked until the group upgrades.
const SysVersion int64 = 1

// System stores system information.
type System struct {
	Admins         []string
	ClientID       string
	ClientSecret   string
	Members        []*Member
	Threshold      uint8
	VoteAsset      string
	VoteAmount     decimal.Decimal
	PrivateKey     ed25519.PrivateKey
	SignKey        ed25519.PrivateKey
	StableAssetID  string
	NativeAssetID  string
	PriceThreshold uint8

	// MinimumDebitValue positions may not owe less stable than this,
	// zero aside
	MinimumDebitValue decimal.Decimal
	// MaxSwapSlippage liquidations prefer the dex to an auction when
	// the quote is within this slippage of the feed price
	MaxSwapSlippage decimal.Decimal

	Location string
	Genesis  int64
	Version  string
}

// MemberIDs member ids
func (s *System) MemberIDs() []string {
	ids := make([]string, len(s.Members))
	for idx, m := range s.Members {
		ids[idx] = m.ClientID
	}

	return ids
}

// IsMember reports whether the user is one of the multisig members
func (s *System) IsMember(userID string) bool {
	for _, m := range s.Members {
		if m.ClientID == userID {
			return true
		}
	}

	return false
}

// IsAdmin is admin
func (s *System) IsAdmin(userID string) bool {
	if len(s.Admins) == 0 {
		return false
	}

	for _, a := range s.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// IsStable reports whether the asset is the stable currency issued by
// the protocol
func (s *System) IsStable(assetID string) bool {
	return assetID == s.StableAssetID
}

// IsNative reports whether the asset is the protocol governance token
func (s *System) IsNative(assetID string) bool {
	return assetID == s.NativeAssetID
}
