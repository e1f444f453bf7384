package config

import (
	"vault/pkg/gateway"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type (
	// Config vault config
	Config struct {
		DB          db.Config      `json:"db"`
		Gateway     gateway.Config `json:"gateway"`
		Group       Group          `json:"group"`
		App         App            `json:"app"`
		Auction     Auction        `json:"auction"`
		PriceOracle PriceOracle    `json:"price_oracle"`
	}

	// Group multisig group config
	Group struct {
		// PrivateKey base64 encoded curve25519 private key, used to
		// decrypt user action memos
		PrivateKey string `json:"private_key"`
		// SignKey base64 encoded ed25519 private key, used to sign
		// proposal payloads
		SignKey   string   `json:"sign_key"`
		Admins    []string `json:"admins"`
		Threshold uint8    `json:"threshold"`
		Members   []Member `json:"members"`
		Vote      Vote     `json:"vote"`
	}

	// Member a multisig group member
	Member struct {
		ClientID string `json:"client_id"`
		Name     string `json:"name"`
		// VerifyKey base64 encoded ed25519 public key
		VerifyKey string `json:"verify_key"`
	}

	// Vote proposal vote payment
	Vote struct {
		Asset  string          `json:"asset"`
		Amount decimal.Decimal `json:"amount"`
	}

	// App app config
	App struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`

		StableAssetID string `json:"stable_asset_id"`
		NativeAssetID string `json:"native_asset_id"`

		// MinimumDebitValue positions may not owe less stable than
		// this, zero aside
		MinimumDebitValue decimal.Decimal `json:"minimum_debit_value"`
		// MaxSwapSlippage liquidations sell on the dex instead of
		// auctioning when the quote is within this slippage of the
		// feed price
		MaxSwapSlippage decimal.Decimal `json:"max_swap_slippage"`

		Genesis  int64  `json:"genesis"`
		Location string `json:"location"`
	}

	// Auction auction book timing and increments
	Auction struct {
		// TimeToClose seconds a fresh auction or bid stays open
		TimeToClose int64 `json:"time_to_close"`
		// MaxDuration seconds an auction may run in total
		MaxDuration int64 `json:"max_duration"`
		// MinIncrementSize minimum bid increment ratio
		MinIncrementSize decimal.Decimal `json:"min_increment_size"`
		// SoftCap seconds an auction may stay open before increments
		// double and extensions halve
		SoftCap int64 `json:"soft_cap"`
		// DebitLot native amount a fresh debit auction offers for the
		// fixed stable target
		DebitLot decimal.Decimal `json:"debit_lot"`
	}

	// PriceOracle price oracle config
	PriceOracle struct {
		EndPoint string `json:"end_point"`
		// PriceThreshold signer count an aggregate signature must reach
		PriceThreshold int `json:"price_threshold"`
		// SignKey base64 encoded blst secret key of this member's signer
		SignKey string `json:"sign_key"`
		// SignerIndex this member's bit in the signature mask
		SignerIndex uint64 `json:"signer_index"`
	}
)
