package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001

	// ErrInvalidCurrency currency not accepted for this action
	ErrInvalidCurrency ErrorCode = 100100
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrInvalidBidPrice bid below the minimum increment
	ErrInvalidBidPrice ErrorCode = 100102
	// ErrAuctionNotFound no such auction or already closed
	ErrAuctionNotFound ErrorCode = 100103
	// ErrUnauthorized sender may not operate this vault
	ErrUnauthorized ErrorCode = 100104
	// ErrAssetAlreadyMapped resource id already bound to an asset
	ErrAssetAlreadyMapped ErrorCode = 100105
	// ErrInvalidLiquidityIncrement injection dilutes the pool price
	ErrInvalidLiquidityIncrement ErrorCode = 100106
	// ErrCannotSwap pool missing or output below the limit
	ErrCannotSwap ErrorCode = 100107
	// ErrCollateralNotFound collateral currency not listed
	ErrCollateralNotFound ErrorCode = 100108
	// ErrVaultNotFound no vault for this user and collateral
	ErrVaultNotFound ErrorCode = 100109

	// ErrBelowRequiredCollateralRatio position would drop under the required ratio
	ErrBelowRequiredCollateralRatio ErrorCode = 100200
	// ErrBelowLiquidationRatio position would be liquidatable
	ErrBelowLiquidationRatio ErrorCode = 100201
	// ErrBelowMinimumDebitValue debit value under the dust floor
	ErrBelowMinimumDebitValue ErrorCode = 100202
	// ErrExceedDebitCeiling collateral debit ceiling reached
	ErrExceedDebitCeiling ErrorCode = 100203
	// ErrVaultStillSafe vault not below the liquidation ratio
	ErrVaultStillSafe ErrorCode = 100204
	// ErrVaultMustBeUnsafe settle only applies after shutdown
	ErrVaultMustBeUnsafe ErrorCode = 100205

	// ErrInsufficientCollateral vault holds less collateral than requested
	ErrInsufficientCollateral ErrorCode = 100300
	// ErrInsufficientBalance payment does not cover the action
	ErrInsufficientBalance ErrorCode = 100301
	// ErrDebitTooLow repay or adjust exceeds the outstanding debit
	ErrDebitTooLow ErrorCode = 100302
	// ErrCollateralTooLow pool or vault cannot give out that much
	ErrCollateralTooLow ErrorCode = 100303

	// ErrAlreadyShutdown the protocol is shut down
	ErrAlreadyShutdown ErrorCode = 100400
	// ErrMustAfterShutdown action only valid after shutdown
	ErrMustAfterShutdown ErrorCode = 100401
	// ErrCannotRefundYet collateral refund not open
	ErrCannotRefundYet ErrorCode = 100402
	// ErrExistPotentialSurplus collateral auctions still running
	ErrExistPotentialSurplus ErrorCode = 100403
	// ErrExistUnhandledDebit outstanding debit not settled
	ErrExistUnhandledDebit ErrorCode = 100404
	// ErrInReverseStage cancel forbidden once the target is covered
	ErrInReverseStage ErrorCode = 100405
	// ErrInvalidFeedPrice feed price missing, stale or unverified
	ErrInvalidFeedPrice ErrorCode = 100406
	// ErrPriceNotReady no passed price for the collateral
	ErrPriceNotReady ErrorCode = 100407
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
