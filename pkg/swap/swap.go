// Package swap carries the constant product math shared by the dex
// service and the liquidation fast path. Outputs are floored and
// inputs ceiled so rounding always lands on the pool's side.
package swap

import (
	"github.com/shopspring/decimal"
)

// Precision settlement precision for pool amounts
const Precision = 8

var one = decimal.New(1, 0)

// GetTargetAmount the target currency received for supplyAmount given
// the current pools. The exchange fee is charged on the gross output.
func GetTargetAmount(supplyPool, targetPool, supplyAmount, fee decimal.Decimal) decimal.Decimal {
	if !supplyPool.IsPositive() || !targetPool.IsPositive() || !supplyAmount.IsPositive() {
		return decimal.Zero
	}

	newTargetPool := supplyPool.Mul(targetPool).Div(supplyPool.Add(supplyAmount))
	gross := targetPool.Sub(newTargetPool)
	if !gross.IsPositive() {
		return decimal.Zero
	}

	return gross.Mul(one.Sub(fee)).Truncate(Precision)
}

// GetSupplyAmount the supply currency required to take targetAmount
// out of the pool. Inverse of GetTargetAmount within one rounding
// unit, rounded up against the taker.
func GetSupplyAmount(supplyPool, targetPool, targetAmount, fee decimal.Decimal) decimal.Decimal {
	if !supplyPool.IsPositive() || !targetPool.IsPositive() || !targetAmount.IsPositive() {
		return decimal.Zero
	}

	gross := targetAmount.Div(one.Sub(fee))
	newTargetPool := targetPool.Sub(gross)
	if !newTargetPool.IsPositive() {
		return decimal.Zero
	}

	supply := supplyPool.Mul(targetPool).Div(newTargetPool).Sub(supplyPool)
	return ceil(supply)
}

// CheckLiquidityIncrement reports whether an injection matches the
// standing price: the base side has to strictly beat the pool implied
// proportional amount, so injections can only push the base price of
// the pooled currency up, never dilute it.
func CheckLiquidityIncrement(basePool, tokenPool, baseAmount, tokenAmount decimal.Decimal) bool {
	if !baseAmount.IsPositive() || !tokenAmount.IsPositive() {
		return false
	}

	if !basePool.IsPositive() || !tokenPool.IsPositive() {
		return true
	}

	return baseAmount.Mul(tokenPool).GreaterThan(basePool.Mul(tokenAmount))
}

// GenesisShares the share supply minted to the first provider.
func GenesisShares(baseAmount, tokenAmount decimal.Decimal) decimal.Decimal {
	return decimal.Max(baseAmount, tokenAmount)
}

// MintShares shares minted for injecting tokenAmount into a live pool,
// proportional to the pooled currency side and floored.
func MintShares(totalShares, tokenPool, tokenAmount decimal.Decimal) decimal.Decimal {
	if !tokenPool.IsPositive() {
		return decimal.Zero
	}

	return totalShares.Mul(tokenAmount).Div(tokenPool).Truncate(Precision)
}

// RedeemAmounts the pool legs paid out for burning shares, floored.
func RedeemAmounts(totalShares, shares, basePool, tokenPool decimal.Decimal) (base, token decimal.Decimal) {
	if !totalShares.IsPositive() || !shares.IsPositive() {
		return decimal.Zero, decimal.Zero
	}

	proportion := shares.Div(totalShares)
	base = basePool.Mul(proportion).Truncate(Precision)
	token = tokenPool.Mul(proportion).Truncate(Precision)
	return base, token
}

func ceil(d decimal.Decimal) decimal.Decimal {
	return d.Shift(Precision).Ceil().Shift(-Precision)
}
