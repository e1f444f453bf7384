package cdp

import (
	"github.com/shopspring/decimal"
)

// DebitValue converts debit units to stable value through the
// collateral's debit exchange rate. Rounded up: a position never
// owes less than its units are worth.
func DebitValue(debitUnits, exchangeRate decimal.Decimal) decimal.Decimal {
	return debitUnits.Mul(exchangeRate).
		Shift(GatewayPrecision).Ceil().Shift(-GatewayPrecision)
}

// DebitUnits converts a stable amount back to debit units. Rounded
// down so repayments never burn more units than were paid for.
func DebitUnits(value, exchangeRate decimal.Decimal) decimal.Decimal {
	if !exchangeRate.IsPositive() {
		return decimal.Zero
	}

	return value.Div(exchangeRate).Truncate(MaxPrecision)
}

// CollateralRatio collateral value over debit value. Callers must
// treat a zero debit as infinitely safe before asking for the ratio.
func CollateralRatio(collateral, price, debitValue decimal.Decimal) decimal.Decimal {
	if !debitValue.IsPositive() {
		return decimal.Zero
	}

	return collateral.Mul(price).Div(debitValue).Truncate(MaxPrecision)
}

// LiquidationTarget the stable amount a confiscated position must
// raise: the outstanding value plus the liquidation penalty, rounded
// up in the protocol's favor.
func LiquidationTarget(debitValue, penalty decimal.Decimal) decimal.Decimal {
	return debitValue.Mul(one.Add(penalty)).
		Shift(GatewayPrecision).Ceil().Shift(-GatewayPrecision)
}
