package cdp

import (
	"github.com/shopspring/decimal"
)

var one = decimal.New(1, 0)

// CompoundRate growth of one unit at a per second rate over elapsed
// seconds, compounded every second: (1+r)^elapsed - 1.
func CompoundRate(rate decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 || !rate.IsPositive() {
		return decimal.Zero
	}

	return one.Add(rate).Pow(decimal.NewFromInt(elapsed)).Sub(one).Truncate(MaxPrecision)
}

// PerSecondRate converts an annual stability fee to the per second
// rate used by accrual. Approximated linearly, matching how fees are
// quoted in collateral params.
func PerSecondRate(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(decimal.NewFromInt(SecondsPerYear)).Truncate(MaxPrecision)
}

// GrowExchangeRate applies the accrued rate to the debit exchange
// rate. The increment is rounded up so the rate never loses to
// truncation; the exchange rate only ever grows.
func GrowExchangeRate(exchangeRate, rate decimal.Decimal) decimal.Decimal {
	increment := exchangeRate.Mul(rate).
		Shift(MaxPrecision).Ceil().Shift(-MaxPrecision)
	return exchangeRate.Add(increment)
}
