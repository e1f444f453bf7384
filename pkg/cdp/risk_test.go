package cdp

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDebitValueRoundTrip(t *testing.T) {
	rate := d("0.11")

	value := DebitValue(d("100"), rate)
	assert.Equal(t, "11", value.String())

	// value rounds up against the position
	value = DebitValue(d("0.000000001"), rate)
	assert.Equal(t, "0.00000001", value.String())

	// converting a value to units and back never overstates the repayment
	units := DebitUnits(d("5"), rate)
	assert.True(t, DebitValue(units, rate).Cmp(d("5")) <= 0)
	back := DebitValue(units.Add(decimal.New(1, -MaxPrecision)), rate)
	assert.True(t, back.Cmp(d("5")) >= 0)
}

func TestCollateralRatio(t *testing.T) {
	// 10 units at price 30 against 100 stable owed
	ratio := CollateralRatio(d("10"), d("30"), d("100"))
	assert.Equal(t, "3", ratio.String())

	assert.True(t, CollateralRatio(d("10"), d("30"), decimal.Zero).IsZero())
}

func TestLiquidationTarget(t *testing.T) {
	got := LiquidationTarget(d("100"), d("0.13"))
	assert.Equal(t, "113", got.String())

	// penalty rounds against the position
	got = LiquidationTarget(d("0.00000001"), d("0.1"))
	assert.Equal(t, "0.00000002", got.String())
}

func TestRequire(t *testing.T) {
	assert.Nil(t, Require(true, "ok"))

	err := Require(false, "vault/below-liquidation-ratio", FlagRefund)
	assert.NotNil(t, err)

	var e Error
	assert.True(t, errors.As(err, &e))
	assert.True(t, e.Refundable())
	assert.Equal(t, "vault/below-liquidation-ratio", e.Error())

	err = Require(false, "vault/skip", FlagNoisy)
	errors.As(err, &e)
	assert.False(t, e.Refundable())
}
