package cdp

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCompoundRate(t *testing.T) {
	// 1% per second over 2 seconds: 1.01^2 - 1
	got := CompoundRate(d("0.01"), 2)
	assert.Equal(t, "0.0201", got.String())

	assert.True(t, CompoundRate(d("0.01"), 0).IsZero())
	assert.True(t, CompoundRate(decimal.Zero, 100).IsZero())
	assert.True(t, CompoundRate(d("-0.01"), 100).IsZero())
}

func TestGrowExchangeRate(t *testing.T) {
	rate := CompoundRate(d("0.01"), 2)
	got := GrowExchangeRate(d("0.1"), rate)
	assert.Equal(t, "0.10201", got.String())

	// growth is monotonic even for dust rates
	tiny := GrowExchangeRate(d("0.1"), d("0.0000000000000001"))
	assert.True(t, tiny.GreaterThan(d("0.1")))
}

func TestPerSecondRate(t *testing.T) {
	got := PerSecondRate(d("0.05"))
	assert.True(t, got.IsPositive())
	assert.True(t, got.LessThan(d("0.000000002")))
}
