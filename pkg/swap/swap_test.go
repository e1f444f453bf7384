package swap

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	n, _ := decimal.NewFromString(v)
	return n
}

func TestGetTargetAmount(t *testing.T) {
	// swap 10,000 collateral units against a (10,000 / 10,000,000) pool
	out := GetTargetAmount(d("10000"), d("10000000"), d("10000"), d("0.01"))
	assert.Equal(t, "4950000", out.String())

	// fee free output is the raw constant product delta
	out = GetTargetAmount(d("10000"), d("10000000"), d("10000"), decimal.Zero)
	assert.Equal(t, "5000000", out.String())

	assert.True(t, GetTargetAmount(decimal.Zero, d("10000000"), d("10000"), d("0.01")).IsZero())
	assert.True(t, GetTargetAmount(d("10000"), d("10000000"), decimal.Zero, d("0.01")).IsZero())
}

func TestSupplyTargetInverse(t *testing.T) {
	var (
		supplyPool = d("10000")
		targetPool = d("10000000")
		fee        = d("0.01")
	)

	out := GetTargetAmount(supplyPool, targetPool, d("10000"), fee)
	back := GetSupplyAmount(supplyPool, targetPool, out, fee)
	assert.Equal(t, "10000", back.String())

	// the required supply always buys at least the asked target
	for _, target := range []string{"1", "333.33333333", "4950000"} {
		supply := GetSupplyAmount(supplyPool, targetPool, d(target), fee)
		got := GetTargetAmount(supplyPool, targetPool, supply, fee)
		assert.True(t, got.Cmp(d(target)) >= 0, "target %s got %s", target, got)
	}

	// asking more than the pool holds is not satisfiable
	assert.True(t, GetSupplyAmount(supplyPool, targetPool, d("99000000"), fee).IsZero())
}

func TestCheckLiquidityIncrement(t *testing.T) {
	basePool, tokenPool := d("10000000"), d("10000")

	// exactly proportional injections are rejected
	assert.False(t, CheckLiquidityIncrement(basePool, tokenPool, d("1000"), d("1")))
	assert.True(t, CheckLiquidityIncrement(basePool, tokenPool, d("1001"), d("1")))

	assert.False(t, CheckLiquidityIncrement(basePool, tokenPool, decimal.Zero, d("1")))
	assert.True(t, CheckLiquidityIncrement(decimal.Zero, decimal.Zero, d("1000"), d("1")))
}

func TestShares(t *testing.T) {
	assert.Equal(t, "10000000", GenesisShares(d("10000000"), d("10000")).String())

	minted := MintShares(d("10000000"), d("10000"), d("1"))
	assert.Equal(t, "1000", minted.String())

	base, token := RedeemAmounts(d("10000000"), d("1000"), d("10000000"), d("10000"))
	assert.Equal(t, "1000", base.String())
	assert.Equal(t, "1", token.String())

	base, token = RedeemAmounts(decimal.Zero, decimal.Zero, d("10000000"), d("10000"))
	assert.True(t, base.IsZero())
	assert.True(t, token.IsZero())
}
