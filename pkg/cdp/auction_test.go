package cdp

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	n, _ := decimal.NewFromString(v)
	return n
}

func TestCheckBidIncrement(t *testing.T) {
	inc := d("0.05")
	target := d("10000")

	// first bid must beat target * increment
	assert.False(t, CheckBidIncrement(d("400"), decimal.Zero, target, inc))
	assert.True(t, CheckBidIncrement(d("500"), decimal.Zero, target, inc))

	// standing bid below target still measures against target
	assert.False(t, CheckBidIncrement(d("5400"), d("5000"), target, inc))
	assert.True(t, CheckBidIncrement(d("5500"), d("5000"), target, inc))

	// standing bid above target measures against itself
	assert.False(t, CheckBidIncrement(d("12500"), d("12000"), target, inc))
	assert.True(t, CheckBidIncrement(d("12600"), d("12000"), target, inc))

	// zero target auctions accept any positive opener
	assert.True(t, CheckBidIncrement(d("0.1"), decimal.Zero, decimal.Zero, inc))
	assert.False(t, CheckBidIncrement(decimal.Zero, decimal.Zero, decimal.Zero, inc))
}

func TestSoftCapAdjustments(t *testing.T) {
	start := time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC)
	softCap := 2 * time.Hour
	inc := d("0.02")
	ttc := 10 * time.Minute

	fresh := start.Add(time.Hour)
	assert.Equal(t, "0.02", MinIncrementSize(fresh, start, softCap, inc).String())
	assert.Equal(t, ttc, TimeToClose(fresh, start, softCap, ttc))

	stale := start.Add(3 * time.Hour)
	assert.Equal(t, "0.04", MinIncrementSize(stale, start, softCap, inc).String())
	assert.Equal(t, 5*time.Minute, TimeToClose(stale, start, softCap, ttc))
}

func TestNextCloseTime(t *testing.T) {
	start := time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC)
	softCap := 2 * time.Hour
	ttc := 10 * time.Minute
	max := 24 * time.Hour

	now := start.Add(time.Hour)
	assert.Equal(t, now.Add(ttc), NextCloseTime(now, start, softCap, ttc, max))

	// never extends past the hard deadline
	late := start.Add(max - time.Minute)
	assert.Equal(t, start.Add(max), NextCloseTime(late, start, softCap, ttc, max))
}

func TestCollateralPayment(t *testing.T) {
	target := d("10000")

	assert.Equal(t, "5000", CollateralPayment(d("5000"), target).String())
	assert.Equal(t, "10000", CollateralPayment(d("12000"), target).String())

	// forward only auctions collect the whole bid
	assert.Equal(t, "12000", CollateralPayment(d("12000"), decimal.Zero).String())
}

func TestShrinkLot(t *testing.T) {
	target := d("10000")

	// crossing into the reverse stage scales by target / bid
	got := ShrinkLot(d("100"), d("5000"), target, d("12000"))
	assert.Equal(t, "83.33333333", got.String())

	// further reverse bids scale by last / new
	got = ShrinkLot(got, d("12000"), target, d("15000"))
	assert.Equal(t, "66.66666666", got.String())

	// shrink never grows the lot
	assert.Equal(t, "100", ShrinkLot(d("100"), d("9"), d("10"), d("10")).String())
}

func TestSplitLots(t *testing.T) {
	lots := SplitLots(d("250"), d("10000"), d("100"))
	require.Len(t, lots, 3)

	assert.Equal(t, "100", lots[0].Amount.String())
	assert.Equal(t, "100", lots[1].Amount.String())
	assert.Equal(t, "50", lots[2].Amount.String())

	sumAmount, sumTarget := decimal.Zero, decimal.Zero
	for _, lot := range lots {
		sumAmount = sumAmount.Add(lot.Amount)
		sumTarget = sumTarget.Add(lot.Target)
	}

	assert.Equal(t, "250", sumAmount.String())
	assert.Equal(t, "10000", sumTarget.String())
	assert.Equal(t, "4000", lots[0].Target.String())

	// small confiscations stay whole
	lots = SplitLots(d("80"), d("10000"), d("100"))
	require.Len(t, lots, 1)
	assert.Equal(t, "80", lots[0].Amount.String())
}
