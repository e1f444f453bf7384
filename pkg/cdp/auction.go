package cdp

import (
	"time"

	"github.com/shopspring/decimal"
)

var two = decimal.New(2, 0)

// CheckBidIncrement reports whether a new bid beats the standing one
// by at least max(last, target) * incrementSize. The very first bid
// on a zero target auction only has to be positive.
func CheckBidIncrement(newBid, lastBid, target, incrementSize decimal.Decimal) bool {
	if !newBid.IsPositive() {
		return false
	}

	minIncrement := decimal.Max(lastBid, target).Mul(incrementSize)
	return newBid.Sub(lastBid).Cmp(minIncrement) >= 0
}

// MinIncrementSize doubles the configured increment once an auction
// has stayed open past the duration soft cap.
func MinIncrementSize(now, start time.Time, softCap time.Duration, incrementSize decimal.Decimal) decimal.Decimal {
	if softCap > 0 && now.Sub(start) >= softCap {
		return incrementSize.Mul(two)
	}

	return incrementSize
}

// TimeToClose halves the bid extension window past the duration soft
// cap so stale auctions settle faster.
func TimeToClose(now, start time.Time, softCap, timeToClose time.Duration) time.Duration {
	if softCap > 0 && now.Sub(start) >= softCap {
		return timeToClose / 2
	}

	return timeToClose
}

// NextCloseTime the close time after a bid: extended by the current
// time to close window but never past the auction's hard deadline.
func NextCloseTime(now, start time.Time, softCap, timeToClose, maxDuration time.Duration) time.Time {
	closeAt := now.Add(TimeToClose(now, start, softCap, timeToClose))
	if deadline := start.Add(maxDuration); closeAt.After(deadline) {
		return deadline
	}

	return closeAt
}

// CollateralPayment the stable amount a collateral auction actually
// collects from a bid. Auctions without a target run forward only and
// collect the full bid.
func CollateralPayment(bid, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return bid
	}

	return decimal.Min(bid, target)
}

// InReverseStage reports whether bidding has covered the target and
// further bids compete on taking less of the lot.
func InReverseStage(bid, target decimal.Decimal) bool {
	return target.IsPositive() && bid.Cmp(target) >= 0
}

// ShrinkLot the lot left to a reverse stage bidder: the previous lot
// scaled by max(lastBid, floor) / newBid, floored so the surrendered
// remainder never exceeds what the bid paid for.
func ShrinkLot(amount, lastBid, floor, newBid decimal.Decimal) decimal.Decimal {
	if !newBid.IsPositive() {
		return amount
	}

	shrunk := amount.Mul(decimal.Max(lastBid, floor)).Div(newBid).Truncate(GatewayPrecision)
	return decimal.Min(amount, shrunk)
}

// Lot one collateral auction portion after splitting an oversized
// confiscation.
type Lot struct {
	Amount decimal.Decimal
	Target decimal.Decimal
}

// SplitLots cuts a confiscated amount into lots of at most maxSize,
// spreading the target proportionally. Rounding remainders land in
// the last lot so both columns sum exactly.
func SplitLots(amount, target, maxSize decimal.Decimal) []Lot {
	if !amount.IsPositive() {
		return nil
	}

	if !maxSize.IsPositive() || amount.Cmp(maxSize) <= 0 {
		return []Lot{{Amount: amount, Target: target}}
	}

	var (
		lots     []Lot
		rest     = amount
		restGoal = target
	)

	for rest.IsPositive() {
		lot := decimal.Min(rest, maxSize)
		rest = rest.Sub(lot)

		goal := restGoal
		if rest.IsPositive() {
			goal = target.Mul(lot).Div(amount).Truncate(GatewayPrecision)
			restGoal = restGoal.Sub(goal)
		}

		lots = append(lots, Lot{Amount: lot, Target: goal})
	}

	return lots
}
