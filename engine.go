package rebalance

import (
	"math"
	"slices"
	"strings"
)

// Tolerances are absolute, they are not scaled to the portfolio size.
const (
	// ValueTolerance is the largest difference between target and current
	// value, in money units, for which an asset is considered balanced.
	ValueTolerance = 0.01
	// PercentTolerance is the largest gap, in percentage points, between the
	// sum of target percentages and 100.
	PercentTolerance = 0.01
)

func targetsOff(totalTarget float64) bool {
	return math.Abs(totalTarget-100) > PercentTolerance
}

// ComputeOperations returns the trades that bring 'assets' to their target
// allocation once 'cashAdjustment' has been added to (or, when negative,
// withdrawn from) the portfolio value.
//
// It returns an empty list when there are no assets, when target percentages
// do not sum to 100, or when every asset is already within ValueTolerance of
// its target. Sell operations come first, then buy operations, each group in
// input order.
//
// A negative new total is accepted: targets become negative and turn into
// sells. Prices must be strictly positive, this is not checked.
func ComputeOperations(assets Assets, cashAdjustment float64) []Operation {
	operations := []Operation{}
	if len(assets) == 0 {
		return operations
	}

	newTotalValue := assets.TotalValue() + cashAdjustment
	if targetsOff(assets.TotalTargetPercentage()) {
		return operations
	}

	for _, asset := range assets {
		currentValue := asset.Price * asset.Quantity
		targetValue := newTotalValue * asset.TargetPercentage / 100
		difference := targetValue - currentValue

		if math.Abs(difference) <= ValueTolerance {
			continue
		}
		action := Sell
		if difference > 0 {
			action = Buy
		}
		operations = append(operations, Operation{
			AssetID:   asset.ID,
			AssetName: asset.Name,
			Action:    action,
			Quantity:  math.Abs(difference / asset.Price),
			Value:     math.Abs(difference),
		})
	}

	// "sell" > "buy": sorting on the reversed token order liquidates first.
	slices.SortStableFunc(operations, func(a, b Operation) int {
		return strings.Compare(string(b.Action), string(a.Action))
	})
	return operations
}

// ProjectRebalancedAssets returns a copy of 'assets' where each operation
// has been applied to the quantity of its asset.
//
// Operations are matched on AssetID, or on the exact asset name when the
// operation carries no id. Operations that match nothing are ignored.
func ProjectRebalancedAssets(assets Assets, operations []Operation) Assets {
	rebalanced := assets.Clone()
	for _, op := range operations {
		i := rebalanced.match(op)
		if i < 0 {
			continue
		}
		rebalanced[i].Quantity += op.signed()
	}
	return rebalanced
}

// match returns the index of the first asset targeted by op, or -1.
func (as Assets) match(op Operation) int {
	for i, a := range as {
		if op.AssetID != "" {
			if a.ID == op.AssetID {
				return i
			}
			continue
		}
		if a.Name == op.AssetName {
			return i
		}
	}
	return -1
}

// Deviation returns the current share of 'asset' in a portfolio worth
// 'total', in percent (0 unless total is positive), and the signed value to
// trade to reach its target at that total.
func Deviation(asset Asset, total float64) (current Percent, difference float64) {
	value := asset.Price * asset.Quantity
	if total > 0 {
		current = Percent(value / total * 100)
	}
	difference = total*asset.TargetPercentage/100 - value
	return current, difference
}
