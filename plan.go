package rebalance

import "fmt"

// Status explains the outcome of a rebalance evaluation.
type Status int

const (
	// Empty means there are no assets yet.
	Empty Status = iota
	// NotRebalanceable means target percentages do not sum to 100.
	NotRebalanceable
	// Balanced means every asset is within tolerance of its target.
	Balanced
	// Rebalance means at least one operation is required.
	Rebalance
)

func (s Status) String() string {
	switch s {
	case Empty:
		return "empty"
	case NotRebalanceable:
		return "not-rebalanceable"
	case Balanced:
		return "balanced"
	case Rebalance:
		return "rebalance"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Plan is the result of Evaluate: the operations computed by
// ComputeOperations and the reason why there are none, if so.
type Plan struct {
	Status         Status
	Reason         string
	Operations     []Operation
	CashAdjustment float64
	CurrentTotal   float64
	NewTotal       float64
	TargetTotal    Percent
}

// Evaluate computes the operations for 'assets' and classifies the outcome.
func Evaluate(assets Assets, cashAdjustment float64) Plan {
	current := assets.TotalValue()
	p := Plan{
		Operations:     ComputeOperations(assets, cashAdjustment),
		CashAdjustment: cashAdjustment,
		CurrentTotal:   current,
		NewTotal:       current + cashAdjustment,
		TargetTotal:    Percent(assets.TotalTargetPercentage()),
	}
	switch {
	case len(assets) == 0:
		p.Status = Empty
		p.Reason = "no assets"
	case targetsOff(float64(p.TargetTotal)):
		p.Status = NotRebalanceable
		p.Reason = fmt.Sprintf("target percentages sum to %.1f%%, they must sum to 100%%", float64(p.TargetTotal))
	case len(p.Operations) == 0:
		p.Status = Balanced
		p.Reason = "already balanced"
	default:
		p.Status = Rebalance
	}
	return p
}

// Sells returns the number of sell operations.
func (p Plan) Sells() int {
	n := 0
	for _, op := range p.Operations {
		if op.Action == Sell {
			n++
		}
	}
	return n
}

// Buys returns the number of buy operations.
func (p Plan) Buys() int { return len(p.Operations) - p.Sells() }
