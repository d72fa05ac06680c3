package renderer

import (
	"math"
	"time"

	"github.com/etnz/rebalance"
)

// DriftThreshold is the gap, in percentage points, between the current and
// target share of an asset above which the drift is shown.
const DriftThreshold = 0.1

// Report is the data rendered by the report templates.
type Report struct {
	Currency string
	SavedOn  time.Time

	Rows        []Row
	TotalValue  float64
	TargetTotal rebalance.Percent

	HasCashAdjustment bool
	Deposit           bool
	CashAmount        float64
	NewTotalRounded   float64

	Empty      bool
	Warning    bool
	Balanced   bool
	Operations []rebalance.Operation
}

// Row is one asset line of the holdings table.
type Row struct {
	Name     string
	Price    float64
	Quantity float64
	Value    float64
	Current  rebalance.Percent
	Target   rebalance.Percent
	Drift    string // ▲ over its target, ▼ under it, empty otherwise.
}

// NewReport builds the report of 'assets' and the plan computed for them.
// The current share of each asset is computed on the current total value,
// before any cash adjustment.
func NewReport(assets rebalance.Assets, plan rebalance.Plan, currency string) *Report {
	r := &Report{
		Currency:          currency,
		TotalValue:        plan.CurrentTotal,
		TargetTotal:       plan.TargetTotal,
		HasCashAdjustment: plan.CashAdjustment != 0,
		Deposit:           plan.CashAdjustment > 0,
		CashAmount:        math.Abs(plan.CashAdjustment),
		NewTotalRounded:   math.Round(plan.NewTotal),
		Empty:             plan.Status == rebalance.Empty,
		Warning:           plan.Status == rebalance.NotRebalanceable,
		Balanced:          plan.Status == rebalance.Balanced,
		Operations:        plan.Operations,
	}
	for _, a := range assets {
		current, _ := rebalance.Deviation(a, plan.CurrentTotal)
		row := Row{
			Name:     a.Name,
			Price:    a.Price,
			Quantity: a.Quantity,
			Value:    a.Value(),
			Current:  current,
			Target:   rebalance.Percent(a.TargetPercentage),
		}
		switch drift := float64(current) - a.TargetPercentage; {
		case drift > DriftThreshold:
			row.Drift = "▲"
		case drift < -DriftThreshold:
			row.Drift = "▼"
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}
