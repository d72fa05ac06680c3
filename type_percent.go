package rebalance

import "fmt"

// Percent is a share of the portfolio value, 100 being the whole portfolio.
type Percent float64

// Equal reports whether p and q are the same within PercentTolerance.
func (p Percent) Equal(q Percent) bool {
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff <= PercentTolerance
}

// String returns the percentage with one decimal, as displayed in reports.
func (p Percent) String() string {
	return fmt.Sprintf("%.1f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.1f%%", float64(p))
	if res == "+0.0%" || res == "-0.0%" {
		return "-"
	}
	return res
}
