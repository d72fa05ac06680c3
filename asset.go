package rebalance

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID identifies an asset in a portfolio. It is assigned once at creation and
// never reused.
type ID string

// NewID returns a fresh asset identifier.
func NewID() ID { return ID(uuid.NewString()) }

// Asset is a holding in the portfolio, in its resolved numeric form.
type Asset struct {
	ID               ID      `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Quantity         float64 `json:"quantity"`
	TargetPercentage float64 `json:"targetPercentage"`
}

// Value returns the current market value of the asset.
func (a Asset) Value() float64 { return a.Price * a.Quantity }

// Assets is an ordered list of holdings.
type Assets []Asset

// TotalValue returns the sum of every asset value.
func (as Assets) TotalValue() float64 {
	total := 0.0
	for _, a := range as {
		total += a.Price * a.Quantity
	}
	return total
}

// TotalTargetPercentage returns the sum of every target percentage.
func (as Assets) TotalTargetPercentage() float64 {
	total := 0.0
	for _, a := range as {
		total += a.TargetPercentage
	}
	return total
}

// TargetsComplete reports whether target percentages sum to 100 within
// PercentTolerance.
func (as Assets) TargetsComplete() bool {
	return !targetsOff(as.TotalTargetPercentage())
}

// Clone returns an independent copy of the list.
func (as Assets) Clone() Assets {
	if as == nil {
		return nil
	}
	res := make(Assets, len(as))
	copy(res, as)
	return res
}

// ByID returns the index of the asset with this id.
func (as Assets) ByID(id ID) (int, bool) {
	for i, a := range as {
		if a.ID == id {
			return i, true
		}
	}
	return -1, false
}

// ByName returns the index of the asset with this name, ignoring case.
func (as Assets) ByName(name string) (int, bool) {
	for i, a := range as {
		if strings.EqualFold(a.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Validate checks every asset against the rules of a resolved Draft and
// rejects duplicate names, ignoring case, and duplicate ids.
func (as Assets) Validate() error {
	ids := make(map[ID]bool, len(as))
	names := make(map[string]string, len(as))
	for i, a := range as {
		fails := check(resolvedAsset{
			Name:             strings.TrimSpace(a.Name),
			Price:            a.Price,
			Quantity:         a.Quantity,
			TargetPercentage: a.TargetPercentage,
		})
		if len(fails) > 0 {
			return fmt.Errorf("asset #%d %q: %w", i+1, a.Name, &ValidationError{Fields: fails})
		}
		key := strings.ToLower(strings.TrimSpace(a.Name))
		if prev, dup := names[key]; dup {
			return fmt.Errorf("asset #%d %q: %w: %q", i+1, a.Name, ErrDuplicateName, prev)
		}
		names[key] = a.Name
		if a.ID != "" && ids[a.ID] {
			return fmt.Errorf("asset #%d %q: %w: %q", i+1, a.Name, ErrDuplicateID, a.ID)
		}
		ids[a.ID] = true
	}
	return nil
}
