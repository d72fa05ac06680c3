package rebalance

import (
	"fmt"
	"strings"
	"time"
)

// Field is an editable numeric field of an asset.
type Field string

const (
	FieldPrice    Field = "price"
	FieldQuantity Field = "quantity"
	FieldTarget   Field = "target"
)

// ParseField returns the Field for a user supplied name.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price", "p":
		return FieldPrice, nil
	case "quantity", "qty", "q":
		return FieldQuantity, nil
	case "target", "targetpercentage", "t", "%":
		return FieldTarget, nil
	}
	return "", fmt.Errorf("unknown field %q, want price, quantity or target", s)
}

// Portfolio is the live state of a rebalancing session: the asset list, the
// cash adjustment, and whether they changed since the last save or load.
//
// It is owned by the application and is not safe for concurrent use. The
// engine functions only ever receive copies of its assets.
type Portfolio struct {
	assets   Assets
	cash     float64
	modified bool
}

// NewPortfolio returns a portfolio holding a copy of 'assets'.
func NewPortfolio(assets Assets) *Portfolio {
	return &Portfolio{assets: assets.Clone()}
}

// Assets returns a copy of the live asset list.
func (p *Portfolio) Assets() Assets { return p.assets.Clone() }

// Len returns the number of assets.
func (p *Portfolio) Len() int { return len(p.assets) }

// Modified reports whether the portfolio changed since the last save or load.
func (p *Portfolio) Modified() bool { return p.modified }

// Add resolves the draft and appends it as a new asset with a fresh ID.
func (p *Portfolio) Add(d Draft) (Asset, error) {
	a, err := d.Resolve()
	if err != nil {
		return Asset{}, err
	}
	if _, exists := p.assets.ByName(a.Name); exists {
		return Asset{}, fmt.Errorf("%w: %q", ErrDuplicateName, a.Name)
	}
	a.ID = NewID()
	p.assets = append(p.assets, a)
	p.modified = true
	return a, nil
}

// Remove deletes the asset with this id.
func (p *Portfolio) Remove(id ID) error {
	i, ok := p.assets.ByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAsset, id)
	}
	p.assets = append(p.assets[:i:i], p.assets[i+1:]...)
	p.modified = true
	return nil
}

// Lookup returns the ID of the asset named 'name', ignoring case.
func (p *Portfolio) Lookup(name string) (ID, error) {
	i, ok := p.assets.ByName(strings.TrimSpace(name))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAsset, name)
	}
	return p.assets[i].ID, nil
}

// Rename changes the name of an asset. Names are trimmed and must stay
// unique, ignoring case.
func (p *Portfolio) Rename(id ID, name string) error {
	i, ok := p.assets.ByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAsset, id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	for j, a := range p.assets {
		if j != i && strings.EqualFold(a.Name, name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	p.assets[i].Name = name
	p.modified = true
	return nil
}

// Set updates a numeric field of an asset from draft text. The text goes
// through the same mask, parsing and range rules as a new asset. Only the
// edited field is checked, the other ones are kept as they are.
func (p *Portfolio) Set(id ID, field Field, draft string) error {
	i, ok := p.assets.ByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAsset, id)
	}
	a := p.assets[i]
	masked := FilterNumericInput(draft)
	var err error
	switch field {
	case FieldPrice:
		a.Price, err = resolveNumber(fieldPrice, masked)
	case FieldQuantity:
		a.Quantity, err = resolveNumber(fieldQuantity, masked)
	case FieldTarget:
		a.TargetPercentage, err = resolveNumber(fieldTarget, masked)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	if err != nil {
		return err
	}
	p.assets[i] = a
	p.modified = true
	return nil
}

// CashAdjustment returns the cash to deposit (positive) or withdraw (negative).
func (p *Portfolio) CashAdjustment() float64 { return p.cash }

// SetCashAdjustment sets the cash to deposit or withdraw.
func (p *Portfolio) SetCashAdjustment(v float64) {
	p.cash = v
	p.modified = true
}

// Plan evaluates the current assets and cash adjustment.
func (p *Portfolio) Plan() Plan { return Evaluate(p.assets.Clone(), p.cash) }

// Operations returns the operations to rebalance the current assets.
func (p *Portfolio) Operations() []Operation { return ComputeOperations(p.assets.Clone(), p.cash) }

// Rebalanced returns the projected assets once the current operations are
// applied.
func (p *Portfolio) Rebalanced() Assets {
	assets := p.assets.Clone()
	return ProjectRebalancedAssets(assets, ComputeOperations(assets, p.cash))
}

// CanSave reports whether there is something worth saving: the portfolio
// changed and its targets are complete.
func (p *Portfolio) CanSave() bool {
	return p.modified && p.assets.TargetsComplete()
}

// Snapshot captures the rebalanced projection of the portfolio and marks it
// as saved.
func (p *Portfolio) Snapshot(now time.Time) Snapshot {
	s := Snapshot{Date: now, Assets: p.Rebalanced()}
	p.modified = false
	return s
}

// Load replaces the live asset list with the snapshot's one. The cash
// adjustment is left as is.
func (p *Portfolio) Load(s Snapshot) {
	p.assets = s.Assets.Clone()
	p.modified = false
}
