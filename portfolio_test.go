package rebalance

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func mustAdd(t *testing.T, p *Portfolio, d Draft) Asset {
	t.Helper()
	a, err := p.Add(d)
	if err != nil {
		t.Fatalf("Add(%+v) unexpected error: %v", d, err)
	}
	return a
}

func TestPortfolio_Add(t *testing.T) {
	p := NewPortfolio(nil)
	a := mustAdd(t, p, Draft{Name: "Stocks", Price: "100", Quantity: "5", TargetPercentage: "50"})
	b := mustAdd(t, p, Draft{Name: "Bonds", Price: "50", Quantity: "10", TargetPercentage: "50"})

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids are not unique: %q, %q", a.ID, b.ID)
	}
	if !p.Modified() {
		t.Error("Modified() = false after Add")
	}
	if _, err := p.Add(Draft{Name: "STOCKS", Price: "1", Quantity: "1", TargetPercentage: "0"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Add() duplicate error = %v, want ErrDuplicateName", err)
	}
	if _, err := p.Add(Draft{Name: "Gold", Price: "0", Quantity: "1", TargetPercentage: "0"}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Add() zero price error = %v, want ErrOutOfRange", err)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}

func TestPortfolio_RemoveDoesNotReuseIDs(t *testing.T) {
	p := NewPortfolio(nil)
	a := mustAdd(t, p, Draft{Name: "A", Price: "1", Quantity: "1", TargetPercentage: "100"})
	if err := p.Remove(a.ID); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if err := p.Remove(a.ID); !errors.Is(err, ErrUnknownAsset) {
		t.Errorf("second Remove() error = %v, want ErrUnknownAsset", err)
	}
	b := mustAdd(t, p, Draft{Name: "A", Price: "1", Quantity: "1", TargetPercentage: "100"})
	if b.ID == a.ID {
		t.Errorf("id %q was reused", a.ID)
	}
}

func TestPortfolio_Rename(t *testing.T) {
	p := NewPortfolio(nil)
	a := mustAdd(t, p, Draft{Name: "A", Price: "1", Quantity: "1", TargetPercentage: "50"})
	mustAdd(t, p, Draft{Name: "B", Price: "1", Quantity: "1", TargetPercentage: "50"})

	if err := p.Rename(a.ID, "  "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Rename() empty error = %v, want ErrEmptyName", err)
	}
	if err := p.Rename(a.ID, "b"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Rename() duplicate error = %v, want ErrDuplicateName", err)
	}
	if err := p.Rename(a.ID, " a "); err != nil {
		t.Errorf("Rename() to itself with another case: %v", err)
	}
	if got := p.Assets()[0].Name; got != "a" {
		t.Errorf("name = %q, want %q", got, "a")
	}
	if err := p.Rename("nope", "C"); !errors.Is(err, ErrUnknownAsset) {
		t.Errorf("Rename() unknown error = %v, want ErrUnknownAsset", err)
	}
}

func TestPortfolio_Set(t *testing.T) {
	p := NewPortfolio(nil)
	a := mustAdd(t, p, Draft{Name: "A", Price: "10", Quantity: "1", TargetPercentage: "50"})

	testCases := []struct {
		field   Field
		draft   string
		want    Asset
		wantErr error
	}{
		{field: FieldPrice, draft: "12,5", want: Asset{ID: a.ID, Name: "A", Price: 12.5, Quantity: 1, TargetPercentage: 50}},
		{field: FieldQuantity, draft: "3.", want: Asset{ID: a.ID, Name: "A", Price: 12.5, Quantity: 3, TargetPercentage: 50}},
		{field: FieldTarget, draft: "0075", want: Asset{ID: a.ID, Name: "A", Price: 12.5, Quantity: 3, TargetPercentage: 75}},
		{field: FieldTarget, draft: "150", wantErr: ErrOutOfRange},
		{field: FieldPrice, draft: "0", wantErr: ErrOutOfRange},
		{field: FieldQuantity, draft: "", wantErr: ErrInvalidNumber},
	}
	for _, tc := range testCases {
		err := p.Set(a.ID, tc.field, tc.draft)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Set(%s, %q) error = %v, want %v", tc.field, tc.draft, err, tc.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Set(%s, %q) unexpected error: %v", tc.field, tc.draft, err)
		}
		if got := p.Assets()[0]; got != tc.want {
			t.Errorf("after Set(%s, %q) asset = %+v, want %+v", tc.field, tc.draft, got, tc.want)
		}
	}
}

func TestParseField(t *testing.T) {
	for in, want := range map[string]Field{"price": FieldPrice, "QTY": FieldQuantity, "target": FieldTarget, "%": FieldTarget} {
		got, err := ParseField(in)
		if err != nil || got != want {
			t.Errorf("ParseField(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseField("name"); err == nil {
		t.Error("ParseField(name) expected an error")
	}
}

func TestPortfolio_SnapshotCapturesProjection(t *testing.T) {
	p := NewPortfolio(base())
	p.SetCashAdjustment(200)
	if !p.CanSave() {
		t.Fatal("CanSave() = false, want true")
	}

	now := time.UnixMilli(1_700_000_000_000)
	s := p.Snapshot(now)

	want := Assets{asset("A", 100, 6, 50), asset("B", 50, 12, 50)}
	if diff := cmp.Diff(want, s.Assets, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("snapshot assets mismatch (-want +got):\n%s", diff)
	}
	if !s.Date.Equal(now) {
		t.Errorf("snapshot date = %v, want %v", s.Date, now)
	}
	if p.CanSave() {
		t.Error("CanSave() = true right after a save")
	}
	// the live portfolio is left untouched.
	if diff := cmp.Diff(base(), p.Assets()); diff != "" {
		t.Errorf("live assets changed (-want +got):\n%s", diff)
	}
}

func TestPortfolio_CanSaveNeedsCompleteTargets(t *testing.T) {
	p := NewPortfolio(nil)
	mustAdd(t, p, Draft{Name: "A", Price: "1", Quantity: "1", TargetPercentage: "90"})
	if p.CanSave() {
		t.Error("CanSave() = true with targets summing to 90")
	}
}

func TestPortfolio_Load(t *testing.T) {
	p := NewPortfolio(Assets{asset("Old", 1, 1, 100)})
	p.SetCashAdjustment(50)

	p.Load(Snapshot{Date: time.Now(), Assets: base()})

	if diff := cmp.Diff(base(), p.Assets()); diff != "" {
		t.Errorf("loaded assets mismatch (-want +got):\n%s", diff)
	}
	if p.Modified() {
		t.Error("Modified() = true right after a load")
	}
	if p.CashAdjustment() != 50 {
		t.Errorf("CashAdjustment() = %v, want 50", p.CashAdjustment())
	}
	ops := p.Operations()
	if len(ops) != 2 || ops[0].Action != Buy {
		t.Errorf("Operations() = %+v, want two buys", ops)
	}
}

func TestPortfolio_AssetsIsACopy(t *testing.T) {
	p := NewPortfolio(base())
	as := p.Assets()
	as[0].Quantity = 1000
	if p.Assets()[0].Quantity != 5 {
		t.Error("modifying Assets() result changed the portfolio")
	}
}

func TestPortfolio_SetKeepsOtherFields(t *testing.T) {
	// a withdrawal larger than the portfolio leaves negative quantities.
	p := NewPortfolio(Assets{asset("A", 100, 1, 50), asset("B", 50, 2, 50)})
	p.SetCashAdjustment(-1200)
	saved := p.Snapshot(time.Now())
	for _, a := range saved.Assets {
		if a.Quantity >= 0 {
			t.Fatalf("snapshot asset %q quantity = %v, want negative", a.Name, a.Quantity)
		}
	}

	p.Load(saved)
	a := p.Assets()[0]
	if err := p.Set(a.ID, FieldPrice, "110"); err != nil {
		t.Fatalf("Set(price) unexpected error: %v", err)
	}
	got := p.Assets()[0]
	want := Asset{ID: a.ID, Name: a.Name, Price: 110, Quantity: a.Quantity, TargetPercentage: a.TargetPercentage}
	if got != want {
		t.Errorf("after Set(price) asset = %+v, want %+v", got, want)
	}

	// the edited field still goes through the mask, which drops the sign.
	if err := p.Set(a.ID, FieldQuantity, "-1"); err != nil {
		t.Fatalf("Set(quantity, -1) unexpected error: %v", err)
	}
	if q := p.Assets()[0].Quantity; q != 1 {
		t.Errorf("Set(quantity, -1) quantity = %v, want 1 once masked", q)
	}
}

func TestPortfolio_CanSaveAgreesWithPlan(t *testing.T) {
	for _, second := range []float64{49.98, 49.99, 49.995, 50, 50.005, 50.01, 50.02} {
		p := NewPortfolio(nil)
		mustAdd(t, p, Draft{Name: "A", Price: "10", Quantity: "1", TargetPercentage: "50"})
		mustAdd(t, p, Draft{Name: "B", Price: "10", Quantity: "1", TargetPercentage: FormatNumber(second)})
		plan := p.Plan()
		if got, want := p.CanSave(), plan.Status != NotRebalanceable; got != want {
			t.Errorf("targets 50+%v: CanSave() = %v, plan status %v", second, got, plan.Status)
		}
		if !p.CanSave() && plan.Reason == "" {
			t.Errorf("targets 50+%v: CanSave() = false with no plan reason", second)
		}
	}
}
