package rebalance

import (
	"errors"
	"testing"
)

func TestFilterNumericInput(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"", ""},
		{"12", "12"},
		{"abc12,5", "12.5"},
		{"007", "7"},
		{"000", "0"},
		{"0.5", "0.5"},
		{".5", "0.5"},
		{"12.", "12."},
		{"1.2.3", "1.23"},
		{"1,2,3", "1.2,3"},
		{"-5", "5"},
		{"1 000", "1000"},
	}
	for _, tc := range testCases {
		if got := FilterNumericInput(tc.in); got != tc.want {
			t.Errorf("FilterNumericInput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	testCases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "12", want: 12},
		{in: "12.", want: 12},
		{in: "12,5", want: 12.5},
		{in: " 1 000.25 ", want: 1000.25},
		{in: "-200", want: -200},
		{in: "+3", want: 3},
		{in: "0.1", want: 0.1},
		{in: "", wantErr: true},
		{in: "-", wantErr: true},
		{in: ".", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.2.3", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseNumber(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidNumber) {
				t.Errorf("ParseNumber(%q) error = %v, want ErrInvalidNumber", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseNumber(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDraft_Resolve(t *testing.T) {
	got, err := Draft{Name: "  World ETF ", Price: "101,5", Quantity: "3", TargetPercentage: "60."}.Resolve()
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	want := Asset{Name: "World ETF", Price: 101.5, Quantity: 3, TargetPercentage: 60}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestDraft_ResolveZeroQuantity(t *testing.T) {
	if _, err := (Draft{Name: "Cash", Price: "1", Quantity: "0", TargetPercentage: "0"}).Resolve(); err != nil {
		t.Errorf("Resolve() unexpected error: %v", err)
	}
}

func TestDraft_ResolveErrors(t *testing.T) {
	testCases := []struct {
		name       string
		draft      Draft
		wantFields []string
		wantErr    error
	}{
		{
			name:       "empty name",
			draft:      Draft{Name: "   ", Price: "1", Quantity: "1", TargetPercentage: "10"},
			wantFields: []string{"name"},
			wantErr:    ErrEmptyName,
		},
		{
			name:       "zero price",
			draft:      Draft{Name: "A", Price: "0", Quantity: "1", TargetPercentage: "10"},
			wantFields: []string{"price"},
			wantErr:    ErrOutOfRange,
		},
		{
			name:       "negative quantity",
			draft:      Draft{Name: "A", Price: "1", Quantity: "-1", TargetPercentage: "10"},
			wantFields: []string{"quantity"},
			wantErr:    ErrOutOfRange,
		},
		{
			name:       "target above 100",
			draft:      Draft{Name: "A", Price: "1", Quantity: "1", TargetPercentage: "100.5"},
			wantFields: []string{"targetPercentage"},
			wantErr:    ErrOutOfRange,
		},
		{
			name:       "not a number",
			draft:      Draft{Name: "A", Price: "1", Quantity: "lots", TargetPercentage: "10"},
			wantFields: []string{"quantity"},
			wantErr:    ErrInvalidNumber,
		},
		{
			name:       "everything missing",
			draft:      Draft{},
			wantFields: []string{"price", "quantity", "targetPercentage", "name"},
			wantErr:    ErrEmptyName,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.draft.Resolve()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Resolve() error = %v, want a *ValidationError", err)
			}
			var fields []string
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			if len(fields) != len(tc.wantFields) {
				t.Fatalf("rejected fields = %v, want %v", fields, tc.wantFields)
			}
			for i := range fields {
				if fields[i] != tc.wantFields[i] {
					t.Errorf("rejected fields = %v, want %v", fields, tc.wantFields)
					break
				}
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("errors.Is(%v, %v) = false", err, tc.wantErr)
			}
		})
	}
}

func TestParseCashAdjustment(t *testing.T) {
	if got, err := ParseCashAdjustment("-1 200,50"); err != nil || got != -1200.5 {
		t.Errorf("ParseCashAdjustment() = %v, %v, want -1200.5", got, err)
	}
	if _, err := ParseCashAdjustment("soon"); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("ParseCashAdjustment() error = %v, want ErrInvalidNumber", err)
	}
}
