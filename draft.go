package rebalance

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Draft is an asset as typed by the user: raw text, possibly incomplete
// (e.g. "12." while typing a decimal). The engine never sees a Draft, it must
// be resolved first.
type Draft struct {
	Name             string
	Price            string
	Quantity         string
	TargetPercentage string
}

const (
	msgRequired   = "is required"
	msgNotANumber = "is not a number"
	fieldName     = "name"
	fieldPrice    = "price"
	fieldQuantity = "quantity"
	fieldTarget   = "targetPercentage"
)

// resolvedAsset carries the validation rules of a resolved asset.
type resolvedAsset struct {
	Name             string  `json:"name" validate:"required"`
	Price            float64 `json:"price" validate:"gt=0"`
	Quantity         float64 `json:"quantity" validate:"gte=0"`
	TargetPercentage float64 `json:"targetPercentage" validate:"gte=0,lte=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields with the names users see in files.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// Resolve parses and validates the draft. On success the returned asset has
// no ID, the caller assigns it.
//
// The returned error is a *ValidationError listing every rejected field.
func (d Draft) Resolve() (Asset, error) {
	var fails []FieldError
	parse := func(field, text string) float64 {
		if strings.TrimSpace(text) == "" {
			fails = append(fails, FieldError{Field: field, Message: msgRequired})
			return 0
		}
		v, err := ParseNumber(text)
		if err != nil {
			fails = append(fails, FieldError{Field: field, Message: msgNotANumber})
		}
		return v
	}

	r := resolvedAsset{
		Name:             strings.TrimSpace(d.Name),
		Price:            parse(fieldPrice, d.Price),
		Quantity:         parse(fieldQuantity, d.Quantity),
		TargetPercentage: parse(fieldTarget, d.TargetPercentage),
	}
	fails = append(fails, check(r)...)
	if len(fails) > 0 {
		return Asset{}, &ValidationError{Fields: dedup(fails)}
	}
	return Asset{
		Name:             r.Name,
		Price:            r.Price,
		Quantity:         r.Quantity,
		TargetPercentage: r.TargetPercentage,
	}, nil
}

// resolveNumber parses a single numeric field and checks it against the rule
// that field carries in resolvedAsset.
func resolveNumber(field, text string) (float64, error) {
	fail := func(msg string) error {
		return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
	}
	if strings.TrimSpace(text) == "" {
		return 0, fail(msgRequired)
	}
	v, err := ParseNumber(text)
	if err != nil {
		return 0, fail(msgNotANumber)
	}
	if err := validate.Var(v, fieldRules[field]); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return 0, fail(ruleMessage(verrs[0].Tag(), verrs[0].Param()))
		}
		return 0, err
	}
	return v, nil
}

// fieldRules maps a json field name of resolvedAsset to its validate tag.
var fieldRules = func() map[string]string {
	t := reflect.TypeOf(resolvedAsset{})
	rules := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		rules[strings.SplitN(f.Tag.Get("json"), ",", 2)[0]] = f.Tag.Get("validate")
	}
	return rules
}()

// check runs the struct rules and converts failures to FieldErrors.
func check(r resolvedAsset) []FieldError {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "asset", Message: err.Error()}}
	}
	res := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		res = append(res, FieldError{Field: fe.Field(), Message: ruleMessage(fe.Tag(), fe.Param())})
	}
	return res
}

func ruleMessage(tag, param string) string {
	switch tag {
	case "required":
		return msgRequired
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be at least " + param
	case "lte":
		return "must be at most " + param
	default:
		return "fails rule " + tag
	}
}

// dedup keeps the first failure of each field: a field that failed to parse
// is also reported by the range rules, only the parse failure matters.
func dedup(fails []FieldError) []FieldError {
	seen := make(map[string]bool, len(fails))
	res := fails[:0]
	for _, f := range fails {
		if seen[f.Field] {
			continue
		}
		seen[f.Field] = true
		res = append(res, f)
	}
	return res
}

var notNumeric = regexp.MustCompile(`[^0-9.,]`)

// FilterNumericInput is the input mask applied to numeric fields while the
// user types: it keeps digits and separators, turns the first ',' into '.',
// keeps a single '.', and strips leading zeros from the integer part.
//
// The result can be incomplete ("12."), ParseNumber accepts it.
func FilterNumericInput(value string) string {
	filtered := notNumeric.ReplaceAllString(value, "")
	filtered = strings.Replace(filtered, ",", ".", 1)

	if parts := strings.Split(filtered, "."); len(parts) > 2 {
		filtered = parts[0] + "." + strings.Join(parts[1:], "")
	}
	if filtered == "" {
		return filtered
	}

	integer, fraction, hasFraction := strings.Cut(filtered, ".")
	integer = strings.TrimLeft(integer, "0")
	if integer == "" {
		integer = "0"
	}
	if hasFraction {
		return integer + "." + fraction
	}
	return integer
}

// ParseNumber parses a decimal number as typed by a user. It accepts ',' as
// decimal separator, spaces as thousands separators and a trailing '.'.
func ParseNumber(s string) (float64, error) {
	clean := strings.Join(strings.Fields(s), "")
	clean = strings.ReplaceAll(clean, ",", ".")
	clean = strings.TrimSuffix(clean, ".")
	if clean == "" || clean == "-" || clean == "+" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	clean = strings.TrimPrefix(clean, "+")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return d.InexactFloat64(), nil
}

// ParseCashAdjustment parses a signed cash amount: positive for a deposit,
// negative for a withdrawal.
func ParseCashAdjustment(s string) (float64, error) {
	v, err := ParseNumber(s)
	if err != nil {
		return 0, fmt.Errorf("cash adjustment: %w", err)
	}
	return v, nil
}
