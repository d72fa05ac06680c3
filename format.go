package rebalance

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatNumber formats a value for display: two decimals, dropped when they
// are zero, and thousands grouped with a space.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "0"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	s := exact(v).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	integer, fraction, _ := strings.Cut(s, ".")
	res := sign + group(integer, " ")
	if strings.Trim(fraction, "0") != "" {
		res += "." + fraction
	}
	return res
}

// exact returns the binary value of v with all its digits. Rounding must
// start from it: 1.005 is stored just below the tie and displays as 1, while
// its shortest decimal form would round up to 1.01.
func exact(v float64) decimal.Decimal {
	return decimal.RequireFromString(strconv.FormatFloat(v, 'f', 1074, 64))
}

// group inserts sep every three digits from the right.
func group(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatAmount formats a monetary value in the display currency. The
// currency is only a label, no conversion ever happens. An empty or unknown
// currency falls back to FormatNumber.
func FormatAmount(v float64, currency string) string {
	if currency == "" || math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatNumber(v)
	}
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return FormatNumber(v) + " " + currency
	}
	minor := exact(v).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}
