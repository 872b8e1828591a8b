// Package money handles monetary values as canonical decimal strings.
//
// Amounts arrive from the backend as strings or JSON numbers of arbitrary
// precision. They are kept as text end to end; the only arithmetic (line
// subtotals) goes through shopspring/decimal, never float64.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is the canonical zero.
const Zero = "0"

// CurrencyPrefix is prepended by FormatRupiah.
const CurrencyPrefix = "Rp "

const (
	groupSeparator   = "."
	decimalSeparator = ","
)

// maxExponent bounds exponent notation. Anything larger is unparsable.
const maxExponent = 64

// Canonicalize turns v into a canonical decimal string: no redundant leading
// zeros in the integer part, no trailing zeros in the fraction, no empty
// fraction. A leading '-' is kept even when the magnitude is zero, so
// "-0.00" becomes "-0". Anything that is not a plain decimal yields "0".
func Canonicalize(v any) string {
	raw := strings.TrimSpace(text(v))
	if raw == "" {
		return Zero
	}
	if i := strings.IndexAny(raw, "eE"); i >= 0 {
		expanded, ok := expandExponent(raw, i)
		if !ok {
			return Zero
		}
		raw = expanded
	}

	sign := ""
	switch raw[0] {
	case '-':
		sign = "-"
		raw = raw[1:]
	case '+':
		raw = raw[1:]
	}

	integer, fraction, _ := strings.Cut(raw, ".")
	if integer == "" && fraction == "" {
		return Zero
	}
	if !allDigits(integer) || !allDigits(fraction) {
		return Zero
	}

	integer = strings.TrimLeft(integer, "0")
	if integer == "" {
		integer = "0"
	}
	fraction = strings.TrimRight(fraction, "0")

	if fraction == "" {
		return sign + integer
	}
	return sign + integer + "." + fraction
}

// expandExponent writes out raw, whose exponent marker is at index at, as a
// plain decimal. The sign of the mantissa survives a zero result.
func expandExponent(raw string, at int) (string, bool) {
	exp, err := strconv.Atoi(raw[at+1:])
	if err != nil || exp > maxExponent || exp < -maxExponent {
		return "", false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", false
	}
	out := d.String()
	if raw[0] == '-' && !strings.HasPrefix(out, "-") {
		out = "-" + out
	}
	return out, true
}

// FormatRupiah renders a decimal string for display, e.g.
// "1234567.5" -> "Rp 1.234.567,5". It only regroups text.
func FormatRupiah(value string) string {
	canonical := Canonicalize(value)

	sign := ""
	if strings.HasPrefix(canonical, "-") {
		sign = "-"
		canonical = canonical[1:]
	}
	integer, fraction, _ := strings.Cut(canonical, ".")

	out := CurrencyPrefix + sign + group(integer)
	if fraction != "" {
		out += decimalSeparator + fraction
	}
	return out
}

// Mul returns qty * price as a canonical decimal string. An unparsable price
// counts as zero.
func Mul(qty int64, price string) string {
	d, err := decimal.NewFromString(Canonicalize(price))
	if err != nil {
		return Zero
	}
	return Canonicalize(d.Mul(decimal.NewFromInt(qty)).String())
}

// IsZero reports whether a canonical string has zero magnitude ("0" or "-0").
func IsZero(value string) bool {
	c := Canonicalize(value)
	return c == Zero || c == "-"+Zero
}

func group(digits string) string {
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
			b.WriteString(groupSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return formatFloat(float64(t), 32)
	case float64:
		return formatFloat(t, 64)
	case decimal.Decimal:
		return decimalText(t)
	case *decimal.Decimal:
		if t == nil {
			return ""
		}
		return decimalText(*t)
	case fmt.Stringer:
		return t.String()
	}
	return ""
}

func decimalText(d decimal.Decimal) string {
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return ""
	}
	return d.String()
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// Amount is a canonical decimal string that decodes from either a JSON
// string or a JSON number without passing through float64.
type Amount string

// String returns the canonical text.
func (a Amount) String() string {
	return string(a)
}

// Display renders the amount with FormatRupiah.
func (a Amount) Display() string {
	return FormatRupiah(string(a))
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Zero
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(Canonicalize(s))
		return nil
	}
	*a = Amount(Canonicalize(json.Number(data)))
	return nil
}
