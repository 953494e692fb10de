package valueobject

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a numeric value decoded leniently from JSON.
// JSON numbers and numeric strings are accepted; null, booleans, blank or
// non-numeric strings and non-finite values decode to zero instead of failing.
// IsNumeric tells the two cases apart.
type Number struct {
	value   decimal.Decimal
	numeric bool
}

// NewNumber creates a Number from a decimal value
func NewNumber(d decimal.Decimal) Number {
	return Number{value: d, numeric: true}
}

// NumberFromFloat creates a Number from a float64; non-finite values become zero
func NumberFromFloat(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}
	}
	return Number{value: decimal.NewFromFloat(f), numeric: true}
}

// NumberFromInt creates a Number from an int64
func NumberFromInt(i int64) Number {
	return Number{value: decimal.NewFromInt(i), numeric: true}
}

// Decimal returns the value as a decimal
func (n Number) Decimal() decimal.Decimal {
	return n.value
}

// Float64 returns the value as a float64
func (n Number) Float64() float64 {
	return n.value.InexactFloat64()
}

// IsNumeric reports whether the value came from an actual finite number
func (n Number) IsNumeric() bool {
	return n.numeric
}

// IsZero reports whether the value is zero
func (n Number) IsZero() bool {
	return n.value.IsZero()
}

// MarshalJSON encodes the value as a bare JSON number
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.value.String()), nil
}

// UnmarshalJSON implements lenient decoding, it never returns an error for
// well-formed JSON input.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			n.value, n.numeric = decimal.Zero, false
			return nil
		}
		n.value, n.numeric = parseLenient(s)
		return nil
	}
	n.value, n.numeric = parseLenient(string(raw))
	return nil
}

func parseLenient(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NewFromFloat(f), true
	}
	return d, true
}
