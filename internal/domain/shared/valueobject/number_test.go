package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		numeric bool
	}{
		{"integer", `3000`, "3000", true},
		{"decimal", `12.5`, "12.5", true},
		{"negative", `-3`, "-3", true},
		{"numeric string", `"2"`, "2", true},
		{"padded numeric string", `" 7.25 "`, "7.25", true},
		{"non numeric string", `"abc"`, "0", false},
		{"blank string", `""`, "0", false},
		{"NaN string", `"NaN"`, "0", false},
		{"infinity string", `"Infinity"`, "0", false},
		{"null", `null`, "0", false},
		{"boolean", `true`, "0", false},
		{"exponent", `1e3`, "1000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.True(t, n.Decimal().Equal(decimal.RequireFromString(tt.want)), "got %s", n.Decimal())
			assert.Equal(t, tt.numeric, n.IsNumeric())
		})
	}
}

func TestNumber_InsideStruct(t *testing.T) {
	var line struct {
		Price    Number `json:"price"`
		Quantity Number `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"oops","quantity":2}`), &line))

	assert.True(t, line.Price.IsZero())
	assert.Equal(t, 2.0, line.Quantity.Float64())
}

func TestNumber_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Number `json:"total"`
	}{Total: NumberFromInt(11000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":11000}`, string(b))
}

func TestNumberFromFloat_NonFinite(t *testing.T) {
	n := NumberFromFloat(0 / zero())
	assert.True(t, n.IsZero())
	assert.False(t, n.IsNumeric())
	assert.True(t, NumberFromFloat(1.5).IsNumeric())
}

func zero() float64 { return 0 }
