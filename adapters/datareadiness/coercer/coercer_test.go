package coercer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce_Strict(t *testing.T) {
	c := NewNumericCoercer(DefaultCoercionConfig())

	cases := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"12.5", 12.5, true},
		{" 7 ", 7, true},
		{"1e3", 1000, true},
		{"-0.25", -0.25, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"~", 0, false},
		{"1,234", 0, false},
		{"No", 0, false},
		{"12%", 0, false},
		{"(12)", 0, false},
	}
	for _, tc := range cases {
		got := c.Coerce(tc.raw)
		assert.Equal(t, tc.valid, got.Valid, "raw=%q", tc.raw)
		if tc.valid {
			assert.Equal(t, tc.want, got.Float64, "raw=%q", tc.raw)
		}
	}
}

func TestCoerceColumn_KeepsPositions(t *testing.T) {
	c := NewNumericCoercer(DefaultCoercionConfig())
	out := c.CoerceColumn([]string{"1", "x", "3"})

	assert.Len(t, out, 3)
	assert.True(t, out[0].Valid)
	assert.False(t, out[1].Valid)
	assert.Equal(t, 3.0, out[2].Float64)
}

func TestAnalyzeColumn(t *testing.T) {
	c := NewNumericCoercer(DefaultCoercionConfig())

	numeric := c.AnalyzeColumn([]string{"10", "", "20.5"})
	assert.True(t, numeric.IsNumeric)
	assert.Equal(t, 2, numeric.ValidCount)

	mixed := c.AnalyzeColumn([]string{"10", "Autauga County"})
	assert.False(t, mixed.IsNumeric)
	assert.Equal(t, 0.5, mixed.NumericRatio)

	empty := c.AnalyzeColumn([]string{"", ""})
	assert.False(t, empty.IsNumeric)
}
