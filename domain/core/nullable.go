package core

import (
	"encoding/json"
	"math"
)

// NullFloat is a float64 that may be absent. Absent values are excluded from
// pairwise statistics rather than treated as zero.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// SomeFloat wraps a present value. NaN and infinities are stored as absent.
func SomeFloat(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

// NoFloat returns an absent value
func NoFloat() NullFloat {
	return NullFloat{}
}

// Get returns the value and whether it is present
func (n NullFloat) Get() (float64, bool) {
	return n.Float64, n.Valid
}

// OrNaN returns the value, or NaN when absent
func (n NullFloat) OrNaN() float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}

// MarshalJSON encodes absent values as null
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}
