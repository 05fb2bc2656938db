// Package engine computes the correlation statistics for one question's
// subset of health records.
package engine

import (
	"math"

	"cdicorr/domain/core"

	gonumstat "gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// PearsonResult holds a coefficient computed on pairwise-complete observations
type PearsonResult struct {
	R      float64 // NaN when undefined
	PValue float64 // two-tailed; NaN when undefined
	N      int     // complete pairs used
}

// Defined reports whether R is a finite number
func (p PearsonResult) Defined() bool {
	return !math.IsNaN(p.R) && !math.IsInf(p.R, 0)
}

// PairwiseComplete keeps positions where both x and y are present
func PairwiseComplete(x, y []core.NullFloat) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		xv, xok := x[i].Get()
		yv, yok := y[i].Get()
		if xok && yok {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys
}

// Pearson computes the product-moment correlation of x and y, excluding any
// position where either value is absent. Fewer than two pairs or a constant
// column leave the coefficient undefined.
func Pearson(x, y []core.NullFloat) PearsonResult {
	xs, ys := PairwiseComplete(x, y)
	result := PearsonResult{R: math.NaN(), PValue: math.NaN(), N: len(xs)}
	if result.N < 2 {
		return result
	}
	if constant(xs) || constant(ys) {
		return result
	}

	r := gonumstat.Correlation(xs, ys, nil)
	// Clamp to [-1, 1] range (due to floating point precision)
	r = math.Max(-1, math.Min(1, r))
	result.R = r
	result.PValue = pValue(r, result.N)
	return result
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// pValue tests r against zero with a Student's t on n-2 degrees of freedom
func pValue(r float64, n int) float64 {
	if n < 3 || math.IsNaN(r) {
		return math.NaN()
	}
	if math.Abs(r) == 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}
