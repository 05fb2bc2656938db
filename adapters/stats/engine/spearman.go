package engine

import (
	"math"
	"sort"

	"cdicorr/domain/core"

	gonumstat "gonum.org/v1/gonum/stat"
)

// Spearman computes the rank correlation on the same pairwise-complete
// observations Pearson uses. Ties share their average rank, so the result
// is the Pearson coefficient of the ranks.
func Spearman(x, y []core.NullFloat) PearsonResult {
	xs, ys := PairwiseComplete(x, y)
	result := PearsonResult{R: math.NaN(), PValue: math.NaN(), N: len(xs)}
	if result.N < 2 || constant(xs) || constant(ys) {
		return result
	}

	rho := gonumstat.Correlation(ranks(xs), ranks(ys), nil)
	rho = math.Max(-1, math.Min(1, rho))
	result.R = rho
	result.PValue = pValue(rho, result.N)
	return result
}

// ranks converts values to 1-based ranks, averaging tied groups
func ranks(data []float64) []float64 {
	n := len(data)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return data[order[a]] < data[order[b]]
	})

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && data[order[j]] == data[order[i]] {
			j++
		}
		avg := float64(i+1) + float64(j-i-1)/2
		for k := i; k < j; k++ {
			out[order[k]] = avg
		}
		i = j
	}
	return out
}
