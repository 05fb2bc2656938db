package engine

import (
	"math"

	"cdicorr/domain/analysis"
	"cdicorr/domain/core"

	"github.com/montanaflynn/stats"
)

// Summarize describes the present values of a column. Statistics that need
// more data than is present are NaN.
func Summarize(values []core.NullFloat) analysis.ValueSummary {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if f, ok := v.Get(); ok {
			data = append(data, f)
		}
	}

	nan := math.NaN()
	summary := analysis.ValueSummary{
		Count:    len(data),
		Mean:     nan,
		StdDev:   nan,
		Median:   nan,
		Q1:       nan,
		Q3:       nan,
		Min:      nan,
		Max:      nan,
		Skewness: nan,
	}
	if len(data) == 0 {
		return summary
	}

	summary.Mean, _ = stats.Mean(data)
	summary.StdDev, _ = stats.StandardDeviation(data)
	summary.Median, _ = stats.Median(data)
	summary.Min, _ = stats.Min(data)
	summary.Max, _ = stats.Max(data)
	summary.Skewness = skewness(data, summary.Mean, summary.StdDev)

	if len(data) >= 4 {
		if q, err := stats.Quartile(data); err == nil {
			summary.Q1, summary.Q3 = q.Q1, q.Q3
		}
		if out, err := stats.QuartileOutliers(data); err == nil {
			summary.Outliers = len(out.Mild) + len(out.Extreme)
		}
	}
	return summary
}

// skewness is the bias-corrected Fisher-Pearson coefficient
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return math.NaN()
	}

	n := float64(len(data))
	sumCubed := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}
	return sumCubed / n * math.Sqrt(n*(n-1)) / (n - 2)
}
