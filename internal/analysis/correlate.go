// Package analysis groups joined health records by survey question and
// computes each question's correlation with Republican vote share.
package analysis

import (
	"sort"

	"cdicorr/adapters/stats/engine"
	domain "cdicorr/domain/analysis"
	"cdicorr/domain/core"
	"cdicorr/domain/health"
	"cdicorr/internal"
)

// Options controls which rows enter a question's subset
type Options struct {
	Stratification string // only rows with this stratification are used
}

// DefaultOptions restricts subsets to unstratified totals
func DefaultOptions() Options {
	return Options{Stratification: "Overall"}
}

// Questions returns the distinct questions in first-appearance order
func Questions(records []health.HealthRecord) []string {
	seen := make(map[string]bool)
	var questions []string
	for _, r := range records {
		if !seen[r.Question] {
			seen[r.Question] = true
			questions = append(questions, r.Question)
		}
	}
	return questions
}

// Subset returns the question's rows matching the stratification, in row order
func Subset(records []health.HealthRecord, question string, opts Options) []health.HealthRecord {
	var subset []health.HealthRecord
	for _, r := range records {
		if r.Question == question && r.Stratification == opts.Stratification {
			subset = append(subset, r)
		}
	}
	return subset
}

// UnitMode returns the most frequent non-empty unit. Ties go to the
// lexicographically smallest unit. ok is false when no row has a unit.
func UnitMode(subset []health.HealthRecord) (unit string, ok bool) {
	counts := make(map[string]int)
	for _, r := range subset {
		if r.DataValueUnit != "" {
			counts[r.DataValueUnit]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	units := make([]string, 0, len(counts))
	for u := range counts {
		units = append(units, u)
	}
	sort.Strings(units)

	best := units[0]
	for _, u := range units[1:] {
		if counts[u] > counts[best] {
			best = u
		}
	}
	return best, true
}

// Correlate computes one result per question whose subset carries a unit.
// Questions without one are skipped. Results come back in question
// first-appearance order; Rank orders them for reporting.
func Correlate(records []health.HealthRecord, opts Options, logger *internal.Logger) []domain.CorrelationResult {
	if logger == nil {
		logger = internal.Discard
	}
	logger = logger.With("Analyzer")

	var results []domain.CorrelationResult
	for _, question := range Questions(records) {
		subset := Subset(records, question, opts)

		unit, ok := UnitMode(subset)
		if !ok {
			logger.Debug("Skipping %q: no %s rows with a unit (%d rows)", question, opts.Stratification, len(subset))
			continue
		}

		values := make([]core.NullFloat, len(subset))
		gop := make([]core.NullFloat, len(subset))
		for i, r := range subset {
			values[i] = r.DataValue
			gop[i] = r.PerGOP
		}

		pearson := engine.Pearson(values, gop)
		spearman := engine.Spearman(values, gop)
		result := domain.CorrelationResult{
			Question:    question,
			Unit:        unit,
			Coefficient: pearson.R,
			N:           pearson.N,
			PValue:      pearson.PValue,
			Spearman:    spearman.R,
			SpearmanP:   spearman.PValue,
			Summary:     engine.Summarize(values),
			Subset:      subset,
		}
		logger.Trace("%s: r=%.4f rho=%.4f n=%d p=%.4g", result.Label(), result.Coefficient, result.Spearman, result.N, result.PValue)
		results = append(results, result)
	}
	return results
}
