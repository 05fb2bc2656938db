package analysis

import (
	"sort"

	domain "cdicorr/domain/analysis"
	"cdicorr/domain/core"
)

// Rank returns results sorted ascending by coefficient. The sort is stable
// so equal coefficients keep question order. Undefined coefficients are
// grouped at the end, or at the start when placement is UndefinedFirst.
func Rank(results []domain.CorrelationResult, placement domain.UndefinedPlacement) []domain.CorrelationResult {
	ranked := append([]domain.CorrelationResult(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Defined() != b.Defined() {
			if placement == domain.UndefinedFirst {
				return !a.Defined()
			}
			return a.Defined()
		}
		if !a.Defined() {
			return false
		}
		return a.Coefficient < b.Coefficient
	})
	return ranked
}

// SelectForMap picks the lowest or highest defined coefficient. On ties the
// earliest ranked result wins.
func SelectForMap(ranked []domain.CorrelationResult, selection domain.MapSelection) (domain.CorrelationResult, error) {
	found := false
	var best domain.CorrelationResult
	for _, r := range ranked {
		if !r.Defined() {
			continue
		}
		if !found {
			best, found = r, true
			continue
		}
		if selection == domain.SelectHighest {
			if r.Coefficient > best.Coefficient {
				best = r
			}
		} else if r.Coefficient < best.Coefficient {
			best = r
		}
	}
	if !found {
		return domain.CorrelationResult{}, core.ErrNoDefinedCorrelation
	}
	return best, nil
}
