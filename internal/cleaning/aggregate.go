package cleaning

import (
	"fmt"
	"sort"
	"strings"

	"cdicorr/adapters/datareadiness/coercer"
	"cdicorr/domain/core"
	"cdicorr/domain/dataset"
	"cdicorr/domain/election"
	"cdicorr/internal/errors"
)

// AggregateElection collapses county rows into one row per state. Every
// numeric column is summed; percentage and identifier columns are dropped
// first and per_dem/per_gop are recomputed from the summed counts. The result
// is sorted by state abbreviation.
func AggregateElection(table *dataset.Table, c *coercer.NumericCoercer) ([]election.StateAggregate, error) {
	for _, col := range election.RequiredColumns {
		if !table.HasColumn(col) {
			return nil, core.NewMissingColumnError("election table", col)
		}
	}

	numeric, err := numericColumns(table, c)
	if err != nil {
		return nil, err
	}

	byState := make(map[string]*election.StateAggregate)
	for _, row := range table.Rows {
		abbr := strings.TrimSpace(row[election.ColStateAbbr])
		if abbr == "" {
			continue
		}
		agg, ok := byState[abbr]
		if !ok {
			agg = &election.StateAggregate{StateAbbr: abbr, Sums: make(map[string]float64, len(numeric))}
			for _, col := range numeric {
				agg.Sums[col] = 0
			}
			byState[abbr] = agg
		}
		agg.Counties++
		for _, col := range numeric {
			// absent cells are skipped, as a NaN-skipping sum would
			if v, ok := c.Coerce(row[col]).Get(); ok {
				agg.Sums[col] += v
			}
		}
	}

	abbrs := make([]string, 0, len(byState))
	for abbr := range byState {
		abbrs = append(abbrs, abbr)
	}
	sort.Strings(abbrs)

	out := make([]election.StateAggregate, 0, len(abbrs))
	for _, abbr := range abbrs {
		agg := byState[abbr]
		agg.Recompute()
		out = append(out, *agg)
	}
	return out, nil
}

// numericColumns lists the summable columns in header order
func numericColumns(table *dataset.Table, c *coercer.NumericCoercer) ([]string, error) {
	skip := toSet(election.DroppedBeforeAggregation)
	skip[election.ColStateAbbr] = true

	required := toSet([]string{election.ColTotalVotes, election.ColVotesDem, election.ColVotesGOP})

	var cols []string
	for _, h := range table.Headers {
		if skip[h] || strings.HasPrefix(h, "Unnamed: ") {
			continue
		}
		analysis := c.AnalyzeColumn(table.Column(h))
		if analysis.IsNumeric {
			cols = append(cols, h)
			continue
		}
		if required[h] {
			return nil, errors.InvalidInput(fmt.Sprintf(
				"election column %s is not numeric (%d of %d values parse)",
				h, analysis.NumericCount, analysis.ValidCount))
		}
	}
	return cols, nil
}
