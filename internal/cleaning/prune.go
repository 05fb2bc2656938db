// Package cleaning prunes uninformative health columns, coerces the value
// column and collapses county election rows into state aggregates.
package cleaning

import (
	"cdicorr/domain/dataset"
	"cdicorr/domain/health"
)

// DefaultDenylist are identifier and footnote columns that never carry signal
var DefaultDenylist = []string{
	"DataValueFootnoteSymbol",
	"TopicID",
	"QuestionID",
	"DataValueTypeID",
	"StratificationCategoryID1",
	"StratificationID1",
}

// PruneOptions controls column pruning
type PruneOptions struct {
	MinDistinct int      // columns with fewer distinct raw values are dropped
	Denylist    []string // always dropped
	Protected   []string // never dropped for low cardinality
}

// DefaultPruneOptions drops columns with fewer than 3 distinct values while
// keeping the columns the analysis reads.
func DefaultPruneOptions() PruneOptions {
	return PruneOptions{
		MinDistinct: 3,
		Denylist:    DefaultDenylist,
		Protected:   health.RequiredColumns,
	}
}

// PruneColumns returns a copy of table without denylisted or near-constant
// columns, and the dropped column names in header order. Empty cells count
// as one distinct value.
func PruneColumns(table *dataset.Table, opts PruneOptions) (*dataset.Table, []string) {
	deny := toSet(opts.Denylist)
	protected := toSet(opts.Protected)

	var dropped []string
	for _, h := range table.Headers {
		switch {
		case deny[h]:
			dropped = append(dropped, h)
		case protected[h]:
		case table.Distinct(h) < opts.MinDistinct:
			dropped = append(dropped, h)
		}
	}
	return table.Without(dropped), dropped
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
