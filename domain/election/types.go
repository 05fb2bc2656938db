// Package election models county-level presidential results and their
// state-level aggregates.
package election

import (
	"cdicorr/domain/core"
)

// Column names in the county results file
const (
	ColStateAbbr    = "state_abbr"
	ColTotalVotes   = "total_votes"
	ColVotesDem     = "votes_dem"
	ColVotesGOP     = "votes_gop"
	ColPerDem       = "per_dem"
	ColPerGOP       = "per_gop"
	ColCombinedFIPS = "combined_fips"
	ColUnnamedIndex = "Unnamed: 0"
)

// DroppedBeforeAggregation are never summed: percentages and identifiers
var DroppedBeforeAggregation = []string{ColPerDem, ColPerGOP, ColCombinedFIPS, ColUnnamedIndex}

// RequiredColumns must exist in the county results file
var RequiredColumns = []string{ColStateAbbr, ColTotalVotes, ColVotesDem, ColVotesGOP}

// StateAggregate is the sum of every county row sharing a state abbreviation.
// Percentages are derived from the summed counts, never averaged.
type StateAggregate struct {
	StateAbbr string             `json:"state_abbr"`
	Counties  int                `json:"counties"`
	Sums      map[string]float64 `json:"sums"`
	PerDem    core.NullFloat     `json:"per_dem"`
	PerGOP    core.NullFloat     `json:"per_gop"`
}

// TotalVotes returns the summed total_votes
func (a StateAggregate) TotalVotes() float64 { return a.Sums[ColTotalVotes] }

// VotesDem returns the summed votes_dem
func (a StateAggregate) VotesDem() float64 { return a.Sums[ColVotesDem] }

// VotesGOP returns the summed votes_gop
func (a StateAggregate) VotesGOP() float64 { return a.Sums[ColVotesGOP] }

// Recompute derives PerDem and PerGOP from the summed counts
func (a *StateAggregate) Recompute() {
	total := a.TotalVotes()
	if total == 0 {
		a.PerDem = core.NoFloat()
		a.PerGOP = core.NoFloat()
		return
	}
	a.PerDem = core.SomeFloat(100 * a.VotesDem() / total)
	a.PerGOP = core.SomeFloat(100 * a.VotesGOP() / total)
}
