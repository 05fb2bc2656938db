// Package join attaches state-level vote shares and boundaries to health
// records by state abbreviation. Lookups that miss are an expected data
// condition and yield absent values, never errors.
package join

import (
	"cdicorr/domain/core"
	"cdicorr/domain/election"
	"cdicorr/domain/geo"
	"cdicorr/domain/health"

	"github.com/paulmach/orb"
)

// VoteShare is the Democratic and Republican percentage for one state
type VoteShare struct {
	PerDem core.NullFloat
	PerGOP core.NullFloat
}

// VoteIndex maps state abbreviation to vote share
type VoteIndex struct {
	shares map[string]VoteShare
}

// NewVoteIndex builds the index from state aggregates; later duplicates win
func NewVoteIndex(aggregates []election.StateAggregate) *VoteIndex {
	shares := make(map[string]VoteShare, len(aggregates))
	for _, a := range aggregates {
		shares[a.StateAbbr] = VoteShare{PerDem: a.PerDem, PerGOP: a.PerGOP}
	}
	return &VoteIndex{shares: shares}
}

// Lookup returns the share for abbr and whether it was found
func (x *VoteIndex) Lookup(abbr string) (VoteShare, bool) {
	share, ok := x.shares[abbr]
	return share, ok
}

// Len returns the number of indexed states
func (x *VoteIndex) Len() int { return len(x.shares) }

// GeometryIndex maps state abbreviation to boundary
type GeometryIndex struct {
	shapes geo.StateGeometry
}

// NewGeometryIndex wraps the loaded boundaries
func NewGeometryIndex(shapes geo.StateGeometry) *GeometryIndex {
	return &GeometryIndex{shapes: shapes}
}

// Lookup returns the boundary for abbr and whether it was found
func (x *GeometryIndex) Lookup(abbr string) (orb.MultiPolygon, bool) {
	shape, ok := x.shapes[abbr]
	return shape, ok
}

// Len returns the number of indexed states
func (x *GeometryIndex) Len() int { return len(x.shapes) }

// Stats counts lookups that missed
type Stats struct {
	Rows      int
	Unmatched int
}

// AttachVotes returns a copy of records with PerDem/PerGOP set from idx.
// Output length and order equal the input's; misses get absent shares.
func AttachVotes(records []health.HealthRecord, idx *VoteIndex) ([]health.HealthRecord, Stats) {
	out := make([]health.HealthRecord, len(records))
	stats := Stats{Rows: len(records)}
	for i, r := range records {
		share, ok := idx.Lookup(r.LocationAbbr)
		if ok {
			r.PerDem, r.PerGOP = share.PerDem, share.PerGOP
		} else {
			r.PerDem, r.PerGOP = core.NoFloat(), core.NoFloat()
			stats.Unmatched++
		}
		out[i] = r
	}
	return out, stats
}

// AttachGeometry returns a copy of records with Geometry set from idx.
// Output length and order equal the input's; misses get a nil geometry.
func AttachGeometry(records []health.HealthRecord, idx *GeometryIndex) ([]health.HealthRecord, Stats) {
	out := make([]health.HealthRecord, len(records))
	stats := Stats{Rows: len(records)}
	for i, r := range records {
		shape, ok := idx.Lookup(r.LocationAbbr)
		if ok {
			r.Geometry = shape
		} else {
			r.Geometry = nil
			stats.Unmatched++
		}
		out[i] = r
	}
	return out, stats
}
