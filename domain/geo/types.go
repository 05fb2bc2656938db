// Package geo holds state boundary geometries keyed by postal abbreviation.
package geo

import (
	"sort"

	"github.com/paulmach/orb"
)

// AbbrAttribute is the boundary file attribute carrying the state abbreviation
const AbbrAttribute = "STUSPS"

// StateGeometry maps a state abbreviation to its boundary
type StateGeometry map[string]orb.MultiPolygon

// Abbreviations returns the keys in sorted order
func (g StateGeometry) Abbreviations() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extent is a fixed lon/lat viewport for map rendering
type Extent struct {
	MinLon, MaxLon float64
	MinLat, MaxLat float64
}

// ConterminousAndAlaska covers the lower 48 plus the Alaska longitude range
var ConterminousAndAlaska = Extent{MinLon: -180, MaxLon: -60, MinLat: 20, MaxLat: 75}

// Width returns the longitude span
func (e Extent) Width() float64 { return e.MaxLon - e.MinLon }

// Height returns the latitude span
func (e Extent) Height() float64 { return e.MaxLat - e.MinLat }
