// Package health holds the tabular and typed forms of the CDC Chronic Disease
// Indicators dataset.
package health

import (
	"cdicorr/domain/core"

	"github.com/paulmach/orb"
)

// Column names read by the analysis
const (
	ColLocationAbbr   = "LocationAbbr"
	ColQuestion       = "Question"
	ColStratification = "Stratification1"
	ColDataValue      = "DataValue"
	ColDataValueUnit  = "DataValueUnit"
)

// RequiredColumns must survive cleaning for the analysis to run
var RequiredColumns = []string{
	ColLocationAbbr,
	ColQuestion,
	ColStratification,
	ColDataValue,
	ColDataValueUnit,
}

// HealthRecord is one observation from the indicators table with the
// state-level election and geometry fields attached by the join stage.
type HealthRecord struct {
	Index          int            `json:"index"`
	LocationAbbr   string         `json:"location_abbr"`
	Question       string         `json:"question"`
	Stratification string         `json:"stratification"`
	DataValue      core.NullFloat `json:"data_value"`
	DataValueUnit  string         `json:"data_value_unit"`

	PerDem   core.NullFloat   `json:"per_dem"`
	PerGOP   core.NullFloat   `json:"per_gop"`
	Geometry orb.MultiPolygon `json:"-"`
}

// HasGeometry reports whether a boundary was attached
func (r HealthRecord) HasGeometry() bool {
	return len(r.Geometry) > 0
}
