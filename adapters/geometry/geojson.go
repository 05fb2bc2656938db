package geometry

import (
	"fmt"
	"os"

	"cdicorr/domain/core"
	"cdicorr/domain/geo"
	"cdicorr/internal"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func readGeoJSON(path string, logger *internal.Logger) (geo.StateGeometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GeoJSON file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	states := make(geo.StateGeometry)
	skipped := 0
	for _, f := range fc.Features {
		abbr := f.Properties.MustString(geo.AbbrAttribute, "")
		if abbr == "" {
			skipped++
			continue
		}
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			states[abbr] = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			states[abbr] = g
		default:
			skipped++
		}
	}

	if skipped > 0 {
		logger.Warn("Skipped %d GeoJSON features without an abbreviation or polygon", skipped)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: %s has no polygon features", core.ErrEmptyDataset, path)
	}
	return states, nil
}
