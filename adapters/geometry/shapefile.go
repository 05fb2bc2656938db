package geometry

import (
	"fmt"
	"os"
	"strings"

	"cdicorr/domain/core"
	"cdicorr/domain/geo"
	"cdicorr/internal"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

func readShapefile(path string, logger *internal.Logger) (geo.StateGeometry, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer reader.Close()

	// go-shp swallows attribute file errors and reports no fields
	dbfPath := path[:len(path)-3] + "dbf"
	if _, err := os.Stat(dbfPath); err != nil {
		return nil, fmt.Errorf("failed to open shapefile attributes %s: %w", dbfPath, err)
	}

	abbrField := -1
	for i, f := range reader.Fields() {
		if strings.EqualFold(cleanAttribute(f.String()), geo.AbbrAttribute) {
			abbrField = i
			break
		}
	}
	if abbrField < 0 {
		return nil, core.NewMissingColumnError(path, geo.AbbrAttribute)
	}

	states := make(geo.StateGeometry)
	skipped := 0
	for reader.Next() {
		n, shape := reader.Shape()
		abbr := cleanAttribute(reader.ReadAttribute(n, abbrField))

		rings := shapeRings(shape)
		if abbr == "" || rings == nil {
			skipped++
			continue
		}
		states[abbr] = groupRings(rings)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shapefile records: %w", err)
	}

	if skipped > 0 {
		logger.Warn("Skipped %d shapefile records without an abbreviation or polygon", skipped)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: %s has no polygon records", core.ErrEmptyDataset, path)
	}
	return states, nil
}

// shapeRings splits a polygon shape into its parts; nil for non-polygons
func shapeRings(shape shp.Shape) []orb.Ring {
	var poly *shp.PolyLine
	switch s := shape.(type) {
	case *shp.Polygon:
		pl := shp.PolyLine(*s)
		poly = &pl
	case *shp.PolygonZ:
		poly = &shp.PolyLine{NumParts: s.NumParts, Parts: s.Parts, Points: s.Points}
	case *shp.PolygonM:
		poly = &shp.PolyLine{NumParts: s.NumParts, Parts: s.Parts, Points: s.Points}
	default:
		return nil
	}

	rings := make([]orb.Ring, 0, len(poly.Parts))
	for i, start := range poly.Parts {
		end := int32(len(poly.Points))
		if i+1 < len(poly.Parts) {
			end = poly.Parts[i+1]
		}
		if start < 0 || start >= end || int(end) > len(poly.Points) {
			continue
		}
		ring := make(orb.Ring, 0, end-start)
		for _, p := range poly.Points[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

func cleanAttribute(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}
