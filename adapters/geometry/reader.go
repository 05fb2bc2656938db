// Package geometry loads state boundary polygons from a shapefile or a
// GeoJSON feature collection.
package geometry

import (
	"context"
	"path/filepath"
	"strings"

	"cdicorr/domain/core"
	"cdicorr/domain/geo"
	"cdicorr/internal"

	"github.com/paulmach/orb"
)

// Load reads boundaries from path, choosing the format from its extension
func Load(path string, logger *internal.Logger) (geo.StateGeometry, error) {
	if logger == nil {
		logger = internal.Discard
	}
	logger = logger.With("GeometryReader")

	var (
		states geo.StateGeometry
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		states, err = readShapefile(path, logger)
	case ".geojson", ".json":
		states, err = readGeoJSON(path, logger)
	default:
		return nil, core.NewUnsupportedFormatError(path)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded %d state boundaries from %s", len(states), filepath.Base(path))
	logger.Debug("States: %s", strings.Join(states.Abbreviations(), " "))
	return states, nil
}

// groupRings turns a flat list of rings into polygons. Clockwise rings start a
// new polygon and counter-clockwise rings are holes of the preceding one, which
// is the shapefile winding convention. When no ring is clockwise the file does
// not follow the convention and every ring is treated as an outer boundary.
func groupRings(rings []orb.Ring) orb.MultiPolygon {
	anyCW := false
	for _, r := range rings {
		if r.Orientation() == orb.CW {
			anyCW = true
			break
		}
	}

	var mp orb.MultiPolygon
	for _, r := range rings {
		if len(r) < 3 {
			continue
		}
		if !anyCW || r.Orientation() == orb.CW || len(mp) == 0 {
			mp = append(mp, orb.Polygon{r})
			continue
		}
		last := len(mp) - 1
		mp[last] = append(mp[last], r)
	}
	return mp
}

// FileSource adapts Load to the pipeline's geometry source port
type FileSource struct {
	path   string
	logger *internal.Logger
}

// NewFileSource creates a geometry source for path
func NewFileSource(path string, logger *internal.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

// LoadGeometry reads the boundary file; ctx is checked before the read starts
func (s *FileSource) LoadGeometry(ctx context.Context) (geo.StateGeometry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(s.path, s.logger)
}

// Describe returns the source path
func (s *FileSource) Describe() string {
	return s.path
}
