package geometry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cdicorr/domain/core"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clockwise unit square offset by (x, y)
func square(x, y float64) []shp.Point {
	return []shp.Point{{X: x, Y: y}, {X: x, Y: y + 1}, {X: x + 1, Y: y + 1}, {X: x + 1, Y: y}, {X: x, Y: y}}
}

func writeShapefile(t *testing.T, records map[string][][]shp.Point) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "states.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	w.SetFields([]shp.Field{shp.StringField("STUSPS", 2)})

	for abbr, parts := range records {
		poly := shp.Polygon(*shp.NewPolyLine(parts))
		n := w.Write(&poly)
		w.WriteAttribute(int(n), 0, abbr)
	}
	w.Close()

	// the writer names the attribute file "<base>dbf"; readers expect "<base>.dbf"
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	return path
}

func TestLoad_Shapefile(t *testing.T) {
	path := writeShapefile(t, map[string][][]shp.Point{
		"AA": {square(-100, 40)},
		"BB": {square(-90, 35), square(-80, 30)},
	})

	states, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"AA", "BB"}, states.Abbreviations())
	assert.Len(t, states["AA"], 1)
	assert.Len(t, states["BB"], 2, "two clockwise parts are two polygons")

	b := states["AA"].Bound()
	assert.Equal(t, orb.Point{-100, 40}, b.Min)
	assert.Equal(t, orb.Point{-99, 41}, b.Max)
}

func TestLoad_ShapefileWithoutAttributes(t *testing.T) {
	path := writeShapefile(t, map[string][][]shp.Point{"AA": {square(-100, 40)}})
	require.NoError(t, os.Remove(strings.TrimSuffix(path, ".shp")+".dbf"))

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "states.dbf")
	assert.NotErrorIs(t, err, core.ErrMissingColumn)
}

func TestLoad_GeoJSON(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
	 {"type":"Feature","properties":{"STUSPS":"AA"},
	  "geometry":{"type":"Polygon","coordinates":[[[-100,40],[-99,40],[-99,41],[-100,41],[-100,40]]]}},
	 {"type":"Feature","properties":{"STUSPS":"BB"},
	  "geometry":{"type":"MultiPolygon","coordinates":[[[[-90,35],[-89,35],[-89,36],[-90,35]]],[[[-80,30],[-79,30],[-79,31],[-80,30]]]]}},
	 {"type":"Feature","properties":{"NAME":"nowhere"},
	  "geometry":{"type":"Point","coordinates":[0,0]}}
	]}`
	path := filepath.Join(t.TempDir(), "states.geojson")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	states, err := Load(path, nil)
	require.NoError(t, err)

	assert.Len(t, states, 2)
	assert.Len(t, states["BB"], 2)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("states.kml", nil)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.shp"), nil)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.geojson")
	require.NoError(t, os.WriteFile(empty, []byte(`{"type":"FeatureCollection","features":[]}`), 0644))
	_, err = Load(empty, nil)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestGroupRings_HolesFollowOuter(t *testing.T) {
	outer := orb.Ring{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}} // clockwise
	hole := orb.Ring{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}}      // counter-clockwise

	mp := groupRings([]orb.Ring{outer, hole})
	require.Len(t, mp, 1)
	assert.Len(t, mp[0], 2)

	// all counter-clockwise: every ring is its own polygon
	mp = groupRings([]orb.Ring{hole, hole})
	assert.Len(t, mp, 2)
}
