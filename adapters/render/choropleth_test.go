package render

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cdicorr/domain/analysis"
	"cdicorr/domain/core"
	"cdicorr/domain/health"
	"cdicorr/internal/errors"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func box(minLon, minLat, maxLon, maxLat float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{
		{minLon, minLat}, {minLon, maxLat}, {maxLon, maxLat}, {maxLon, minLat}, {minLon, minLat},
	}}}
}

func scenarioResult() analysis.CorrelationResult {
	return analysis.CorrelationResult{
		Question:    "Obesity among adults",
		Unit:        "%",
		Coefficient: -0.5,
		Subset: []health.HealthRecord{
			{Index: 0, LocationAbbr: "AA", DataValue: core.SomeFloat(10), PerGOP: core.SomeFloat(40), Geometry: box(-110, 35, -100, 45)},
			{Index: 1, LocationAbbr: "BB", DataValue: core.SomeFloat(30), PerGOP: core.SomeFloat(70), Geometry: box(-95, 30, -85, 40)},
			{Index: 2, LocationAbbr: "US", DataValue: core.SomeFloat(20)},
			{Index: 3, LocationAbbr: "CC", DataValue: core.NoFloat(), Geometry: box(-80, 30, -70, 40)},
		},
	}
}

func smallConfig(path string) Config {
	config := DefaultConfig(path)
	config.Width = 400
	config.BarWidth = 60
	config.DPI = 72
	return config
}

func TestRenderMap_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	r := NewChoroplethRenderer(smallConfig(path), nil)

	require.NoError(t, r.RenderMap(context.Background(), scenarioResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Less(t, img.Bounds().Dy(), img.Bounds().Dx())
}

func TestImageHeight_EqualAspect(t *testing.T) {
	config := smallConfig("unused.png")
	r := NewChoroplethRenderer(config, nil)
	shapes := drawable(scenarioResult().Subset)
	cmap, err := r.colorMap(shapes)
	require.NoError(t, err)
	p := r.mapPlot(scenarioResult(), shapes, cmap)

	height := r.imageHeight(p)
	canvas := draw.Canvas{Rectangle: vg.Rectangle{Max: vg.Point{X: config.Width - config.BarWidth, Y: height}}}
	data := p.DataCanvas(canvas).Size()

	perLon := float64(data.X) / config.Extent.Width()
	perLat := float64(data.Y) / config.Extent.Height()
	assert.InDelta(t, perLon, perLat, perLon*0.01)
}

func TestRenderMap_SingleValue(t *testing.T) {
	result := scenarioResult()
	result.Subset = result.Subset[:1]
	path := filepath.Join(t.TempDir(), "map.png")

	require.NoError(t, NewChoroplethRenderer(smallConfig(path), nil).RenderMap(context.Background(), result))
	assert.FileExists(t, path)
}

func TestRenderMap_NothingDrawable(t *testing.T) {
	result := scenarioResult()
	result.Subset = result.Subset[2:]
	path := filepath.Join(t.TempDir(), "map.png")

	err := NewChoroplethRenderer(smallConfig(path), nil).RenderMap(context.Background(), result)

	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderFailed, errors.GetCode(err))
	assert.NoFileExists(t, path)
}

func TestRenderMap_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewChoroplethRenderer(smallConfig(filepath.Join(t.TempDir(), "map.png")), nil).RenderMap(ctx, scenarioResult())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDrawable_SkipsMissingGeometryAndValue(t *testing.T) {
	shapes := drawable(scenarioResult().Subset)

	require.Len(t, shapes, 2)
	assert.Equal(t, "AA", shapes[0].record.LocationAbbr)
	assert.Equal(t, "BB", shapes[1].record.LocationAbbr)
}

func TestColorMap_LowValuesAreLighter(t *testing.T) {
	r := NewChoroplethRenderer(DefaultConfig("unused.png"), nil)
	cmap, err := r.colorMap(drawable(scenarioResult().Subset))
	require.NoError(t, err)

	lowC, err := cmap.At(10)
	require.NoError(t, err)
	highC, err := cmap.At(30)
	require.NoError(t, err)

	lr, lg, lb, _ := lowC.RGBA()
	hr, hg, hb, _ := highC.RGBA()
	assert.Greater(t, lr+lg+lb, hr+hg+hb)
}
