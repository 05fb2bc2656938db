// Package render draws a state-level choropleth of one question's values
// and writes it as a PNG.
package render

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"

	"cdicorr/domain/analysis"
	"cdicorr/domain/geo"
	"cdicorr/domain/health"
	"cdicorr/internal"
	"cdicorr/internal/errors"

	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Config describes the output image
type Config struct {
	Path     string
	Extent   geo.Extent
	Width    vg.Length // whole image, colour bar included; height follows the extent
	BarWidth vg.Length
	DPI      int
	Palette  string // ColorBrewer sequential palette name
}

// DefaultConfig renders the conterminous states and Alaska
func DefaultConfig(path string) Config {
	return Config{
		Path:     path,
		Extent:   geo.ConterminousAndAlaska,
		Width:    14 * vg.Inch,
		BarWidth: 1.2 * vg.Inch,
		DPI:      96,
		Palette:  "Purples",
	}
}

// ChoroplethRenderer implements ports.MapRenderer
type ChoroplethRenderer struct {
	config Config
	logger *internal.Logger
}

// NewChoroplethRenderer creates a renderer writing to config.Path
func NewChoroplethRenderer(config Config, logger *internal.Logger) *ChoroplethRenderer {
	if logger == nil {
		logger = internal.Discard
	}
	return &ChoroplethRenderer{config: config, logger: logger.With("Render")}
}

// RenderMap fills each state polygon by the result's DataValue. Rows without
// geometry or without a value are left out.
func (r *ChoroplethRenderer) RenderMap(ctx context.Context, result analysis.CorrelationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	shapes := drawable(result.Subset)
	if len(shapes) == 0 {
		return errors.RenderFailed(fmt.Errorf("no rows of %q have both geometry and a value", result.Question))
	}
	if r.logger.Enabled(internal.LogLevelDebug) {
		for _, s := range shapes {
			r.logger.Debug("map row %d: %s value=%g per_gop=%g", s.record.Index, s.record.LocationAbbr,
				s.record.DataValue.Float64, s.record.PerGOP.OrNaN())
		}
	}

	cmap, err := r.colorMap(shapes)
	if err != nil {
		return errors.RenderFailed(err)
	}

	states := r.mapPlot(result, shapes, cmap)
	img := vgimg.NewWith(vgimg.UseWH(r.config.Width, r.imageHeight(states)), vgimg.UseDPI(r.config.DPI))
	dc := draw.New(img)
	states.Draw(draw.Crop(dc, 0, -r.config.BarWidth, 0, 0))

	legend := plot.New()
	legend.HideX()
	legend.Y.Padding = 0
	legend.Title.Text = result.Unit
	legend.Add(&plotter.ColorBar{ColorMap: cmap, Vertical: true})
	legend.Draw(draw.Crop(dc, r.config.Width-r.config.BarWidth, 0, 0, 0))

	f, err := os.Create(r.config.Path)
	if err != nil {
		return errors.RenderFailed(err)
	}
	defer f.Close()

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return errors.RenderFailed(err)
	}
	r.logger.Info("Wrote map of %s (%d states) to %s", result.Label(), len(shapes), r.config.Path)
	return nil
}

func (r *ChoroplethRenderer) mapPlot(result analysis.CorrelationResult, shapes []shape, cmap palette.ColorMap) *plot.Plot {
	p := plot.New()
	p.Title.Text = result.Label()
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(&choropleth{shapes: shapes, colors: cmap, extent: r.config.Extent})
	return p
}

// imageHeight sizes the image so a degree of longitude and a degree of
// latitude span the same length in the data area. Axis and title margins do
// not depend on the canvas size, so they are measured on a square canvas.
func (r *ChoroplethRenderer) imageHeight(p *plot.Plot) vg.Length {
	mapWidth := r.config.Width - r.config.BarWidth
	square := draw.Canvas{Rectangle: vg.Rectangle{Max: vg.Point{X: mapWidth, Y: mapWidth}}}
	data := p.DataCanvas(square).Size()

	marginX, marginY := mapWidth-data.X, mapWidth-data.Y
	extent := r.config.Extent
	return (mapWidth-marginX)*vg.Length(extent.Height()/extent.Width()) + marginY
}

// colorMap spans the drawn values. A single repeated value gets a unit-wide
// range so the colour bar stays valid.
func (r *ChoroplethRenderer) colorMap(shapes []shape) (palette.ColorMap, error) {
	pal, err := brewer.GetPalette(brewer.TypeSequential, r.config.Palette, 9)
	if err != nil {
		return nil, err
	}

	// luminance must increase along the controls; sequential palettes darken
	colors := pal.Colors()
	controls := make([]color.Color, len(colors))
	for i, c := range colors {
		controls[len(colors)-1-i] = c
	}
	lum, err := moreland.NewLuminance(controls)
	if err != nil {
		return nil, err
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range shapes {
		lo = math.Min(lo, s.record.DataValue.Float64)
		hi = math.Max(hi, s.record.DataValue.Float64)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	lum.SetMin(lo)
	lum.SetMax(hi)
	return reversed{lum}, nil
}

// reversed maps low values to the light end of a luminance map
type reversed struct {
	palette.ColorMap
}

func (m reversed) At(v float64) (color.Color, error) {
	return m.ColorMap.At(m.Min() + m.Max() - v)
}

type shape struct {
	record  health.HealthRecord
	polygon orb.MultiPolygon
}

func drawable(subset []health.HealthRecord) []shape {
	var shapes []shape
	for _, rec := range subset {
		if rec.HasGeometry() && rec.DataValue.Valid {
			shapes = append(shapes, shape{record: rec, polygon: rec.Geometry})
		}
	}
	return shapes
}

// choropleth is a plot.Plotter filling state polygons in data coordinates
type choropleth struct {
	shapes []shape
	colors palette.ColorMap
	extent geo.Extent
}

func (p *choropleth) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	outline := draw.LineStyle{Color: color.Gray{Y: 96}, Width: vg.Points(0.4)}

	toCanvas := func(ring orb.Ring) []vg.Point {
		pts := make([]vg.Point, len(ring))
		for i, pt := range ring {
			pts[i] = vg.Point{X: trX(pt.Lon()), Y: trY(pt.Lat())}
		}
		return pts
	}

	for _, s := range p.shapes {
		fill, err := p.colors.At(s.record.DataValue.Float64)
		if err != nil {
			continue
		}
		for _, poly := range s.polygon {
			for i, ring := range poly {
				pts := toCanvas(ring)
				if i == 0 {
					c.FillPolygon(fill, c.ClipPolygonXY(pts))
				} else {
					c.FillPolygon(color.White, c.ClipPolygonXY(pts))
				}
				c.StrokeLines(outline, c.ClipLinesXY(pts)...)
			}
		}
	}
}

// DataRange pins the axes to the configured extent
func (p *choropleth) DataRange() (xmin, xmax, ymin, ymax float64) {
	return p.extent.MinLon, p.extent.MaxLon, p.extent.MinLat, p.extent.MaxLat
}
