// Package chart renders predicted against actual goal differential as a
// hexagonal density chart.
package chart

import (
	"context"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Axis labels.
const (
	XLabel = "Actual GF-GA"
	YLabel = "Predicted GF-GA"
)

// Plotter draws actual vs. predicted values.
type Plotter interface {
	Render(ctx context.Context, actual, predicted []float64) error
}

// HexbinPlotter saves a hexbin chart to a file; the format follows the
// extension (png, svg, pdf, ...).
type HexbinPlotter struct {
	path     string
	gridSize int
	width    vg.Length
	height   vg.Length
	title    string
	colors   int
	identity bool
}

// NewHexbinPlotter creates a HexbinPlotter writing to path.
func NewHexbinPlotter(path string, opts ...Option) *HexbinPlotter {
	p := &HexbinPlotter{
		path:     path,
		gridSize: 20,
		width:    8 * vg.Inch,
		height:   6 * vg.Inch,
		colors:   64,
		identity: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render implements Plotter.
func (p *HexbinPlotter) Render(ctx context.Context, actual, predicted []float64) error {
	grid, err := Bin(actual, predicted, p.gridSize)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render cancelled: %w", err)
	}

	pl := plot.New()
	pl.Title.Text = p.title
	pl.X.Label.Text = XLabel
	pl.Y.Label.Text = YLabel
	pl.Add(plotter.NewGrid())
	pl.Add(newHexagons(grid, palette.Heat(p.colors, 1).Colors()))

	if p.identity {
		line := plotter.NewFunction(func(x float64) float64 { return x })
		line.Color = color.Gray{Y: 96}
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		pl.Add(line)
	}

	if err := pl.Save(p.width, p.height, p.path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, p.path, err)
	}
	return nil
}

// hexagons is a plot.Plotter that fills each occupied hexagon with a colour
// scaled by its count.
type hexagons struct {
	grid   *Grid
	colors []color.Color
}

func newHexagons(g *Grid, colors []color.Color) *hexagons {
	return &hexagons{grid: g, colors: colors}
}

// Plot implements plot.Plotter.
func (h *hexagons) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, hx := range h.grid.Hexes {
		verts := h.grid.Vertices(hx)
		pts := make([]vg.Point, len(verts))
		for i, v := range verts {
			pts[i] = vg.Point{X: trX(v.X), Y: trY(v.Y)}
		}
		c.FillPolygon(h.color(hx.Count), c.ClipPolygonXY(pts))
	}
}

// DataRange implements plot.DataRanger.
func (h *hexagons) DataRange() (xmin, xmax, ymin, ymax float64) {
	g := h.grid
	return g.XMin - g.SX/2, g.XMax + g.SX/2, g.YMin - g.SY/3, g.YMax + g.SY/3
}

// color maps count 1..MaxCount onto the palette, darkest for the densest cell.
func (h *hexagons) color(count int) color.Color {
	n := len(h.colors)
	if n == 0 {
		return color.Black
	}
	if h.grid.MaxCount <= 1 {
		return h.colors[n-1]
	}
	idx := (count - 1) * (n - 1) / (h.grid.MaxCount - 1)
	return h.colors[n-1-idx]
}
