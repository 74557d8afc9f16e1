package chart

import "gonum.org/v1/plot/vg"

// Option applies a configuration option to the HexbinPlotter.
type Option func(*HexbinPlotter)

// WithGridSize sets the number of hexagons across the x axis.
func WithGridSize(n int) Option {
	return func(p *HexbinPlotter) {
		if n > 0 {
			p.gridSize = n
		}
	}
}

// WithSize sets the image size in inches.
func WithSize(widthIn, heightIn float64) Option {
	return func(p *HexbinPlotter) {
		if widthIn > 0 && heightIn > 0 {
			p.width = vg.Length(widthIn) * vg.Inch
			p.height = vg.Length(heightIn) * vg.Inch
		}
	}
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(p *HexbinPlotter) {
		p.title = title
	}
}

// WithIdentityLine toggles the dashed y = x reference line.
func WithIdentityLine(enabled bool) Option {
	return func(p *HexbinPlotter) {
		p.identity = enabled
	}
}
