package chart

import (
	"fmt"
	"math"
	"sort"
)

// Hex is one occupied hexagon: its centre and how many points fell in it.
type Hex struct {
	X, Y  float64
	Count int
}

// Point is a vertex in data coordinates.
type Point struct {
	X, Y float64
}

// Grid is a hexagonal binning of (x, y) points on two interleaved
// rectangular lattices, the layout matplotlib's hexbin uses.
type Grid struct {
	XMin, XMax float64
	YMin, YMax float64
	NX, NY     int
	SX, SY     float64 // lattice spacing
	Hexes      []Hex   // occupied cells, lattice 1 before lattice 2, then by column and row
	MaxCount   int
}

type cell struct {
	lattice int
	i, j    int
}

// Bin assigns every point to its nearest hexagon centre. gridSize is the
// number of hexagons across the x range; the y count keeps them regular.
func Bin(xs, ys []float64, gridSize int) (*Grid, error) {
	if len(xs) == 0 {
		return nil, ErrNoPoints
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(xs), len(ys))
	}
	if gridSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrGridSize, gridSize)
	}

	g := &Grid{NX: gridSize, NY: max(1, int(float64(gridSize)/math.Sqrt(3)))}
	g.XMin, g.XMax = padRange(xs)
	g.YMin, g.YMax = padRange(ys)
	g.SX = (g.XMax - g.XMin) / float64(g.NX)
	g.SY = (g.YMax - g.YMin) / float64(g.NY)

	counts := make(map[cell]int)
	for k := range xs {
		ix := (xs[k] - g.XMin) / g.SX
		iy := (ys[k] - g.YMin) / g.SY

		i1, j1 := math.RoundToEven(ix), math.RoundToEven(iy)
		i2, j2 := math.Floor(ix), math.Floor(iy)
		d1 := sq(ix-i1) + 3*sq(iy-j1)
		d2 := sq(ix-i2-0.5) + 3*sq(iy-j2-0.5)

		if d1 < d2 {
			counts[cell{lattice: 1, i: int(i1), j: int(j1)}]++
		} else {
			counts[cell{lattice: 2, i: int(i2), j: int(j2)}]++
		}
	}

	cells := make([]cell, 0, len(counts))
	for c := range counts {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(a, b int) bool {
		ca, cb := cells[a], cells[b]
		if ca.lattice != cb.lattice {
			return ca.lattice < cb.lattice
		}
		if ca.i != cb.i {
			return ca.i < cb.i
		}
		return ca.j < cb.j
	})

	g.Hexes = make([]Hex, 0, len(cells))
	for _, c := range cells {
		x := g.XMin + float64(c.i)*g.SX
		y := g.YMin + float64(c.j)*g.SY
		if c.lattice == 2 {
			x += 0.5 * g.SX
			y += 0.5 * g.SY
		}
		n := counts[c]
		g.MaxCount = max(g.MaxCount, n)
		g.Hexes = append(g.Hexes, Hex{X: x, Y: y, Count: n})
	}
	return g, nil
}

// Total returns the number of binned points.
func (g *Grid) Total() int {
	n := 0
	for _, h := range g.Hexes {
		n += h.Count
	}
	return n
}

// hexOffsets are the vertex offsets of a hexagon in units of (SX, SY/3).
var hexOffsets = [6]Point{
	{0.5, -0.5}, {0.5, 0.5}, {0, 1}, {-0.5, 0.5}, {-0.5, -0.5}, {0, -1},
}

// Vertices returns the corners of h in data coordinates.
func (g *Grid) Vertices(h Hex) []Point {
	pts := make([]Point, len(hexOffsets))
	for i, o := range hexOffsets {
		pts[i] = Point{X: h.X + o.X*g.SX, Y: h.Y + o.Y*g.SY/3}
	}
	return pts
}

// padRange returns the data range widened slightly, or by 1 either side
// when all values are equal, so the lattice spacing is never zero.
func padRange(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	pad := 1e-9 * (hi - lo)
	return lo - pad, hi + pad
}

func sq(x float64) float64 { return x * x }
