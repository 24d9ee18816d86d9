// Package hanan builds the Hanan grid of a pin set.
//
// The Hanan grid is the set of intersections of the horizontal and vertical
// lines drawn through every pin. Hanan's theorem guarantees that some optimal
// rectilinear Steiner tree uses only grid points as branch vertices, so the
// refinement phase restricts its candidates to this finite pool.
//
// A Grid is read-only once built and safe for concurrent use.
package hanan

import (
	"slices"

	"github.com/chiehanchen/steiner/pkg/geom"
)

// Grid holds the distinct pin coordinates in ascending order.
type Grid struct {
	xs []int
	ys []int
}

// New builds the grid for pins. Duplicate coordinates collapse.
func New(pins []geom.Point) *Grid {
	xs := make([]int, len(pins))
	ys := make([]int, len(pins))
	for i, p := range pins {
		xs[i], ys[i] = p.X, p.Y
	}
	return &Grid{xs: geom.Unique(xs), ys: geom.Unique(ys)}
}

// Xs returns the distinct x-coordinates in ascending order.
func (g *Grid) Xs() []int { return slices.Clone(g.xs) }

// Ys returns the distinct y-coordinates in ascending order.
func (g *Grid) Ys() []int { return slices.Clone(g.ys) }

// Size returns the number of grid points.
func (g *Grid) Size() int { return len(g.xs) * len(g.ys) }

// Empty reports whether the grid has no points.
func (g *Grid) Empty() bool { return g.Size() == 0 }

// Contains reports whether p is a grid intersection.
func (g *Grid) Contains(p geom.Point) bool {
	_, okX := slices.BinarySearch(g.xs, p.X)
	_, okY := slices.BinarySearch(g.ys, p.Y)
	return okX && okY
}

// Points returns every grid point ordered by x, then y.
func (g *Grid) Points() []geom.Point {
	out := make([]geom.Point, 0, g.Size())
	for _, x := range g.xs {
		for _, y := range g.ys {
			out = append(out, geom.Point{X: x, Y: y})
		}
	}
	return out
}

// Candidates returns the grid points for which occupied reports false, in
// the same order as [Grid.Points]. A nil occupied func keeps every point.
func (g *Grid) Candidates(occupied func(geom.Point) bool) []geom.Point {
	pts := g.Points()
	if occupied == nil {
		return pts
	}
	return slices.DeleteFunc(pts, occupied)
}

// Nearest returns the grid point closest to p under rectilinear distance.
// Because the metric is separable, each axis snaps independently; ties pick
// the lower coordinate. Nearest panics on an empty grid.
func (g *Grid) Nearest(p geom.Point) geom.Point {
	if g.Empty() {
		panic("hanan: Nearest on empty grid")
	}
	return geom.Point{X: nearest(g.xs, p.X), Y: nearest(g.ys, p.Y)}
}

// nearest returns the value in sorted vals closest to v, preferring the lower
// value on ties.
func nearest(vals []int, v int) int {
	i, found := slices.BinarySearch(vals, v)
	switch {
	case found:
		return vals[i]
	case i == 0:
		return vals[0]
	case i == len(vals):
		return vals[len(vals)-1]
	}
	lo, hi := vals[i-1], vals[i]
	if v-lo <= hi-v {
		return lo
	}
	return hi
}
