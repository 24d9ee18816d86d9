// Package geom provides the integer geometry used by the Steiner tree builder.
//
// All coordinates are plain ints and the only cost metric is the rectilinear
// (Manhattan) distance. Every type here is a comparable value aggregate, so
// points can be used directly as map keys.
package geom

import (
	"fmt"
	"slices"
)

// Point is an integer coordinate pair.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Less orders points by x, then y.
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// Compare returns -1, 0 or +1 following the x-then-y order of [Point.Less].
func Compare(a, b Point) int {
	switch {
	case a == b:
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}

// Distance returns |a.X-b.X| + |a.Y-b.Y|.
func Distance(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Median3 returns the median of three values.
func Median3(a, b, c int) int {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		return a
	}
	return b
}

// MedianPoint returns the point whose coordinates are the per-axis medians of
// a, b and c. It minimizes Distance(a,p)+Distance(b,p)+Distance(c,p).
func MedianPoint(a, b, c Point) Point {
	return Point{X: Median3(a.X, b.X, c.X), Y: Median3(a.Y, b.Y, c.Y)}
}

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	XL int `json:"xl"`
	YL int `json:"yl"`
	XH int `json:"xh"`
	YH int `json:"yh"`
}

// Valid reports whether XL <= XH and YL <= YH.
func (r Rect) Valid() bool { return r.XL <= r.XH && r.YL <= r.YH }

// Width returns XH-XL.
func (r Rect) Width() int { return r.XH - r.XL }

// Height returns YH-YL.
func (r Rect) Height() int { return r.YH - r.YL }

// Contains reports whether p lies inside or on r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.XL && p.X <= r.XH && p.Y >= r.YL && p.Y <= r.YH
}

// ContainsSegment reports whether both endpoints of s lie inside r.
func (r Rect) ContainsSegment(s Segment) bool {
	return r.Contains(s.A) && r.Contains(s.B)
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d]x[%d,%d]", r.XL, r.XH, r.YL, r.YH)
}

// Bounds returns the smallest rectangle containing every point.
// It returns the zero Rect for an empty slice.
func Bounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{XL: points[0].X, XH: points[0].X, YL: points[0].Y, YH: points[0].Y}
	for _, p := range points[1:] {
		r.XL = min(r.XL, p.X)
		r.XH = max(r.XH, p.X)
		r.YL = min(r.YL, p.Y)
		r.YH = max(r.YH, p.Y)
	}
	return r
}

// Edge is a logical connection between two points. It need not be
// axis-aligned; see [Edge.Segments].
type Edge struct {
	From Point
	To   Point
}

// Length returns the rectilinear length of the edge.
func (e Edge) Length() int { return Distance(e.From, e.To) }

// Diagonal reports whether the endpoints differ in both coordinates.
func (e Edge) Diagonal() bool { return e.From.X != e.To.X && e.From.Y != e.To.Y }

// Corner returns the bend point used to decompose a diagonal edge: the first
// leg runs horizontally from From, the second vertically into To.
func (e Edge) Corner() Point { return Point{X: e.To.X, Y: e.From.Y} }

// Segments decomposes e into orthogonal segments. A diagonal edge yields two
// segments meeting at [Edge.Corner]; a straight edge yields one; a
// zero-length edge yields none.
func (e Edge) Segments() []Segment {
	switch {
	case e.From == e.To:
		return nil
	case e.Diagonal():
		c := e.Corner()
		return []Segment{{A: e.From, B: c}, {A: c, B: e.To}}
	default:
		return []Segment{{A: e.From, B: e.To}}
	}
}

// Segment is an axis-aligned straight piece of wire.
type Segment struct {
	A Point
	B Point
}

// Seg is shorthand for a segment from (x1,y1) to (x2,y2).
func Seg(x1, y1, x2, y2 int) Segment {
	return Segment{A: Point{X: x1, Y: y1}, B: Point{X: x2, Y: y2}}
}

// Horizontal reports whether both endpoints share a y-coordinate.
func (s Segment) Horizontal() bool { return s.A.Y == s.B.Y }

// Vertical reports whether both endpoints share an x-coordinate.
func (s Segment) Vertical() bool { return s.A.X == s.B.X }

// Rectilinear reports whether the segment is horizontal or vertical.
func (s Segment) Rectilinear() bool { return s.Horizontal() || s.Vertical() }

// Degenerate reports whether both endpoints coincide.
func (s Segment) Degenerate() bool { return s.A == s.B }

// Length returns the rectilinear length of the segment.
func (s Segment) Length() int { return Distance(s.A, s.B) }

// Covers reports whether p lies on the closed segment. Only meaningful for
// rectilinear segments.
func (s Segment) Covers(p Point) bool {
	switch {
	case s.Vertical():
		return p.X == s.A.X && between(p.Y, s.A.Y, s.B.Y)
	case s.Horizontal():
		return p.Y == s.A.Y && between(p.X, s.A.X, s.B.X)
	default:
		return p == s.A || p == s.B
	}
}

func (s Segment) String() string {
	return fmt.Sprintf("%d %d %d %d", s.A.X, s.A.Y, s.B.X, s.B.Y)
}

// TotalLength sums the lengths of all segments.
func TotalLength(segs []Segment) int {
	total := 0
	for _, s := range segs {
		total += s.Length()
	}
	return total
}

// Unique returns the distinct values of vals in ascending order.
func Unique(vals []int) []int {
	out := slices.Clone(vals)
	slices.Sort(out)
	return slices.Compact(out)
}

func between(v, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
