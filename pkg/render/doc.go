// Package render draws a routed net: the boundary, the pins, the Steiner
// points and the wire segments.
//
// # Formats
//
//   - SVG: drawn natively by [SVG]. The y axis points up as in the input
//     coordinates, and the boundary is padded by a margin on every side.
//   - DOT: [DOT] emits a Graphviz graph in which every point is a node pinned
//     to its coordinates and every segment is an edge.
//   - PNG: [Graphviz] lays the DOT graph out with the neato engine, which
//     honors pinned positions, and rasterizes it.
//
// [Render] dispatches on a format name:
//
//	scene := render.Scene{Boundary: net.Boundary, Pins: net.Pins, Segments: segs}
//	data, err := render.Render(ctx, scene, render.FormatPNG, render.Options{})
package render

import (
	"context"
	"strings"

	"github.com/chiehanchen/steiner/pkg/errors"
	"github.com/chiehanchen/steiner/pkg/geom"
)

// Format names accepted by [Render].
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT}

// Default drawing parameters.
const (
	// DefaultMargin pads the boundary by this fraction of its size.
	DefaultMargin = 0.1
	// DefaultSize is the length in pixels of the longer plot side when no
	// scale is given.
	DefaultSize = 800.0
)

// Scene is everything drawn in a plot.
type Scene struct {
	Boundary geom.Rect
	Pins     []geom.Point
	Steiner  []geom.Point // optional; highlighted when present
	Segments []geom.Segment
}

// Options controls plot geometry.
type Options struct {
	// Scale is pixels per coordinate unit. Zero fits the longer side of the
	// padded boundary to DefaultSize pixels.
	Scale float64 `toml:"scale" json:"scale,omitempty"`
	// Margin pads the boundary by this fraction of its width and height.
	// Zero means DefaultMargin; negative means no margin.
	Margin float64 `toml:"margin" json:"margin,omitempty"`
}

// Render draws scene in the named format.
func Render(ctx context.Context, scene Scene, format string, opts Options) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatSVG:
		return SVG(scene, opts), nil
	case FormatDOT:
		return []byte(DOT(scene, opts)), nil
	case FormatPNG:
		return Graphviz(ctx, DOT(scene, opts), FormatPNG)
	default:
		return nil, errors.ValidateFormat(format, Formats...)
	}
}

// frame maps scene coordinates to pixels with the y axis flipped.
type frame struct {
	x0, y1 float64 // padded low x and high y in scene units
	w, h   float64 // padded size in scene units
	scale  float64
}

func newFrame(b geom.Rect, opts Options) frame {
	margin := opts.Margin
	switch {
	case margin == 0:
		margin = DefaultMargin
	case margin < 0:
		margin = 0
	}
	w, h := float64(b.Width()), float64(b.Height())
	mx, my := w*margin, h*margin
	// A degenerate boundary still needs some room around the pins.
	if w == 0 {
		mx = max(1, my)
	}
	if h == 0 {
		my = max(1, mx)
	}
	f := frame{
		x0: float64(b.XL) - mx,
		y1: float64(b.YH) + my,
		w:  w + 2*mx,
		h:  h + 2*my,
	}
	f.scale = opts.Scale
	if f.scale <= 0 {
		f.scale = DefaultSize / max(f.w, f.h)
	}
	return f
}

func (f frame) px(p geom.Point) (x, y float64) {
	return (float64(p.X) - f.x0) * f.scale, (f.y1 - float64(p.Y)) * f.scale
}

func (f frame) size() (w, h float64) {
	return f.w * f.scale, f.h * f.scale
}
