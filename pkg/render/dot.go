package render

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/goccy/go-graphviz"

	"github.com/chiehanchen/steiner/pkg/errors"
	"github.com/chiehanchen/steiner/pkg/geom"
)

// pointsPerInch converts the plot's pixel scale to Graphviz positions,
// which are given in points.
const pointsPerInch = 72.0

// DOT converts scene to a Graphviz graph. Every distinct point becomes a node
// pinned at its plot position; pins are filled black, Steiner points are
// hollow squares and bends are invisible. Each segment is an edge.
func DOT(scene Scene, opts Options) string {
	f := newFrame(scene.Boundary, opts)

	kind := make(map[geom.Point]string)
	for _, s := range scene.Segments {
		kind[s.A], kind[s.B] = "bend", "bend"
	}
	for _, p := range scene.Steiner {
		kind[p] = "steiner"
	}
	for _, p := range scene.Pins {
		kind[p] = "pin"
	}
	points := make([]geom.Point, 0, len(kind))
	for p := range kind {
		points = append(points, p)
	}
	slices.SortFunc(points, geom.Compare)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=white;\n")
	buf.WriteString("  splines=line;\n")
	fmt.Fprintf(&buf, "  dpi=%.0f;\n", pointsPerInch)
	buf.WriteString("  node [label=\"\", fixedsize=true, width=0.08, height=0.08];\n")
	buf.WriteString("  edge [color=\"#0000ff66\", penwidth=3];\n")
	buf.WriteString("\n")

	// Corners of the boundary, drawn as a dashed frame.
	b := scene.Boundary
	corners := []geom.Point{geom.Pt(b.XL, b.YL), geom.Pt(b.XH, b.YL), geom.Pt(b.XH, b.YH), geom.Pt(b.XL, b.YH)}
	for i, c := range corners {
		x, y := f.pos(c)
		fmt.Fprintf(&buf, "  b%d [pos=\"%.2f,%.2f!\", style=invis];\n", i, x, y)
	}
	buf.WriteString("  b0 -- b1 -- b2 -- b3 -- b0 [color=\"#bbbbbb\", style=dashed, penwidth=1];\n\n")

	for _, p := range points {
		x, y := f.pos(p)
		fmt.Fprintf(&buf, "  %s [pos=\"%.2f,%.2f!\"%s];\n", nodeID(p), x, y, nodeStyle(kind[p]))
	}
	buf.WriteString("\n")
	for _, s := range scene.Segments {
		fmt.Fprintf(&buf, "  %s -- %s;\n", nodeID(s.A), nodeID(s.B))
	}
	buf.WriteString("}\n")
	return buf.String()
}

// pos returns Graphviz coordinates, whose y axis points up like ours.
func (f frame) pos(p geom.Point) (x, y float64) {
	x, yDown := f.px(p)
	_, h := f.size()
	return x, h - yDown
}

func nodeID(p geom.Point) string {
	return fmt.Sprintf("\"%d,%d\"", p.X, p.Y)
}

func nodeStyle(kind string) string {
	switch kind {
	case "pin":
		return ", shape=circle, style=filled, fillcolor=black"
	case "steiner":
		return ", shape=square, color=\"#0000ff\""
	default:
		return ", shape=point, width=0.01, style=invis"
	}
}

// Graphviz lays out a DOT graph with neato and renders it as format, which
// must be "png" or "svg".
func Graphviz(ctx context.Context, dot string, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatPNG:
		gvFormat = graphviz.PNG
	case FormatSVG:
		gvFormat = graphviz.SVG
	default:
		return nil, errors.ValidateFormat(format, FormatPNG, FormatSVG)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
