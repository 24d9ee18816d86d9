package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/chiehanchen/steiner/pkg/geom"
)

// SVG draws scene as a standalone SVG document.
func SVG(scene Scene, opts Options) []byte {
	f := newFrame(scene.Boundary, opts)
	w, h := f.size()

	// Marker sizes follow the plot, not the coordinate range.
	side := max(w, h)
	pinR := math.Max(2, side/150)
	wire := math.Max(1, side/250)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	buf.WriteString(`  <rect class="background" width="100%" height="100%" fill="white"/>` + "\n")

	b := scene.Boundary
	x0, y0 := f.px(geom.Pt(b.XL, b.YH))
	fmt.Fprintf(&buf, `  <rect class="boundary" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#e6e6e6" fill-opacity="0.5" stroke="#bbbbbb" stroke-width="1"/>`+"\n",
		x0, y0, float64(b.Width())*f.scale, float64(b.Height())*f.scale)

	buf.WriteString(`  <g class="segments" stroke="#0000ff" stroke-opacity="0.4" stroke-linecap="square" fill="none">` + "\n")
	for _, s := range scene.Segments {
		ax, ay := f.px(s.A)
		bx, by := f.px(s.B)
		fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="%.2f"/>`+"\n", ax, ay, bx, by, wire)
	}
	buf.WriteString("  </g>\n")

	if len(scene.Steiner) > 0 {
		buf.WriteString(`  <g class="steiner" fill="white" stroke="#0000ff">` + "\n")
		for _, p := range scene.Steiner {
			x, y := f.px(p)
			fmt.Fprintf(&buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n", x-pinR, y-pinR, 2*pinR, 2*pinR)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString(`  <g class="pins" fill="black">` + "\n")
	for _, p := range scene.Pins {
		x, y := f.px(p)
		fmt.Fprintf(&buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f"><title>%s</title></circle>`+"\n", x, y, pinR, p)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
