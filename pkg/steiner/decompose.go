package steiner

import (
	"github.com/chiehanchen/steiner/pkg/geom"
	"github.com/chiehanchen/steiner/pkg/tree"
)

// Decompose converts the tree's edges into orthogonal segments.
//
// Edges are visited depth-first from pin 0 with neighbors in ascending ID
// order, each oriented parent to child. A diagonal edge becomes a horizontal
// segment followed by a vertical one; zero-length edges between coincident
// pins emit nothing.
func Decompose(t *tree.Tree) []geom.Segment {
	walk := t.Walk(0)
	segs := make([]geom.Segment, 0, 2*len(walk))
	for _, e := range walk {
		edge := geom.Edge{From: t.Point(e.U), To: t.Point(e.V)}
		segs = append(segs, edge.Segments()...)
	}
	return segs
}

// Edges returns the tree's logical edges in the same order Decompose visits
// them.
func Edges(t *tree.Tree) []geom.Edge {
	walk := t.Walk(0)
	out := make([]geom.Edge, len(walk))
	for i, e := range walk {
		out[i] = geom.Edge{From: t.Point(e.U), To: t.Point(e.V)}
	}
	return out
}
