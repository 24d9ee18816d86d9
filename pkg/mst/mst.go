// Package mst computes rectilinear minimum spanning trees over a fixed pin set.
//
// Two constructions are provided:
//
//   - [Prim] grows a single fragment from pin 0, adding the unconnected pin
//     closest to the fragment on every step. It runs in O(n²) time with O(n)
//     memory, which suits the tens-to-hundreds of pins of a routing net. Its
//     output is the starting topology of the Steiner refinement.
//   - [Kruskal] sorts all n(n-1)/2 pin pairs and joins them with a disjoint-set
//     forest. It is slower and serves as an independent reference length.
//
// Both use the rectilinear distance [geom.Distance] and break ties by pin
// index, so identical input always yields an identical tree.
package mst

import (
	"cmp"
	"math"
	"slices"

	"github.com/chiehanchen/steiner/pkg/geom"
)

// Edge joins pins U and V by index. For [Prim], U is the vertex already in
// the tree and V the newly connected pin.
type Edge struct {
	U, V int
}

// Tree is a spanning tree over N pins.
type Tree struct {
	N      int    // number of pins
	Edges  []Edge // len(Edges) == max(N-1, 0)
	Length int    // total rectilinear length
}

// Prim builds a rectilinear MST. Edges are returned in the order pins joined
// the tree. When several pins are equally close to the tree, the lowest index
// joins first; when a pin is equally close to several tree vertices, it
// attaches to the lowest-index one.
func Prim(pins []geom.Point) Tree {
	n := len(pins)
	t := Tree{N: n}
	if n < 2 {
		return t
	}
	t.Edges = make([]Edge, 0, n-1)

	inTree := make([]bool, n)
	dist := make([]int, n)
	parent := make([]int, n)
	for i := range dist {
		dist[i] = math.MaxInt
		parent[i] = -1
	}

	inTree[0] = true
	relax(pins, 0, inTree, dist, parent)

	for range n - 1 {
		next := -1
		for j := range n {
			if inTree[j] {
				continue
			}
			if next == -1 || dist[j] < dist[next] {
				next = j
			}
		}
		inTree[next] = true
		t.Edges = append(t.Edges, Edge{U: parent[next], V: next})
		t.Length += dist[next]
		relax(pins, next, inTree, dist, parent)
	}
	return t
}

// relax lowers the frontier distance of every unconnected pin against the
// newly added vertex k.
func relax(pins []geom.Point, k int, inTree []bool, dist, parent []int) {
	for j := range pins {
		if inTree[j] {
			continue
		}
		d := geom.Distance(pins[k], pins[j])
		if d < dist[j] || (d == dist[j] && k < parent[j]) {
			dist[j] = d
			parent[j] = k
		}
	}
}

// Kruskal builds a rectilinear MST by scanning all pin pairs in order of
// (length, i, j). Edges are returned in acceptance order with U < V.
func Kruskal(pins []geom.Point) Tree {
	n := len(pins)
	t := Tree{N: n}
	if n < 2 {
		return t
	}

	type pair struct {
		edge   Edge
		length int
	}
	pairs := make([]pair, 0, n*(n-1)/2)
	for i := range n {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pair{Edge{U: i, V: j}, geom.Distance(pins[i], pins[j])})
		}
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		return cmp.Or(
			cmp.Compare(a.length, b.length),
			cmp.Compare(a.edge.U, b.edge.U),
			cmp.Compare(a.edge.V, b.edge.V),
		)
	})

	uf := newUnionFind(n)
	t.Edges = make([]Edge, 0, n-1)
	for _, p := range pairs {
		if !uf.union(p.edge.U, p.edge.V) {
			continue
		}
		t.Edges = append(t.Edges, p.edge)
		t.Length += p.length
		if len(t.Edges) == n-1 {
			break
		}
	}
	return t
}

// Length returns the rectilinear MST length of pins.
func Length(pins []geom.Point) int {
	return Prim(pins).Length
}

// unionFind is a disjoint-set forest with path compression and union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the sets of a and b and reports whether they were distinct.
func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
	return true
}
