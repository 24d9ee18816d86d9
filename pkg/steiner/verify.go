package steiner

import (
	"errors"
	"fmt"

	"github.com/chiehanchen/steiner/pkg/geom"
)

var (
	// ErrNotRectilinear is returned for a segment that is neither horizontal
	// nor vertical.
	ErrNotRectilinear = errors.New("segment is not rectilinear")
	// ErrOutOfBounds is returned for a segment leaving the boundary.
	ErrOutOfBounds = errors.New("segment outside boundary")
	// ErrNotConnected is returned when the segments do not join every pin.
	ErrNotConnected = errors.New("pins not connected")
)

// Verify checks that segs form a valid rectilinear routing for pins: every
// segment is axis-aligned and inside boundary, and all pins lie in one
// connected component. Segments touch when an endpoint of one lies anywhere on
// the other. An invalid boundary disables the bounds check.
func Verify(boundary geom.Rect, pins []geom.Point, segs []geom.Segment) error {
	for i, s := range segs {
		if !s.Rectilinear() {
			return fmt.Errorf("segment %d %q: %w", i, s, ErrNotRectilinear)
		}
		if boundary.Valid() && !boundary.ContainsSegment(s) {
			return fmt.Errorf("segment %d %q in %v: %w", i, s, boundary, ErrOutOfBounds)
		}
	}
	if len(pins) < 2 {
		return nil
	}

	// Nodes are every distinct pin and segment endpoint.
	index := make(map[geom.Point]int)
	var nodes []geom.Point
	node := func(p geom.Point) int {
		if id, ok := index[p]; ok {
			return id
		}
		index[p] = len(nodes)
		nodes = append(nodes, p)
		return index[p]
	}
	for _, p := range pins {
		node(p)
	}
	for _, s := range segs {
		node(s.A)
		node(s.B)
	}

	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, s := range segs {
		a := find(index[s.A])
		for id, p := range nodes {
			if s.Covers(p) {
				parent[find(id)] = a
				a = find(a)
			}
		}
	}

	root := find(index[pins[0]])
	for i, p := range pins {
		if find(index[p]) != root {
			return fmt.Errorf("pin %d at %v: %w", i, p, ErrNotConnected)
		}
	}
	return nil
}
