package tree

import (
	"errors"
	"fmt"
	"slices"

	"github.com/chiehanchen/steiner/pkg/geom"
)

var (
	// ErrUnknownVertex is returned when an ID does not name a live vertex.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrSelfLoop is returned by [Tree.Connect] when both endpoints are the
	// same vertex.
	ErrSelfLoop = errors.New("self loop")

	// ErrDuplicateEdge is returned by [Tree.Connect] when the edge exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrMissingEdge is returned by [Tree.Disconnect] when the edge does not
	// exist.
	ErrMissingEdge = errors.New("missing edge")

	// ErrOccupied is returned by [Tree.AddSteiner] when a vertex already
	// sits at the requested point.
	ErrOccupied = errors.New("point already in tree")

	// ErrRemovePin is returned by [Tree.Remove] for pin vertices. Pins are
	// never removed.
	ErrRemovePin = errors.New("pins cannot be removed")

	// ErrDisconnected is returned by [Tree.Validate] when some vertex is not
	// reachable from the others.
	ErrDisconnected = errors.New("tree is disconnected")

	// ErrCycle is returned by [Tree.Validate] when the vertices are connected
	// but there are more than |V|-1 edges.
	ErrCycle = errors.New("tree contains a cycle")
)

// Role distinguishes caller-supplied pins from synthesized branch points.
type Role int

const (
	// RolePin marks a required terminal.
	RolePin Role = iota
	// RoleSteiner marks a branch point inserted by refinement.
	RoleSteiner
)

func (r Role) String() string {
	if r == RoleSteiner {
		return "steiner"
	}
	return "pin"
}

// Vertex is a tree vertex. Pins take IDs 0..n-1 in input order; Steiner
// vertices take increasing IDs after that and IDs are never reused.
type Vertex struct {
	ID    int
	Point geom.Point
	Role  Role
}

// IsPin reports whether v is a pin.
func (v Vertex) IsPin() bool { return v.Role == RolePin }

// IsSteiner reports whether v is a synthesized branch point.
func (v Vertex) IsSteiner() bool { return v.Role == RoleSteiner }

// Edge is an undirected edge between vertex IDs. Edges returned by [Tree.Edges]
// have U < V; edges returned by [Tree.Walk] are oriented parent to child.
type Edge struct {
	U, V int
}

// Tree is an undirected graph over pins and Steiner points that the builder
// keeps connected and acyclic. Adjacency lists are kept sorted so every
// traversal is deterministic.
//
// The zero value is not usable; use [New]. A Tree is not safe for concurrent
// mutation, but read-only methods may be called from several goroutines.
type Tree struct {
	verts []Vertex
	alive []bool
	adj   [][]int
	at    map[geom.Point]int
	pins  int
	live  int
	edges int
}

// New returns an edgeless tree whose vertices are pins, in input order.
// Duplicate pin coordinates are allowed; [Tree.At] reports the lowest ID.
func New(pins []geom.Point) *Tree {
	t := &Tree{
		verts: make([]Vertex, 0, 2*len(pins)),
		alive: make([]bool, 0, 2*len(pins)),
		adj:   make([][]int, 0, 2*len(pins)),
		at:    make(map[geom.Point]int, 2*len(pins)),
		pins:  len(pins),
	}
	for _, p := range pins {
		t.add(p, RolePin)
	}
	return t
}

func (t *Tree) add(p geom.Point, role Role) int {
	id := len(t.verts)
	t.verts = append(t.verts, Vertex{ID: id, Point: p, Role: role})
	t.alive = append(t.alive, true)
	t.adj = append(t.adj, nil)
	if _, ok := t.at[p]; !ok {
		t.at[p] = id
	}
	t.live++
	return id
}

// AddSteiner inserts an isolated Steiner vertex at p and returns its ID.
// The caller must connect it before the tree is valid again.
func (t *Tree) AddSteiner(p geom.Point) (int, error) {
	if id, ok := t.at[p]; ok {
		return 0, fmt.Errorf("%w: %v is vertex %d", ErrOccupied, p, id)
	}
	return t.add(p, RoleSteiner), nil
}

// Has reports whether id names a live vertex.
func (t *Tree) Has(id int) bool {
	return id >= 0 && id < len(t.verts) && t.alive[id]
}

// Vertex returns the vertex with the given ID.
func (t *Tree) Vertex(id int) (Vertex, bool) {
	if !t.Has(id) {
		return Vertex{}, false
	}
	return t.verts[id], true
}

// Point returns the location of vertex id. It panics on unknown IDs.
func (t *Tree) Point(id int) geom.Point {
	if !t.Has(id) {
		panic(fmt.Sprintf("tree: Point(%d): %v", id, ErrUnknownVertex))
	}
	return t.verts[id].Point
}

// At returns the lowest live vertex ID located at p.
func (t *Tree) At(p geom.Point) (int, bool) {
	id, ok := t.at[p]
	return id, ok
}

// Occupied reports whether a vertex sits at p.
func (t *Tree) Occupied(p geom.Point) bool {
	_, ok := t.at[p]
	return ok
}

// Connect adds the edge u-v.
func (t *Tree) Connect(u, v int) error {
	if !t.Has(u) || !t.Has(v) {
		return fmt.Errorf("connect %d-%d: %w", u, v, ErrUnknownVertex)
	}
	if u == v {
		return fmt.Errorf("connect %d-%d: %w", u, v, ErrSelfLoop)
	}
	i, found := slices.BinarySearch(t.adj[u], v)
	if found {
		return fmt.Errorf("connect %d-%d: %w", u, v, ErrDuplicateEdge)
	}
	t.adj[u] = slices.Insert(t.adj[u], i, v)
	j, _ := slices.BinarySearch(t.adj[v], u)
	t.adj[v] = slices.Insert(t.adj[v], j, u)
	t.edges++
	return nil
}

// Disconnect removes the edge u-v.
func (t *Tree) Disconnect(u, v int) error {
	if !t.Has(u) || !t.Has(v) {
		return fmt.Errorf("disconnect %d-%d: %w", u, v, ErrUnknownVertex)
	}
	i, found := slices.BinarySearch(t.adj[u], v)
	if !found {
		return fmt.Errorf("disconnect %d-%d: %w", u, v, ErrMissingEdge)
	}
	t.adj[u] = slices.Delete(t.adj[u], i, i+1)
	j, _ := slices.BinarySearch(t.adj[v], u)
	t.adj[v] = slices.Delete(t.adj[v], j, j+1)
	t.edges--
	return nil
}

// HasEdge reports whether u-v is an edge.
func (t *Tree) HasEdge(u, v int) bool {
	if !t.Has(u) || !t.Has(v) {
		return false
	}
	_, found := slices.BinarySearch(t.adj[u], v)
	return found
}

// Remove deletes Steiner vertex id together with its incident edges.
func (t *Tree) Remove(id int) error {
	if !t.Has(id) {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownVertex)
	}
	if t.verts[id].IsPin() {
		return fmt.Errorf("remove %d: %w", id, ErrRemovePin)
	}
	for _, n := range slices.Clone(t.adj[id]) {
		if err := t.Disconnect(id, n); err != nil {
			return err
		}
	}
	t.alive[id] = false
	t.adj[id] = nil
	if t.at[t.verts[id].Point] == id {
		delete(t.at, t.verts[id].Point)
	}
	t.live--
	return nil
}

// Neighbors returns the IDs adjacent to id in ascending order.
func (t *Tree) Neighbors(id int) []int {
	if !t.Has(id) {
		return nil
	}
	return slices.Clone(t.adj[id])
}

// Degree returns the number of edges incident to id.
func (t *Tree) Degree(id int) int {
	if !t.Has(id) {
		return 0
	}
	return len(t.adj[id])
}

// MaxID returns one past the largest vertex ID ever assigned.
func (t *Tree) MaxID() int { return len(t.verts) }

// PinCount returns the number of pins.
func (t *Tree) PinCount() int { return t.pins }

// SteinerCount returns the number of live Steiner vertices.
func (t *Tree) SteinerCount() int { return t.live - t.pins }

// VertexCount returns the number of live vertices.
func (t *Tree) VertexCount() int { return t.live }

// EdgeCount returns the number of edges.
func (t *Tree) EdgeCount() int { return t.edges }

// Vertices returns the live vertices ordered by ID.
func (t *Tree) Vertices() []Vertex {
	out := make([]Vertex, 0, t.live)
	for id, v := range t.verts {
		if t.alive[id] {
			out = append(out, v)
		}
	}
	return out
}

// SteinerPoints returns the locations of live Steiner vertices ordered by ID.
func (t *Tree) SteinerPoints() []geom.Point {
	var out []geom.Point
	for id := t.pins; id < len(t.verts); id++ {
		if t.alive[id] {
			out = append(out, t.verts[id].Point)
		}
	}
	return out
}

// Edges returns every edge once with U < V, ordered by (U, V).
func (t *Tree) Edges() []Edge {
	out := make([]Edge, 0, t.edges)
	for u := range t.adj {
		for _, v := range t.adj[u] {
			if u < v {
				out = append(out, Edge{U: u, V: v})
			}
		}
	}
	return out
}

// EdgeLength returns the rectilinear length of u-v.
func (t *Tree) EdgeLength(u, v int) int {
	return geom.Distance(t.Point(u), t.Point(v))
}

// Length returns the total rectilinear length of all edges.
func (t *Tree) Length() int {
	total := 0
	for _, e := range t.Edges() {
		total += t.EdgeLength(e.U, e.V)
	}
	return total
}

// Walk returns the edges reachable from root in depth-first order, each
// oriented parent to child. Neighbors are visited in ascending ID order.
func (t *Tree) Walk(root int) []Edge {
	if !t.Has(root) {
		return nil
	}
	out := make([]Edge, 0, t.edges)
	visited := make([]bool, len(t.verts))
	var visit func(int)
	visit = func(u int) {
		visited[u] = true
		for _, v := range t.adj[u] {
			if visited[v] {
				continue
			}
			out = append(out, Edge{U: u, V: v})
			visit(v)
		}
	}
	visit(root)
	return out
}

// Validate checks that the live vertices form a single tree: every vertex is
// reachable and there are exactly |V|-1 edges.
func (t *Tree) Validate() error {
	if t.live == 0 {
		if t.edges != 0 {
			return ErrCycle
		}
		return nil
	}
	root := slices.Index(t.alive, true)
	reached := len(t.Walk(root)) + 1
	switch {
	case reached < t.live:
		return fmt.Errorf("%w: %d of %d vertices reachable", ErrDisconnected, reached, t.live)
	case t.edges != t.live-1:
		return fmt.Errorf("%w: %d edges over %d vertices", ErrCycle, t.edges, t.live)
	}
	return nil
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		verts: slices.Clone(t.verts),
		alive: slices.Clone(t.alive),
		adj:   make([][]int, len(t.adj)),
		at:    make(map[geom.Point]int, len(t.at)),
		pins:  t.pins,
		live:  t.live,
		edges: t.edges,
	}
	for i, a := range t.adj {
		c.adj[i] = slices.Clone(a)
	}
	for p, id := range t.at {
		c.at[p] = id
	}
	return c
}
