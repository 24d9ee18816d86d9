package steiner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/chiehanchen/steiner/pkg/geom"
	"github.com/chiehanchen/steiner/pkg/hanan"
	"github.com/chiehanchen/steiner/pkg/mst"
	"github.com/chiehanchen/steiner/pkg/tree"
)

// Stats summarizes one solver run.
type Stats struct {
	Pins          int           `json:"pins"`
	SteinerPoints int           `json:"steiner_points"`
	Edges         int           `json:"edges"`
	Segments      int           `json:"segments"`
	Passes        int           `json:"passes"`
	Moves         int           `json:"moves"`
	MSTLength     int           `json:"mst_length"`
	Length        int           `json:"length"`
	Duration      time.Duration `json:"duration_ns"`
}

// Improvement returns the fraction of the spanning-tree length saved by
// refinement, in [0, 1).
func (s Stats) Improvement() float64 {
	if s.MSTLength == 0 {
		return 0
	}
	return float64(s.MSTLength-s.Length) / float64(s.MSTLength)
}

// Result is the output of [Solver.Run].
type Result struct {
	Boundary geom.Rect
	Pins     []geom.Point
	Segments []geom.Segment
	Tree     *tree.Tree
	Stats    Stats
	Trace    []Move // populated when Options.Trace is set
}

// Solver runs the construction pipeline with fixed options. A Solver holds no
// per-run state and may be shared across goroutines.
type Solver struct {
	opts Options
}

// NewSolver returns a solver using opts.
func NewSolver(opts Options) *Solver {
	return &Solver{opts: opts}
}

// Solve returns the segments of a rectilinear Steiner tree spanning pins,
// using default options. Fewer than two pins yield no segments.
//
// The boundary is not used to place points: every vertex comes from the Hanan
// grid of the pins, so segments stay inside any boundary containing the pins.
func Solve(boundary geom.Rect, pins []geom.Point) []geom.Segment {
	res, err := NewSolver(Options{}).Run(context.Background(), boundary, pins)
	if err != nil {
		panic(err)
	}
	return res.Segments
}

// Run builds the rectilinear MST over pins, refines it with Hanan grid Steiner
// points and decomposes the result into orthogonal segments.
//
// Run only fails if ctx is cancelled between passes or if an internal tree
// invariant is violated; the latter indicates a bug.
func (s *Solver) Run(ctx context.Context, boundary geom.Rect, pins []geom.Point) (*Result, error) {
	start := time.Now()
	logger := s.opts.logger()

	res := &Result{
		Boundary: boundary,
		Pins:     slices.Clone(pins),
		Stats:    Stats{Pins: len(pins)},
	}
	if len(pins) < 2 {
		res.Tree = tree.New(pins)
		res.Stats.Duration = time.Since(start)
		return res, nil
	}

	spanning := mst.Prim(pins)
	t, err := FromSpanningTree(pins, spanning)
	if err != nil {
		return nil, err
	}
	logger.Debug("built spanning tree", "pins", len(pins), "length", spanning.Length)

	grid := hanan.New(pins)
	logger.Debug("built hanan grid", "xs", len(grid.Xs()), "ys", len(grid.Ys()), "points", grid.Size())

	r := newRefiner(t, grid, s.opts)
	moves, err := r.run(ctx)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}

	res.Tree = t
	res.Segments = Decompose(t)
	res.Trace = r.moves
	res.Stats = Stats{
		Pins:          len(pins),
		SteinerPoints: t.SteinerCount(),
		Edges:         t.EdgeCount(),
		Segments:      len(res.Segments),
		Passes:        r.passes,
		Moves:         moves,
		MSTLength:     spanning.Length,
		Length:        t.Length(),
		Duration:      time.Since(start),
	}
	logger.Debug("solved net",
		"pins", len(pins),
		"steiner", res.Stats.SteinerPoints,
		"mst", res.Stats.MSTLength,
		"length", res.Stats.Length,
		"passes", res.Stats.Passes)
	return res, nil
}

// FromSpanningTree converts an index-based spanning tree into a [tree.Tree].
func FromSpanningTree(pins []geom.Point, st mst.Tree) (*tree.Tree, error) {
	t := tree.New(pins)
	for _, e := range st.Edges {
		if err := t.Connect(e.U, e.V); err != nil {
			return nil, fmt.Errorf("spanning tree: %w", err)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("spanning tree: %w", err)
	}
	return t, nil
}
