package steiner

import (
	"cmp"
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/chiehanchen/steiner/pkg/geom"
	"github.com/chiehanchen/steiner/pkg/hanan"
	"github.com/chiehanchen/steiner/pkg/tree"
)

// MoveKind identifies how a refinement move rewires a triple u-v-w.
type MoveKind int

const (
	// MoveInsert adds a Steiner vertex s and replaces u-v, v-w with
	// u-s, v-s, w-s.
	MoveInsert MoveKind = iota
	// MoveRewire applies when the junction coincides with an outer vertex of
	// the triple: v-w becomes u-w (or u-v becomes w-u).
	MoveRewire
)

func (k MoveKind) String() string {
	if k == MoveRewire {
		return "rewire"
	}
	return "insert"
}

// Move records an accepted refinement step.
type Move struct {
	Pass      int        // 1-based pass number
	Kind      MoveKind   // insert or rewire
	U, V, W   int        // the triple; V is the shared vertex
	Point     geom.Point // junction location
	Steiner   int        // ID of the inserted vertex, -1 for rewires
	Gain      int        // length saved by the move itself
	Collapsed int        // degenerate Steiner vertices removed afterwards
	Length    int        // tree length after the move and collapse
}

// candidate is an improving replacement found while scanning one pass.
type candidate struct {
	kind    MoveKind
	u, v, w int
	p       geom.Point
	anchor  int // for rewires, the outer vertex the junction coincides with
	gain    int
}

// compareCandidates orders candidates best first: larger gain, then lowest
// endpoint ID sum, then (v, u, w), then grid order of the junction.
func compareCandidates(a, b candidate) int {
	return cmp.Or(
		cmp.Compare(b.gain, a.gain),
		cmp.Compare(a.u+a.v+a.w, b.u+b.v+b.w),
		cmp.Compare(a.v, b.v),
		cmp.Compare(a.u, b.u),
		cmp.Compare(a.w, b.w),
		geom.Compare(a.p, b.p),
	)
}

// refiner turns a spanning tree into a Steiner tree by repeated best-move
// passes over the Hanan grid.
type refiner struct {
	t       *tree.Tree
	grid    *hanan.Grid
	cap     int
	workers int
	trace   bool
	logger  *log.Logger

	moves  []Move
	passes int
}

func newRefiner(t *tree.Tree, grid *hanan.Grid, opts Options) *refiner {
	return &refiner{
		t:       t,
		grid:    grid,
		cap:     opts.passCap(t.PinCount()),
		workers: opts.workers(),
		trace:   opts.Trace,
		logger:  opts.logger(),
	}
}

// run executes passes until no improving move remains or the cap is hit.
// Total length strictly decreases with every accepted move, so the loop
// terminates even without the cap.
func (r *refiner) run(ctx context.Context) (accepted int, err error) {
	length := r.t.Length()
	for r.passes < r.cap {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}
		r.passes++

		best, ok, err := r.bestMove(ctx)
		if err != nil {
			return accepted, err
		}
		if !ok {
			r.logger.Debug("refinement converged", "pass", r.passes, "length", length)
			return accepted, nil
		}

		steinerID := r.apply(best)
		collapsed := r.collapse()
		if err := r.t.Validate(); err != nil {
			return accepted, fmt.Errorf("pass %d %s move at %v: %w", r.passes, best.kind, best.p, err)
		}

		accepted++
		after := r.t.Length()
		if after > length-best.gain {
			return accepted, fmt.Errorf("pass %d: length %d exceeds expected %d", r.passes, after, length-best.gain)
		}
		length = after

		r.logger.Debug("accepted move",
			"pass", r.passes,
			"kind", best.kind,
			"triple", []int{best.u, best.v, best.w},
			"at", best.p,
			"gain", best.gain,
			"collapsed", collapsed,
			"length", length)

		if r.trace {
			r.moves = append(r.moves, Move{
				Pass:      r.passes,
				Kind:      best.kind,
				U:         best.u,
				V:         best.v,
				W:         best.w,
				Point:     best.p,
				Steiner:   steinerID,
				Gain:      best.gain,
				Collapsed: collapsed,
				Length:    length,
			})
		}
	}
	r.logger.Debug("refinement hit pass cap", "passes", r.passes, "length", length)
	return accepted, nil
}

// bestMove scans every triple of the current tree and returns the single best
// improving candidate. The tree is not mutated during the scan, so workers
// share it read-only.
func (r *refiner) bestMove(ctx context.Context) (candidate, bool, error) {
	var centers []int
	for _, v := range r.t.Vertices() {
		if r.t.Degree(v.ID) >= 2 {
			centers = append(centers, v.ID)
		}
	}

	workers := min(r.workers, len(centers))
	if workers < 2 {
		best, ok := r.scan(centers)
		return best, ok, nil
	}

	type partial struct {
		best candidate
		ok   bool
	}
	results := make([]partial, workers)
	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(centers) + workers - 1) / workers
	for i := range workers {
		lo := min(i*chunk, len(centers))
		hi := min(lo+chunk, len(centers))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			best, ok := r.scan(centers[lo:hi])
			results[i] = partial{best: best, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return candidate{}, false, err
	}

	var (
		best  candidate
		found bool
	)
	for _, p := range results {
		if p.ok && (!found || compareCandidates(p.best, best) < 0) {
			best, found = p.best, true
		}
	}
	return best, found, nil
}

// scan evaluates all triples centered on the given vertices.
func (r *refiner) scan(centers []int) (candidate, bool) {
	var (
		best  candidate
		found bool
	)
	for _, v := range centers {
		nbrs := r.t.Neighbors(v)
		for i := range nbrs {
			for j := i + 1; j < len(nbrs); j++ {
				c, ok := r.evaluate(nbrs[i], v, nbrs[j])
				if ok && (!found || compareCandidates(c, best) < 0) {
					best, found = c, true
				}
			}
		}
	}
	return best, found
}

// evaluate prices replacing u-v, v-w with a junction at the Hanan grid point
// nearest to the median of the three endpoints.
func (r *refiner) evaluate(u, v, w int) (candidate, bool) {
	pu, pv, pw := r.t.Point(u), r.t.Point(v), r.t.Point(w)
	p := r.grid.Nearest(geom.MedianPoint(pu, pv, pw))
	duv, dvw := geom.Distance(pu, pv), geom.Distance(pv, pw)

	c := candidate{kind: MoveInsert, u: u, v: v, w: w, p: p, anchor: -1}
	switch {
	case p == pv:
		return candidate{}, false
	case p == pu:
		c.kind, c.anchor = MoveRewire, u
		c.gain = dvw - geom.Distance(pu, pw)
	case p == pw:
		c.kind, c.anchor = MoveRewire, w
		c.gain = duv - geom.Distance(pu, pw)
	case r.t.Occupied(p):
		return candidate{}, false
	default:
		c.gain = duv + dvw - (geom.Distance(pu, p) + geom.Distance(pv, p) + geom.Distance(pw, p))
	}
	return c, c.gain > 0
}

// apply performs the move and returns the inserted Steiner ID, or -1.
// Any error here means the tree was already corrupt.
func (r *refiner) apply(c candidate) int {
	switch c.kind {
	case MoveRewire:
		other := c.w
		if c.anchor == c.w {
			other = c.u
		}
		must(r.t.Disconnect(c.v, other))
		must(r.t.Connect(c.anchor, other))
		return -1
	default:
		s, err := r.t.AddSteiner(c.p)
		must(err)
		must(r.t.Disconnect(c.u, c.v))
		must(r.t.Disconnect(c.v, c.w))
		must(r.t.Connect(c.u, s))
		must(r.t.Connect(c.v, s))
		must(r.t.Connect(c.w, s))
		return s
	}
}

// collapse removes Steiner vertices of degree two or less until none remain.
// A degree-two vertex is replaced by a direct edge between its neighbors,
// which by the triangle inequality never lengthens the tree.
func (r *refiner) collapse() int {
	removed := 0
	for changed := true; changed; {
		changed = false
		for id := r.t.PinCount(); id < r.t.MaxID(); id++ {
			if !r.t.Has(id) || r.t.Degree(id) > 2 {
				continue
			}
			nbrs := r.t.Neighbors(id)
			must(r.t.Remove(id))
			if len(nbrs) == 2 {
				must(r.t.Connect(nbrs[0], nbrs[1]))
			}
			removed++
			changed = true
		}
	}
	return removed
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("steiner: tree invariant violated: %v", err))
	}
}
