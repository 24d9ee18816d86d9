package steiner

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiehanchen/steiner/pkg/geom"
	"github.com/chiehanchen/steiner/pkg/hanan"
	"github.com/chiehanchen/steiner/pkg/mst"
	"github.com/chiehanchen/steiner/pkg/tree"
)

func run(t *testing.T, opts Options, pins ...geom.Point) *Result {
	t.Helper()
	res, err := NewSolver(opts).Run(context.Background(), geom.Bounds(pins), pins)
	require.NoError(t, err)
	return res
}

func randomPins(seed uint64, n, size int) []geom.Point {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pins := make([]geom.Point, n)
	for i := range pins {
		pins[i] = geom.Pt(rng.IntN(size), rng.IntN(size))
	}
	return pins
}

func TestSolveTrivialNets(t *testing.T) {
	box := geom.Rect{XL: 0, YL: 0, XH: 10, YH: 10}

	assert.Empty(t, Solve(box, nil))
	assert.Empty(t, Solve(box, []geom.Point{geom.Pt(3, 3)}))
	assert.Empty(t, Solve(box, []geom.Point{geom.Pt(3, 3), geom.Pt(3, 3)}), "coincident pins need no wire")

	assert.Equal(t, []geom.Segment{geom.Seg(1, 1, 1, 5)},
		Solve(box, []geom.Point{geom.Pt(1, 1), geom.Pt(1, 5)}))
	assert.Equal(t, []geom.Segment{geom.Seg(0, 0, 3, 0), geom.Seg(3, 0, 3, 4)},
		Solve(box, []geom.Point{geom.Pt(0, 0), geom.Pt(3, 4)}))
}

func TestSolveInsertsSteinerPoint(t *testing.T) {
	res := run(t, Options{Trace: true}, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 4))

	assert.Equal(t, 10, res.Stats.MSTLength)
	assert.Equal(t, 8, res.Stats.Length)
	assert.Equal(t, 1, res.Stats.SteinerPoints)
	assert.Equal(t, []geom.Point{geom.Pt(2, 0)}, res.Tree.SteinerPoints())
	assert.Equal(t, []geom.Segment{
		geom.Seg(0, 0, 2, 0),
		geom.Seg(2, 0, 4, 0),
		geom.Seg(2, 0, 2, 4),
	}, res.Segments)

	require.Len(t, res.Trace, 1)
	m := res.Trace[0]
	assert.Equal(t, MoveInsert, m.Kind)
	assert.Equal(t, 2, m.Gain)
	assert.Equal(t, 3, m.Steiner)
	assert.Equal(t, 8, m.Length)
}

func TestSolveStrictlyImproves(t *testing.T) {
	res := run(t, Options{}, geom.Pt(0, 0), geom.Pt(2, 2), geom.Pt(4, 0))

	assert.Equal(t, 8, res.Stats.MSTLength)
	assert.Equal(t, 6, res.Stats.Length)
	assert.Equal(t, 6, geom.TotalLength(res.Segments))
	assert.InDelta(t, 0.25, res.Stats.Improvement(), 1e-9)
}

func TestSolveCross(t *testing.T) {
	res := run(t, Options{Trace: true}, geom.Pt(0, 2), geom.Pt(4, 2), geom.Pt(2, 0), geom.Pt(2, 4))

	assert.Equal(t, 12, res.Stats.MSTLength)
	assert.Equal(t, 8, res.Stats.Length)
	assert.Equal(t, []geom.Segment{
		geom.Seg(0, 2, 2, 2),
		geom.Seg(2, 2, 4, 2),
		geom.Seg(2, 2, 2, 0),
		geom.Seg(2, 2, 2, 4),
	}, res.Segments)

	require.Len(t, res.Trace, 2)
	assert.Equal(t, MoveInsert, res.Trace[0].Kind)
	assert.Equal(t, [3]int{1, 0, 2}, [3]int{res.Trace[0].U, res.Trace[0].V, res.Trace[0].W})
	assert.Equal(t, MoveRewire, res.Trace[1].Kind)
	assert.Equal(t, -1, res.Trace[1].Steiner)
	assert.Equal(t, 3, res.Stats.Passes)
}

func TestSolveCollinear(t *testing.T) {
	res := run(t, Options{}, geom.Pt(0, 0), geom.Pt(5, 0), geom.Pt(10, 0))

	assert.Equal(t, 10, res.Stats.Length)
	assert.Zero(t, res.Stats.SteinerPoints)
	assert.Equal(t, []geom.Segment{geom.Seg(0, 0, 5, 0), geom.Seg(5, 0, 10, 0)}, res.Segments)
}

func TestNegativeMaxPassesKeepsSpanningTree(t *testing.T) {
	res := run(t, Options{MaxPasses: -1}, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 4))

	assert.Equal(t, 10, res.Stats.Length)
	assert.Zero(t, res.Stats.Passes)
	assert.Zero(t, res.Stats.SteinerPoints)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pins := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 4)}
	_, err := NewSolver(Options{}).Run(ctx, geom.Bounds(pins), pins)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveProperties(t *testing.T) {
	for seed := range uint64(25) {
		pins := randomPins(seed, 3+int(seed)%30, 50)
		box := geom.Bounds(pins)

		res := run(t, Options{}, pins...)
		require.NoError(t, Verify(box, pins, res.Segments), "seed %d", seed)
		require.NoError(t, res.Tree.Validate(), "seed %d", seed)

		kruskal := mst.Kruskal(pins).Length
		assert.Equal(t, kruskal, res.Stats.MSTLength, "seed %d", seed)
		assert.LessOrEqual(t, res.Stats.Length, kruskal, "seed %d", seed)
		assert.Equal(t, res.Stats.Length, geom.TotalLength(res.Segments), "seed %d", seed)
		assert.LessOrEqual(t, res.Stats.SteinerPoints, len(pins)-2, "seed %d", seed)
		assert.LessOrEqual(t, res.Stats.Passes, DefaultPassFactor*len(pins), "seed %d", seed)

		for _, s := range res.Segments {
			assert.True(t, s.Rectilinear())
			assert.False(t, s.Degenerate())
		}
		for _, v := range res.Tree.Vertices() {
			if v.IsSteiner() {
				assert.GreaterOrEqual(t, res.Tree.Degree(v.ID), 3, "seed %d: steiner %v", seed, v.Point)
			}
		}
	}
}

func TestSolveDeterministic(t *testing.T) {
	pins := randomPins(7, 40, 100)

	want := run(t, Options{}, pins...).Segments
	for range 3 {
		assert.Equal(t, want, run(t, Options{}, pins...).Segments)
	}
}

func TestWorkersDoNotChangeResult(t *testing.T) {
	for seed := range uint64(10) {
		pins := randomPins(seed, 30, 60)

		seq := run(t, Options{Workers: 1, Trace: true}, pins...)
		par := run(t, Options{Workers: 4, Trace: true}, pins...)
		all := run(t, Options{Workers: -1}, pins...)

		assert.Equal(t, seq.Segments, par.Segments, "seed %d", seed)
		assert.Equal(t, seq.Trace, par.Trace, "seed %d", seed)
		assert.Equal(t, seq.Segments, all.Segments, "seed %d", seed)
	}
}

func TestDuplicatePins(t *testing.T) {
	pins := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(0, 0), geom.Pt(2, 4), geom.Pt(4, 0)}
	res := run(t, Options{}, pins...)

	require.NoError(t, Verify(geom.Bounds(pins), pins, res.Segments))
	assert.Equal(t, 8, res.Stats.Length)
}

func TestCompareCandidates(t *testing.T) {
	base := candidate{u: 1, v: 0, w: 2, p: geom.Pt(2, 2), gain: 3}

	better := base
	better.gain = 4
	assert.Negative(t, compareCandidates(better, base))

	lowerSum := base
	lowerSum.u, lowerSum.w = 0, 1
	lowerSum.v = 2
	assert.Negative(t, compareCandidates(lowerSum, candidate{u: 1, v: 2, w: 3, gain: 3}))

	lowerCenter := candidate{u: 2, v: 0, w: 1, gain: 3}
	assert.Negative(t, compareCandidates(lowerCenter, candidate{u: 0, v: 1, w: 2, gain: 3}))

	lowerPoint := base
	lowerPoint.p = geom.Pt(1, 5)
	assert.Negative(t, compareCandidates(lowerPoint, base))
	assert.Zero(t, compareCandidates(base, base))
}

func TestEvaluateSkipsOccupiedJunction(t *testing.T) {
	// Pins 0, 1 and 2 hang off pin 2; their median (2,0) is where pin 3 sits.
	star := func(pins ...geom.Point) *refiner {
		tr := tree.New(pins)
		require.NoError(t, tr.Connect(0, 2))
		require.NoError(t, tr.Connect(2, 1))
		if len(pins) > 3 {
			require.NoError(t, tr.Connect(2, 3))
		}
		return newRefiner(tr, hanan.New(pins), Options{})
	}
	u, v, w := geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 4)

	free, ok := star(u, v, w).evaluate(0, 2, 1)
	require.True(t, ok)
	assert.Equal(t, MoveInsert, free.kind)
	assert.Equal(t, geom.Pt(2, 0), free.p)
	assert.Equal(t, 4, free.gain)

	_, ok = star(u, v, w, geom.Pt(2, 0)).evaluate(0, 2, 1)
	assert.False(t, ok, "junction on pin 3 must not be offered as a move")
}

func TestCollapseRemovesDegenerateSteiner(t *testing.T) {
	pins := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 4)}
	tr, err := FromSpanningTree(pins, mst.Prim(pins))
	require.NoError(t, err)

	s, err := tr.AddSteiner(geom.Pt(2, 0))
	require.NoError(t, err)
	require.NoError(t, tr.Disconnect(0, 1))
	require.NoError(t, tr.Connect(0, s))
	require.NoError(t, tr.Connect(s, 1))

	r := &refiner{t: tr}
	assert.Equal(t, 1, r.collapse())
	assert.False(t, tr.Has(s))
	assert.True(t, tr.HasEdge(0, 1))
	require.NoError(t, tr.Validate())
}

func TestEdgesFollowDecomposeOrder(t *testing.T) {
	res := run(t, Options{}, geom.Pt(0, 2), geom.Pt(4, 2), geom.Pt(2, 0), geom.Pt(2, 4))

	edges := Edges(res.Tree)
	require.Len(t, edges, 4)
	assert.Equal(t, geom.Pt(0, 2), edges[0].From)
	assert.Equal(t, geom.Pt(2, 2), edges[0].To)
	for _, e := range edges {
		assert.False(t, e.Diagonal(), "edge %v-%v", e.From, e.To)
		assert.Equal(t, 2, e.Length())
	}
}

func TestVerify(t *testing.T) {
	pins := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 4)}
	box := geom.Rect{XL: 0, YL: 0, XH: 4, YH: 4}

	t.Run("valid with t-junction", func(t *testing.T) {
		segs := []geom.Segment{geom.Seg(0, 0, 4, 0), geom.Seg(2, 4, 2, 0)}
		assert.NoError(t, Verify(box, pins, segs))
	})
	t.Run("diagonal", func(t *testing.T) {
		segs := []geom.Segment{geom.Seg(0, 0, 4, 0), geom.Seg(4, 0, 2, 4)}
		assert.ErrorIs(t, Verify(box, pins, segs), ErrNotRectilinear)
	})
	t.Run("outside boundary", func(t *testing.T) {
		segs := []geom.Segment{geom.Seg(0, 0, 4, 0), geom.Seg(2, 0, 2, 5)}
		assert.ErrorIs(t, Verify(box, pins, segs), ErrOutOfBounds)
	})
	t.Run("disconnected", func(t *testing.T) {
		segs := []geom.Segment{geom.Seg(0, 0, 4, 0), geom.Seg(2, 1, 2, 4)}
		assert.ErrorIs(t, Verify(box, pins, segs), ErrNotConnected)
	})
	t.Run("missing pin", func(t *testing.T) {
		assert.ErrorIs(t, Verify(box, pins, []geom.Segment{geom.Seg(0, 0, 4, 0)}), ErrNotConnected)
	})
}

func BenchmarkSolve(b *testing.B) {
	pins := randomPins(1, 100, 1000)
	box := geom.Bounds(pins)
	for b.Loop() {
		Solve(box, pins)
	}
}
