package hanan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiehanchen/steiner/pkg/geom"
)

func TestNewCollapsesDuplicates(t *testing.T) {
	g := New([]geom.Point{geom.Pt(4, 1), geom.Pt(0, 1), geom.Pt(4, 7), geom.Pt(4, 1)})

	assert.Equal(t, []int{0, 4}, g.Xs())
	assert.Equal(t, []int{1, 7}, g.Ys())
	assert.Equal(t, 4, g.Size())
}

func TestPointsOrderAndUniqueness(t *testing.T) {
	pins := []geom.Point{geom.Pt(2, 2), geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(0, 0)}
	pts := New(pins).Points()

	want := []geom.Point{
		geom.Pt(0, 0), geom.Pt(0, 2),
		geom.Pt(2, 0), geom.Pt(2, 2),
		geom.Pt(4, 0), geom.Pt(4, 2),
	}
	assert.Equal(t, want, pts)

	seen := map[geom.Point]bool{}
	for _, p := range pts {
		require.False(t, seen[p], "duplicate grid point %v", p)
		seen[p] = true
	}
	for _, p := range pins {
		assert.True(t, seen[p], "pin %v must be on its own grid", p)
	}
}

func TestPointsWithinPinBounds(t *testing.T) {
	pins := []geom.Point{geom.Pt(-3, 8), geom.Pt(5, -1), geom.Pt(2, 2)}
	b := geom.Bounds(pins)
	for _, p := range New(pins).Points() {
		assert.True(t, b.Contains(p), "%v outside %v", p, b)
	}
}

func TestEmptyGrid(t *testing.T) {
	g := New(nil)
	assert.True(t, g.Empty())
	assert.Empty(t, g.Points())
	assert.Panics(t, func() { g.Nearest(geom.Pt(0, 0)) })
}

func TestContains(t *testing.T) {
	g := New([]geom.Point{geom.Pt(0, 0), geom.Pt(3, 5)})
	assert.True(t, g.Contains(geom.Pt(0, 5)))
	assert.True(t, g.Contains(geom.Pt(3, 0)))
	assert.False(t, g.Contains(geom.Pt(1, 0)))
}

func TestCandidatesExcludesOccupied(t *testing.T) {
	pins := []geom.Point{geom.Pt(0, 0), geom.Pt(2, 2)}
	g := New(pins)
	occupied := map[geom.Point]bool{pins[0]: true, pins[1]: true}

	got := g.Candidates(func(p geom.Point) bool { return occupied[p] })
	assert.Equal(t, []geom.Point{geom.Pt(0, 2), geom.Pt(2, 0)}, got)
	assert.Len(t, g.Candidates(nil), 4)
}

func TestNearest(t *testing.T) {
	g := New([]geom.Point{geom.Pt(0, 0), geom.Pt(4, 10), geom.Pt(10, 4)})

	tests := []struct {
		name string
		in   geom.Point
		want geom.Point
	}{
		{"on grid", geom.Pt(4, 4), geom.Pt(4, 4)},
		{"below range", geom.Pt(-5, -5), geom.Pt(0, 0)},
		{"above range", geom.Pt(50, 50), geom.Pt(10, 10)},
		{"snaps per axis", geom.Pt(3, 9), geom.Pt(4, 10)},
		{"tie picks lower x", geom.Pt(2, 0), geom.Pt(0, 0)},
		{"tie picks lower y", geom.Pt(0, 7), geom.Pt(0, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Nearest(tt.in))
		})
	}
}
