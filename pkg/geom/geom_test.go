package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want int
	}{
		{"same point", Pt(3, 3), Pt(3, 3), 0},
		{"horizontal", Pt(0, 0), Pt(5, 0), 5},
		{"vertical", Pt(0, -2), Pt(0, 4), 6},
		{"diagonal", Pt(0, 0), Pt(3, 4), 7},
		{"negative coordinates", Pt(-1, -1), Pt(2, -5), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a), "distance must be symmetric")
		})
	}
}

func TestMedian3(t *testing.T) {
	cases := [][4]int{
		{1, 2, 3, 2}, {3, 2, 1, 2}, {2, 3, 1, 2}, {1, 3, 2, 2},
		{5, 5, 1, 5}, {0, 0, 0, 0}, {-4, 7, 0, 0}, {1, 2, 0, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c[3], Median3(c[0], c[1], c[2]), "Median3(%d,%d,%d)", c[0], c[1], c[2])
	}
}

func TestMedianPointMinimizesStarLength(t *testing.T) {
	a, b, c := Pt(0, 0), Pt(4, 0), Pt(2, 4)
	m := MedianPoint(a, b, c)
	assert.Equal(t, Pt(2, 0), m)

	best := Distance(a, m) + Distance(b, m) + Distance(c, m)
	for x := -2; x <= 6; x++ {
		for y := -2; y <= 6; y++ {
			p := Pt(x, y)
			assert.GreaterOrEqual(t, Distance(a, p)+Distance(b, p)+Distance(c, p), best)
		}
	}
}

func TestRect(t *testing.T) {
	r := Rect{XL: 0, YL: 0, XH: 10, YH: 5}
	assert.True(t, r.Valid())
	assert.Equal(t, 10, r.Width())
	assert.Equal(t, 5, r.Height())
	assert.True(t, r.Contains(Pt(0, 0)))
	assert.True(t, r.Contains(Pt(10, 5)))
	assert.False(t, r.Contains(Pt(11, 5)))
	assert.False(t, r.Contains(Pt(3, -1)))
	assert.False(t, Rect{XL: 2, XH: 1}.Valid())
}

func TestBounds(t *testing.T) {
	assert.Equal(t, Rect{}, Bounds(nil))
	assert.Equal(t, Rect{XL: -1, YL: 2, XH: 4, YH: 9}, Bounds([]Point{Pt(0, 9), Pt(-1, 2), Pt(4, 3)}))
}

func TestEdgeSegments(t *testing.T) {
	t.Run("diagonal bends horizontally first", func(t *testing.T) {
		segs := Edge{From: Pt(0, 0), To: Pt(3, 4)}.Segments()
		assert.Equal(t, []Segment{Seg(0, 0, 3, 0), Seg(3, 0, 3, 4)}, segs)
		assert.Equal(t, 7, TotalLength(segs))
	})
	t.Run("straight edge", func(t *testing.T) {
		segs := Edge{From: Pt(2, 1), To: Pt(2, 8)}.Segments()
		assert.Equal(t, []Segment{Seg(2, 1, 2, 8)}, segs)
	})
	t.Run("zero length", func(t *testing.T) {
		assert.Empty(t, Edge{From: Pt(1, 1), To: Pt(1, 1)}.Segments())
	})
	t.Run("all pieces rectilinear", func(t *testing.T) {
		for _, s := range (Edge{From: Pt(5, -3), To: Pt(-2, 7)}).Segments() {
			assert.True(t, s.Rectilinear(), "segment %v", s)
		}
	})
}

func TestSegmentCovers(t *testing.T) {
	s := Seg(0, 2, 6, 2)
	assert.True(t, s.Covers(Pt(3, 2)))
	assert.True(t, s.Covers(Pt(6, 2)))
	assert.False(t, s.Covers(Pt(7, 2)))
	assert.False(t, s.Covers(Pt(3, 3)))

	v := Seg(1, 5, 1, -5)
	assert.True(t, v.Covers(Pt(1, 0)))
}

func TestUnique(t *testing.T) {
	in := []int{3, 1, 3, 2, 1}
	assert.Equal(t, []int{1, 2, 3}, Unique(in))
	assert.Equal(t, []int{3, 1, 3, 2, 1}, in, "input must not be modified")
}
