package geometry

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointCardinal(t *testing.T) {
	tests := []struct {
		name string
		in   Vector
		want Vector
	}{
		{"zero stays free", Vector{}, Vector{}},
		{"right", Pt(3, 1), Right},
		{"left", Pt(-5, 2), Left},
		{"down", Pt(1, 4), Down},
		{"up", Pt(0, -0.5), Up},
		{"tie goes horizontal", Pt(-2, 2), Left},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Cardinal())
		})
	}
}

func TestPointPerp(t *testing.T) {
	assert.True(t, Right.Perp().Eq(Down))
	assert.True(t, Down.Perp().Eq(Left))
	assert.True(t, Left.Perp().Eq(Up))
	assert.True(t, Up.Perp().Eq(Right))
}

func TestAntiParallel(t *testing.T) {
	assert.True(t, AntiParallel(Right, Left))
	assert.True(t, AntiParallel(Pt(0, 5), Pt(0, -1)))
	assert.False(t, AntiParallel(Right, Right))
	assert.False(t, AntiParallel(Right, Down))
	assert.False(t, AntiParallel(Right, Vector{}))
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 20.0, Snap(16, 10))
	assert.Equal(t, 10.0, Snap(14, 10))
	assert.Equal(t, -10.0, Snap(-7, 10))
	assert.Equal(t, 7.5, Snap(7.5, 0))
	assert.Equal(t, Pt(20, 0), Pt(21, 3).SnapToGrid(10))

	assert.False(t, math.Signbit(Snap(-0.3, 10)), "no negative zero")
	assert.Equal(t, "{-100 0}", fmt.Sprint(Pt(-103, -3).SnapToGrid(10)))
}

func TestCrossOrthogonal(t *testing.T) {
	tests := []struct {
		name string
		v, h Segment
		want Point
		ok   bool
	}{
		{"plain cross", Seg(Pt(10, 0), Pt(10, 20)), Seg(Pt(0, 5), Pt(30, 5)), Pt(10, 5), true},
		{"touching end counts", Seg(Pt(10, 0), Pt(10, 20)), Seg(Pt(10, 20), Pt(30, 20)), Pt(10, 20), true},
		{"misses horizontally", Seg(Pt(40, 0), Pt(40, 20)), Seg(Pt(0, 5), Pt(30, 5)), Point{}, false},
		{"misses vertically", Seg(Pt(10, 0), Pt(10, 4)), Seg(Pt(0, 5), Pt(30, 5)), Point{}, false},
		{"wrong orientation", Seg(Pt(0, 5), Pt(30, 5)), Seg(Pt(10, 0), Pt(10, 20)), Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CrossOrthogonal(tt.v, tt.h)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpanOverlaps(t *testing.T) {
	assert.True(t, NewSpan(20, 10).Overlaps(Span{15, 25}))
	assert.True(t, Span{10, 20}.Overlaps(Span{20, 30}), "touching intervals share a point")
	assert.False(t, Span{10, 20}.Overlaps(Span{21, 30}))
	assert.Equal(t, Span{8, 22}, Span{10, 20}.Expand(2))
}

func TestBounds(t *testing.T) {
	r := Bounds([]Point{Pt(5, 7), Pt(-3, 2), Pt(10, -1)})
	assert.Equal(t, Rect{X: -3, Y: -1, W: 13, H: 8}, r)
	assert.True(t, r.Contains(Pt(0, 0)))
	assert.False(t, r.Contains(Pt(11, 0)))
}
