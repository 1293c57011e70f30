package connections

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orthoroute/core"
	"orthoroute/geometry"
)

var pt = geometry.Pt

func TestRoute_Scenarios(t *testing.T) {
	r := DefaultRouter()

	tests := []struct {
		name string
		a    geometry.Point
		dirA geometry.Vector
		b    geometry.Point
		dirB geometry.Vector
		want core.Route
	}{
		{
			name: "facing endpoints get stub, jog and final run",
			a:    pt(0, 0),
			dirA: geometry.Right,
			b:    pt(100, 50),
			dirB: geometry.Left,
			want: core.Route{pt(0, 0), pt(20, 0), pt(20, 50), pt(100, 50)},
		},
		{
			name: "facing endpoints on one line collapse to a straight route",
			a:    pt(0, 0),
			dirA: geometry.Right,
			b:    pt(100, 0),
			dirB: geometry.Left,
			want: core.Route{pt(0, 0), pt(100, 0)},
		},
		{
			name: "perpendicular exit gives a single corner",
			a:    pt(0, 0),
			dirA: geometry.Right,
			b:    pt(100, 50),
			dirB: geometry.Up,
			want: core.Route{pt(0, 0), pt(100, 0), pt(100, 50)},
		},
		{
			name: "same facing wraps around the target",
			a:    pt(0, 0),
			dirA: geometry.Right,
			b:    pt(100, 50),
			dirB: geometry.Right,
			want: core.Route{pt(0, 0), pt(120, 0), pt(120, 50), pt(100, 50)},
		},
		{
			name: "very close on the same line turns out perpendicular",
			a:    pt(0, 0),
			dirA: geometry.Right,
			b:    pt(5, 0),
			dirB: geometry.Left,
			want: core.Route{pt(0, 0), pt(20, 0), pt(20, 10), pt(-15, 10), pt(-15, 0), pt(5, 0)},
		},
		{
			name: "free directions follow the dominant axis",
			a:    pt(0, 0),
			b:    pt(100, 50),
			want: core.Route{pt(0, 0), pt(20, 0), pt(20, 50), pt(100, 50)},
		},
		{
			name: "coincident endpoints",
			a:    pt(7, 7),
			dirA: geometry.Right,
			b:    pt(7, 7),
			dirB: geometry.Left,
			want: core.Route{pt(7, 7), pt(7, 7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Route(tt.a, tt.dirA, tt.b, tt.dirB)
			assert.True(t, tt.want.Equal(got), "Route() = %v, want %v", got, tt.want)
		})
	}
}

func TestRoute_CloseEndpointsRespectBothStubs(t *testing.T) {
	r := DefaultRouter()
	got := r.Route(pt(0, 0), geometry.Right, pt(5, 0), geometry.Left)
	require.GreaterOrEqual(t, len(got), 4)

	first := got[1].Sub(got[0])
	last := got[len(got)-1].Sub(got[len(got)-2])
	assert.GreaterOrEqual(t, first.Dot(geometry.Right), 20.0, "first stub must leave along +x")
	assert.GreaterOrEqual(t, last.Dot(geometry.Right), 20.0, "last stub must arrive against the -x exit")
	assert.True(t, got.IsOrthogonal())
}

func TestRoute_Properties(t *testing.T) {
	r := DefaultRouter()
	dirs := []geometry.Vector{geometry.Right, geometry.Left, geometry.Up, geometry.Down, {}}
	coords := []float64{-40, 0, 5, 30, 100}
	a := pt(0, 0)

	for _, bx := range coords {
		for _, by := range coords {
			for _, dA := range dirs {
				for _, dB := range dirs {
					b := pt(bx, by)
					name := fmt.Sprintf("b=%v dirA=%v dirB=%v", b, dA, dB)
					got := r.Route(a, dA, b, dB)

					require.True(t, got.Valid(), name)
					assert.True(t, got.First().Eq(a), "%s: first point %v", name, got.First())
					assert.True(t, got.Last().Eq(b), "%s: last point %v", name, got.Last())
					assert.True(t, got.IsOrthogonal(), "%s: diagonal segment in %v", name, got)
					assert.True(t, Simplify(got).Equal(got), "%s: route not simplified: %v", name, got)
					if !a.Eq(b) {
						assert.GreaterOrEqual(t, got[1].Sub(got[0]).Length(), 20.0, "%s: short stub in %v", name, got)
					}
				}
			}
		}
	}
}

func TestRoute_DogLegFallback(t *testing.T) {
	r := DefaultRouter()
	r.maxSteps = 1

	got := r.Route(pt(0, 0), geometry.Right, pt(100, 50), geometry.Left)
	assert.True(t, got.First().Eq(pt(0, 0)))
	assert.True(t, got.Last().Eq(pt(100, 50)))
	assert.True(t, got.IsOrthogonal())
	assert.GreaterOrEqual(t, got[1].Sub(got[0]).Length(), 20.0)
}

func TestReroute_OffPage(t *testing.T) {
	r := DefaultRouter()
	a := core.EndpointSnapshot{Pos: pt(0, 0), Dir: geometry.Right}
	b := core.EndpointSnapshot{Pos: pt(100, 50), Dir: geometry.Left}

	got := r.Reroute(core.ModeOffPage, a, b)
	assert.True(t, core.Route{pt(0, 0), pt(100, 50)}.Equal(got))

	got = r.Reroute(core.ModeNormal, a, b)
	assert.Len(t, got, 4)
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		in   core.Route
		want core.Route
	}{
		{
			name: "collinear run collapses",
			in:   core.Route{pt(0, 0), pt(10, 0), pt(20, 0), pt(30, 0)},
			want: core.Route{pt(0, 0), pt(30, 0)},
		},
		{
			name: "corners are kept",
			in:   core.Route{pt(0, 0), pt(20, 0), pt(20, 50), pt(100, 50)},
			want: core.Route{pt(0, 0), pt(20, 0), pt(20, 50), pt(100, 50)},
		},
		{
			name: "interior duplicates dropped",
			in:   core.Route{pt(0, 0), pt(20, 0), pt(20, 0), pt(20, 50)},
			want: core.Route{pt(0, 0), pt(20, 0), pt(20, 50)},
		},
		{
			name: "reversal is not a continuation",
			in:   core.Route{pt(0, 0), pt(20, 0), pt(10, 0)},
			want: core.Route{pt(0, 0), pt(20, 0), pt(10, 0)},
		},
		{
			name: "chained deletions retest the same index",
			in:   core.Route{pt(0, 0), pt(0, 5), pt(0, 10), pt(0, 15), pt(20, 15), pt(40, 15)},
			want: core.Route{pt(0, 0), pt(0, 15), pt(40, 15)},
		},
		{
			name: "degenerate endpoints survive",
			in:   core.Route{pt(3, 3), pt(3, 3), pt(3, 3)},
			want: core.Route{pt(3, 3), pt(3, 3)},
		},
		{
			name: "two points untouched",
			in:   core.Route{pt(0, 0), pt(5, 5)},
			want: core.Route{pt(0, 0), pt(5, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(tt.in)
			assert.True(t, tt.want.Equal(got), "Simplify() = %v, want %v", got, tt.want)
			assert.True(t, Simplify(got).Equal(got), "Simplify must be idempotent")
			assert.True(t, got.First().Eq(tt.in.First()))
			assert.True(t, got.Last().Eq(tt.in.Last()))
		})
	}
}

func TestSimplify_DoesNotAliasInput(t *testing.T) {
	in := core.Route{pt(0, 0), pt(10, 0), pt(20, 0)}
	_ = Simplify(in)
	assert.True(t, core.Route{pt(0, 0), pt(10, 0), pt(20, 0)}.Equal(in))
}
