package connections

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orthoroute/core"
	"orthoroute/geometry"
)

// base is the route the router produces for (0,0)+x -> (100,50)-x.
func base() core.Route {
	return core.Route{pt(0, 0), pt(20, 0), pt(20, 50), pt(100, 50)}
}

func TestRepair_RigidTranslation(t *testing.T) {
	r := DefaultRouter()
	routes := []core.Route{
		base(),
		{pt(0, 0), pt(20, 0), pt(20, 10), pt(-15, 10), pt(-15, 0), pt(5, 0)},
		{pt(3.5, 1.25), pt(40, 1.25)},
	}
	deltas := []geometry.Point{pt(10, 0), pt(-7, 13), pt(0.5, 0.25), pt(0, 0)}

	for _, route := range routes {
		for _, d := range deltas {
			a, b := route.First(), route.Last()
			res := r.Repair(route, a, a.Add(d), b, b.Add(d), geometry.Right, geometry.Left)
			require.False(t, res.Recompute)
			assert.True(t, route.Translate(d).Equal(res.Route), "translate %v by %v gave %v", route, d, res.Route)
		}
	}
}

func TestRepair_PerpendicularProjection(t *testing.T) {
	r := DefaultRouter()

	tests := []struct {
		name       string
		newA, newB geometry.Point
		want       core.Route
	}{
		{
			name: "start moves down",
			newA: pt(0, 10),
			newB: pt(100, 50),
			want: core.Route{pt(0, 10), pt(20, 10), pt(20, 50), pt(100, 50)},
		},
		{
			name: "start moves past the far leg",
			newA: pt(0, 60),
			newB: pt(100, 50),
			want: core.Route{pt(0, 60), pt(20, 60), pt(20, 50), pt(100, 50)},
		},
		{
			name: "end moves down",
			newA: pt(0, 0),
			newB: pt(100, 60),
			want: core.Route{pt(0, 0), pt(20, 0), pt(20, 60), pt(100, 60)},
		},
		{
			name: "end slides away along its stub",
			newA: pt(0, 0),
			newB: pt(140, 50),
			want: core.Route{pt(0, 0), pt(20, 0), pt(20, 50), pt(140, 50)},
		},
		{
			name: "both ends move differently",
			newA: pt(0, -10),
			newB: pt(100, 70),
			want: core.Route{pt(0, -10), pt(20, -10), pt(20, 70), pt(100, 70)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Repair(base(), pt(0, 0), tt.newA, pt(100, 50), tt.newB, geometry.Right, geometry.Left)
			require.False(t, res.Recompute)
			assert.True(t, tt.want.Equal(res.Route), "Repair() = %v, want %v", res.Route, tt.want)
		})
	}
}

func TestRepair_Rejections(t *testing.T) {
	r := DefaultRouter()

	tests := []struct {
		name       string
		route      core.Route
		oldA, newA geometry.Point
		oldB, newB geometry.Point
		dirA, dirB geometry.Vector
	}{
		{
			name:  "degenerate route",
			route: core.Route{pt(0, 0)},
			oldA:  pt(0, 0),
			newA:  pt(0, 10),
			oldB:  pt(0, 0),
			newB:  pt(0, 0),
			dirA:  geometry.Right,
			dirB:  geometry.Left,
		},
		{
			name:  "start stub becomes too short",
			route: base(),
			oldA:  pt(0, 0),
			newA:  pt(10, 0),
			oldB:  pt(100, 50),
			newB:  pt(100, 50),
			dirA:  geometry.Right,
			dirB:  geometry.Left,
		},
		{
			name:  "end stub becomes too short",
			route: base(),
			oldA:  pt(0, 0),
			newA:  pt(0, 0),
			oldB:  pt(100, 50),
			newB:  pt(30, 50),
			dirA:  geometry.Right,
			dirB:  geometry.Left,
		},
		{
			name:  "projection would leave the visible margin",
			route: core.Route{pt(-20, 0), pt(0, 0), pt(0, 50), pt(100, 50)},
			oldA:  pt(-20, 0),
			newA:  pt(-20, 10),
			oldB:  pt(100, 50),
			newB:  pt(100, 50),
			dirA:  geometry.Right,
			dirB:  geometry.Left,
		},
		{
			name:  "long route cannot be projected",
			route: core.Route{pt(0, 0), pt(20, 0), pt(20, 30), pt(60, 30), pt(60, 80), pt(80, 80), pt(80, 120)},
			oldA:  pt(0, 0),
			newA:  pt(0, 10),
			oldB:  pt(80, 120),
			newB:  pt(80, 120),
			dirA:  geometry.Right,
			dirB:  geometry.Down,
		},
		{
			name:  "fold between second and third segments",
			route: core.Route{pt(0, 0), pt(20, 0), pt(20, 50), pt(10, 50), pt(10, 100)},
			oldA:  pt(0, 0),
			newA:  pt(0, 50),
			oldB:  pt(10, 100),
			newB:  pt(10, 100),
			dirA:  geometry.Right,
			dirB:  geometry.Up,
		},
		{
			name:  "facing endpoints after a detour",
			route: core.Route{pt(0, 0), pt(20, 0), pt(20, 10), pt(-15, 10), pt(-15, 0), pt(5, 0)},
			oldA:  pt(0, 0),
			newA:  pt(0, 0),
			oldB:  pt(5, 0),
			newB:  pt(100, 50),
			dirA:  geometry.Right,
			dirB:  geometry.Left,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Repair(tt.route, tt.oldA, tt.newA, tt.oldB, tt.newB, tt.dirA, tt.dirB)
			assert.True(t, res.Recompute, "expected recompute, got %v", res.Route)
		})
	}
}

func TestRepair_FreeDirectionUsesStub(t *testing.T) {
	r := DefaultRouter()
	res := r.Repair(base(), pt(0, 0), pt(0, 10), pt(100, 50), pt(100, 50), geometry.Vector{}, geometry.Vector{})
	require.False(t, res.Recompute)
	assert.True(t, core.Route{pt(0, 10), pt(20, 10), pt(20, 50), pt(100, 50)}.Equal(res.Route))
}

func TestRepair_SnapsInteriorToGrid(t *testing.T) {
	r := DefaultRouter()
	route := core.Route{pt(0, 0), pt(20, 0), pt(20, 50), pt(100, 50)}

	res := r.Repair(route, pt(0, 0), pt(0, 4), pt(100, 50), pt(100, 50), geometry.Right, geometry.Left)
	require.False(t, res.Recompute)

	got := res.Route
	assert.True(t, got.First().Eq(pt(0, 4)))
	assert.True(t, got.Last().Eq(pt(100, 50)))
	assert.True(t, got.IsOrthogonal(), "snapping must keep stubs straight: %v", got)
	assert.Equal(t, 4.0, got[1].Y, "the start stub keeps the endpoint's y")
	assert.Equal(t, 20.0, got[1].X)
}

// assertStub checks that route leaves its first point along dir for at least minLen.
func assertStub(t *testing.T, route core.Route, dir geometry.Vector, minLen float64, msg string) {
	t.Helper()
	stub := route[1].Sub(route[0])
	assert.Zero(t, stub.Cross(dir), "%s: stub %v is not along %v", msg, route, dir)
	assert.GreaterOrEqual(t, stub.Dot(dir), minLen, "%s: stub of %v is too short", msg, route)
}

func TestRepair_OffGridEndpointKeepsStub(t *testing.T) {
	r := DefaultRouter()
	route := r.Route(pt(3, 0), geometry.Right, pt(100, 50), geometry.Left)
	assertStub(t, route, geometry.Right, r.MinStartLength(), "routed")

	res := r.Repair(route, pt(3, 0), pt(3, 0), pt(100, 50), pt(130, 50), geometry.Right, geometry.Left)
	assert.True(t, res.Recompute, "snapping the corner to x=20 shortens the start stub: %v", res.Route)
}

func TestRepair_SnappedRoutesKeepStubsAndDoNotFold(t *testing.T) {
	r := DefaultRouter()
	moves := []geometry.Point{pt(0, 0), pt(-13, 0), pt(7, 0), pt(30, 0), pt(0, -17), pt(0, 4), pt(11, 9), pt(-3, 22)}
	b := pt(100, 50)

	for ax := 0.0; ax < 10; ax += 3 {
		for ay := -7.0; ay <= 7; ay += 7 {
			a := pt(ax, ay)
			route := r.Route(a, geometry.Right, b, geometry.Left)
			for _, dA := range moves {
				for _, dB := range moves {
					res := r.Repair(route, a, a.Add(dA), b, b.Add(dB), geometry.Right, geometry.Left)
					if res.Recompute {
						continue
					}
					got := res.Route
					msg := fmt.Sprintf("a=%v dA=%v dB=%v", a, dA, dB)
					assertStub(t, got, geometry.Right, r.MinStartLength(), msg)
					assertStub(t, got.Reverse(), geometry.Left, r.MinStartLength(), msg)
					assert.False(t, hasFold(got), "%s: %v folds", msg, got)
					assert.False(t, hasFold(got.Reverse()), "%s: %v folds", msg, got)
				}
			}
		}
	}
}

func TestUpdate(t *testing.T) {
	r := DefaultRouter()
	snap := func(p geometry.Point, d geometry.Vector) core.EndpointSnapshot {
		return core.EndpointSnapshot{Pos: p, Dir: d}
	}
	oldA, oldB := snap(pt(0, 0), geometry.Right), snap(pt(100, 50), geometry.Left)

	t.Run("repair accepted", func(t *testing.T) {
		got, recomputed := r.Update(core.ModeNormal, base(), oldA, oldB, snap(pt(0, 10), geometry.Right), oldB)
		assert.False(t, recomputed)
		assert.True(t, core.Route{pt(0, 10), pt(20, 10), pt(20, 50), pt(100, 50)}.Equal(got))
	})

	t.Run("rejection falls back to a fresh route", func(t *testing.T) {
		detour := core.Route{pt(0, 0), pt(20, 0), pt(20, 10), pt(-15, 10), pt(-15, 0), pt(5, 0)}
		got, recomputed := r.Update(core.ModeNormal, detour, oldA, snap(pt(5, 0), geometry.Left), oldA, oldB)
		assert.True(t, recomputed)
		assert.True(t, base().Equal(got), "got %v", got)
	})

	t.Run("off-page is always straight", func(t *testing.T) {
		got, recomputed := r.Update(core.ModeOffPage, base(), oldA, oldB, snap(pt(0, 10), geometry.Right), oldB)
		assert.False(t, recomputed)
		assert.True(t, core.Route{pt(0, 10), pt(100, 50)}.Equal(got))
	})
}
