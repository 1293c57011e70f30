// Package connections routes connections between endpoints as orthogonal polylines,
// repairs existing routes when endpoints move, and detects where routes cross.
//
// The Router holds configuration and an optional route cache. Every call works on
// value snapshots and returns a fresh Route, so a Router can be shared between
// goroutines.
package connections

import (
	"orthoroute/config"
	"orthoroute/core"
	"orthoroute/geometry"
)

// Router synthesizes and repairs orthogonal routes.
type Router struct {
	minStart  float64
	minLength float64
	grid      float64
	margin    float64
	maxSteps  int
	cache     *RouteCache
}

// NewRouter creates a router from configuration.
func NewRouter(cfg config.Router) *Router {
	r := &Router{
		minStart:  cfg.MinStartLength,
		minLength: cfg.MinLength,
		grid:      cfg.GridSize,
		margin:    cfg.VisibleMargin,
		maxSteps:  cfg.MaxSteps,
	}
	if r.maxSteps <= 0 {
		r.maxSteps = config.Default().Router.MaxSteps
	}
	if cfg.CacheSize > 0 {
		r.cache = NewRouteCache(cfg.CacheSize)
	}
	return r
}

// DefaultRouter creates a router with the stock configuration.
func DefaultRouter() *Router {
	return NewRouter(config.Default().Router)
}

// MinStartLength returns the minimum stub length leaving an endpoint.
func (r *Router) MinStartLength() float64 {
	return r.minStart
}

// Route builds an orthogonal route from a to b. dirA and dirB are the exit directions
// at each endpoint; a zero direction is free and resolved from the geometry. The
// result starts exactly at a, ends exactly at b and is simplified.
func (r *Router) Route(a geometry.Point, dirA geometry.Vector, b geometry.Point, dirB geometry.Vector) core.Route {
	if r.cache == nil {
		return r.route(a, dirA, b, dirB)
	}
	key := routeKey{a, dirA, b, dirB}
	if route, ok := r.cache.get(key); ok {
		return route
	}
	route := r.route(a, dirA, b, dirB)
	r.cache.put(key, route)
	return route
}

// Cache returns the route cache, or nil when caching is disabled.
func (r *Router) Cache() *RouteCache {
	return r.cache
}

func (r *Router) route(a geometry.Point, dirA geometry.Vector, b geometry.Point, dirB geometry.Vector) core.Route {
	if a.Eq(b) {
		return core.Route{a, b}
	}

	dirA = resolveDirection(dirA, b.Sub(a))
	dirB = resolveDirection(dirB, a.Sub(b))
	target := b.Add(dirB.Scale(r.minStart))

	pts := core.Route{a}
	cur, heading := a, dirA
	for step := 0; !cur.Eq(target); step++ {
		if step >= r.maxSteps {
			return Simplify(r.dogLeg(a, dirA, b, target))
		}
		cur, heading = r.advance(a, cur, heading, target, dirB, len(pts))
		pts = append(pts, cur)
	}
	if !target.Eq(b) {
		pts = append(pts, b)
	}
	return Simplify(pts)
}

// RouteOffPage returns the straight line used by off-page connections.
func (r *Router) RouteOffPage(a, b geometry.Point) core.Route {
	return core.Route{a, b}
}

// Reroute computes a fresh route for the given mode.
func (r *Router) Reroute(mode core.Mode, a, b core.EndpointSnapshot) core.Route {
	if mode == core.ModeOffPage {
		return r.RouteOffPage(a.Pos, b.Pos)
	}
	return r.Route(a.Pos, a.Dir, b.Pos, b.Dir)
}

// advance performs one step of the walk from cur towards target.
func (r *Router) advance(start, cur geometry.Point, heading geometry.Vector, target geometry.Point, dirB geometry.Vector, emitted int) (geometry.Point, geometry.Vector) {
	delta := target.Sub(cur)
	proj, ortho := split(delta, heading)
	atStart := cur.Eq(start)

	switch {
	// Straight ahead onto the target stub without running against its exit side.
	case ortho.IsZero() && proj > 0 && delta.Dot(dirB) <= 0 && (!atStart || proj >= r.minStart):
		return target, heading

	// Leave the start point with at least the minimum stub. Go further only when
	// the target does not face back along the heading.
	case atStart:
		length := r.minStart
		if proj > length && heading.Dot(dirB) >= 0 && !ortho.IsZero() {
			length = proj
		}
		return cur.Add(heading.Scale(length)), heading

	// Target behind us right after the stub, or exactly in line but unreachable:
	// turn 90 degrees.
	case ortho.IsZero() || (proj < 0 && emitted == 2):
		turn := ortho.Cardinal()
		if turn.IsZero() {
			turn = heading.Perp()
		}
		if ortho.Length() >= r.minLength {
			return alignAcross(cur, target, heading), turn
		}
		return cur.Add(turn.Scale(r.minLength)), turn

	default:
		next := alignAcross(cur, target, heading)
		turn := ortho.Cardinal()
		if next.Eq(target) && turn.Dot(dirB) > 0 {
			// Landing here would leave the final leg folding back onto this one.
			return cur.Add(heading.Scale(r.minLength)), heading
		}
		return next, turn
	}
}

// dogLeg is the fixed fallback used when the walk does not converge.
func (r *Router) dogLeg(a geometry.Point, dirA geometry.Vector, b, target geometry.Point) core.Route {
	stub := a.Add(dirA.Scale(r.minStart))
	corner := geometry.Pt(target.X, stub.Y)
	if dirA.IsVertical() {
		corner = geometry.Pt(stub.X, target.Y)
	}
	return core.Route{a, stub, corner, target, b}
}

// resolveDirection snaps dir to a cardinal direction, choosing one from toward when
// dir is free.
func resolveDirection(dir, toward geometry.Vector) geometry.Vector {
	if d := dir.Cardinal(); !d.IsZero() {
		return d
	}
	if d := toward.Cardinal(); !d.IsZero() {
		return d
	}
	return geometry.Right
}

// split decomposes delta into its signed length along the cardinal heading and the
// component across it.
func split(delta, heading geometry.Vector) (float64, geometry.Vector) {
	if heading.IsHorizontal() {
		return delta.X * heading.X, geometry.Vector{Y: delta.Y}
	}
	return delta.Y * heading.Y, geometry.Vector{X: delta.X}
}

// alignAcross moves cur across the heading so that it lines up with target.
func alignAcross(cur, target geometry.Point, heading geometry.Vector) geometry.Point {
	if heading.IsHorizontal() {
		return geometry.Pt(cur.X, target.Y)
	}
	return geometry.Pt(target.X, cur.Y)
}

// Simplify removes interior duplicates and interior points that merely continue the
// previous segment in the same direction. The endpoints are never touched and the
// result always has at least two points.
func Simplify(route core.Route) core.Route {
	if len(route) <= 2 {
		return route.Clone()
	}

	out := make(core.Route, 0, len(route))
	out = append(out, route[0])
	for _, p := range route[1 : len(route)-1] {
		if !p.Eq(out[len(out)-1]) {
			out = append(out, p)
		}
	}
	if last := route[len(route)-1]; len(out) == 1 || !last.Eq(out[len(out)-1]) {
		out = append(out, last)
	}

	for i := 0; i+2 < len(out); {
		if continues(out[i], out[i+1], out[i+2]) {
			out = append(out[:i+1], out[i+2:]...)
			continue
		}
		i++
	}
	return out
}

// continues reports whether p2->p3 is a pure continuation of p1->p2.
func continues(p1, p2, p3 geometry.Point) bool {
	v1, v2 := p2.Sub(p1), p3.Sub(p2)
	if v1.IsZero() || v2.IsZero() {
		return false
	}
	n := v1.Normalize()
	along := v2.Dot(n)
	return along > 0 && n.Scale(along).Near(v2)
}
