package connections

import (
	"orthoroute/core"
	"orthoroute/geometry"
)

// Window of route lengths for which the perpendicular projection repair is tried.
// The bounds are tuning values, not invariants.
const (
	projectionMinPoints = 4
	projectionMaxPoints = 7
)

// RepairResult is the outcome of an incremental repair: either a repaired route or a
// request to recompute the route from scratch.
type RepairResult struct {
	Route     core.Route
	Recompute bool
}

var recompute = RepairResult{Recompute: true}

// Repair adjusts route after its endpoints moved from oldA/oldB to newA/newB. dirA and
// dirB are the current exit directions; a zero direction takes the direction of the
// route's own stub.
func (r *Router) Repair(route core.Route, oldA, newA, oldB, newB geometry.Point, dirA, dirB geometry.Vector) RepairResult {
	if len(route) < 2 {
		return recompute
	}

	dA, dB := newA.Sub(oldA), newB.Sub(oldB)
	if dA.Eq(dB) {
		return RepairResult{Route: route.Translate(dA)}
	}

	dirA = stubDirection(dirA, route)
	dirB = stubDirection(dirB, route.Reverse())
	if geometry.AntiParallel(dirA, dirB) && len(route) > 4 && newB.Sub(newA).Dot(dirA) > 0 {
		return recompute
	}

	pts := route.Clone()
	if !dA.IsZero() && !r.repairEnd(pts, newA, dA, dirA) {
		return recompute
	}
	if !dB.IsZero() {
		rev := pts.Reverse()
		if !r.repairEnd(rev, newB, dB, dirB) {
			return recompute
		}
		pts = rev.Reverse()
	}

	pre := Simplify(pts)
	r.snapInterior(pts)
	pts = Simplify(pts)
	if !r.snapKeeps(pre, pts, dirA) || !r.snapKeeps(pre.Reverse(), pts.Reverse(), dirB) {
		return recompute
	}
	return RepairResult{Route: pts}
}

// Update repairs route after endpoint movement, recomputing it when the repair is
// rejected. Off-page connections always get a straight line.
func (r *Router) Update(mode core.Mode, route core.Route, oldA, oldB, a, b core.EndpointSnapshot) (core.Route, bool) {
	if mode == core.ModeOffPage {
		return r.RouteOffPage(a.Pos, b.Pos), false
	}
	res := r.Repair(route, oldA.Pos, a.Pos, oldB.Pos, b.Pos, a.Dir, b.Dir)
	if res.Recompute {
		return r.Route(a.Pos, a.Dir, b.Pos, b.Dir), true
	}
	return res.Route, false
}

// repairEnd re-anchors pts[0] at pos, moving the second point along with the
// perpendicular part of the movement when the route is short enough. It reports
// whether the adjusted route is still acceptable.
func (r *Router) repairEnd(pts core.Route, pos, delta geometry.Point, dir geometry.Vector) bool {
	n := len(pts)
	if n >= projectionMinPoints && n < projectionMaxPoints && geometry.Seg(pts[0], pts[1]).Dir().Eq(dir) {
		_, across := split(delta, dir)
		if moved := pts[1].Add(across); moved.X >= r.margin {
			pts[1] = moved
		}
	}
	pts[0] = pos
	return r.stubHolds(pts, dir) && !hasFold(pts)
}

// stubHolds reports whether pts leaves pts[0] along dir for at least the minimum
// stub length.
func (r *Router) stubHolds(pts core.Route, dir geometry.Vector) bool {
	stub := pts[1].Sub(pts[0])
	return stub.Cross(dir) == 0 && stub.Dot(dir) >= r.minStart
}

// snapKeeps reports whether the snapped route still starts with a stub wherever the
// unsnapped one did, and does not fold near its start.
func (r *Router) snapKeeps(before, after core.Route, dir geometry.Vector) bool {
	if hasFold(after) {
		return false
	}
	return !r.stubHolds(before, dir) || r.stubHolds(after, dir)
}

// hasFold reports whether two consecutive non-degenerate segments among the first
// four point in opposite directions.
func hasFold(pts core.Route) bool {
	var prev geometry.Vector
	for i := 0; i+1 < len(pts) && i < 4; i++ {
		d := pts[i+1].Sub(pts[i])
		if d.IsZero() {
			continue
		}
		if geometry.AntiParallel(prev, d) {
			return true
		}
		prev = d
	}
	return false
}

// snapInterior snaps interior points to the grid. Coordinates that tie an interior
// point to an endpoint through an unbroken axis-aligned chain keep the endpoint's
// value so the stubs stay straight.
func (r *Router) snapInterior(pts core.Route) {
	if r.grid <= 0 || len(pts) < 3 {
		return
	}
	orig := pts.Clone()
	for i := 1; i < len(pts)-1; i++ {
		pts[i] = pts[i].SnapToGrid(r.grid)
	}
	anchorChain(pts, orig, 0, 1)
	anchorChain(pts, orig, len(pts)-1, -1)
}

func anchorChain(pts, orig core.Route, from, step int) {
	end := orig[from]
	for i := from + step; i > 0 && i < len(pts)-1 && orig[i].X == end.X; i += step {
		pts[i].X = end.X
	}
	for i := from + step; i > 0 && i < len(pts)-1 && orig[i].Y == end.Y; i += step {
		pts[i].Y = end.Y
	}
}

// stubDirection snaps dir to a cardinal direction, falling back to the direction of
// the route's first segment for free endpoints.
func stubDirection(dir geometry.Vector, route core.Route) geometry.Vector {
	if d := dir.Cardinal(); !d.IsZero() {
		return d
	}
	if len(route) >= 2 {
		return route[1].Sub(route[0]).Cardinal()
	}
	return geometry.Vector{}
}
