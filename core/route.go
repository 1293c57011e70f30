package core

import "orthoroute/geometry"

// Route is an ordered polyline from the first endpoint to the second.
type Route []Point

// Valid reports whether the route has at least two points.
func (r Route) Valid() bool {
	return len(r) >= 2
}

// First returns the first point. It panics on an empty route.
func (r Route) First() Point {
	return r[0]
}

// Last returns the last point. It panics on an empty route.
func (r Route) Last() Point {
	return r[len(r)-1]
}

// Clone returns an independent copy.
func (r Route) Clone() Route {
	if r == nil {
		return nil
	}
	out := make(Route, len(r))
	copy(out, r)
	return out
}

// Translate returns a copy with every point moved by d.
func (r Route) Translate(d Point) Route {
	out := make(Route, len(r))
	for i, p := range r {
		out[i] = p.Add(d)
	}
	return out
}

// Reverse returns a copy with the point order reversed.
func (r Route) Reverse() Route {
	out := make(Route, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Segments returns the consecutive point pairs.
func (r Route) Segments() []geometry.Segment {
	if len(r) < 2 {
		return nil
	}
	segs := make([]geometry.Segment, 0, len(r)-1)
	for i := 0; i+1 < len(r); i++ {
		segs = append(segs, geometry.Seg(r[i], r[i+1]))
	}
	return segs
}

// IsOrthogonal reports whether every segment is horizontal, vertical or degenerate.
func (r Route) IsOrthogonal() bool {
	for i := 0; i+1 < len(r); i++ {
		if r[i].X != r[i+1].X && r[i].Y != r[i+1].Y {
			return false
		}
	}
	return true
}

// Equal reports point-for-point equality.
func (r Route) Equal(o Route) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if !r[i].Eq(o[i]) {
			return false
		}
	}
	return true
}

// Length returns the sum of the segment lengths.
func (r Route) Length() float64 {
	total := 0.0
	for _, s := range r.Segments() {
		total += s.Length()
	}
	return total
}
