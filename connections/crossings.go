package connections

import (
	"math"

	"orthoroute/core"
	"orthoroute/geometry"
)

// MarkKind tags what a crossing mark represents.
type MarkKind int

const (
	// MarkJunction is a solid dot where two connections sharing an endpoint meet.
	MarkJunction MarkKind = iota
	// MarkUndercross is a pair of short dashes where unrelated connections cross.
	MarkUndercross
	// MarkHidden covers the chord of a segment that runs fully behind a shape.
	MarkHidden
	// MarkGap is a short gap where a segment crosses a single edge of a shape.
	MarkGap
)

// String returns the string representation of a MarkKind.
func (k MarkKind) String() string {
	switch k {
	case MarkJunction:
		return "junction"
	case MarkUndercross:
		return "undercross"
	case MarkHidden:
		return "hidden"
	case MarkGap:
		return "gap"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k MarkKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

const (
	// DefaultJunctionRadius is the radius of junction dots.
	DefaultJunctionRadius = 5.0
	minDashLength         = 3.0
	dashWidth             = 2.0
	wideDashWidth         = 4.0
)

// Mark is one drawable crossing decoration.
type Mark struct {
	Kind      MarkKind           `json:"kind"`
	At        geometry.Point     `json:"at"`
	Radius    float64            `json:"radius,omitempty"`
	Dashes    []geometry.Segment `json:"dashes,omitempty"`
	Width     float64            `json:"width,omitempty"`
	Other     core.ConnectionID  `json:"other,omitempty"`
	Shape     core.ShapeID       `json:"shape,omitempty"`
	Highlight bool               `json:"highlight,omitempty"`
}

// ConnectionView is the snapshot of a connection the crossing detector needs.
type ConnectionView struct {
	ID        core.ConnectionID
	Endpoints [2]core.EndpointID
	Owners    [2]core.ShapeID
	Route     core.Route
	Style     core.Style
}

// SharesEndpoint reports whether v and o have an endpoint in common.
func (v ConnectionView) SharesEndpoint(o ConnectionView) bool {
	return core.Connection{Endpoints: v.Endpoints}.SharesEndpoint(core.Connection{Endpoints: o.Endpoints})
}

// CrossingOptions tunes ComputeCrossings.
type CrossingOptions struct {
	JunctionRadius float64
	Selected       core.ConnectionID // Zero when nothing is selected
}

// ComputeCrossings lists the marks self needs where its route meets other routes or
// passes over shapes. Only vertical segments of self are tested against horizontal
// segments of the others, so each crossing is reported by exactly one of the two
// connections. Shapes owning either endpoint of self are ignored.
func ComputeCrossings(self ConnectionView, others []ConnectionView, shapes []core.Shape, opts CrossingOptions) []Mark {
	radius := opts.JunctionRadius
	if radius <= 0 {
		radius = DefaultJunctionRadius
	}

	var marks []Mark
	segs := self.Route.Segments()
	for _, v := range segs {
		if !v.IsVertical() {
			continue
		}
		for _, o := range others {
			if o.ID == self.ID {
				continue
			}
			shared := self.SharesEndpoint(o)
			highlight := opts.Selected != 0 && (opts.Selected == self.ID || opts.Selected == o.ID)
			for _, h := range o.Route.Segments() {
				p, ok := geometry.CrossOrthogonal(v, h)
				if !ok {
					continue
				}
				if shared {
					marks = append(marks, Mark{Kind: MarkJunction, At: p, Radius: radius, Other: o.ID, Highlight: highlight})
					continue
				}
				width := dashWidth
				if self.Style.Wide() && o.Style.Wide() {
					width = wideDashWidth
				}
				before, after := flank(v, p, self.Style.PenWidth)
				marks = append(marks, Mark{
					Kind:      MarkUndercross,
					At:        p,
					Dashes:    []geometry.Segment{before, after},
					Width:     width,
					Other:     o.ID,
					Highlight: highlight,
				})
			}
		}
	}

	for _, sh := range shapes {
		if sh.ID == self.Owners[0] || sh.ID == self.Owners[1] {
			continue
		}
		for _, s := range segs {
			marks = append(marks, shapeMarks(s, sh, self.Style.PenWidth)...)
		}
	}
	return marks
}

// flank returns the two dashes either side of p along s, each clipped to the segment.
func flank(s geometry.Segment, p geometry.Point, pen float64) (geometry.Segment, geometry.Segment) {
	dir := s.Dir()
	reach := math.Max(pen, minDashLength)
	l1 := math.Min(p.Sub(s.A).Length(), reach)
	l2 := math.Min(s.B.Sub(p).Length(), reach)
	return geometry.Seg(p, p.Sub(dir.Scale(l1))), geometry.Seg(p, p.Add(dir.Scale(l2)))
}

// shapeMarks classifies how segment s meets the border of shape sh.
func shapeMarks(s geometry.Segment, sh core.Shape, pen float64) []Mark {
	r := sh.Bounds
	var near, far geometry.Point
	var hitNear, hitFar bool

	switch {
	case s.IsVertical():
		x := s.A.X
		if x <= r.Left() || x >= r.Right() {
			return nil
		}
		ys := s.YSpan()
		near, hitNear = geometry.Pt(x, r.Top()), ys.Contains(r.Top())
		far, hitFar = geometry.Pt(x, r.Bottom()), ys.Contains(r.Bottom())
	case s.IsHorizontal():
		y := s.A.Y
		if y <= r.Top() || y >= r.Bottom() {
			return nil
		}
		xs := s.XSpan()
		near, hitNear = geometry.Pt(r.Left(), y), xs.Contains(r.Left())
		far, hitFar = geometry.Pt(r.Right(), y), xs.Contains(r.Right())
	default:
		return nil
	}

	gap := func(p geometry.Point) Mark {
		before, after := flank(s, p, pen)
		return Mark{Kind: MarkGap, At: p, Dashes: []geometry.Segment{geometry.Seg(before.B, after.B)}, Shape: sh.ID}
	}

	switch {
	case hitNear && hitFar:
		entry, exit := near, far
		if s.Delta().Dot(far.Sub(near)) < 0 {
			entry, exit = far, near
		}
		return []Mark{{Kind: MarkHidden, At: entry, Dashes: []geometry.Segment{geometry.Seg(entry, exit)}, Shape: sh.ID}}
	case hitNear:
		return []Mark{gap(near)}
	case hitFar:
		return []Mark{gap(far)}
	}
	return nil
}
