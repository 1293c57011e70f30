package geometry

import "math"

// Segment is a straight piece of a route from A to B.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Seg is shorthand for Segment{a, b}.
func Seg(a, b Point) Segment {
	return Segment{A: a, B: b}
}

// Delta returns B-A.
func (s Segment) Delta() Point {
	return s.B.Sub(s.A)
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.Delta().Length()
}

// Dir returns the unit direction from A to B, or zero for a degenerate segment.
func (s Segment) Dir() Vector {
	return s.Delta().Normalize()
}

// IsDegenerate reports whether A and B coincide.
func (s Segment) IsDegenerate() bool {
	return s.A.Eq(s.B)
}

// IsHorizontal reports whether the segment runs along the x axis.
func (s Segment) IsHorizontal() bool {
	return s.A.Y == s.B.Y && s.A.X != s.B.X
}

// IsVertical reports whether the segment runs along the y axis.
func (s Segment) IsVertical() bool {
	return s.A.X == s.B.X && s.A.Y != s.B.Y
}

// IsAxisAligned reports whether the segment is horizontal, vertical or degenerate.
func (s Segment) IsAxisAligned() bool {
	return s.A.X == s.B.X || s.A.Y == s.B.Y
}

// XSpan returns the closed interval covered on the x axis.
func (s Segment) XSpan() Span {
	return NewSpan(s.A.X, s.B.X)
}

// YSpan returns the closed interval covered on the y axis.
func (s Segment) YSpan() Span {
	return NewSpan(s.A.Y, s.B.Y)
}

// CrossOrthogonal intersects a vertical segment v with a horizontal segment h using
// inclusive bounds. ok is false when the segments do not meet or do not have the
// expected orientations.
func CrossOrthogonal(v, h Segment) (p Point, ok bool) {
	if !v.IsVertical() || !h.IsHorizontal() {
		return Point{}, false
	}
	x, y := v.A.X, h.A.Y
	if !h.XSpan().Contains(x) || !v.YSpan().Contains(y) {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the centre point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside or on the border of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.Left(), o.Left())
	y0 := math.Min(r.Top(), o.Top())
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Bounds returns the bounding rectangle of pts.
func Bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Span is a closed interval [Min, Max].
type Span struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewSpan orders a and b into a Span.
func NewSpan(a, b float64) Span {
	if a > b {
		a, b = b, a
	}
	return Span{Min: a, Max: b}
}

// Contains reports whether v lies in the closed interval.
func (s Span) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Overlaps reports whether the closed intervals share at least one point.
func (s Span) Overlaps(o Span) bool {
	return s.Min <= o.Max && o.Min <= s.Max
}

// Expand grows the interval by m on both sides.
func (s Span) Expand(m float64) Span {
	return Span{Min: s.Min - m, Max: s.Max + m}
}

// Length returns Max-Min.
func (s Span) Length() float64 {
	return s.Max - s.Min
}
