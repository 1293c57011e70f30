// Package geometry provides the float64 primitives shared by the router and the
// lane layout: points used both as positions and as direction vectors, axis-aligned
// segments, rectangles and closed intervals.
package geometry

import "math"

// Epsilon is the tolerance used when comparing derived (non-snapped) quantities.
const Epsilon = 1e-9

// Point is a position in scene coordinates. It doubles as a 2D vector when used as
// a direction or a delta.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector is a Point interpreted as a direction. The zero Vector means "free".
type Vector = Point

// Cardinal directions.
var (
	Right = Vector{X: 1}
	Left  = Vector{X: -1}
	Down  = Vector{Y: 1}
	Up    = Vector{Y: -1}
)

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p*s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Neg returns -p.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Eq reports exact equality.
func (p Point) Eq(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// Near reports equality within Epsilon on both axes.
func (p Point) Near(q Point) bool {
	return math.Abs(p.X-q.X) <= Epsilon && math.Abs(p.Y-q.Y) <= Epsilon
}

// IsZero reports whether both components are exactly zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the cross product of p and q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the Euclidean norm.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns p scaled to unit length. The zero vector stays zero.
func (p Point) Normalize() Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Perp rotates p by 90 degrees: (x, y) becomes (-y, x).
func (p Point) Perp() Point {
	return Point{X: -p.Y, Y: p.X}
}

// IsCardinal reports whether p is one of the four unit axis directions.
func (p Point) IsCardinal() bool {
	return (p.X == 0 && math.Abs(p.Y) == 1) || (p.Y == 0 && math.Abs(p.X) == 1)
}

// IsHorizontal reports whether p lies on the x axis and is not zero.
func (p Point) IsHorizontal() bool {
	return p.Y == 0 && p.X != 0
}

// IsVertical reports whether p lies on the y axis and is not zero.
func (p Point) IsVertical() bool {
	return p.X == 0 && p.Y != 0
}

// Cardinal snaps p to the unit axis direction of its dominant component. Ties go
// horizontal. The zero vector stays zero.
func (p Point) Cardinal() Vector {
	switch {
	case p.IsZero():
		return Vector{}
	case math.Abs(p.X) >= math.Abs(p.Y):
		return Vector{X: sign(p.X)}
	default:
		return Vector{Y: sign(p.Y)}
	}
}

// SnapToGrid rounds both coordinates to the nearest multiple of grid.
func (p Point) SnapToGrid(grid float64) Point {
	if grid <= 0 {
		return p
	}
	return Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// Snap rounds v to the nearest multiple of grid. Zero is never negative.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	s := math.Round(v/grid) * grid
	if s == 0 {
		return 0
	}
	return s
}

// AntiParallel reports whether the non-zero vectors a and b point in exactly opposite
// directions.
func AntiParallel(a, b Vector) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	na, nb := a.Normalize(), b.Normalize()
	return math.Abs(na.Cross(nb)) <= Epsilon && na.Dot(nb) < 0
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
