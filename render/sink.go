// Package render draws a routed scene onto a Sink. Crossing decorations are computed
// by the connections package; this package only turns them into drawing calls.
package render

import (
	"orthoroute/connections"
	"orthoroute/core"
	"orthoroute/diagram"
	"orthoroute/geometry"
)

// Stroke describes the pen a route or mark is drawn with.
type Stroke struct {
	Width     float64
	Invalid   bool // Drawn in the warning colour
	Highlight bool // Drawn in the selection colour
}

// Sink receives drawing calls in scene coordinates.
type Sink interface {
	// Rect outlines a shape and writes its label.
	Rect(r geometry.Rect, label string)
	// Polyline strokes a connection route.
	Polyline(pts []geometry.Point, s Stroke)
	// Line strokes a single segment, used for undercross dashes.
	Line(seg geometry.Segment, s Stroke)
	// Circle fills a junction dot.
	Circle(c geometry.Point, radius float64, s Stroke)
	// Gap paints the background over a segment, breaking whatever was drawn there.
	Gap(seg geometry.Segment, width float64)
}

// Draw paints every shape, then every route, then the crossing marks of every route.
// Marks come last so gaps and dashes land on top of the lines they decorate.
func Draw(sink Sink, s *diagram.Scene) {
	for _, sh := range s.Shapes() {
		sink.Rect(sh.Bounds, sh.Name)
	}

	conns := s.Connections()
	selected := s.Selected()
	for _, c := range conns {
		if !c.Route.Valid() {
			continue
		}
		sink.Polyline(c.Route, strokeFor(c, selected))
	}

	marks := s.AllCrossings()
	for _, c := range conns {
		DrawMarks(sink, marks[c.ID], strokeFor(c, selected))
	}
}

// DrawMarks paints crossing marks with the owning connection's stroke.
func DrawMarks(sink Sink, marks []connections.Mark, base Stroke) {
	for _, m := range marks {
		switch m.Kind {
		case connections.MarkJunction:
			sink.Circle(m.At, m.Radius, Stroke{Width: base.Width, Invalid: base.Invalid, Highlight: m.Highlight})
		case connections.MarkUndercross:
			st := Stroke{Width: m.Width, Invalid: base.Invalid, Highlight: m.Highlight}
			for _, d := range m.Dashes {
				sink.Line(d, st)
			}
		case connections.MarkHidden, connections.MarkGap:
			for _, d := range m.Dashes {
				sink.Gap(d, gapWidth(base.Width))
			}
		}
	}
}

func strokeFor(c core.Connection, selected core.ConnectionID) Stroke {
	return Stroke{
		Width:     max(c.Style.PenWidth, 1),
		Invalid:   !c.Valid,
		Highlight: c.ID == selected,
	}
}

func gapWidth(pen float64) float64 {
	return pen + 2
}
