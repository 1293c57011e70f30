// Package core contains the fundamental types shared by the router, the scene and the
// renderers.
package core

import (
	"encoding/json"
	"fmt"

	"orthoroute/geometry"
)

// Point is re-exported from geometry for convenience.
type Point = geometry.Point

// Vector is re-exported from geometry for convenience.
type Vector = geometry.Vector

// ShapeID identifies a shape owned by a scene.
type ShapeID int

// EndpointID identifies a connectable endpoint. IDs are issued by the owning scene and
// compared by value.
type EndpointID int

// ConnectionID identifies a connection.
type ConnectionID int

// NoShape marks an endpoint without an owning shape.
const NoShape ShapeID = 0

// Mode selects how a connection is routed.
type Mode int

const (
	// ModeNormal routes orthogonally.
	ModeNormal Mode = iota
	// ModeOffPage draws a straight line.
	ModeOffPage
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeOffPage:
		return "offpage"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "normal":
		*m = ModeNormal
	case "offpage", "off-page":
		*m = ModeOffPage
	default:
		return fmt.Errorf("unknown connection mode %q", string(b))
	}
	return nil
}

// Shape is a rectangle on the diagram that owns endpoints.
type Shape struct {
	ID     ShapeID       `json:"id"`
	Name   string        `json:"name,omitempty"`
	Bounds geometry.Rect `json:"bounds"`
}

// Endpoint is a connectable point belonging to a shape. Its position is the owner's
// origin plus Offset.
type Endpoint struct {
	ID     EndpointID `json:"id"`
	Owner  ShapeID    `json:"owner"`
	Offset Point      `json:"offset"`
	Dir    Vector     `json:"dir"`             // Exit direction, zero when free
	Fixed  bool       `json:"fixed,omitempty"` // Dir is imposed by the owner orientation
}

// Direction returns the exit direction the router should use. Free endpoints report
// the zero vector so the router picks one from the geometry.
func (e Endpoint) Direction() Vector {
	if !e.Fixed {
		return Vector{}
	}
	return e.Dir
}

// EndpointSnapshot is the value the router works on: no references back into the
// scene.
type EndpointSnapshot struct {
	ID    EndpointID
	Owner ShapeID
	Pos   Point
	Dir   Vector
}

// Style carries rendering attributes the crossing detector needs.
type Style struct {
	PenWidth float64 `json:"pen_width,omitempty"`
}

// Wide reports whether the pen is drawn wider than a hairline.
func (s Style) Wide() bool {
	return s.PenWidth > 1
}

// Connection owns a route between two endpoints. Endpoints[0] is the endpoint with
// the owning context.
type Connection struct {
	ID        ConnectionID  `json:"id"`
	Endpoints [2]EndpointID `json:"endpoints"`
	Mode      Mode          `json:"mode"`
	Valid     bool          `json:"valid"`
	Style     Style         `json:"style"`
	Route     Route         `json:"-"` // Recomputed from endpoint positions
}

// UnmarshalJSON decodes a connection. A connection without a "valid" key is valid.
func (c *Connection) UnmarshalJSON(data []byte) error {
	type plain Connection
	p := plain{Valid: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Connection(p)
	return nil
}

// SharesEndpoint reports whether c and o have any endpoint in common.
func (c Connection) SharesEndpoint(o Connection) bool {
	for _, a := range c.Endpoints {
		for _, b := range o.Endpoints {
			if a == b {
				return true
			}
		}
	}
	return false
}
