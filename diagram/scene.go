// Package diagram owns the mutable scene: shapes, their endpoints and the connections
// between them. The scene hands value snapshots to the router and stores the routes it
// gets back.
package diagram

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"orthoroute/connections"
	"orthoroute/core"
	"orthoroute/geometry"
)

var (
	// ErrNotFound is returned for unknown shape, endpoint or connection IDs.
	ErrNotFound = errors.New("not found")
	// ErrSameEndpoint is returned when connecting an endpoint to itself.
	ErrSameEndpoint = errors.New("cannot connect an endpoint to itself")
)

// Scene is the controller of a diagram. It is not safe for concurrent use.
type Scene struct {
	router         *connections.Router
	logger         *slog.Logger
	junctionRadius float64

	shapes    map[core.ShapeID]*core.Shape
	endpoints map[core.EndpointID]*core.Endpoint
	conns     map[core.ConnectionID]*core.Connection

	nextShape    core.ShapeID
	nextEndpoint core.EndpointID
	nextConn     core.ConnectionID
	selected     core.ConnectionID
}

// Option configures a Scene.
type Option func(*Scene)

// WithRouter replaces the default router.
func WithRouter(r *connections.Router) Option {
	return func(s *Scene) { s.router = r }
}

// WithLogger sets the logger used for routing diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) { s.logger = l }
}

// WithJunctionRadius sets the radius of junction marks.
func WithJunctionRadius(r float64) Option {
	return func(s *Scene) { s.junctionRadius = r }
}

// New creates an empty scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		router:         connections.DefaultRouter(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		junctionRadius: connections.DefaultJunctionRadius,
		shapes:         make(map[core.ShapeID]*core.Shape),
		endpoints:      make(map[core.EndpointID]*core.Endpoint),
		conns:          make(map[core.ConnectionID]*core.Connection),
		nextShape:      1,
		nextEndpoint:   1,
		nextConn:       1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the router used by the scene.
func (s *Scene) Router() *connections.Router {
	return s.router
}

// AddShape adds a shape and returns its ID.
func (s *Scene) AddShape(name string, bounds geometry.Rect) core.ShapeID {
	id := s.nextShape
	s.nextShape++
	s.shapes[id] = &core.Shape{ID: id, Name: name, Bounds: bounds}
	return id
}

// AddEndpoint adds an endpoint at offset from the owner's origin. A fixed endpoint
// always exits along dir.
func (s *Scene) AddEndpoint(owner core.ShapeID, offset geometry.Point, dir geometry.Vector, fixed bool) (core.EndpointID, error) {
	if _, ok := s.shapes[owner]; !ok {
		return 0, fmt.Errorf("shape %d: %w", owner, ErrNotFound)
	}
	id := s.nextEndpoint
	s.nextEndpoint++
	s.endpoints[id] = &core.Endpoint{ID: id, Owner: owner, Offset: offset, Dir: dir.Cardinal(), Fixed: fixed}
	return id, nil
}

// Connect creates a routed connection from a to b.
func (s *Scene) Connect(a, b core.EndpointID, mode core.Mode) (core.ConnectionID, error) {
	if a == b {
		return 0, ErrSameEndpoint
	}
	for _, e := range []core.EndpointID{a, b} {
		if _, ok := s.endpoints[e]; !ok {
			return 0, fmt.Errorf("endpoint %d: %w", e, ErrNotFound)
		}
	}
	id := s.nextConn
	s.nextConn++
	c := &core.Connection{ID: id, Endpoints: [2]core.EndpointID{a, b}, Mode: mode, Valid: true}
	s.conns[id] = c
	s.reroute(c)
	return id, nil
}

// Disconnect removes a connection.
func (s *Scene) Disconnect(id core.ConnectionID) error {
	if _, ok := s.conns[id]; !ok {
		return fmt.Errorf("connection %d: %w", id, ErrNotFound)
	}
	delete(s.conns, id)
	if s.selected == id {
		s.selected = 0
	}
	return nil
}

// MoveShape moves a shape by (dx, dy) and repairs every attached route.
func (s *Scene) MoveShape(id core.ShapeID, dx, dy float64) error {
	sh, ok := s.shapes[id]
	if !ok {
		return fmt.Errorf("shape %d: %w", id, ErrNotFound)
	}

	attached := s.attachedTo(id)
	before := make(map[core.ConnectionID][2]core.EndpointSnapshot, len(attached))
	for _, c := range attached {
		before[c.ID] = s.snapshots(c)
	}

	sh.Bounds = sh.Bounds.Translate(geometry.Pt(dx, dy))

	for _, c := range attached {
		old := before[c.ID]
		now := s.snapshots(c)
		route, recomputed := s.router.Update(c.Mode, c.Route, old[0], old[1], now[0], now[1])
		if recomputed {
			s.logger.Debug("repair rejected, route recomputed", "connection", c.ID, "shape", id)
		}
		c.Route = route
	}
	return nil
}

// SetMode switches a connection between orthogonal and off-page routing.
func (s *Scene) SetMode(id core.ConnectionID, mode core.Mode) error {
	c, ok := s.conns[id]
	if !ok {
		return fmt.Errorf("connection %d: %w", id, ErrNotFound)
	}
	if c.Mode == mode {
		return nil
	}
	c.Mode = mode
	s.reroute(c)
	return nil
}

// SetValid records the outcome of the semantic check. It does not affect routing.
func (s *Scene) SetValid(id core.ConnectionID, valid bool) error {
	c, ok := s.conns[id]
	if !ok {
		return fmt.Errorf("connection %d: %w", id, ErrNotFound)
	}
	c.Valid = valid
	return nil
}

// SetStyle sets the pen of a connection.
func (s *Scene) SetStyle(id core.ConnectionID, style core.Style) error {
	c, ok := s.conns[id]
	if !ok {
		return fmt.Errorf("connection %d: %w", id, ErrNotFound)
	}
	c.Style = style
	return nil
}

// Select highlights a connection. Zero clears the selection.
func (s *Scene) Select(id core.ConnectionID) error {
	if id != 0 {
		if _, ok := s.conns[id]; !ok {
			return fmt.Errorf("connection %d: %w", id, ErrNotFound)
		}
	}
	s.selected = id
	return nil
}

// Selected returns the selected connection or zero.
func (s *Scene) Selected() core.ConnectionID {
	return s.selected
}

// Reroute discards the route of a connection and computes a fresh one.
func (s *Scene) Reroute(id core.ConnectionID) error {
	c, ok := s.conns[id]
	if !ok {
		return fmt.Errorf("connection %d: %w", id, ErrNotFound)
	}
	s.reroute(c)
	return nil
}

// RerouteAll recomputes every route.
func (s *Scene) RerouteAll() {
	for _, id := range s.connectionIDs() {
		s.reroute(s.conns[id])
	}
	s.logger.Debug("rerouted all connections", "count", len(s.conns))
}

// Crossings returns the crossing marks of one connection against the rest of the
// scene.
func (s *Scene) Crossings(id core.ConnectionID) ([]connections.Mark, error) {
	c, ok := s.conns[id]
	if !ok {
		return nil, fmt.Errorf("connection %d: %w", id, ErrNotFound)
	}
	views := s.views()
	return connections.ComputeCrossings(s.view(c), views, s.Shapes(), connections.CrossingOptions{
		JunctionRadius: s.junctionRadius,
		Selected:       s.selected,
	}), nil
}

// AllCrossings returns the crossing marks of every connection keyed by ID.
func (s *Scene) AllCrossings() map[core.ConnectionID][]connections.Mark {
	views := s.views()
	shapes := s.Shapes()
	opts := connections.CrossingOptions{JunctionRadius: s.junctionRadius, Selected: s.selected}

	out := make(map[core.ConnectionID][]connections.Mark, len(views))
	for _, v := range views {
		out[v.ID] = connections.ComputeCrossings(v, views, shapes, opts)
	}
	return out
}

// Connection returns a copy of one connection.
func (s *Scene) Connection(id core.ConnectionID) (core.Connection, bool) {
	c, ok := s.conns[id]
	if !ok {
		return core.Connection{}, false
	}
	out := *c
	out.Route = c.Route.Clone()
	return out, true
}

// Connections returns copies of all connections ordered by ID.
func (s *Scene) Connections() []core.Connection {
	ids := s.connectionIDs()
	out := make([]core.Connection, 0, len(ids))
	for _, id := range ids {
		c, _ := s.Connection(id)
		out = append(out, c)
	}
	return out
}

// Shape returns a copy of one shape.
func (s *Scene) Shape(id core.ShapeID) (core.Shape, bool) {
	sh, ok := s.shapes[id]
	if !ok {
		return core.Shape{}, false
	}
	return *sh, true
}

// Shapes returns copies of all shapes ordered by ID.
func (s *Scene) Shapes() []core.Shape {
	ids := slices.Sorted(maps.Keys(s.shapes))
	out := make([]core.Shape, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.shapes[id])
	}
	return out
}

// Endpoint returns a copy of one endpoint.
func (s *Scene) Endpoint(id core.EndpointID) (core.Endpoint, bool) {
	e, ok := s.endpoints[id]
	if !ok {
		return core.Endpoint{}, false
	}
	return *e, true
}

// Endpoints returns copies of all endpoints ordered by ID.
func (s *Scene) Endpoints() []core.Endpoint {
	ids := slices.Sorted(maps.Keys(s.endpoints))
	out := make([]core.Endpoint, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.endpoints[id])
	}
	return out
}

// Snapshot returns the current position and exit direction of an endpoint.
func (s *Scene) Snapshot(id core.EndpointID) (core.EndpointSnapshot, bool) {
	e, ok := s.endpoints[id]
	if !ok {
		return core.EndpointSnapshot{}, false
	}
	return s.snapshot(e), true
}

// Bounds returns the rectangle covering every shape and route.
func (s *Scene) Bounds() geometry.Rect {
	var pts []geometry.Point
	for _, sh := range s.shapes {
		pts = append(pts,
			geometry.Pt(sh.Bounds.Left(), sh.Bounds.Top()),
			geometry.Pt(sh.Bounds.Right(), sh.Bounds.Bottom()))
	}
	for _, c := range s.conns {
		pts = append(pts, c.Route...)
	}
	return geometry.Bounds(pts)
}

// ShapeAt returns the topmost shape containing p.
func (s *Scene) ShapeAt(p geometry.Point) (core.ShapeID, bool) {
	shapes := s.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		if shapes[i].Bounds.Contains(p) {
			return shapes[i].ID, true
		}
	}
	return 0, false
}

// Attached returns the IDs of connections with an endpoint on the shape.
func (s *Scene) Attached(id core.ShapeID) []core.ConnectionID {
	var out []core.ConnectionID
	for _, c := range s.attachedTo(id) {
		out = append(out, c.ID)
	}
	return out
}

func (s *Scene) attachedTo(id core.ShapeID) []*core.Connection {
	var out []*core.Connection
	for _, cid := range s.connectionIDs() {
		c := s.conns[cid]
		for _, e := range c.Endpoints {
			if ep, ok := s.endpoints[e]; ok && ep.Owner == id {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (s *Scene) connectionIDs() []core.ConnectionID {
	return slices.Sorted(maps.Keys(s.conns))
}

func (s *Scene) snapshot(e *core.Endpoint) core.EndpointSnapshot {
	var origin geometry.Point
	if sh, ok := s.shapes[e.Owner]; ok {
		origin = geometry.Pt(sh.Bounds.X, sh.Bounds.Y)
	}
	return core.EndpointSnapshot{ID: e.ID, Owner: e.Owner, Pos: origin.Add(e.Offset), Dir: e.Direction()}
}

func (s *Scene) snapshots(c *core.Connection) [2]core.EndpointSnapshot {
	var out [2]core.EndpointSnapshot
	for i, id := range c.Endpoints {
		if e, ok := s.endpoints[id]; ok {
			out[i] = s.snapshot(e)
		}
	}
	return out
}

func (s *Scene) reroute(c *core.Connection) {
	snap := s.snapshots(c)
	c.Route = s.router.Reroute(c.Mode, snap[0], snap[1])
}

func (s *Scene) view(c *core.Connection) connections.ConnectionView {
	v := connections.ConnectionView{ID: c.ID, Endpoints: c.Endpoints, Route: c.Route, Style: c.Style}
	for i, id := range c.Endpoints {
		if e, ok := s.endpoints[id]; ok {
			v.Owners[i] = e.Owner
		}
	}
	return v
}

func (s *Scene) views() []connections.ConnectionView {
	ids := s.connectionIDs()
	out := make([]connections.ConnectionView, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.view(s.conns[id]))
	}
	return out
}
