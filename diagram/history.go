package diagram

import "orthoroute/core"

// snapshot is a deep copy of the mutable part of a scene, routes included. Restoring
// one does not reroute.
type snapshot struct {
	shapes    map[core.ShapeID]core.Shape
	endpoints map[core.EndpointID]core.Endpoint
	conns     map[core.ConnectionID]core.Connection

	nextShape    core.ShapeID
	nextEndpoint core.EndpointID
	nextConn     core.ConnectionID
	selected     core.ConnectionID
}

func (s *Scene) snapshotState() snapshot {
	st := snapshot{
		shapes:       make(map[core.ShapeID]core.Shape, len(s.shapes)),
		endpoints:    make(map[core.EndpointID]core.Endpoint, len(s.endpoints)),
		conns:        make(map[core.ConnectionID]core.Connection, len(s.conns)),
		nextShape:    s.nextShape,
		nextEndpoint: s.nextEndpoint,
		nextConn:     s.nextConn,
		selected:     s.selected,
	}
	for id, sh := range s.shapes {
		st.shapes[id] = *sh
	}
	for id, e := range s.endpoints {
		st.endpoints[id] = *e
	}
	for id, c := range s.conns {
		cc := *c
		cc.Route = c.Route.Clone()
		st.conns[id] = cc
	}
	return st
}

func (s *Scene) restoreState(st snapshot) {
	s.shapes = make(map[core.ShapeID]*core.Shape, len(st.shapes))
	for id, sh := range st.shapes {
		s.shapes[id] = &sh
	}
	s.endpoints = make(map[core.EndpointID]*core.Endpoint, len(st.endpoints))
	for id, e := range st.endpoints {
		s.endpoints[id] = &e
	}
	s.conns = make(map[core.ConnectionID]*core.Connection, len(st.conns))
	for id, c := range st.conns {
		c.Route = c.Route.Clone()
		s.conns[id] = &c
	}
	s.nextShape = st.nextShape
	s.nextEndpoint = st.nextEndpoint
	s.nextConn = st.nextConn
	s.selected = st.selected
}

// History records scene states for undo and redo.
type History struct {
	states  []snapshot
	current int // Index of the state the scene is in
	max     int
}

// NewHistory creates a history keeping at most max states. Non-positive max keeps 50.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{
		states:  make([]snapshot, 0, max),
		current: -1,
		max:     max,
	}
}

// Save records the current state of s, dropping any states that were undone.
func (h *History) Save(s *Scene) {
	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}

	h.states = append(h.states, s.snapshotState())

	if len(h.states) > h.max {
		h.states = h.states[1:]
	} else {
		h.current++
	}
}

// CanUndo reports whether an earlier state exists.
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo reports whether an undone state exists.
func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo puts s back into the previous state.
func (h *History) Undo(s *Scene) bool {
	if !h.CanUndo() {
		return false
	}
	h.current--
	s.restoreState(h.states[h.current])
	return true
}

// Redo reapplies the state that was last undone.
func (h *History) Redo(s *Scene) bool {
	if !h.CanRedo() {
		return false
	}
	h.current++
	s.restoreState(h.states[h.current])
	return true
}

// Clear drops every recorded state.
func (h *History) Clear() {
	h.states = h.states[:0]
	h.current = -1
}

// Stats returns the position in the history and the number of states.
func (h *History) Stats() (current, total int) {
	return h.current + 1, len(h.states)
}
