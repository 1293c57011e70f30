package diagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"orthoroute/core"
)

// ErrInvalidDocument is returned when a loaded document references unknown objects or
// reuses IDs.
var ErrInvalidDocument = errors.New("invalid document")

// Document is the persisted form of a scene. Routes are not stored; they are
// recomputed from the endpoint positions when the document is loaded.
type Document struct {
	Name        string            `json:"name,omitempty"`
	Shapes      []core.Shape      `json:"shapes"`
	Endpoints   []core.Endpoint   `json:"endpoints"`
	Connections []core.Connection `json:"connections"`
}

// Document returns the persisted form of the scene.
func (s *Scene) Document() Document {
	return Document{
		Shapes:      s.Shapes(),
		Endpoints:   s.Endpoints(),
		Connections: s.Connections(),
	}
}

// Save writes the scene as indented JSON.
func (s *Scene) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Document()); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// Load reads a JSON document and builds a routed scene from it.
func Load(r io.Reader, opts ...Option) (*Scene, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return FromDocument(doc, opts...)
}

// ReadFile loads a scene from a JSON file.
func ReadFile(path string, opts ...Option) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteFile saves the scene to a JSON file.
func (s *Scene) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FromDocument builds a scene from doc, keeping its IDs, and routes every connection.
// Connections without an ID (zero) are numbered after the highest ID in use.
func FromDocument(doc Document, opts ...Option) (*Scene, error) {
	s := New(opts...)

	for _, sh := range doc.Shapes {
		if sh.ID <= 0 {
			return nil, fmt.Errorf("shape %q has no id: %w", sh.Name, ErrInvalidDocument)
		}
		if _, dup := s.shapes[sh.ID]; dup {
			return nil, fmt.Errorf("duplicate shape %d: %w", sh.ID, ErrInvalidDocument)
		}
		s.shapes[sh.ID] = &sh
		s.nextShape = max(s.nextShape, sh.ID+1)
	}

	for _, e := range doc.Endpoints {
		if e.ID <= 0 {
			return nil, fmt.Errorf("endpoint without id: %w", ErrInvalidDocument)
		}
		if _, dup := s.endpoints[e.ID]; dup {
			return nil, fmt.Errorf("duplicate endpoint %d: %w", e.ID, ErrInvalidDocument)
		}
		if _, ok := s.shapes[e.Owner]; !ok {
			return nil, fmt.Errorf("endpoint %d: owner %d: %w", e.ID, e.Owner, ErrInvalidDocument)
		}
		e.Dir = e.Dir.Cardinal()
		s.endpoints[e.ID] = &e
		s.nextEndpoint = max(s.nextEndpoint, e.ID+1)
	}

	conns := ensureConnectionIDs(doc.Connections)
	for _, c := range conns {
		if _, dup := s.conns[c.ID]; dup {
			return nil, fmt.Errorf("duplicate connection %d: %w", c.ID, ErrInvalidDocument)
		}
		for _, e := range c.Endpoints {
			if _, ok := s.endpoints[e]; !ok {
				return nil, fmt.Errorf("connection %d: endpoint %d: %w", c.ID, e, ErrInvalidDocument)
			}
		}
		if c.Endpoints[0] == c.Endpoints[1] {
			return nil, fmt.Errorf("connection %d: %w", c.ID, ErrSameEndpoint)
		}
		s.conns[c.ID] = &c
		s.nextConn = max(s.nextConn, c.ID+1)
	}

	s.RerouteAll()
	return s, nil
}

// ensureConnectionIDs returns a copy of conns in which every connection without an ID
// gets one above the highest ID present.
func ensureConnectionIDs(conns []core.Connection) []core.Connection {
	out := make([]core.Connection, len(conns))
	copy(out, conns)

	var top core.ConnectionID
	for _, c := range out {
		top = max(top, c.ID)
	}
	for i := range out {
		if out[i].ID == 0 {
			top++
			out[i].ID = top
		}
	}
	return out
}
