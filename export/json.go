package export

import (
	"encoding/json"
	"io"

	"orthoroute/connections"
	"orthoroute/core"
	"orthoroute/diagram"
)

// JSONExporter exports routes and crossing marks. Unlike the saved scene document,
// the output carries the computed geometry.
type JSONExporter struct {
	indent string
}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{indent: "  "}
}

type routedScene struct {
	Shapes      []core.Shape       `json:"shapes"`
	Connections []routedConnection `json:"connections"`
}

type routedConnection struct {
	ID        core.ConnectionID  `json:"id"`
	Endpoints [2]core.EndpointID `json:"endpoints"`
	Mode      core.Mode          `json:"mode"`
	Valid     bool               `json:"valid"`
	Route     core.Route         `json:"route"`
	Length    float64            `json:"length"`
	Marks     []connections.Mark `json:"marks"`
}

// Export writes the routed scene as JSON
func (e *JSONExporter) Export(w io.Writer, s *diagram.Scene) error {
	if s == nil {
		return ErrNilScene
	}

	marks := s.AllCrossings()
	out := routedScene{Shapes: s.Shapes()}
	for _, c := range s.Connections() {
		m := marks[c.ID]
		if m == nil {
			m = []connections.Mark{}
		}
		out.Connections = append(out.Connections, routedConnection{
			ID:        c.ID,
			Endpoints: c.Endpoints,
			Mode:      c.Mode,
			Valid:     c.Valid,
			Route:     c.Route,
			Length:    c.Route.Length(),
			Marks:     m,
		})
	}
	if out.Connections == nil {
		out.Connections = []routedConnection{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", e.indent)
	return enc.Encode(out)
}

// FileExtension returns the file extension for JSON
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// FormatName returns the format name
func (e *JSONExporter) FormatName() string {
	return "JSON"
}
