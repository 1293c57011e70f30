package export

import (
	"fmt"
	"io"
	"strings"

	"orthoroute/core"
	"orthoroute/diagram"
)

// MermaidExporter exports the connectivity of a scene as a Mermaid flowchart. Geometry
// is dropped; Mermaid lays the graph out itself.
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export writes the scene as a Mermaid flowchart
func (e *MermaidExporter) Export(w io.Writer, s *diagram.Scene) error {
	if s == nil {
		return ErrNilScene
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, sh := range s.Shapes() {
		label := sh.Name
		if label == "" {
			label = fmt.Sprintf("shape %d", sh.ID)
		}
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", shapeID(sh.ID), e.escapeLabel(label))
	}

	conns := s.Connections()
	if len(conns) > 0 {
		sb.WriteString("\n")
	}

	var invalid []int
	links := 0
	for _, c := range conns {
		from, okFrom := s.Endpoint(c.Endpoints[0])
		to, okTo := s.Endpoint(c.Endpoints[1])
		if !okFrom || !okTo {
			continue
		}
		arrow := "-->"
		if c.Mode == core.ModeOffPage {
			arrow = "-.->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", shapeID(from.Owner), arrow, shapeID(to.Owner))
		if !c.Valid {
			invalid = append(invalid, links)
		}
		links++
	}

	// Mermaid styles links by declaration order.
	for _, i := range invalid {
		fmt.Fprintf(&sb, "    linkStyle %d stroke:%s\n", i, dotWarning)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// escapeLabel escapes characters Mermaid treats as syntax inside quoted labels
func (e *MermaidExporter) escapeLabel(label string) string {
	return strings.ReplaceAll(label, `"`, "#quot;")
}

// FileExtension returns the file extension for Mermaid
func (e *MermaidExporter) FileExtension() string {
	return ".mmd"
}

// FormatName returns the format name
func (e *MermaidExporter) FormatName() string {
	return "Mermaid"
}
