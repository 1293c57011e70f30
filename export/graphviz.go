package export

import (
	"fmt"
	"io"
	"strings"

	"orthoroute/core"
	"orthoroute/depgraph"
	"orthoroute/diagram"
)

const (
	dotPointsPerInch = 72.0
	dotWarning       = "#c62828"
)

// GraphvizExporter exports scenes to Graphviz DOT syntax. Shapes keep their scene
// positions (pinned for neato), with one scene unit per point.
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export writes the scene as a DOT digraph
func (e *GraphvizExporter) Export(w io.Writer, s *diagram.Scene) error {
	if s == nil {
		return ErrNilScene
	}

	var sb strings.Builder
	sb.WriteString("digraph scene {\n")
	sb.WriteString("  layout=neato;\n")
	sb.WriteString("  splines=ortho;\n")
	sb.WriteString("  node [shape=box, fixedsize=true];\n")

	shapes := s.Shapes()
	if len(shapes) > 0 {
		sb.WriteString("\n")
	}
	for _, sh := range shapes {
		c := sh.Bounds.Center()
		fmt.Fprintf(&sb, "  %s [label=\"%s\", pos=\"%g,%g!\", width=%.3f, height=%.3f];\n",
			shapeID(sh.ID), escapeLabel(sh.Name), c.X, dotY(c.Y),
			sh.Bounds.W/dotPointsPerInch, sh.Bounds.H/dotPointsPerInch)
	}

	conns := s.Connections()
	if len(conns) > 0 {
		sb.WriteString("\n")
	}
	for _, c := range conns {
		from, okFrom := s.Endpoint(c.Endpoints[0])
		to, okTo := s.Endpoint(c.Endpoints[1])
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&sb, "  %s -> %s", shapeID(from.Owner), shapeID(to.Owner))
		if attrs := edgeAttributes(c); attrs != "" {
			fmt.Fprintf(&sb, " [%s]", attrs)
		}
		sb.WriteString(";\n")
	}

	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteDependencyGraph writes a dependency graph as DOT. Each edge is labelled with
// the lane it was packed into; edges inside a cycle are drawn in the warning colour.
func (e *GraphvizExporter) WriteDependencyGraph(w io.Writer, g *depgraph.Graph, arrows []depgraph.Arrow) error {
	files := g.Files()
	component := make(map[int]int)
	for i, cycle := range g.Cycles() {
		for _, f := range cycle {
			if row, ok := g.Row(f); ok {
				component[row] = i
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("digraph deps {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box];\n")

	if len(files) > 0 {
		sb.WriteString("\n")
	}
	for row, f := range files {
		fmt.Fprintf(&sb, "  F%d [label=\"%s\"];\n", row, escapeLabel(f))
	}

	if len(arrows) > 0 {
		sb.WriteString("\n")
	}
	for _, a := range arrows {
		attrs := []string{fmt.Sprintf("xlabel=\"lane %d\"", a.Lane)}
		ca, inA := component[a.From]
		cb, inB := component[a.To]
		if inA && inB && ca == cb {
			attrs = append(attrs, fmt.Sprintf("color=\"%s\"", dotWarning))
		}
		fmt.Fprintf(&sb, "  F%d -> F%d [%s];\n", a.From, a.To, strings.Join(attrs, ", "))
	}

	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// dotY flips y, since DOT's y axis points up.
func dotY(y float64) float64 {
	if y == 0 {
		return 0
	}
	return -y
}

func shapeID(id core.ShapeID) string {
	return fmt.Sprintf("S%d", id)
}

// edgeAttributes maps connection state to DOT edge attributes
func edgeAttributes(c core.Connection) string {
	var attrs []string
	if c.Mode == core.ModeOffPage {
		attrs = append(attrs, "style=dashed")
	}
	if !c.Valid {
		attrs = append(attrs, fmt.Sprintf("color=\"%s\"", dotWarning))
	}
	if c.Style.Wide() {
		attrs = append(attrs, fmt.Sprintf("penwidth=%g", c.Style.PenWidth))
	}
	return strings.Join(attrs, ", ")
}

// escapeLabel escapes quotes and backslashes
func escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return label
}

// FileExtension returns the file extension for DOT
func (e *GraphvizExporter) FileExtension() string {
	return ".dot"
}

// FormatName returns the format name
func (e *GraphvizExporter) FormatName() string {
	return "Graphviz DOT"
}
