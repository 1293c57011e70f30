// Package export writes routed scenes in text, data and image formats.
package export

import (
	"errors"
	"fmt"
	"io"

	"orthoroute/config"
	"orthoroute/diagram"
)

// Format represents an export format
type Format string

const (
	// FormatASCII draws the scene with box-drawing characters
	FormatASCII Format = "ascii"
	// FormatJSON writes routes and crossing marks
	FormatJSON Format = "json"
	// FormatPNG rasterises the scene
	FormatPNG Format = "png"
	// FormatDOT writes Graphviz DOT with pinned shape positions
	FormatDOT Format = "dot"
	// FormatMermaid writes a Mermaid flowchart of the connectivity
	FormatMermaid Format = "mermaid"
)

// ErrNilScene is returned when an exporter is handed no scene.
var ErrNilScene = errors.New("scene is nil")

// Exporter interface for different export formats
type Exporter interface {
	// Export writes the scene in the target format
	Export(w io.Writer, s *diagram.Scene) error
	// FileExtension returns the recommended file extension for this format
	FileExtension() string
	// FormatName returns a human-readable name for this format
	FormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format, cfg config.Render) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(cfg.CellSize), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatPNG:
		return NewPNGExporter(cfg), nil
	case FormatDOT:
		return NewGraphvizExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "json":
		return FormatJSON, nil
	case "png":
		return FormatPNG, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// AvailableFormats returns a list of all available export formats
func AvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatJSON,
		FormatPNG,
		FormatDOT,
		FormatMermaid,
	}
}

// FormatDescriptions returns human-readable descriptions of all formats
func FormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:   "Unicode box-drawing art",
		FormatJSON:    "Routes and crossing marks as JSON",
		FormatPNG:     "PNG image",
		FormatDOT:     "Graphviz DOT with pinned positions",
		FormatMermaid: "Mermaid flowchart of the connections",
	}
}
