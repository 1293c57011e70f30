package export

import (
	"fmt"
	"io"

	"orthoroute/canvas"
	"orthoroute/diagram"
	"orthoroute/render"
)

// ASCIIExporter exports scenes as character art
type ASCIIExporter struct {
	cellSize float64
	charset  *canvas.CharacterSet
	margin   int
}

// NewASCIIExporter creates an exporter drawing cellSize scene units per character.
func NewASCIIExporter(cellSize float64) *ASCIIExporter {
	return &ASCIIExporter{
		cellSize: cellSize,
		charset:  &canvas.Unicode,
		margin:   1,
	}
}

// WithCharset switches the glyphs used for strokes.
func (e *ASCIIExporter) WithCharset(cs *canvas.CharacterSet) *ASCIIExporter {
	e.charset = cs
	return e
}

// Render draws the scene onto a fresh canvas.
func (e *ASCIIExporter) Render(s *diagram.Scene) (*canvas.MatrixCanvas, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	c, err := canvas.ForBounds(s.Bounds(), e.cellSize, e.margin)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	c.SetCharset(e.charset)
	render.Draw(c, s)
	return c, nil
}

// Export writes the character art followed by a newline
func (e *ASCIIExporter) Export(w io.Writer, s *diagram.Scene) error {
	c, err := e.Render(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, c.String())
	return err
}

// FileExtension returns the recommended file extension
func (e *ASCIIExporter) FileExtension() string {
	return ".txt"
}

// FormatName returns the format name
func (e *ASCIIExporter) FormatName() string {
	return "ASCII/Unicode Art"
}
