package export

import (
	"io"

	"orthoroute/config"
	"orthoroute/diagram"
	"orthoroute/render"
)

// PNGExporter rasterises scenes
type PNGExporter struct {
	cfg config.Render
}

// NewPNGExporter creates a PNG exporter with the given scale and padding
func NewPNGExporter(cfg config.Render) *PNGExporter {
	return &PNGExporter{cfg: cfg}
}

// Export draws the scene and writes it as PNG
func (e *PNGExporter) Export(w io.Writer, s *diagram.Scene) error {
	if s == nil {
		return ErrNilScene
	}
	img, err := render.NewPNG(s.Bounds(), e.cfg)
	if err != nil {
		return err
	}
	render.Draw(img, s)
	return img.EncodePNG(w)
}

// FileExtension returns the file extension for PNG
func (e *PNGExporter) FileExtension() string {
	return ".png"
}

// FormatName returns the format name
func (e *PNGExporter) FormatName() string {
	return "PNG image"
}
