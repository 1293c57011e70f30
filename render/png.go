package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"orthoroute/config"
	"orthoroute/geometry"
)

// ErrImageTooLarge is returned when a raster would exceed maxPixels.
var ErrImageTooLarge = errors.New("image too large")

const maxPixels = 1 << 26

var (
	background = mustHex("#ffffff")
	ink        = mustHex("#1b1b1b")
	outline    = mustHex("#5c6b7a")
	warning    = mustHex("#c62828")
	selection  = mustHex("#1e63c7")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// PNG is a raster Sink backed by a gg context.
type PNG struct {
	dc      *gg.Context
	origin  geometry.Point
	scale   float64
	padding float64
}

// NewPNG returns a raster sized to hold bounds at the configured scale and padding.
func NewPNG(bounds geometry.Rect, cfg config.Render) (*PNG, error) {
	scale := cfg.PNGScale
	if scale <= 0 {
		scale = 1
	}
	w := max(math.Ceil(bounds.W*scale+2*cfg.PNGPadding), 1)
	h := max(math.Ceil(bounds.H*scale+2*cfg.PNGPadding), 1)
	if !(w*h <= maxPixels) {
		return nil, fmt.Errorf("%gx%g pixels: %w", w, h, ErrImageTooLarge)
	}

	dc := gg.NewContext(int(w), int(h))
	dc.SetColor(background)
	dc.Clear()
	dc.SetLineCapButt()

	return &PNG{
		dc:      dc,
		origin:  geometry.Pt(bounds.X, bounds.Y),
		scale:   scale,
		padding: cfg.PNGPadding,
	}, nil
}

// Image returns the rendered raster.
func (p *PNG) Image() image.Image {
	return p.dc.Image()
}

// EncodePNG writes the raster to w.
func (p *PNG) EncodePNG(w io.Writer) error {
	if err := p.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the raster to a file.
func (p *PNG) SavePNG(path string) error {
	return p.dc.SavePNG(path)
}

// Pixel maps a scene point to raster coordinates.
func (p *PNG) Pixel(pt geometry.Point) (x, y float64) {
	return (pt.X-p.origin.X)*p.scale + p.padding, (pt.Y-p.origin.Y)*p.scale + p.padding
}

func (p *PNG) Rect(r geometry.Rect, label string) {
	x, y := p.Pixel(geometry.Pt(r.X, r.Y))
	p.dc.SetColor(outline)
	p.dc.SetLineWidth(p.scale)
	p.dc.DrawRectangle(x, y, r.W*p.scale, r.H*p.scale)
	p.dc.Stroke()

	if label != "" {
		cx, cy := p.Pixel(r.Center())
		p.dc.DrawStringAnchored(label, cx, cy, 0.5, 0.5)
	}
}

func (p *PNG) Polyline(pts []geometry.Point, s Stroke) {
	if len(pts) < 2 {
		return
	}
	p.pen(s)
	x, y := p.Pixel(pts[0])
	p.dc.MoveTo(x, y)
	for _, pt := range pts[1:] {
		x, y = p.Pixel(pt)
		p.dc.LineTo(x, y)
	}
	p.dc.Stroke()
}

func (p *PNG) Line(seg geometry.Segment, s Stroke) {
	p.pen(s)
	x1, y1 := p.Pixel(seg.A)
	x2, y2 := p.Pixel(seg.B)
	p.dc.DrawLine(x1, y1, x2, y2)
	p.dc.Stroke()
}

func (p *PNG) Circle(c geometry.Point, radius float64, s Stroke) {
	p.pen(s)
	x, y := p.Pixel(c)
	p.dc.DrawCircle(x, y, radius*p.scale)
	p.dc.Fill()
}

func (p *PNG) Gap(seg geometry.Segment, width float64) {
	p.dc.SetColor(background)
	p.dc.SetLineWidth(width * p.scale)
	x1, y1 := p.Pixel(seg.A)
	x2, y2 := p.Pixel(seg.B)
	p.dc.DrawLine(x1, y1, x2, y2)
	p.dc.Stroke()
}

func (p *PNG) pen(s Stroke) {
	switch {
	case s.Highlight:
		p.dc.SetColor(selection)
	case s.Invalid:
		p.dc.SetColor(warning)
	default:
		p.dc.SetColor(ink)
	}
	p.dc.SetLineWidth(max(s.Width, 1) * p.scale)
}
