package canvas

import (
	"errors"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"orthoroute/geometry"
	"orthoroute/render"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// Overlay glyphs for crossing marks.
const (
	JunctionRune = '●'
	UndercrossV  = '┃'
	UndercrossH  = '━'
	DiagonalRune = '*'

	continuation = '\x00'
	blankOverlay = ' '
	noOverlay    = -1
	wideRune     = 2

	// maxCells bounds the area of a canvas built with ForBounds.
	maxCells = 1 << 24
)

// MatrixCanvas is a character grid. Line strokes are stored as arms per cell so that
// crossing strokes merge into tees and crosses; text and marks are stored as overlay
// runes that win over strokes.
//
// When created with ForBounds the canvas also implements render.Sink, mapping scene
// coordinates to cells.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//
// MatrixCanvas is not safe for concurrent writes.
type MatrixCanvas struct {
	arms    [][]arms
	overlay [][]rune
	width   int
	height  int
	charset *CharacterSet

	origin   geometry.Point
	cellSize float64
}

var _ render.Sink = (*MatrixCanvas)(nil)

// NewMatrixCanvas creates a blank canvas with the given size in cells. It returns nil
// for a non-positive size.
func NewMatrixCanvas(width, height int) *MatrixCanvas {
	if width <= 0 || height <= 0 {
		return nil
	}

	c := &MatrixCanvas{
		arms:     make([][]arms, height),
		overlay:  make([][]rune, height),
		width:    width,
		height:   height,
		charset:  &Unicode,
		cellSize: 1,
	}
	for y := range height {
		c.arms[y] = make([]arms, width)
		c.overlay[y] = make([]rune, width)
	}
	c.Clear()
	return c
}

// ForBounds creates a canvas covering bounds, with cellSize scene units per cell and a
// margin of empty cells on every side. Canvases above 16M cells are refused.
func ForBounds(bounds geometry.Rect, cellSize float64, margin int) (*MatrixCanvas, error) {
	if cellSize <= 0 || margin < 0 {
		return nil, ErrInvalidSize
	}
	w := math.Ceil(bounds.W/cellSize) + 1 + 2*float64(margin)
	h := math.Ceil(bounds.H/cellSize) + 1 + 2*float64(margin)
	if !(w*h <= maxCells) {
		return nil, ErrInvalidSize
	}

	c := NewMatrixCanvas(int(w), int(h))
	if c == nil {
		return nil, ErrInvalidSize
	}
	c.cellSize = cellSize
	c.origin = geometry.Pt(bounds.X-float64(margin)*cellSize, bounds.Y-float64(margin)*cellSize)
	return c, nil
}

// SetCharset switches the glyphs strokes are drawn with.
func (c *MatrixCanvas) SetCharset(cs *CharacterSet) {
	c.charset = cs
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Cell maps a scene point to the cell containing it.
func (c *MatrixCanvas) Cell(p geometry.Point) (x, y int) {
	return int(math.Round((p.X - c.origin.X) / c.cellSize)), int(math.Round((p.Y - c.origin.Y) / c.cellSize))
}

func (c *MatrixCanvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the character at the given cell, or ' ' outside the canvas.
func (c *MatrixCanvas) Get(x, y int) rune {
	if !c.inside(x, y) {
		return ' '
	}
	if r := c.overlay[y][x]; r != noOverlay {
		if r == continuation {
			return ' '
		}
		return r
	}
	return c.charset.glyph(c.arms[y][x])
}

// Set places an overlay character at the given cell.
func (c *MatrixCanvas) Set(x, y int, r rune) error {
	if !c.inside(x, y) {
		return ErrOutOfBounds
	}
	c.overlay[y][x] = r
	return nil
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := range c.height {
		for x := range c.width {
			c.arms[y][x] = 0
			c.overlay[y][x] = noOverlay
		}
	}
}

// Lines returns the canvas rows with trailing spaces trimmed.
func (c *MatrixCanvas) Lines() []string {
	lines := make([]string, c.height)
	var sb strings.Builder
	for y := range c.height {
		sb.Reset()
		for x := range c.width {
			if c.overlay[y][x] == continuation {
				continue
			}
			sb.WriteRune(c.Get(x, y))
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

// String returns the canvas rows joined by newlines.
func (c *MatrixCanvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

// DrawBox outlines a box whose corners are the given cells.
func (c *MatrixCanvas) DrawBox(x, y, width, height int) error {
	if width < 2 || height < 2 {
		return ErrInvalidSize
	}
	x2, y2 := x+width-1, y+height-1
	c.DrawHorizontalLine(x, y, x2)
	c.DrawHorizontalLine(x, y2, x2)
	c.DrawVerticalLine(x, y, y2)
	c.DrawVerticalLine(x2, y, y2)
	return nil
}

// DrawHorizontalLine strokes the cells from x1 to x2 on row y, clipped to the canvas.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := max(x1, 0); x <= min(x2, c.width-1); x++ {
		if x > x1 {
			c.arms[y][x] |= armW
		}
		if x < x2 {
			c.arms[y][x] |= armE
		}
	}
	return nil
}

// DrawVerticalLine strokes the cells from y1 to y2 in column x, clipped to the canvas.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int) error {
	if x < 0 || x >= c.width {
		return ErrOutOfBounds
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := max(y1, 0); y <= min(y2, c.height-1); y++ {
		if y > y1 {
			c.arms[y][x] |= armN
		}
		if y < y2 {
			c.arms[y][x] |= armS
		}
	}
	return nil
}

// DrawLine places char along a line between two cells using Bresenham's algorithm.
func (c *MatrixCanvas) DrawLine(x1, y1, x2, y2 int, char rune) {
	dx, dy := abs(x2-x1), -abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	e := dx + dy
	for {
		c.Set(x1, y1, char)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

// DrawText writes text starting at the given cell. Wide runes take two cells.
func (c *MatrixCanvas) DrawText(x, y int, text string) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}

	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > c.width {
			break
		}
		if x >= 0 {
			c.overlay[y][x] = r
			if w == wideRune {
				c.overlay[y][x+1] = continuation
			}
		}
		x += w
	}
	return nil
}

// Rect implements render.Sink. The label is truncated to fit inside the box.
func (c *MatrixCanvas) Rect(r geometry.Rect, label string) {
	x1, y1 := c.Cell(geometry.Pt(r.Left(), r.Top()))
	x2, y2 := c.Cell(geometry.Pt(r.Right(), r.Bottom()))
	if c.DrawBox(x1, y1, x2-x1+1, y2-y1+1) != nil || label == "" {
		return
	}

	room := x2 - x1 - 1
	if room <= 0 || y2-y1 < 2 {
		return
	}
	label = runewidth.Truncate(label, room, "")
	c.DrawText(x1+1+(room-runewidth.StringWidth(label))/2, (y1+y2)/2, label)
}

// Polyline implements render.Sink. Axis-aligned segments are stroked; any other
// segment is drawn as a line of DiagonalRune.
func (c *MatrixCanvas) Polyline(pts []geometry.Point, _ render.Stroke) {
	for i := 1; i < len(pts); i++ {
		x1, y1 := c.Cell(pts[i-1])
		x2, y2 := c.Cell(pts[i])
		switch {
		case x1 == x2 && y1 == y2:
		case y1 == y2:
			c.DrawHorizontalLine(x1, y1, x2)
		case x1 == x2:
			c.DrawVerticalLine(x1, y1, y2)
		default:
			c.DrawLine(x1, y1, x2, y2, DiagonalRune)
		}
	}
}

// Line implements render.Sink. Undercross dashes mark the crossing cell with a heavy
// stroke in the dash direction.
func (c *MatrixCanvas) Line(seg geometry.Segment, _ render.Stroke) {
	x, y := c.Cell(seg.A)
	if seg.IsVertical() {
		c.Set(x, y, UndercrossV)
	} else {
		c.Set(x, y, UndercrossH)
	}
}

// Circle implements render.Sink.
func (c *MatrixCanvas) Circle(p geometry.Point, _ float64, _ render.Stroke) {
	x, y := c.Cell(p)
	c.Set(x, y, JunctionRune)
}

// Gap implements render.Sink by blanking the cells strictly between the segment's end
// cells, or the single cell it falls in.
func (c *MatrixCanvas) Gap(seg geometry.Segment, _ float64) {
	x1, y1 := c.Cell(seg.A)
	x2, y2 := c.Cell(seg.B)
	if x1 == x2 && y1 == y2 {
		c.Set(x1, y1, blankOverlay)
		return
	}
	if x1 != x2 && y1 != y2 {
		return
	}
	sx, sy := sign(x2-x1), sign(y2-y1)
	for x, y := x1+sx, y1+sy; x != x2 || y != y2; x, y = x+sx, y+sy {
		c.Set(x, y, blankOverlay)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
