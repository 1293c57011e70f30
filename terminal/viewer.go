// Package terminal is an interactive viewer for a routed scene. Shapes are dragged
// one grid step at a time, which repairs the attached routes incrementally.
package terminal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/gdamore/tcell/v2"

	"orthoroute/canvas"
	"orthoroute/config"
	"orthoroute/core"
	"orthoroute/diagram"
	"orthoroute/geometry"
	"orthoroute/render"
	"orthoroute/validation"
)

// historySize is the number of undo states the viewer keeps.
const historySize = 100

var (
	styleDefault  = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// Viewer draws a scene on a tcell screen and applies key commands to it.
type Viewer struct {
	screen    tcell.Screen
	scene     *diagram.Scene
	validator *validation.RouteValidator
	history   *diagram.History
	logger    *slog.Logger
	filename  string

	cellSize float64
	step     float64
	origin   geometry.Point

	selected core.ShapeID
	status   string
}

// NewViewer creates a viewer over s. The viewport starts one cell above and left of
// the scene bounds and stays put while shapes move.
func NewViewer(screen tcell.Screen, s *diagram.Scene, cfg config.Config, logger *slog.Logger) *Viewer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cell := cfg.Render.CellSize
	b := s.Bounds()

	v := &Viewer{
		screen:    screen,
		scene:     s,
		validator: validation.NewRouteValidator(cfg.Router),
		history:   diagram.NewHistory(historySize),
		logger:    logger,
		cellSize:  cell,
		step:      max(cfg.Router.GridSize, cell),
		origin:    geometry.Pt(b.X-cell, b.Y-cell),
	}
	if shapes := s.Shapes(); len(shapes) > 0 {
		v.selectShape(shapes[0].ID)
	}
	v.history.Save(s)
	return v
}

// SetFilename sets where the 's' key saves the scene.
func (v *Viewer) SetFilename(name string) {
	v.filename = name
}

// Selected returns the selected shape, or zero.
func (v *Viewer) Selected() core.ShapeID {
	return v.selected
}

// Status returns the current status message.
func (v *Viewer) Status() string {
	return v.status
}

// Open creates and initialises the terminal screen.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return screen, nil
}

// Run draws the scene and processes events until the user quits or ctx is cancelled.
// The screen must already be initialised; Run does not finalise it.
func (v *Viewer) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	v.Draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if !v.HandleKey(ev) {
				return nil
			}
		}
		v.Draw()
	}
}

// HandleKey applies one key command. It returns false when the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.move(0, -v.step)
	case tcell.KeyDown:
		v.move(0, v.step)
	case tcell.KeyLeft:
		v.move(-v.step, 0)
	case tcell.KeyRight:
		v.move(v.step, 0)
	case tcell.KeyTab:
		v.cycle(1)
	case tcell.KeyBacktab:
		v.cycle(-1)
	case tcell.KeyCtrlR:
		v.redo()
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return true
}

func (v *Viewer) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'o':
		v.toggleOffPage()
	case 'r':
		v.scene.RerouteAll()
		v.history.Save(v.scene)
		v.status = "rerouted"
	case 'u':
		v.undo()
	case 'c':
		v.cycleConnection()
	case 'v':
		v.validate()
	case 's':
		v.save()
	}
	return true
}

func (v *Viewer) move(dx, dy float64) {
	if v.selected == 0 {
		v.status = "no shape selected"
		return
	}
	if err := v.scene.MoveShape(v.selected, dx, dy); err != nil {
		v.status = err.Error()
		return
	}
	v.history.Save(v.scene)
	v.logger.Debug("moved shape", "shape", v.selected, "dx", dx, "dy", dy)
	v.status = ""
}

func (v *Viewer) cycle(dir int) {
	shapes := v.scene.Shapes()
	if len(shapes) == 0 {
		return
	}
	i := slices.IndexFunc(shapes, func(s core.Shape) bool { return s.ID == v.selected })
	i = (i + dir + len(shapes)) % len(shapes)
	v.selectShape(shapes[i].ID)
}

// selectShape selects a shape and highlights its first connection.
func (v *Viewer) selectShape(id core.ShapeID) {
	v.selected = id
	var conn core.ConnectionID
	if attached := v.scene.Attached(id); len(attached) > 0 {
		conn = attached[0]
	}
	v.scene.Select(conn)
}

// cycleConnection moves the highlight to the next connection of the selected shape.
func (v *Viewer) cycleConnection() {
	attached := v.scene.Attached(v.selected)
	if len(attached) == 0 {
		return
	}
	i := slices.Index(attached, v.scene.Selected())
	v.scene.Select(attached[(i+1)%len(attached)])
}

// toggleOffPage switches the selected shape's connections to off-page mode, or back to
// normal when they all are off-page already.
func (v *Viewer) toggleOffPage() {
	attached := v.scene.Attached(v.selected)
	if len(attached) == 0 {
		v.status = "no connections"
		return
	}

	mode := core.ModeNormal
	for _, id := range attached {
		if c, _ := v.scene.Connection(id); c.Mode == core.ModeNormal {
			mode = core.ModeOffPage
			break
		}
	}
	for _, id := range attached {
		if err := v.scene.SetMode(id, mode); err != nil {
			v.status = err.Error()
			return
		}
	}
	v.history.Save(v.scene)
	v.status = fmt.Sprintf("%d connections %s", len(attached), mode)
}

func (v *Viewer) undo() {
	if !v.history.Undo(v.scene) {
		v.status = "nothing to undo"
		return
	}
	v.status = "undone"
}

func (v *Viewer) redo() {
	if !v.history.Redo(v.scene) {
		v.status = "nothing to redo"
		return
	}
	v.status = "redone"
}

func (v *Viewer) validate() {
	errs := v.validator.ValidateScene(v.scene)
	if len(errs) == 0 {
		v.status = "routes ok"
		return
	}
	for _, e := range errs {
		v.logger.Warn("invalid route", "error", e.Error())
	}
	v.status = fmt.Sprintf("%d routing errors, first: %v", len(errs), errs[0])
}

func (v *Viewer) save() {
	if v.filename == "" {
		v.status = "no file to save to"
		return
	}
	if err := v.scene.WriteFile(v.filename); err != nil {
		v.status = err.Error()
		return
	}
	v.status = "saved " + v.filename
}

// Draw renders the scene and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w <= 0 || h <= 1 {
		v.screen.Show()
		return
	}

	view := geometry.Rect{
		X: v.origin.X,
		Y: v.origin.Y,
		W: float64(w-1) * v.cellSize,
		H: float64(h-2) * v.cellSize,
	}
	c, err := canvas.ForBounds(view, v.cellSize, 0)
	if err != nil {
		v.status = err.Error()
	} else {
		render.Draw(c, v.scene)
		v.blit(c)
	}

	v.drawStatus(w, h-1)
	v.screen.Show()
}

func (v *Viewer) blit(c *canvas.MatrixCanvas) {
	var x1, y1, x2, y2 int
	if sh, ok := v.scene.Shape(v.selected); ok {
		x1, y1 = c.Cell(geometry.Pt(sh.Bounds.Left(), sh.Bounds.Top()))
		x2, y2 = c.Cell(geometry.Pt(sh.Bounds.Right(), sh.Bounds.Bottom()))
	} else {
		x1, y1, x2, y2 = -1, -1, -2, -2
	}

	cw, ch := c.Size()
	for y := range ch {
		for x := range cw {
			st := styleDefault
			if x >= x1 && x <= x2 && y >= y1 && y <= y2 {
				st = styleSelected
			}
			v.screen.SetContent(x, y, c.Get(x, y), nil, st)
		}
	}
}

func (v *Viewer) drawStatus(width, y int) {
	line := fmt.Sprintf(" shapes %d | connections %d", len(v.scene.Shapes()), len(v.scene.Connections()))
	if sh, ok := v.scene.Shape(v.selected); ok {
		line += fmt.Sprintf(" | selected %q", sh.Name)
	}
	if v.status != "" {
		line += " | " + v.status
	}

	x := 0
	for _, r := range line {
		if x >= width {
			break
		}
		v.screen.SetContent(x, y, r, nil, styleStatus)
		x++
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
}
