package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orthoroute/core"
	"orthoroute/geometry"
)

func TestHistory_UndoRedo(t *testing.T) {
	f := newFixture(t)
	h := NewHistory(5)
	h.Save(f.scene)
	before := route(t, f.scene, f.conn)

	require.NoError(t, f.scene.MoveShape(f.left, 10, 0))
	h.Save(f.scene)
	moved := route(t, f.scene, f.conn)
	require.NotEqual(t, before, moved)

	current, total := h.Stats()
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, total)
	assert.False(t, h.CanRedo())

	require.True(t, h.Undo(f.scene))
	assert.Equal(t, before, route(t, f.scene, f.conn))
	sh, _ := f.scene.Shape(f.left)
	assert.Equal(t, -20.0, sh.Bounds.X)
	assert.False(t, h.CanUndo())
	assert.False(t, h.Undo(f.scene))

	require.True(t, h.Redo(f.scene))
	assert.Equal(t, moved, route(t, f.scene, f.conn))
	sh, _ = f.scene.Shape(f.left)
	assert.Equal(t, -10.0, sh.Bounds.X)
	assert.False(t, h.Redo(f.scene))
}

func TestHistory_SaveDropsRedo(t *testing.T) {
	f := newFixture(t)
	h := NewHistory(0)
	h.Save(f.scene)

	require.NoError(t, f.scene.MoveShape(f.left, 0, 10))
	h.Save(f.scene)
	require.True(t, h.Undo(f.scene))

	extra := f.scene.AddShape("extra", geometry.Rect{X: 300, W: 10, H: 10})
	h.Save(f.scene)
	assert.False(t, h.CanRedo())

	_, total := h.Stats()
	assert.Equal(t, 2, total)

	require.True(t, h.Undo(f.scene))
	_, ok := f.scene.Shape(extra)
	assert.False(t, ok)
	assert.Equal(t, extra, f.scene.AddShape("again", geometry.Rect{W: 10, H: 10}), "ID counters are restored")
}

func TestHistory_Capacity(t *testing.T) {
	f := newFixture(t)
	h := NewHistory(3)
	for i := range 5 {
		f.scene.AddShape("s", geometry.Rect{X: float64(i) * 50, W: 10, H: 10})
		h.Save(f.scene)
	}

	current, total := h.Stats()
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, total)

	for h.Undo(f.scene) {
	}
	assert.Len(t, f.scene.Shapes(), 5, "the oldest states are dropped")
}

func TestHistory_RestoredStateIsIndependent(t *testing.T) {
	f := newFixture(t)
	h := NewHistory(5)
	h.Save(f.scene)
	require.NoError(t, f.scene.SetMode(f.conn, core.ModeOffPage))
	h.Save(f.scene)

	require.True(t, h.Undo(f.scene))
	require.NoError(t, f.scene.MoveShape(f.right, 0, 20))

	require.True(t, h.Redo(f.scene))
	sh, _ := f.scene.Shape(f.right)
	assert.Equal(t, 40.0, sh.Bounds.Y, "edits after undo do not leak into recorded states")
	c, _ := f.scene.Connection(f.conn)
	assert.Equal(t, core.ModeOffPage, c.Mode)
	assert.Equal(t, core.Route{pt(0, 0), pt(100, 50)}, c.Route)

	h.Clear()
	current, total := h.Stats()
	assert.Zero(t, current)
	assert.Zero(t, total)
	assert.False(t, h.CanUndo())
}
