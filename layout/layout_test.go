package layout

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orthoroute/config"
)

func TestColumnPacker_FirstFit(t *testing.T) {
	p := DefaultColumnPacker()

	tests := []struct {
		dep  Dependency
		lane int
	}{
		{Dependency{ID: 1, FromY: 10, ToY: 20}, 0},
		{Dependency{ID: 2, FromY: 25, ToY: 15}, 1}, // overlaps [10,20]
		{Dependency{ID: 3, FromY: 30, ToY: 40}, 0}, // clear of [10,20]
	}
	for _, tt := range tests {
		assert.Equal(t, tt.lane, p.Add(tt.dep), "dependency %d", tt.dep.ID)
	}
	assert.Equal(t, 2, p.Lanes())

	lane, ok := p.LaneOf(2)
	require.True(t, ok)
	assert.Equal(t, 1, lane)
}

func TestColumnPacker_SafeMargin(t *testing.T) {
	p := DefaultColumnPacker()

	// [10,20] and [23,30] only touch once both are padded by 2.
	assert.Equal(t, 0, p.Add(Dependency{ID: 1, FromY: 10, ToY: 20}))
	assert.Equal(t, 1, p.Add(Dependency{ID: 2, FromY: 23, ToY: 30}))
	assert.Equal(t, 0, p.Add(Dependency{ID: 3, FromY: 25, ToY: 40}))

	cfg := config.Default().Layout
	cfg.SafeMargin = 0
	q := NewColumnPacker(cfg)
	assert.Equal(t, 0, q.Add(Dependency{ID: 1, FromY: 10, ToY: 20}))
	assert.Equal(t, 0, q.Add(Dependency{ID: 2, FromY: 23, ToY: 30}))
}

func TestColumnPacker_LaneGeometry(t *testing.T) {
	p := DefaultColumnPacker()
	assert.Equal(t, 40.0, p.LaneX(0))
	assert.Equal(t, 50.0, p.LaneX(1))
	assert.Equal(t, 40.0, p.Width())

	p.Add(Dependency{ID: 1, FromY: 0, ToY: 100})
	p.Add(Dependency{ID: 2, FromY: 0, ToY: 100})
	assert.Equal(t, 60.0, p.Width())
}

func TestColumnPacker_ExtentObservers(t *testing.T) {
	p := DefaultColumnPacker()
	var widths []float64
	p.OnExtentChanged(func(w float64) { widths = append(widths, w) })

	p.Add(Dependency{ID: 1, FromY: 10, ToY: 20})
	p.Add(Dependency{ID: 2, FromY: 15, ToY: 25})
	p.Add(Dependency{ID: 3, FromY: 30, ToY: 40}) // reuses lane 0, no notification
	p.Clear()

	assert.Equal(t, []float64{50, 60, 40}, widths)
}

func TestColumnPacker_RemoveKeepsLanes(t *testing.T) {
	p := DefaultColumnPacker()
	p.Add(Dependency{ID: 1, FromY: 10, ToY: 20})
	p.Add(Dependency{ID: 2, FromY: 10, ToY: 20})

	assert.True(t, p.Remove(2))
	assert.False(t, p.Remove(2))
	assert.Equal(t, 2, p.Lanes())
	assert.Empty(t, p.Slots(1))

	_, ok := p.LaneOf(2)
	assert.False(t, ok)

	// The freed slot is reused by the next overlapping arrow.
	assert.Equal(t, 1, p.Add(Dependency{ID: 3, FromY: 12, ToY: 18}))
}

func TestColumnPacker_ReAddMoves(t *testing.T) {
	p := DefaultColumnPacker()
	p.Add(Dependency{ID: 1, FromY: 10, ToY: 20})
	p.Add(Dependency{ID: 2, FromY: 10, ToY: 20})

	assert.Equal(t, 0, p.Add(Dependency{ID: 1, FromY: 100, ToY: 120}))
	assert.Len(t, p.Slots(0), 1)
	assert.Len(t, p.Slots(1), 1)
}

func TestColumnPacker_Clear(t *testing.T) {
	p := DefaultColumnPacker()
	p.Add(Dependency{ID: 1, FromY: 10, ToY: 20})
	p.Clear()

	assert.Equal(t, 0, p.Lanes())
	_, ok := p.LaneOf(1)
	assert.False(t, ok)
	assert.Nil(t, p.Slots(0))
}

func TestColumnPacker_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	p := DefaultColumnPacker()

	prev := 0
	for i := 0; i < 300; i++ {
		from := float64(rng.IntN(500))
		to := from + float64(rng.IntN(60))
		p.Add(Dependency{ID: DependencyID(i), FromY: from, ToY: to})

		require.GreaterOrEqual(t, p.Lanes(), prev, "lane count must never shrink on Add")
		prev = p.Lanes()
	}

	for lane := 0; lane < p.Lanes(); lane++ {
		slots := p.Slots(lane)
		for i := range slots {
			for j := i + 1; j < len(slots); j++ {
				assert.False(t, slots[i].Span.Overlaps(slots[j].Span),
					"lane %d: %v overlaps %v", lane, slots[i].Span, slots[j].Span)
			}
		}
	}
}
