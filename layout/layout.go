// Package layout assigns dependency arrows of a vertical file list to lanes so that
// arrows sharing a lane never overlap vertically.
package layout

import (
	"orthoroute/config"
	"orthoroute/geometry"
)

// DependencyID identifies one dependency arrow.
type DependencyID int

// Dependency is an arrow between two rows of the file list.
type Dependency struct {
	ID    DependencyID
	FromY float64
	ToY   float64
}

// Slot is one arrow placed in a lane.
type Slot struct {
	ID   DependencyID
	Span geometry.Span
}

// ColumnPacker is a greedy first-fit interval packer. Lanes are created on demand
// and never removed except by Clear, so existing assignments stay put while arrows
// are added.
type ColumnPacker struct {
	margin  float64
	spacing float64
	safe    float64

	lanes     [][]Slot
	index     map[DependencyID]int
	observers []func(width float64)
}

// NewColumnPacker creates an empty packer from configuration.
func NewColumnPacker(cfg config.Layout) *ColumnPacker {
	return &ColumnPacker{
		margin:  cfg.GraphMargin,
		spacing: cfg.GraphSpacing,
		safe:    cfg.SafeMargin,
		index:   make(map[DependencyID]int),
	}
}

// DefaultColumnPacker creates a packer with the stock margins.
func DefaultColumnPacker() *ColumnPacker {
	return NewColumnPacker(config.Default().Layout)
}

// OnExtentChanged registers fn to be called with the new total width whenever the
// lane count changes.
func (p *ColumnPacker) OnExtentChanged(fn func(width float64)) {
	p.observers = append(p.observers, fn)
}

// Add places dep in the first lane with room for its padded span and returns the
// lane index. A dependency already present is moved.
func (p *ColumnPacker) Add(dep Dependency) int {
	if _, ok := p.index[dep.ID]; ok {
		p.Remove(dep.ID)
	}

	span := geometry.NewSpan(dep.FromY, dep.ToY).Expand(p.safe)
	slot := Slot{ID: dep.ID, Span: span}

	for i, lane := range p.lanes {
		if hasSpace(lane, span) {
			p.lanes[i] = append(lane, slot)
			p.index[dep.ID] = i
			return i
		}
	}

	p.lanes = append(p.lanes, []Slot{slot})
	i := len(p.lanes) - 1
	p.index[dep.ID] = i
	p.notify()
	return i
}

// Remove frees the slot held by id. Empty lanes are kept.
func (p *ColumnPacker) Remove(id DependencyID) bool {
	i, ok := p.index[id]
	if !ok {
		return false
	}
	lane := p.lanes[i]
	for j, s := range lane {
		if s.ID == id {
			p.lanes[i] = append(lane[:j], lane[j+1:]...)
			break
		}
	}
	delete(p.index, id)
	return true
}

// Clear drops every lane.
func (p *ColumnPacker) Clear() {
	p.lanes = nil
	p.index = make(map[DependencyID]int)
	p.notify()
}

// Lanes returns the number of lanes.
func (p *ColumnPacker) Lanes() int {
	return len(p.lanes)
}

// Slots returns a copy of the slots held by lane i.
func (p *ColumnPacker) Slots(i int) []Slot {
	if i < 0 || i >= len(p.lanes) {
		return nil
	}
	out := make([]Slot, len(p.lanes[i]))
	copy(out, p.lanes[i])
	return out
}

// LaneOf returns the lane holding id.
func (p *ColumnPacker) LaneOf(id DependencyID) (int, bool) {
	i, ok := p.index[id]
	return i, ok
}

// LaneX returns the horizontal offset of lane i.
func (p *ColumnPacker) LaneX(i int) float64 {
	return p.margin + float64(i)*p.spacing
}

// Width returns the horizontal extent covered by the lanes.
func (p *ColumnPacker) Width() float64 {
	return p.LaneX(len(p.lanes))
}

func (p *ColumnPacker) notify() {
	w := p.Width()
	for _, fn := range p.observers {
		fn(w)
	}
}

func hasSpace(lane []Slot, span geometry.Span) bool {
	for _, s := range lane {
		if s.Span.Overlaps(span) {
			return false
		}
	}
	return true
}
