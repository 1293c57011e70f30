// Package depgraph builds the file dependency graph shown next to the diagram: files
// form a vertical list of rows and every dependency is drawn as an arrow in a lane
// assigned by the column packer.
package depgraph

import (
	"errors"
	"slices"

	"orthoroute/layout"
)

// ErrCycle is returned by Validate when the graph has a dependency cycle.
var ErrCycle = errors.New("dependency cycle")

// Edge is a dependency from one row to another.
type Edge struct {
	From int
	To   int
}

// Graph is a directed graph over files. Rows are numbered in insertion order.
type Graph struct {
	files []string
	index map[string]int
	adj   [][]int
	edges []Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddFile adds name if missing and returns its row.
func (g *Graph) AddFile(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.files)
	g.files = append(g.files, name)
	g.index[name] = i
	g.adj = append(g.adj, nil)
	return i
}

// AddDependency records that from depends on to. Duplicate edges are ignored.
func (g *Graph) AddDependency(from, to string) {
	f, t := g.AddFile(from), g.AddFile(to)
	if slices.Contains(g.adj[f], t) {
		return
	}
	g.adj[f] = append(g.adj[f], t)
	g.edges = append(g.edges, Edge{From: f, To: t})
}

// Row returns the row of name.
func (g *Graph) Row(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Files returns the file names in row order.
func (g *Graph) Files() []string {
	return slices.Clone(g.files)
}

// Edges returns the dependencies in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Cycles returns the strongly connected components that contain a cycle, including
// files depending on themselves. Files inside a component are in row order and
// components are ordered by their first row.
func (g *Graph) Cycles() [][]string {
	t := tarjan{
		g:       g,
		indices: make([]int, len(g.files)),
		low:     make([]int, len(g.files)),
		onStack: make([]bool, len(g.files)),
	}
	for i := range t.indices {
		t.indices[i] = -1
	}
	for v := range g.files {
		if t.indices[v] < 0 {
			t.connect(v)
		}
	}

	var out [][]string
	for _, comp := range t.components {
		if len(comp) == 1 && !slices.Contains(g.adj[comp[0]], comp[0]) {
			continue
		}
		slices.Sort(comp)
		names := make([]string, len(comp))
		for i, v := range comp {
			names[i] = g.files[v]
		}
		out = append(out, names)
	}
	slices.SortFunc(out, func(a, b []string) int {
		return g.index[a[0]] - g.index[b[0]]
	})
	return out
}

// HasCycle reports whether any dependency cycle exists.
func (g *Graph) HasCycle() bool {
	return len(g.Cycles()) > 0
}

// Validate returns ErrCycle when the graph is not acyclic.
func (g *Graph) Validate() error {
	if g.HasCycle() {
		return ErrCycle
	}
	return nil
}

type tarjan struct {
	g          *Graph
	next       int
	indices    []int
	low        []int
	onStack    []bool
	stack      []int
	components [][]int
}

func (t *tarjan) connect(v int) {
	t.indices[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.adj[v] {
		switch {
		case t.indices[w] < 0:
			t.connect(w)
			t.low[v] = min(t.low[v], t.low[w])
		case t.onStack[w]:
			t.low[v] = min(t.low[v], t.indices[w])
		}
	}

	if t.low[v] != t.indices[v] {
		return
	}
	var comp []int
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	t.components = append(t.components, comp)
}

// Arrow is a dependency placed in a lane.
type Arrow struct {
	Edge
	Lane  int
	X     float64
	FromY float64
	ToY   float64
}

// Layout clears p and assigns every dependency to a lane. Arrows run between the
// vertical centres of their rows.
func (g *Graph) Layout(p *layout.ColumnPacker, rowHeight float64) []Arrow {
	p.Clear()
	arrows := make([]Arrow, 0, len(g.edges))
	for i, e := range g.edges {
		a := Arrow{
			Edge:  e,
			FromY: rowCentre(e.From, rowHeight),
			ToY:   rowCentre(e.To, rowHeight),
		}
		a.Lane = p.Add(layout.Dependency{ID: layout.DependencyID(i), FromY: a.FromY, ToY: a.ToY})
		a.X = p.LaneX(a.Lane)
		arrows = append(arrows, a)
	}
	return arrows
}

func rowCentre(row int, rowHeight float64) float64 {
	return float64(row)*rowHeight + rowHeight/2
}
