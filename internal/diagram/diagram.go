// Package diagram defines the renderable artifact derived from a snapshot:
// one Figure per node, one Connection per edge.
//
// A Diagram is never edited incrementally by its owner. Whenever the source
// snapshot or the active filters change, a new Diagram is built and filters
// are applied to it from scratch.
package diagram

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/node"
)

// Named colors shared by filters and the highlight palette.
const (
	NoColor lipgloss.Color = ""
	White   lipgloss.Color = "#FFFFFF"
	Orange  lipgloss.Color = "#FFA500"
	Green   lipgloss.Color = "#00C000"
	Red     lipgloss.Color = "#FF0000"
	Black   lipgloss.Color = "#000000"
)

// Figure is the visual representation of one node.
type Figure struct {
	node  *node.Node
	block string
	color lipgloss.Color

	label      string
	shortLabel string
	tinyLabel  string
}

// Node returns the node the figure represents.
func (f *Figure) Node() *node.Node { return f.node }

// ID returns the node id of the figure.
func (f *Figure) ID() int { return f.node.ID }

// Block returns the name of the block the node was scheduled into.
func (f *Figure) Block() string { return f.block }

// Color returns the fill color. NoColor means the renderer's default.
func (f *Figure) Color() lipgloss.Color { return f.color }

// SetColor changes the fill color.
func (f *Figure) SetColor(c lipgloss.Color) { f.color = c }

// Label returns the full node label.
func (f *Figure) Label() string { return f.label }

// ShortLabel returns the label used when space is limited.
func (f *Figure) ShortLabel() string { return f.shortLabel }

// TinyLabel returns the label used at the smallest zoom level.
func (f *Figure) TinyLabel() string { return f.tinyLabel }

// Connection links two figures along a snapshot edge.
type Connection struct {
	From  *Figure
	To    *Figure
	Index int
}

// Diagram is the rebuilt, renderable form of a snapshot.
type Diagram struct {
	graph       *graph.Snapshot
	figures     []*Figure
	byID        map[int]*Figure
	connections []Connection
	cfg         bool
}

// New builds a diagram for s, rendering node labels with the full, short and
// tiny templates. Blocks are read from s as they are; scheduling is the
// caller's job.
func New(s *graph.Snapshot, nodeText, shortText, tinyText string) *Diagram {
	d := &Diagram{
		graph: s,
		byID:  make(map[int]*Figure, s.Len()),
	}
	for _, n := range s.Nodes() {
		f := &Figure{
			node:       n,
			label:      Resolve(nodeText, n.Properties),
			shortLabel: Resolve(shortText, n.Properties),
			tinyLabel:  Resolve(tinyText, n.Properties),
		}
		if b, ok := s.BlockOf(n.ID); ok {
			f.block = b.Name()
		}
		d.figures = append(d.figures, f)
		d.byID[n.ID] = f
	}
	for _, e := range s.Edges() {
		d.connections = append(d.connections, Connection{
			From:  d.byID[e.From],
			To:    d.byID[e.To],
			Index: e.Index,
		})
	}
	return d
}

// Graph returns the snapshot the diagram was built from.
func (d *Diagram) Graph() *graph.Snapshot { return d.graph }

// Figures returns the figures in node order.
func (d *Diagram) Figures() []*Figure {
	out := make([]*Figure, len(d.figures))
	copy(out, d.figures)
	return out
}

// Figure looks up the figure of a node.
func (d *Diagram) Figure(id int) (*Figure, bool) {
	f, ok := d.byID[id]
	return f, ok
}

// Connections returns the connections in edge order.
func (d *Diagram) Connections() []Connection {
	out := make([]Connection, len(d.connections))
	copy(out, d.connections)
	return out
}

// SetCFG selects whether the diagram is drawn as a control-flow graph.
func (d *Diagram) SetCFG(cfg bool) { d.cfg = cfg }

// IsCFG reports whether the diagram is drawn as a control-flow graph.
func (d *Diagram) IsCFG() bool { return d.cfg }
