package viewmodel

import (
	"github.com/specialistvlad/graphview/internal/diagram"
	"github.com/specialistvlad/graphview/internal/event"
	"github.com/specialistvlad/graphview/internal/filter"
	"github.com/specialistvlad/graphview/internal/graph"
)

// DiffService creates the diff snapshot of two snapshots. Implementations
// must be pure functions of their inputs.
type DiffService interface {
	CreateDiffGraph(a, b *graph.Snapshot) *graph.Snapshot
}

// FilterChain decorates a freshly built diagram and reports edits of its
// rules. *filter.Chain satisfies it.
type FilterChain interface {
	Apply(d *diagram.Diagram)
	Changed() *event.Channel[*filter.Chain]
}
