package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/graphview/internal/ctxlog"
	"github.com/specialistvlad/graphview/internal/dag"
	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/node"
)

// EntryBlock is the block that receives nodes no other rule could place when
// the snapshot names no blocks at all.
const EntryBlock = "0"

// Default is the reference implementation of the Scheduler interface.
//
// # Algorithm
//
//  1. Nodes carrying the `block` property are placed into the block it names.
//  2. Every other node inherits the block of its first (lowest id) scheduled
//     input. Inputs are resolved in topological order when the snapshot's
//     edges form a DAG, and by repeated passes until nothing changes otherwise
//     (loops make real compiler graphs cyclic).
//  3. Nodes still unplaced go to the first block, or to EntryBlock.
//  4. Every edge crossing two blocks becomes a block successor edge.
type Default struct {
	logger *slog.Logger
}

// New creates a default scheduler that logs through the context's logger.
func New(ctx context.Context) *Default {
	return &Default{logger: ctxlog.FromContext(ctx)}
}

// Schedule implements the Scheduler interface.
func (d *Default) Schedule(s *graph.Snapshot) error {
	if len(s.Blocks()) > 0 {
		d.logger.Debug("Snapshot already scheduled, skipping.", "snapshot", s.Name())
		return nil
	}

	index, err := buildIndex(s)
	if err != nil {
		return fmt.Errorf("failed to index snapshot %q: %w", s.Name(), err)
	}

	// Pass 1: explicit block properties.
	for _, n := range s.Nodes() {
		name, ok := n.Properties.Get(node.PropBlock)
		if !ok || name == "" {
			continue
		}
		s.AddBlock(name)
		if err := s.SetBlock(n.ID, name); err != nil {
			return err
		}
	}

	// Pass 2: inherit from inputs.
	order, err := index.TopologicalOrder()
	acyclic := err == nil
	if !acyclic {
		order = s.NodeIDs()
	}
	for {
		progressed := false
		for _, id := range order {
			if _, ok := s.BlockOf(id); ok {
				continue
			}
			deps, err := index.Dependencies(id)
			if err != nil {
				return err
			}
			for _, dep := range deps {
				if b, ok := s.BlockOf(dep); ok {
					if err := s.SetBlock(id, b.Name()); err != nil {
						return err
					}
					progressed = true
					break
				}
			}
		}
		if acyclic || !progressed {
			break
		}
	}

	// Pass 3: leftovers.
	fallback := EntryBlock
	if blocks := s.Blocks(); len(blocks) > 0 {
		fallback = blocks[0].Name()
	}
	for _, id := range s.NodeIDs() {
		if _, ok := s.BlockOf(id); ok {
			continue
		}
		s.AddBlock(fallback)
		if err := s.SetBlock(id, fallback); err != nil {
			return err
		}
	}

	// Pass 4: successor edges.
	for _, e := range s.Edges() {
		from, _ := s.BlockOf(e.From)
		to, _ := s.BlockOf(e.To)
		if from == nil || to == nil || from == to {
			continue
		}
		if err := s.AddBlockEdge(from.Name(), to.Name()); err != nil {
			return err
		}
	}

	d.logger.Debug("Snapshot scheduled.", "snapshot", s.Name(), "blocks", len(s.Blocks()), "acyclic", acyclic)
	return nil
}

// buildIndex mirrors the snapshot's edges into a dag.Graph. Self edges carry no
// scheduling information and are skipped.
func buildIndex(s *graph.Snapshot) (*dag.Graph, error) {
	g := dag.New()
	for _, id := range s.NodeIDs() {
		g.AddNode(id)
	}
	for _, e := range s.Edges() {
		if e.From == e.To {
			continue
		}
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g, nil
}
