// Package sample generates deterministic synthetic snapshot groups. It stands
// in for a compiler dump when exercising the viewer from the command line.
package sample

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/specialistvlad/graphview/internal/ctxlog"
	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/node"
)

// Options controls the shape of a generated group.
type Options struct {
	// Phases is the number of snapshots.
	Phases int
	// Nodes is the number of nodes in the first snapshot.
	Nodes int
	// Seed makes the output reproducible.
	Seed int64
	// DuplicateRate is the probability that a phase repeats its predecessor
	// unchanged and is flagged as a duplicate.
	DuplicateRate float64
}

var opcodes = []string{"Start", "Parameter", "Constant", "Add", "Mul", "Phi", "If", "Load", "Store", "Call", "Return"}

var phaseNames = []string{
	"After parsing",
	"Canonicalize",
	"Inline",
	"Iter GVN",
	"Loop opts",
	"Escape analysis",
	"Conditional elimination",
	"Lowering",
	"Schedule",
	"Final code",
}

// Generate builds a group of opts.Phases snapshots. The first snapshot holds
// opts.Nodes nodes; each following phase renames, removes or adds a few nodes,
// unless it is a duplicate.
func Generate(ctx context.Context, opts Options) (*graph.Group, error) {
	if opts.Phases < 1 {
		return nil, errors.New("at least one phase is required")
	}
	if opts.Nodes < 1 {
		return nil, errors.New("at least one node is required")
	}
	if opts.DuplicateRate < 0 || opts.DuplicateRate > 1 {
		return nil, fmt.Errorf("duplicate rate %v is outside [0, 1]", opts.DuplicateRate)
	}

	logger := ctxlog.FromContext(ctx)
	rng := rand.New(rand.NewSource(opts.Seed))
	g := graph.NewGroup(fmt.Sprintf("sample-%d", opts.Seed))

	state := newState(rng, opts.Nodes)
	for i := 0; i < opts.Phases; i++ {
		duplicate := i > 0 && rng.Float64() < opts.DuplicateRate
		if i > 0 && !duplicate {
			state.mutate(rng)
		}

		s, err := state.snapshot(fmt.Sprintf("%d: %s", i, phaseNames[i%len(phaseNames)]))
		if err != nil {
			return nil, err
		}
		if duplicate {
			s.Properties()[graph.PropDuplicate] = "true"
		}
		if err := g.Add(s); err != nil {
			return nil, err
		}
	}

	logger.Debug("Sample group generated.", "phases", opts.Phases, "nodes", len(g.AllNodes()), "seed", opts.Seed)
	return g, nil
}

// state is the evolving graph the phases are captured from.
type state struct {
	nodes  []*node.Node
	inputs map[int][]int
	nextID int
}

func newState(rng *rand.Rand, n int) *state {
	st := &state{inputs: make(map[int][]int), nextID: 1}
	st.add(rng, "Start")
	for len(st.nodes) < n {
		st.add(rng, opcodes[1+rng.Intn(len(opcodes)-1)])
	}
	return st
}

// add appends a node fed by up to two earlier nodes.
func (st *state) add(rng *rand.Rand, op string) {
	id := st.nextID
	st.nextID++
	props := node.Properties{
		node.PropName:  op,
		node.PropIndex: strconv.Itoa(id),
	}
	if len(st.nodes) > 0 {
		for k := 0; k < 1+rng.Intn(2); k++ {
			st.inputs[id] = append(st.inputs[id], st.nodes[rng.Intn(len(st.nodes))].ID)
		}
	}
	st.nodes = append(st.nodes, node.New(id, props))
}

// mutate applies one random edit.
func (st *state) mutate(rng *rand.Rand) {
	switch r := rng.Intn(3); {
	case r == 0 || len(st.nodes) < 3:
		st.add(rng, opcodes[1+rng.Intn(len(opcodes)-1)])
	case r == 1:
		i := 1 + rng.Intn(len(st.nodes)-1)
		st.nodes[i] = st.nodes[i].WithProperty(node.PropName, opcodes[1+rng.Intn(len(opcodes)-1)])
	default:
		i := 1 + rng.Intn(len(st.nodes)-1)
		removed := st.nodes[i].ID
		st.nodes = append(st.nodes[:i:i], st.nodes[i+1:]...)
		delete(st.inputs, removed)
		for id, ins := range st.inputs {
			kept := ins[:0:0]
			for _, in := range ins {
				if in != removed {
					kept = append(kept, in)
				}
			}
			st.inputs[id] = kept
		}
	}
}

func (st *state) snapshot(name string) (*graph.Snapshot, error) {
	s := graph.NewSnapshot(name)
	for _, n := range st.nodes {
		s.AddNode(n)
	}
	for _, n := range st.nodes {
		for idx, in := range st.inputs[n.ID] {
			if err := s.AddEdge(graph.Edge{From: in, To: n.ID, Index: idx}); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}
