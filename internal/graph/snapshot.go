package graph

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/graphview/internal/node"
)

// PropDuplicate marks a snapshot that is identical to the previous one.
const PropDuplicate = "_isDuplicate"

// Edge is a directed data or control dependency between two nodes.
type Edge struct {
	From int
	To   int
	// Index is the input slot of To that From feeds.
	Index int
}

// diffOrigin links a synthetic diff snapshot to its two inputs.
type diffOrigin struct {
	first  *Snapshot
	second *Snapshot
}

// Snapshot is one compiler-pipeline graph capture.
type Snapshot struct {
	id         string
	name       string
	group      *Group
	properties node.Properties

	nodes map[int]*node.Node
	order []int
	edges []Edge

	blocks    []*Block
	blockByID map[string]*Block
	nodeBlock map[int]*Block

	diff *diffOrigin
}

// NewSnapshot creates an empty snapshot with a fresh id.
func NewSnapshot(name string) *Snapshot {
	return &Snapshot{
		id:         uuid.NewString(),
		name:       name,
		properties: node.Properties{},
		nodes:      make(map[int]*node.Node),
		blockByID:  make(map[string]*Block),
		nodeBlock:  make(map[int]*Block),
	}
}

// diffNamespace scopes the name-based ids of diff snapshots.
var diffNamespace = uuid.MustParse("6f1c3a52-8d0e-4b7a-9c1e-2f5d8a4b7e90")

// DiffID returns the id of the diff snapshot of first and second. It depends
// only on the two inputs and their order.
func DiffID(first, second *Snapshot) string {
	return uuid.NewSHA1(diffNamespace, []byte(first.id+"/"+second.id)).String()
}

// NewDiffSnapshot creates an empty synthetic snapshot representing the
// difference between first and second. Its id is DiffID(first, second), so
// recomputing the diff of the same pair yields the same id.
func NewDiffSnapshot(name string, first, second *Snapshot) *Snapshot {
	s := NewSnapshot(name)
	s.id = DiffID(first, second)
	s.diff = &diffOrigin{first: first, second: second}
	return s
}

// ID returns the snapshot's unique id.
func (s *Snapshot) ID() string { return s.id }

// Name returns the phase name shown to the user.
func (s *Snapshot) Name() string { return s.name }

// Group returns the owning group, or nil for a detached snapshot.
func (s *Snapshot) Group() *Group { return s.group }

// Properties returns the snapshot's property map. Callers may set properties
// while building the snapshot.
func (s *Snapshot) Properties() node.Properties { return s.properties }

// IsDuplicate reports whether the snapshot is flagged as a duplicate of its predecessor.
func (s *Snapshot) IsDuplicate() bool {
	return s.properties.Has(PropDuplicate)
}

// IsDiff reports whether the snapshot is a synthetic diff.
func (s *Snapshot) IsDiff() bool { return s.diff != nil }

// First returns the first input of a diff snapshot, or nil.
func (s *Snapshot) First() *Snapshot {
	if s.diff == nil {
		return nil
	}
	return s.diff.first
}

// Second returns the second input of a diff snapshot, or nil.
func (s *Snapshot) Second() *Snapshot {
	if s.diff == nil {
		return nil
	}
	return s.diff.second
}

// AddNode inserts n. Adding a node whose id is already present replaces it
// in place, keeping its original position.
func (s *Snapshot) AddNode(n *node.Node) {
	if _, exists := s.nodes[n.ID]; !exists {
		s.order = append(s.order, n.ID)
	}
	s.nodes[n.ID] = n
}

// Node looks a node up by its canonical id.
func (s *Snapshot) Node(id int) (*node.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns the nodes in insertion order.
func (s *Snapshot) Nodes() []*node.Node {
	out := make([]*node.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// NodeIDs returns the node ids in insertion order.
func (s *Snapshot) NodeIDs() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of nodes.
func (s *Snapshot) Len() int { return len(s.order) }

// AddEdge records an edge. Both endpoints must already be present.
func (s *Snapshot) AddEdge(e Edge) error {
	if _, ok := s.nodes[e.From]; !ok {
		return fmt.Errorf("edge source node %d not found in snapshot %q", e.From, s.name)
	}
	if _, ok := s.nodes[e.To]; !ok {
		return fmt.Errorf("edge target node %d not found in snapshot %q", e.To, s.name)
	}
	s.edges = append(s.edges, e)
	return nil
}

// Edges returns the edges in insertion order.
func (s *Snapshot) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// String implements fmt.Stringer.
func (s *Snapshot) String() string {
	if s.IsDiff() {
		return fmt.Sprintf("diff(%s, %s)", s.First().Name(), s.Second().Name())
	}
	return s.name
}
