package graph

import (
	"fmt"
	"slices"
)

// NoBlock is the name of the block that collects nodes a scheduler left unassigned.
const NoBlock = "(no block)"

// Block is one element of a snapshot's control-flow partition.
type Block struct {
	name       string
	nodes      []int
	successors []string
}

// Name returns the block's name.
func (b *Block) Name() string { return b.name }

// NodeIDs returns the ids of the nodes assigned to the block, in assignment order.
func (b *Block) NodeIDs() []int {
	return slices.Clone(b.nodes)
}

// Successors returns the names of the blocks control can flow to.
func (b *Block) Successors() []string {
	return slices.Clone(b.successors)
}

// Blocks returns the block partition in creation order. It is empty until a
// scheduler has run.
func (s *Snapshot) Blocks() []*Block {
	return slices.Clone(s.blocks)
}

// Block looks a block up by name.
func (s *Snapshot) Block(name string) (*Block, bool) {
	b, ok := s.blockByID[name]
	return b, ok
}

// AddBlock creates the named block, or returns it if it already exists.
func (s *Snapshot) AddBlock(name string) *Block {
	if b, ok := s.blockByID[name]; ok {
		return b
	}
	b := &Block{name: name}
	s.blocks = append(s.blocks, b)
	s.blockByID[name] = b
	return b
}

// AddBlockEdge records a control-flow successor from one block to another.
func (s *Snapshot) AddBlockEdge(from, to string) error {
	fb, ok := s.blockByID[from]
	if !ok {
		return fmt.Errorf("source block %q not found", from)
	}
	if _, ok := s.blockByID[to]; !ok {
		return fmt.Errorf("destination block %q not found", to)
	}
	if !slices.Contains(fb.successors, to) {
		fb.successors = append(fb.successors, to)
	}
	return nil
}

// SetBlock assigns a node to a block, moving it out of any previous block.
func (s *Snapshot) SetBlock(nodeID int, blockName string) error {
	if _, ok := s.nodes[nodeID]; !ok {
		return fmt.Errorf("node %d not found in snapshot %q", nodeID, s.name)
	}
	b, ok := s.blockByID[blockName]
	if !ok {
		return fmt.Errorf("block %q not found in snapshot %q", blockName, s.name)
	}
	if prev, ok := s.nodeBlock[nodeID]; ok {
		if prev == b {
			return nil
		}
		prev.nodes = slices.DeleteFunc(prev.nodes, func(id int) bool { return id == nodeID })
	}
	b.nodes = append(b.nodes, nodeID)
	s.nodeBlock[nodeID] = b
	return nil
}

// BlockOf returns the block a node is assigned to.
func (s *Snapshot) BlockOf(nodeID int) (*Block, bool) {
	b, ok := s.nodeBlock[nodeID]
	return b, ok
}

// ClearBlocks drops the whole block partition.
func (s *Snapshot) ClearBlocks() {
	s.blocks = nil
	s.blockByID = make(map[string]*Block)
	s.nodeBlock = make(map[int]*Block)
}

// EnsureNodesInBlocks puts every unassigned node into the NoBlock block,
// creating it only when needed.
func (s *Snapshot) EnsureNodesInBlocks() {
	for _, id := range s.order {
		if _, ok := s.nodeBlock[id]; ok {
			continue
		}
		b := s.AddBlock(NoBlock)
		b.nodes = append(b.nodes, id)
		s.nodeBlock[id] = b
	}
}
