package dag

import "sync"

// Graph is a collection of nodes and their directed edges.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their id.
	nodes map[int]*node
	// order remembers insertion order so that traversals are deterministic.
	order []int
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using ids),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id int
	// deps holds the set of nodes that this node depends on (predecessors).
	deps map[int]*node
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[int]*node
}
