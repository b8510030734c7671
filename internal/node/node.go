// Package node defines a single vertex of a compiler snapshot graph together
// with its property map.
package node

import (
	"maps"
	"slices"
)

// Well-known property names.
const (
	// PropName is the human-readable operation name of a node.
	PropName = "name"
	// PropIndex is the display index of a node, rendered by the `[idx]` label template.
	PropIndex = "idx"
	// PropBlock names the control-flow block a node was scheduled into by the compiler.
	PropBlock = "block"
	// PropState carries the diff state of a node in a synthetic diff snapshot.
	PropState = "state"
)

// Properties is a node's (or snapshot's) string property map.
type Properties map[string]string

// Get returns the value of a property and whether it was present.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Has reports whether a property is set.
func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Equal reports whether both maps hold exactly the same key/value pairs.
// A nil map equals an empty one.
func (p Properties) Equal(other Properties) bool {
	return maps.Equal(p, other)
}

// Clone returns an independent copy of the map.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	maps.Copy(out, p)
	return out
}

// Keys returns the property names in ascending order.
func (p Properties) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Node is a single vertex in a snapshot graph.
type Node struct {
	// ID is the canonical node id. It is stable across the snapshots of a group,
	// so the same operation can be tracked through successive pipeline phases.
	ID int
	// Properties holds the node's attributes as emitted by the compiler.
	Properties Properties
}

// New creates a node with a copy of the given properties.
func New(id int, props Properties) *Node {
	return &Node{ID: id, Properties: props.Clone()}
}

// Name returns the node's name property, or the empty string.
func (n *Node) Name() string {
	return n.Properties[PropName]
}

// Equal reports whether two nodes carry the same id and identical properties.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.ID == other.ID && n.Properties.Equal(other.Properties)
}

// WithProperty returns a copy of the node with one property overridden.
func (n *Node) WithProperty(key, value string) *Node {
	props := n.Properties.Clone()
	props[key] = value
	return &Node{ID: n.ID, Properties: props}
}
