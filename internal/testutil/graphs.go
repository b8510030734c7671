package testutil

import (
	"strconv"
	"testing"

	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/node"
	"github.com/stretchr/testify/require"
)

// N creates a node from alternating key/value pairs. The idx property
// defaults to the id.
func N(id int, kv ...string) *node.Node {
	props := node.Properties{node.PropIndex: strconv.Itoa(id)}
	for i := 0; i+1 < len(kv); i += 2 {
		props[kv[i]] = kv[i+1]
	}
	return node.New(id, props)
}

// Snapshot creates a detached snapshot holding nodes.
func Snapshot(name string, nodes ...*node.Node) *graph.Snapshot {
	s := graph.NewSnapshot(name)
	for _, n := range nodes {
		s.AddNode(n)
	}
	return s
}

// Duplicate marks s as a duplicate of its predecessor and returns it.
func Duplicate(s *graph.Snapshot) *graph.Snapshot {
	s.Properties()[graph.PropDuplicate] = "true"
	return s
}

// Group creates a group holding snapshots, in order.
func Group(t *testing.T, snapshots ...*graph.Snapshot) *graph.Group {
	t.Helper()
	g := graph.NewGroup(t.Name())
	require.NoError(t, g.Add(snapshots...))
	return g
}
