// Package difference computes the structural difference between two
// snapshots of the same group.
//
// The result is a synthetic diff snapshot whose node set is the union of both
// inputs. Every node carries a `state` property:
//
//	same     present in both, identical properties
//	changed  present in both, properties differ (second snapshot's values win)
//	new      present only in the second snapshot
//	deleted  present only in the first snapshot
package difference

import (
	"fmt"

	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/node"
)

// State values written into node.PropState.
const (
	StateSame    = "same"
	StateChanged = "changed"
	StateNew     = "new"
	StateDeleted = "deleted"
)

// Service is the default diff service. It is stateless and a pure function of
// its two inputs.
type Service struct{}

// New creates a diff service.
func New() *Service {
	return &Service{}
}

// CreateDiffGraph returns the diff snapshot of a and b.
func (Service) CreateDiffGraph(a, b *graph.Snapshot) *graph.Snapshot {
	d := graph.NewDiffSnapshot(fmt.Sprintf("%s, %s", a.Name(), b.Name()), a, b)

	for _, n := range a.Nodes() {
		other, ok := b.Node(n.ID)
		switch {
		case !ok:
			d.AddNode(n.WithProperty(node.PropState, StateDeleted))
		case n.Properties.Equal(other.Properties):
			d.AddNode(other.WithProperty(node.PropState, StateSame))
		default:
			d.AddNode(other.WithProperty(node.PropState, StateChanged))
		}
	}
	for _, n := range b.Nodes() {
		if _, ok := a.Node(n.ID); !ok {
			d.AddNode(n.WithProperty(node.PropState, StateNew))
		}
	}

	seen := make(map[graph.Edge]struct{})
	for _, src := range []*graph.Snapshot{a, b} {
		for _, e := range src.Edges() {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			// Both endpoints are in the union, so AddEdge cannot fail.
			_ = d.AddEdge(e)
		}
	}
	return d
}
