package graph

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/graphview/internal/event"
)

// Group is the ordered, mutable collection of snapshots captured during one
// compilation run.
type Group struct {
	id   string
	name string

	mu        sync.RWMutex
	snapshots []*Snapshot

	changed *event.Channel[*Group]
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	g := &Group{id: uuid.NewString(), name: name}
	g.changed = event.NewChannel(g)
	return g
}

// ID returns the group's unique id.
func (g *Group) ID() string { return g.id }

// Name returns the group's name, usually the compiled method.
func (g *Group) Name() string { return g.name }

// Changed fires after snapshots were added or removed.
func (g *Group) Changed() *event.Channel[*Group] { return g.changed }

// Add appends snapshots to the group. A snapshot can belong to one group only.
// Diff snapshots may be added; they are shown next to the phases they compare.
func (g *Group) Add(snapshots ...*Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	g.mu.Lock()
	for _, s := range snapshots {
		if s.group != nil {
			g.mu.Unlock()
			return fmt.Errorf("snapshot %q already belongs to group %q", s.name, s.group.name)
		}
	}
	for _, s := range snapshots {
		s.group = g
		g.snapshots = append(g.snapshots, s)
	}
	g.mu.Unlock()

	g.changed.Fire()
	return nil
}

// Remove detaches snapshots from the group. It reports whether anything was removed.
func (g *Group) Remove(snapshots ...*Snapshot) bool {
	g.mu.Lock()
	removed := false
	for _, s := range snapshots {
		i := slices.Index(g.snapshots, s)
		if i < 0 {
			continue
		}
		g.snapshots = slices.Delete(g.snapshots, i, i+1)
		s.group = nil
		removed = true
	}
	g.mu.Unlock()

	if removed {
		g.changed.Fire()
	}
	return removed
}

// Snapshots returns a copy of the ordered snapshot sequence.
func (g *Group) Snapshots() []*Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.snapshots)
}

// Len returns the number of snapshots.
func (g *Group) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.snapshots)
}

// IndexOf returns the position of s in the group, or -1.
func (g *Group) IndexOf(s *Snapshot) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Index(g.snapshots, s)
}

// AllNodes returns the sorted union of node ids across every snapshot.
func (g *Group) AllNodes() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[int]struct{})
	var out []int
	for _, s := range g.snapshots {
		for _, id := range s.order {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
