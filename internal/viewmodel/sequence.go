package viewmodel

import (
	"slices"

	"github.com/specialistvlad/graphview/internal/graph"
)

// ComputeVisible returns the snapshots of g shown to the user, in group
// order. Duplicates are left out when hideDuplicates is set.
func ComputeVisible(g *graph.Group, hideDuplicates bool) []*graph.Snapshot {
	return visibleOf(g.Snapshots(), hideDuplicates)
}

func visibleOf(all []*graph.Snapshot, hideDuplicates bool) []*graph.Snapshot {
	out := make([]*graph.Snapshot, 0, len(all))
	for _, s := range all {
		if hideDuplicates && s.IsDuplicate() {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ResolveUnhidden returns the snapshot that stays selected when duplicates
// get hidden while s is selected: s itself unless it is a duplicate, else the
// nearest preceding non-duplicate in all. When every snapshot before s is a
// duplicate the nearest following one is used; when there is none at all, s
// is returned. ok is false when s is not in all.
func ResolveUnhidden(all []*graph.Snapshot, s *graph.Snapshot) (resolved *graph.Snapshot, ok bool) {
	i := slices.Index(all, s)
	if i < 0 {
		return nil, false
	}
	for j := i; j >= 0; j-- {
		if !all[j].IsDuplicate() {
			return all[j], true
		}
	}
	for j := i + 1; j < len(all); j++ {
		if !all[j].IsDuplicate() {
			return all[j], true
		}
	}
	return s, true
}
