// Package graph holds the data model of a compilation run: a Group owning an
// ordered sequence of Snapshots, one per pipeline phase.
//
// # Snapshots
//
// A Snapshot is an immutable capture of the compiler's graph at one phase:
// nodes keyed by id, edges, a string property map and a block partition. The
// only mutation allowed after construction is the one-time lazy block
// assignment performed by a scheduler:
//
//	s.ClearBlocks()
//	scheduler.Schedule(s)
//	s.EnsureNodesInBlocks()
//
// A snapshot flagged with the `_isDuplicate` property is identical to its
// predecessor and may be hidden by viewers.
//
// # Diff snapshots
//
// NewDiffSnapshot creates a synthetic snapshot that remembers the two
// snapshots it was computed from (First and Second). Diff snapshots are
// produced by a diff service and never belong to a Group.
//
// # Groups
//
// A Group is externally owned and mutable: snapshots can be added and
// removed. Every change fires the Changed channel after the group lock has
// been released, so listeners may query the group freely.
package graph
