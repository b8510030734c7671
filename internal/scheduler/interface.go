// Package scheduler assigns control-flow blocks to the nodes of a snapshot.
//
// # Why Scheduler Exists
//
// Snapshots captured early in the compiler pipeline carry no block
// partition. Viewers that cluster nodes or draw a control-flow graph need one,
// so the first time such a snapshot is displayed it is handed to a Scheduler,
// which fills the partition in place.
//
// # Contract
//
//   - Schedule is only required to act on a snapshot with an empty partition.
//     Calling it on a snapshot that already has blocks must leave the snapshot
//     untouched (idempotence).
//   - Schedule may leave nodes unassigned; callers follow up with
//     Snapshot.EnsureNodesInBlocks.
//   - Schedule is synchronous and CPU-bound.
//
// # Typical Implementation
//
// See Default for the reference implementation.
package scheduler

import "github.com/specialistvlad/graphview/internal/graph"

// Scheduler fills in the block partition of a snapshot.
type Scheduler interface {
	// Schedule assigns blocks to the nodes of s.
	Schedule(s *graph.Snapshot) error
}
